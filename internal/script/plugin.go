package script

import (
	"github.com/hazadus/go-sake/internal/gui"
	"github.com/hazadus/go-sake/internal/plugin"
)

func (s *session) pluginModule() Module {
	h := s.h

	constants := make(map[string]any)
	for name, id := range plugin.SortMethods() {
		constants[name] = id
	}

	return Module{
		Name:      "xbmcplugin",
		Constants: constants,
		Functions: map[string]Func{
			"addDirectoryItem": func(a Args) (any, error) {
				li, _ := value[*gui.ListItem](a, 2)
				return h.AddDirectoryItem(a.Int(0, -1), a.String(1, ""), li, a.Bool(3, false)), nil
			},
			// addDirectoryItems(handle, [[url, listitem, isFolder], ...])
			"addDirectoryItems": func(a Args) (any, error) {
				var entries []plugin.Entry
				for _, raw := range a.List(1) {
					tuple, _ := raw.([]any)
					args := Args(tuple)
					li, _ := value[*gui.ListItem](args, 1)
					entries = append(entries, plugin.Entry{
						URL:      args.String(0, ""),
						Item:     li,
						IsFolder: args.Bool(2, false),
					})
				}
				return h.AddDirectoryItems(a.Int(0, -1), entries), nil
			},
			"endOfDirectory": func(a Args) (any, error) {
				h.EndOfDirectory(a.Int(0, -1), a.Bool(1, true), a.Bool(2, false), a.Bool(3, true))
				return nil, nil
			},
			"setResolvedUrl": func(a Args) (any, error) {
				li, _ := value[*gui.ListItem](a, 2)
				return nil, h.SetResolvedURL(a.Int(0, -1), a.Bool(1, false), li)
			},
			"addSortMethod": func(a Args) (any, error) {
				h.AddSortMethod(a.Int(0, -1), a.Int(1, plugin.SortMethodNone))
				return nil, nil
			},
			"setContent": func(a Args) (any, error) {
				h.SetContent(a.Int(0, -1), a.String(1, ""))
				return nil, nil
			},
			"setPluginCategory": func(a Args) (any, error) {
				h.SetPluginCategory(a.Int(0, -1), a.String(1, ""))
				return nil, nil
			},
			"setPluginFanart": func(a Args) (any, error) {
				h.SetPluginFanart(a.Int(0, -1), a.String(1, ""))
				return nil, nil
			},
			"setProperty": func(a Args) (any, error) {
				h.SetProperty(a.Int(0, -1), a.String(1, ""), a.String(2, ""))
				return nil, nil
			},
			"getSetting": func(a Args) (any, error) {
				return h.GetSetting(a.Int(0, -1), a.String(1, "")), nil
			},
			"setSetting": func(a Args) (any, error) {
				h.SetSetting(a.Int(0, -1), a.String(1, ""), a.String(2, ""))
				return nil, nil
			},
		},
	}
}
