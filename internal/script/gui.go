package script

import (
	"github.com/hazadus/go-sake/internal/gui"
)

// Идентификатор окна Home
const homeWindowID = 10000

func (s *session) guiModule() Module {
	return Module{
		Name: "xbmcgui",
		Constants: map[string]any{
			"NOTIFICATION_INFO":    gui.NotificationInfo,
			"NOTIFICATION_WARNING": gui.NotificationWarning,
			"NOTIFICATION_ERROR":   gui.NotificationError,
			"INPUT_ALPHANUM":       gui.InputAlphanum,
			"INPUT_NUMERIC":        gui.InputNumeric,
			"INPUT_DATE":           gui.InputDate,
			"INPUT_TIME":           gui.InputTime,
			"INPUT_IPADDRESS":      gui.InputIPAddr,
			"INPUT_PASSWORD":       gui.InputPassword,
		},
		Functions: map[string]Func{
			"ListItem": func(a Args) (any, error) {
				return listItemObject(s.h.NewListItem(a.String(0, ""), a.String(1, ""), a.String(2, ""))), nil
			},
			"Dialog":           s.newDialog,
			"DialogProgress":   s.newDialogProgress,
			"DialogProgressBG": s.newDialogProgressBG,
			"Window":           s.newWindow,
			"getCurrentWindowId": func(Args) (any, error) {
				return homeWindowID, nil
			},
		},
	}
}

// listItemObject оборачивает элемент списка. Скрипт получает один и тот же *gui.ListItem,
// который затем попадает в листинг или плеер
func listItemObject(li *gui.ListItem) *Object {
	return &Object{
		Class: "ListItem",
		Value: li,
		Methods: map[string]Func{
			"getLabel":  func(Args) (any, error) { return li.GetLabel(), nil },
			"getLabel2": func(Args) (any, error) { return li.GetLabel2(), nil },
			"getPath":   func(Args) (any, error) { return li.GetPath(), nil },
			"setLabel": func(a Args) (any, error) {
				li.SetLabel(a.String(0, ""))
				return nil, nil
			},
			"setLabel2": func(a Args) (any, error) {
				li.SetLabel2(a.String(0, ""))
				return nil, nil
			},
			"setPath": func(a Args) (any, error) {
				li.SetPath(a.String(0, ""))
				return nil, nil
			},
			"setInfo": func(a Args) (any, error) {
				li.SetInfo(a.String(0, gui.InfoVideo), a.Map(1))
				return nil, nil
			},
			"setArt": func(a Args) (any, error) {
				li.SetArt(a.StringMap(0))
				return nil, nil
			},
			"getArt": func(a Args) (any, error) { return li.GetArt(a.String(0, "")), nil },
			"setProperty": func(a Args) (any, error) {
				li.SetProperty(a.String(0, ""), a.String(1, ""))
				return nil, nil
			},
			"getProperty": func(a Args) (any, error) { return li.GetProperty(a.String(0, "")), nil },
			"setSubtitles": func(a Args) (any, error) {
				li.SetSubtitles(a.Strings(0))
				return nil, nil
			},
			"setMimeType": func(a Args) (any, error) {
				li.SetMimeType(a.String(0, ""))
				return nil, nil
			},
			"setContentLookup": func(a Args) (any, error) {
				li.SetContentLookup(a.Bool(0, true))
				return nil, nil
			},
			"setIsFolder": func(a Args) (any, error) {
				li.SetIsFolder(a.Bool(0, true))
				return nil, nil
			},
			"isFolder": func(Args) (any, error) { return li.IsFolder(), nil },
		},
	}
}

// newDialog xbmcgui.Dialog()
func (s *session) newDialog(Args) (any, error) {
	d := s.h.Dialog()
	return &Object{
		Class: "Dialog",
		Value: d,
		Methods: map[string]Func{
			"ok": func(a Args) (any, error) {
				return d.OK(a.String(0, ""), a.String(1, ""))
			},
			"yesno": func(a Args) (any, error) {
				return d.YesNo(a.String(0, ""), a.String(1, ""), a.String(2, ""), a.String(3, ""))
			},
			"select": func(a Args) (any, error) {
				return d.Select(a.String(0, ""), a.Strings(1))
			},
			"multiselect": func(a Args) (any, error) {
				selected, err := d.MultiSelect(a.String(0, ""), a.Strings(1))
				if err != nil || selected == nil {
					return nil, err
				}
				return selected, nil
			},
			"contextmenu": func(a Args) (any, error) {
				return d.ContextMenu(a.Strings(0))
			},
			"input": func(a Args) (any, error) {
				return d.Input(a.String(0, ""), a.String(1, ""), a.Int(2, gui.InputAlphanum))
			},
			"numeric": func(a Args) (any, error) {
				// Первый аргумент Kodi это тип поля, заголовок идет вторым
				return d.Numeric(a.String(1, ""), a.String(2, ""))
			},
			"browse": func(a Args) (any, error) {
				return d.Browse(a.String(1, ""), a.String(6, "")), nil
			},
			"textviewer": func(a Args) (any, error) {
				d.TextViewer(a.String(0, ""), a.String(1, ""))
				return nil, nil
			},
			"notification": func(a Args) (any, error) {
				d.Notification(a.String(0, ""), a.String(1, ""), a.String(2, gui.NotificationInfo))
				return nil, nil
			},
		},
	}, nil
}

// newDialogProgress xbmcgui.DialogProgress()
func (s *session) newDialogProgress(Args) (any, error) {
	p := gui.NewDialogProgress(s.h.Console())
	return &Object{
		Class: "DialogProgress",
		Value: p,
		Methods: map[string]Func{
			"create": func(a Args) (any, error) {
				p.Create(a.String(0, ""), a.String(1, ""))
				return nil, nil
			},
			"update": func(a Args) (any, error) {
				p.Update(a.Int(0, 0), a.String(1, ""))
				return nil, nil
			},
			"close":      func(Args) (any, error) { p.Close(); return nil, nil },
			"iscanceled": func(Args) (any, error) { return p.IsCanceled(), nil },
		},
	}, nil
}

// newDialogProgressBG xbmcgui.DialogProgressBG()
func (s *session) newDialogProgressBG(Args) (any, error) {
	p := gui.NewDialogProgressBG(s.h.Console())
	return &Object{
		Class: "DialogProgressBG",
		Value: p,
		Methods: map[string]Func{
			"create": func(a Args) (any, error) {
				p.Create(a.String(0, ""), a.String(1, ""))
				return nil, nil
			},
			"update": func(a Args) (any, error) {
				p.Update(a.Int(0, 0), a.String(1, ""), a.String(2, ""))
				return nil, nil
			},
			"close":      func(Args) (any, error) { p.Close(); return nil, nil },
			"isFinished": func(Args) (any, error) { return p.IsFinished(), nil },
		},
	}, nil
}

// newWindow xbmcgui.Window(id). Свойства всех окон хранятся как свойства окна Home
func (s *session) newWindow(a Args) (any, error) {
	h := s.h
	id := a.Int(0, homeWindowID)
	return &Object{
		Class: "Window",
		Value: id,
		Methods: map[string]Func{
			"getProperty": func(a Args) (any, error) { return h.GetWindowProperty(a.String(0, "")), nil },
			"setProperty": func(a Args) (any, error) {
				h.SetWindowProperty(a.String(0, ""), a.String(1, ""))
				return nil, nil
			},
			"clearProperty": func(a Args) (any, error) {
				h.ClearWindowProperty(a.String(0, ""))
				return nil, nil
			},
			"getFocusId": func(Args) (any, error) { return 0, nil },
		},
	}, nil
}
