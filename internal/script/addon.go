package script

import (
	"github.com/hazadus/go-sake/internal/addon"
)

func (s *session) addonModule() Module {
	return Module{
		Name: "xbmcaddon",
		Functions: map[string]Func{
			"Addon": func(a Args) (any, error) {
				ad, err := s.h.OpenAddon(a.String(0, ""))
				if err != nil {
					return nil, err
				}
				return addonObject(ad), nil
			},
		},
	}
}

func addonObject(ad *addon.Addon) *Object {
	return &Object{
		Class: "Addon",
		Value: ad,
		Methods: map[string]Func{
			"getAddonInfo": func(a Args) (any, error) {
				return ad.GetAddonInfo(a.String(0, ""))
			},
			"getLocalizedString": func(a Args) (any, error) {
				return ad.GetLocalizedString(a.Int(0, 0)), nil
			},
			"getSetting": func(a Args) (any, error) {
				return ad.GetSetting(a.String(0, "")), nil
			},
			"getSettingBool": func(a Args) (any, error) {
				return ad.GetSettingBool(a.String(0, "")), nil
			},
			"getSettingInt": func(a Args) (any, error) {
				return ad.GetSettingInt(a.String(0, "")), nil
			},
			"getSettingNumber": func(a Args) (any, error) {
				return ad.GetSettingNumber(a.String(0, "")), nil
			},
			"getSettingString": func(a Args) (any, error) {
				return ad.GetSettingString(a.String(0, "")), nil
			},
			"setSetting": func(a Args) (any, error) {
				ad.SetSetting(a.String(0, ""), a.String(1, ""))
				return nil, nil
			},
			"setSettingBool": func(a Args) (any, error) {
				ad.SetSettingBool(a.String(0, ""), a.Bool(1, false))
				return nil, nil
			},
			"setSettingInt": func(a Args) (any, error) {
				ad.SetSettingInt(a.String(0, ""), a.Int(1, 0))
				return nil, nil
			},
			"setSettingNumber": func(a Args) (any, error) {
				ad.SetSettingNumber(a.String(0, ""), a.Float(1, 0))
				return nil, nil
			},
			"setSettingString": func(a Args) (any, error) {
				ad.SetSettingString(a.String(0, ""), a.String(1, ""))
				return nil, nil
			},
			"openSettings": func(Args) (any, error) {
				ad.OpenSettings()
				return nil, nil
			},
		},
	}
}
