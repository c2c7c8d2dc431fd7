// Package addon содержит модель дополнения Kodi: addon.xml, настройки и строки перевода
package addon

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/paths"
)

// ErrUnknownInfo запрошено неизвестное свойство дополнения
var ErrUnknownInfo = errors.New("неизвестное свойство дополнения")

// Addon дополнение с его настройками и переводами
type Addon struct {
	env      paths.Env
	manifest *Manifest
	strings  map[int]string
	settings *Settings
	console  *console.Console
}

// Open загружает дополнение по найденным путям
func Open(env paths.Env, store *Store, con *console.Console) (*Addon, error) {
	manifest, err := ReadManifest(env.AddonPath)
	if err != nil {
		return nil, err
	}

	// Идентификатор из addon.xml главнее имени каталога
	if manifest.ID != "" {
		env.AddonID = manifest.ID
	}

	settings, err := store.Load(env)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки настроек %s: %w", env.AddonID, err)
	}

	po, err := readOptional(filepath.Join(env.AddonPath, "resources", "language", "resource.language.en_gb", "strings.po"))
	if err != nil {
		return nil, err
	}

	return &Addon{
		env:      env,
		manifest: manifest,
		strings:  ParseStrings(po),
		settings: settings,
		console:  con,
	}, nil
}

// ID идентификатор дополнения
func (a *Addon) ID() string { return a.env.AddonID }

// Env пути дополнения
func (a *Addon) Env() paths.Env { return a.env }

// Manifest разобранный addon.xml
func (a *Addon) Manifest() *Manifest { return a.manifest }

// Settings настройки дополнения
func (a *Addon) Settings() *Settings { return a.settings }

// GetSetting возвращает значение настройки или пустую строку
func (a *Addon) GetSetting(id string) string {
	v, _ := a.settings.Get(id)
	return v
}

// GetSettingBool возвращает true, если значение равно "true"
func (a *Addon) GetSettingBool(id string) bool {
	return strings.EqualFold(a.GetSetting(id), "true")
}

// GetSettingInt возвращает целое значение, 0 если значение пустое или некорректное
func (a *Addon) GetSettingInt(id string) int {
	v, err := strconv.Atoi(strings.TrimSpace(a.GetSetting(id)))
	if err != nil {
		return 0
	}
	return v
}

// GetSettingNumber возвращает дробное значение, 0 если значение пустое или некорректное
func (a *Addon) GetSettingNumber(id string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(a.GetSetting(id)), 64)
	if err != nil {
		return 0
	}
	return v
}

// GetSettingString синоним GetSetting
func (a *Addon) GetSettingString(id string) string {
	return a.GetSetting(id)
}

// SetSetting сохраняет значение в памяти
func (a *Addon) SetSetting(id, value string) {
	a.settings.Set(id, value)
}

// SetSettingBool сохраняет "true" или "false"
func (a *Addon) SetSettingBool(id string, value bool) {
	a.settings.Set(id, strconv.FormatBool(value))
}

// SetSettingInt сохраняет целое значение строкой
func (a *Addon) SetSettingInt(id string, value int) {
	a.settings.Set(id, strconv.Itoa(value))
}

// SetSettingNumber сохраняет дробное значение строкой
func (a *Addon) SetSettingNumber(id string, value float64) {
	a.settings.Set(id, strconv.FormatFloat(value, 'f', -1, 64))
}

// SetSettingString синоним SetSetting
func (a *Addon) SetSettingString(id, value string) {
	a.SetSetting(id, value)
}

// GetAddonInfo возвращает свойство дополнения по имени
func (a *Addon) GetAddonInfo(key string) (string, error) {
	m := a.manifest
	switch strings.ToLower(key) {
	case "author":
		return m.ProviderName, nil
	case "changelog":
		return m.News(), nil
	case "description":
		return m.Description(), nil
	case "disclaimer":
		return m.Disclaimer(), nil
	case "fanart":
		return a.assetPath(m.Fanart()), nil
	case "icon":
		return a.assetPath(m.Icon()), nil
	case "id":
		return a.env.AddonID, nil
	case "name":
		return m.Name, nil
	case "path":
		return a.env.AddonPath, nil
	case "profile":
		return a.env.AddonDataPath(), nil
	case "stars":
		return "0", nil
	case "summary":
		return m.Summary(), nil
	case "type":
		return m.Type(), nil
	case "version":
		return m.Version, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownInfo, key)
}

func (a *Addon) assetPath(rel string) string {
	if rel == "" {
		return ""
	}
	return filepath.Join(a.env.AddonPath, filepath.FromSlash(rel))
}

// GetLocalizedString возвращает перевод или "Translated <id>"
func (a *Addon) GetLocalizedString(id int) string {
	if s, ok := a.strings[id]; ok {
		return s
	}
	return fmt.Sprintf("Translated %d", id)
}

// OpenSettings печатает все настройки дополнения
func (a *Addon) OpenSettings() {
	if a.console == nil {
		return
	}

	a.console.Heading("Add-on settings", false, console.Yellow)
	for _, id := range a.settings.Keys() {
		v, _ := a.settings.Get(id)
		a.console.Line(fmt.Sprintf("%s:%s", id, v), console.NoColor, true)
	}
}

// SaveSettings записывает настройки в профиль
func (a *Addon) SaveSettings() error {
	return a.settings.Save()
}
