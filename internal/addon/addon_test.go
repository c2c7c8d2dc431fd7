package addon

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/paths"
)

const testManifest = `<?xml version="1.0" encoding="UTF-8"?>
<addon id="plugin.video.example" name="Example" version="1.2.3" provider-name="hazadus">
  <requires>
    <import addon="xbmc.python" version="3.0.0"/>
  </requires>
  <extension point="xbmc.python.pluginsource" library="main.js">
    <provides>video</provides>
  </extension>
  <extension point="xbmc.addon.metadata">
    <summary lang="nl_NL">Voorbeeld</summary>
    <summary lang="en_GB">Example summary</summary>
    <description lang="en_GB">Example description</description>
    <disclaimer>No warranty</disclaimer>
    <news>v1.2.3 - fixes</news>
    <assets>
      <icon>resources/icon.png</icon>
      <fanart>resources/fanart.jpg</fanart>
    </assets>
  </extension>
</addon>
`

const testSettingsXML = `<?xml version="1.0" ?>
<settings>
  <category label="General">
    <setting id="username" type="text" label="30001" default="" />
    <setting id="quality" type="enum" label="30002" default="1" />
    <setting id="subtitles" type="bool" label="30003" default="true" />
  </category>
</settings>
`

const testUserSettings = `<settings version="2">
    <setting id="username">kodi</setting>
    <setting id="quality">2</setting>
</settings>
`

const testStrings = `msgid ""
msgstr ""

msgctxt "#30001"
msgid "Username"
msgstr ""

msgctxt "#30002"
msgid "Quality"
msgstr "Video quality"

msgctxt "#30003"
msgid "Show"
"[CR]subtitles"
msgstr ""
`

// writeTestAddon создает дерево Kodi с тестовым дополнением
func writeTestAddon(t *testing.T) paths.Env {
	t.Helper()

	home := t.TempDir()
	addonDir := filepath.Join(home, "addons", "plugin.video.example")
	files := map[string]string{
		filepath.Join(addonDir, "addon.xml"):                                                          testManifest,
		filepath.Join(addonDir, "resources", "settings.xml"):                                          testSettingsXML,
		filepath.Join(addonDir, "resources", "language", "resource.language.en_gb", "strings.po"):     testStrings,
		filepath.Join(home, "userdata", "addon_data", "plugin.video.example", "settings.xml"):          testUserSettings,
	}
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	env, err := paths.Resolve(paths.Options{}, addonDir, "")
	if err != nil {
		t.Fatalf("Ошибка определения путей: %v", err)
	}
	return env
}

func openTestAddon(t *testing.T) (*Addon, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	con := console.New(console.Options{Out: &out, In: strings.NewReader(""), Verbose: true})

	a, err := Open(writeTestAddon(t), NewStore(), con)
	if err != nil {
		t.Fatalf("Ошибка открытия дополнения: %v", err)
	}
	return a, &out
}

func TestAddonSettings(t *testing.T) {
	a, _ := openTestAddon(t)

	if got := a.GetSetting("username"); got != "kodi" {
		t.Errorf("Ожидалось пользовательское значение 'kodi', получено: %q", got)
	}
	if got := a.GetSettingInt("quality"); got != 2 {
		t.Errorf("Ожидалось 2, получено: %d", got)
	}
	if !a.GetSettingBool("subtitles") {
		t.Error("Ожидалось значение по умолчанию true для subtitles")
	}
	if got := a.GetSetting("missing"); got != "" {
		t.Errorf("Отсутствующая настройка должна быть пустой, получено: %q", got)
	}
	if got := a.GetSettingNumber("missing"); got != 0 {
		t.Errorf("Отсутствующее число должно быть 0, получено: %v", got)
	}

	a.SetSettingBool("subtitles", false)
	a.SetSettingNumber("volume", 0.5)
	if a.GetSettingBool("subtitles") || a.GetSetting("volume") != "0.5" {
		t.Error("Значения должны сохраняться строками")
	}
}

func TestAddonSettingsCachedPerID(t *testing.T) {
	env := writeTestAddon(t)
	store := NewStore()

	first, err := Open(env, store, nil)
	if err != nil {
		t.Fatal(err)
	}
	first.SetSetting("username", "changed")

	second, err := Open(env, store, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := second.GetSetting("username"); got != "changed" {
		t.Errorf("Настройки должны браться из кеша, получено: %q", got)
	}
}

func TestSaveSettings(t *testing.T) {
	a, _ := openTestAddon(t)
	a.SetSetting("username", "saved")

	if err := a.SaveSettings(); err != nil {
		t.Fatalf("Ошибка сохранения настроек: %v", err)
	}

	reloaded, err := LoadSettings(a.Env())
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := reloaded.Get("username"); v != "saved" {
		t.Errorf("Ожидалось сохраненное значение, получено: %q", v)
	}
}

func TestGetAddonInfo(t *testing.T) {
	a, _ := openTestAddon(t)

	tests := map[string]string{
		"id":          "plugin.video.example",
		"name":        "Example",
		"version":     "1.2.3",
		"author":      "hazadus",
		"summary":     "Example summary",
		"description": "Example description",
		"disclaimer":  "No warranty",
		"changelog":   "v1.2.3 - fixes",
		"type":        PointPluginSource,
		"icon":        filepath.Join(a.Env().AddonPath, "resources", "icon.png"),
		"profile":     a.Env().AddonDataPath(),
	}
	for key, want := range tests {
		got, err := a.GetAddonInfo(key)
		if err != nil {
			t.Errorf("GetAddonInfo(%q): неожиданная ошибка %v", key, err)
			continue
		}
		if got != want {
			t.Errorf("GetAddonInfo(%q) = %q, ожидалось %q", key, got, want)
		}
	}

	if _, err := a.GetAddonInfo("foo"); !errors.Is(err, ErrUnknownInfo) {
		t.Errorf("Ожидалась ErrUnknownInfo, получено: %v", err)
	}
}

func TestGetLocalizedString(t *testing.T) {
	a, _ := openTestAddon(t)

	if got := a.GetLocalizedString(30001); got != "Username" {
		t.Errorf("Ожидалось 'Username', получено: %q", got)
	}
	if got := a.GetLocalizedString(30002); got != "Video quality" {
		t.Errorf("msgstr должен иметь приоритет, получено: %q", got)
	}
	if got := a.GetLocalizedString(30003); got != "Show\nsubtitles" {
		t.Errorf("Ожидалась многострочная строка, получено: %q", got)
	}
	if got := a.GetLocalizedString(99999); got != "Translated 99999" {
		t.Errorf("Ожидалась заглушка перевода, получено: %q", got)
	}
}

func TestOpenSettingsPrints(t *testing.T) {
	a, out := openTestAddon(t)
	a.OpenSettings()

	if !strings.Contains(out.String(), "Add-on settings") || !strings.Contains(out.String(), "username:kodi") {
		t.Errorf("Неверный вывод настроек: %s", out.String())
	}
}
