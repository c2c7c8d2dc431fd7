package addon

import (
	"strings"
	"testing"
)

func TestParseDefaultsAttributeForm(t *testing.T) {
	order, values := ParseDefaults(testSettingsXML)

	if strings.Join(order, ",") != "username,quality,subtitles" {
		t.Errorf("Неверный порядок настроек: %v", order)
	}
	if values["quality"] != "1" || values["subtitles"] != "true" || values["username"] != "" {
		t.Errorf("Неверные значения по умолчанию: %v", values)
	}
}

func TestParseDefaultsChildForm(t *testing.T) {
	text := `<settings version="1">
  <section id="plugin.video.example">
    <setting id="server" type="string">
      <default>localhost</default>
    </setting>
    <setting id="token" type="string">
      <default/>
    </setting>
    <setting id="port" type="integer">
      <default>8080</default>
    </setting>
  </section>
</settings>`

	_, values := ParseDefaults(text)
	if values["server"] != "localhost" || values["port"] != "8080" {
		t.Errorf("Неверные значения по умолчанию: %v", values)
	}
	if v, ok := values["token"]; !ok || v != "" {
		t.Errorf("Ожидалась пустая настройка token, получено: %q (%v)", v, ok)
	}
}

func TestParseUserValues(t *testing.T) {
	legacy := `<settings><setting id="a" value="1" /><setting id="b" value="" /></settings>`
	_, values := ParseUserValues(legacy)
	if values["a"] != "1" || values["b"] != "" {
		t.Errorf("Неверные значения в формате value: %v", values)
	}

	_, values = ParseUserValues(testUserSettings)
	if values["username"] != "kodi" || values["quality"] != "2" {
		t.Errorf("Неверные значения в текстовом формате: %v", values)
	}
}

func TestScrapePairsFirstMatchWins(t *testing.T) {
	values := ScrapePairs(`<s id="a" value="1"/><s id="a" value="2"/>`, valueAttrRe)
	if values["a"] != "1" {
		t.Errorf("Ожидалось первое совпадение, получено: %q", values["a"])
	}
}

func TestScrapeMalformedInput(t *testing.T) {
	if values := ScrapePairs("<<<not xml", defaultAttrRe, defaultChildRe); len(values) != 0 {
		t.Errorf("Некорректный текст не должен давать значений: %v", values)
	}
}

func TestScrapeLocalized(t *testing.T) {
	text := `<summary lang="de_DE">Beispiel</summary><summary lang="en_GB">Example</summary>`
	if got, _ := ScrapeLocalized(text, "summary"); got != "Example" {
		t.Errorf("Ожидался английский текст, получено: %q", got)
	}

	text = `<summary lang="de_DE">Beispiel</summary><summary>Plain</summary>`
	if got, _ := ScrapeLocalized(text, "summary"); got != "Plain" {
		t.Errorf("Ожидался текст без lang, получено: %q", got)
	}

	text = `<summary lang="de_DE">Beispiel</summary>`
	if got, _ := ScrapeLocalized(text, "summary"); got != "Beispiel" {
		t.Errorf("Ожидался первый текст, получено: %q", got)
	}

	if _, ok := ScrapeLocalized("", "summary"); ok {
		t.Error("Пустой текст не должен давать совпадений")
	}
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest(testManifest)
	if err != nil {
		t.Fatalf("Ошибка разбора addon.xml: %v", err)
	}

	if lib, ok := m.Library(); !ok || lib != "main.js" {
		t.Errorf("Ожидалась библиотека main.js, получено: %q", lib)
	}
	if m.Summary() != "Example summary" {
		t.Errorf("Неверное описание: %q", m.Summary())
	}
	if len(m.Requires) != 1 || m.Requires[0].Addon != "xbmc.python" {
		t.Errorf("Неверные зависимости: %+v", m.Requires)
	}
}

func TestScrapeManifestFallback(t *testing.T) {
	// Неэкранированный & ломает XML
	broken := strings.Replace(testManifest, "No warranty", "Tom & Jerry", 1)

	m, err := ParseManifest(broken)
	if err != nil {
		t.Fatalf("Ожидался разбор регулярными выражениями: %v", err)
	}
	if m.ID != "plugin.video.example" || m.Version != "1.2.3" || m.ProviderName != "hazadus" {
		t.Errorf("Неверные поля: %+v", m)
	}
	if lib, _ := m.Library(); lib != "main.js" {
		t.Errorf("Ожидалась библиотека main.js, получено: %q", lib)
	}
	if m.Disclaimer() != "Tom & Jerry" {
		t.Errorf("Неверное предупреждение: %q", m.Disclaimer())
	}

	if _, err := ParseManifest("garbage"); err == nil {
		t.Error("Ожидалась ошибка для текста без id")
	}
}
