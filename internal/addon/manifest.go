package addon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Точки расширения Kodi
const (
	PointPluginSource = "xbmc.python.pluginsource"
	PointScript       = "xbmc.python.script"
	PointModule       = "xbmc.python.module"
	PointService      = "xbmc.service"
	PointMetadata     = "xbmc.addon.metadata"
)

// ErrInvalidManifest addon.xml не удалось разобрать
var ErrInvalidManifest = errors.New("некорректный addon.xml")

// LocalizedText текст с необязательной локалью
type LocalizedText struct {
	Text string `xml:",chardata"`
	Lang string `xml:"lang,attr"`
}

// Import зависимость дополнения
type Import struct {
	Addon    string `xml:"addon,attr"`
	Version  string `xml:"version,attr"`
	Optional bool   `xml:"optional,attr,omitempty"`
}

// Extension точка расширения из addon.xml
type Extension struct {
	Point    string `xml:"point,attr"`
	Library  string `xml:"library,attr,omitempty"`
	Start    string `xml:"start,attr,omitempty"`
	Provides string `xml:"provides,omitempty"`

	Summaries    []LocalizedText `xml:"summary"`
	Descriptions []LocalizedText `xml:"description"`
	Disclaimers  []LocalizedText `xml:"disclaimer"`
	News         string          `xml:"news,omitempty"`
	License      string          `xml:"license,omitempty"`
	Platform     string          `xml:"platform,omitempty"`

	Icon        string   `xml:"assets>icon,omitempty"`
	Fanart      string   `xml:"assets>fanart,omitempty"`
	Screenshots []string `xml:"assets>screenshot,omitempty"`
}

// Manifest описание дополнения из addon.xml
type Manifest struct {
	XMLName      xml.Name    `xml:"addon"`
	ID           string      `xml:"id,attr"`
	Name         string      `xml:"name,attr"`
	Version      string      `xml:"version,attr"`
	ProviderName string      `xml:"provider-name,attr"`
	Requires     []Import    `xml:"requires>import"`
	Extensions   []Extension `xml:"extension"`
}

var (
	manifestVersionRe  = regexp.MustCompile(`(?s)<addon.*?version="([^"]*)`)
	manifestIDRe       = regexp.MustCompile(`(?s)addon.*?id="([^"]+)"`)
	manifestNameRe     = regexp.MustCompile(`name="([^"]+)"`)
	manifestProviderRe = regexp.MustCompile(`(?s)<addon.*?provider-name="([^"]+)`)
	manifestNewsRe     = regexp.MustCompile(`(?s)<news>(.*?)</news>`)
	manifestFanartRe   = regexp.MustCompile(`(?s)<fanart>(.*?)</fanart>`)
	manifestIconRe     = regexp.MustCompile(`(?s)<icon>(.*?)</icon>`)
	manifestLibraryRe  = regexp.MustCompile(`(?s)<extension[^>]*point="` + regexp.QuoteMeta(PointPluginSource) + `"[^>]*library="([^"]+)"`)
)

// ReadManifest читает addon.xml из каталога дополнения.
// Если XML не разбирается, значения извлекаются регулярными выражениями
func ReadManifest(dir string) (*Manifest, error) {
	content, err := os.ReadFile(filepath.Join(dir, "addon.xml"))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения addon.xml: %w", err)
	}
	return ParseManifest(string(content))
}

// ParseManifest разбирает содержимое addon.xml
func ParseManifest(content string) (*Manifest, error) {
	m := &Manifest{}
	if err := xml.Unmarshal([]byte(content), m); err == nil && m.ID != "" {
		return m, nil
	}
	return ScrapeManifest(content)
}

// ScrapeManifest извлекает основные поля addon.xml без разбора XML
func ScrapeManifest(content string) (*Manifest, error) {
	id := firstGroup(manifestIDRe, content)
	if id == "" {
		return nil, ErrInvalidManifest
	}

	meta := Extension{
		Point:  PointMetadata,
		News:   firstGroup(manifestNewsRe, content),
		Icon:   firstGroup(manifestIconRe, content),
		Fanart: firstGroup(manifestFanartRe, content),
	}
	for tag, target := range map[string]*[]LocalizedText{
		"summary":     &meta.Summaries,
		"description": &meta.Descriptions,
		"disclaimer":  &meta.Disclaimers,
	} {
		if text, ok := ScrapeLocalized(content, tag); ok {
			*target = []LocalizedText{{Text: text}}
		}
	}

	m := &Manifest{
		ID:           id,
		Name:         firstGroup(manifestNameRe, content),
		Version:      firstGroup(manifestVersionRe, content),
		ProviderName: firstGroup(manifestProviderRe, content),
		Extensions:   []Extension{meta},
	}
	if library := firstGroup(manifestLibraryRe, content); library != "" {
		m.Extensions = append(m.Extensions, Extension{Point: PointPluginSource, Library: library})
	}
	return m, nil
}

// Extension возвращает точку расширения по имени
func (m *Manifest) Extension(point string) (Extension, bool) {
	for _, ext := range m.Extensions {
		if ext.Point == point {
			return ext, true
		}
	}
	return Extension{}, false
}

// Library возвращает скрипт точки входа дополнения
func (m *Manifest) Library() (string, bool) {
	for _, point := range []string{PointPluginSource, PointScript, PointService} {
		if ext, ok := m.Extension(point); ok && ext.Library != "" {
			return ext.Library, true
		}
	}
	return "", false
}

// Type возвращает первую точку расширения, не являющуюся метаданными
func (m *Manifest) Type() string {
	for _, ext := range m.Extensions {
		if ext.Point != PointMetadata && ext.Point != "" {
			return ext.Point
		}
	}
	return PointPluginSource
}

func (m *Manifest) metadata() Extension {
	ext, _ := m.Extension(PointMetadata)
	return ext
}

// Summary краткое описание
func (m *Manifest) Summary() string { return pickLocalized(m.metadata().Summaries) }

// Description полное описание
func (m *Manifest) Description() string { return pickLocalized(m.metadata().Descriptions) }

// Disclaimer предупреждение
func (m *Manifest) Disclaimer() string { return pickLocalized(m.metadata().Disclaimers) }

// News список изменений
func (m *Manifest) News() string { return strings.TrimSpace(m.metadata().News) }

// Icon путь к иконке относительно каталога дополнения
func (m *Manifest) Icon() string { return strings.TrimSpace(m.metadata().Icon) }

// Fanart путь к фону относительно каталога дополнения
func (m *Manifest) Fanart() string { return strings.TrimSpace(m.metadata().Fanart) }

func pickLocalized(texts []LocalizedText) string {
	for _, t := range texts {
		if strings.HasPrefix(t.Lang, "en") {
			return strings.TrimSpace(t.Text)
		}
	}
	for _, t := range texts {
		if t.Lang == "" {
			return strings.TrimSpace(t.Text)
		}
	}
	if len(texts) > 0 {
		return strings.TrimSpace(texts[0].Text)
	}
	return ""
}

func firstGroup(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
