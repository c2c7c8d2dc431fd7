package addon

import (
	"regexp"
	"strconv"
	"strings"
)

// Выражения для settings.xml и пользовательских настроек
var (
	defaultAttrRe  = regexp.MustCompile(`id="([^"]+)"[^>]*default="([^"]*)"`)
	defaultChildRe = regexp.MustCompile(`(?s)setting id="(.*?)".*?(?:<default>(.*?)<|<default\s*/>|<data)`)
	valueAttrRe    = regexp.MustCompile(`id="([^"]+)"[^>]*value="([^"]*)"`)
	valueTextRe    = regexp.MustCompile(`id="([^"]+)"[^>]*>([^<]+)<`)

	stringsRe = regexp.MustCompile(`(?i)msgctxt "#(\d+)"\W+msgid ((?:"[^\n\r]*"\W{1,2})+)msgstr ((?:"[^\n\r]*"\W{1,2})+)`)
)

// ScrapePairs собирает пары id → значение из текста.
// Выражения пробуются по очереди, пока одно из них не найдет совпадения.
// Для каждого id побеждает первое совпадение
func ScrapePairs(text string, patterns ...*regexp.Regexp) map[string]string {
	_, values := scrapeOrdered(text, patterns...)
	return values
}

// scrapeOrdered работает как ScrapePairs и дополнительно возвращает порядок появления id
func scrapeOrdered(text string, patterns ...*regexp.Regexp) ([]string, map[string]string) {
	values := make(map[string]string)
	var order []string

	for _, re := range patterns {
		matches := re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}

		for _, m := range matches {
			if len(m) < 3 {
				continue
			}
			if _, seen := values[m[1]]; !seen {
				values[m[1]] = m[2]
				order = append(order, m[1])
			}
		}
		break
	}
	return order, values
}

// ParseDefaults извлекает значения по умолчанию из resources/settings.xml
func ParseDefaults(text string) ([]string, map[string]string) {
	return scrapeOrdered(text, defaultAttrRe, defaultChildRe)
}

// ParseUserValues извлекает пользовательские значения из addon_data/<id>/settings.xml
func ParseUserValues(text string) ([]string, map[string]string) {
	return scrapeOrdered(text, valueAttrRe, valueTextRe)
}

// ScrapeLocalized возвращает текст тега с предпочтением английской локали.
// Без английской версии берется тег без lang, затем первый найденный
func ScrapeLocalized(text, tag string) (string, bool) {
	re := regexp.MustCompile(`(?s)<` + regexp.QuoteMeta(tag) + `(?:\s*lang="([a-zA-Z_-]+)")?\s*>(.*?)</` + regexp.QuoteMeta(tag) + `>`)
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", false
	}

	for _, m := range matches {
		if strings.HasPrefix(m[1], "en") {
			return m[2], true
		}
	}
	for _, m := range matches {
		if m[1] == "" {
			return m[2], true
		}
	}
	return matches[0][2], true
}

// ParseStrings разбирает strings.po в отображение id → перевод.
// Непустой msgstr имеет приоритет над msgid, [CR] заменяется на перевод строки
func ParseStrings(text string) map[int]string {
	translations := make(map[int]string)
	for _, m := range stringsRe.FindAllStringSubmatch(text, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		translation := m[2]
		if strings.Trim(m[3], "\n\r\"") != "" {
			translation = m[3]
		}

		var b strings.Builder
		for _, part := range strings.Split(translation, `"`) {
			if strings.TrimSpace(part) != "" {
				b.WriteString(part)
			}
		}

		if _, seen := translations[id]; !seen {
			translations[id] = strings.ReplaceAll(b.String(), "[CR]", "\n")
		}
	}
	return translations
}
