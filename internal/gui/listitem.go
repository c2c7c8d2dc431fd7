// Package gui содержит эмуляцию xbmcgui: элементы списка, диалоги и индикаторы прогресса
package gui

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hazadus/go-sake/internal/console"
)

// Типы информации ListItem.setInfo
const (
	InfoVideo    = "video"
	InfoMusic    = "music"
	InfoPictures = "pictures"
	InfoGame     = "game"
)

// ListItem элемент списка каталога
type ListItem struct {
	mu  sync.RWMutex
	con *console.Console

	label    string
	label2   string
	path     string
	infoType string
	info     map[string]any
	art      map[string]string
	props    map[string]string

	subtitles     []string
	mimeType      string
	contentLookup bool
	isFolder      bool
}

// NewListItem создает элемент. con может быть nil, тогда подробный вывод отключен
func NewListItem(con *console.Console, label, label2, path string) *ListItem {
	return &ListItem{
		con:           con,
		label:         label,
		label2:        label2,
		path:          path,
		info:          map[string]any{"*label1": label, "*label2": label2},
		art:           make(map[string]string),
		props:         make(map[string]string),
		contentLookup: true,
	}
}

func (li *ListItem) verbose(format string, args ...any) {
	if li.con != nil {
		li.con.Line(fmt.Sprintf(format, args...), console.NoColor, true)
	}
}

// SetInfo дополняет InfoLabels элемента
func (li *ListItem) SetInfo(infoType string, labels map[string]any) {
	li.mu.Lock()
	li.infoType = infoType
	for k, v := range labels {
		li.info[k] = v
	}
	li.mu.Unlock()

	li.verbose("Updating infolabels with %v", labels)
}

// InfoType тип информации, переданный в SetInfo
func (li *ListItem) InfoType() string {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.infoType
}

// Info значение InfoLabel
func (li *ListItem) Info(key string) (any, bool) {
	li.mu.RLock()
	defer li.mu.RUnlock()
	v, ok := li.info[key]
	return v, ok
}

// SetArt дополняет изображения элемента
func (li *ListItem) SetArt(values map[string]string) {
	li.mu.Lock()
	for k, v := range values {
		li.art[k] = v
	}
	li.mu.Unlock()

	li.verbose("Updating artwork with %v", values)
}

// GetArt путь к изображению заданного типа
func (li *ListItem) GetArt(key string) string {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.art[key]
}

// SetLabel задает основную подпись
func (li *ListItem) SetLabel(label string) {
	li.mu.Lock()
	li.label = label
	li.info["*label1"] = label
	li.mu.Unlock()

	li.verbose("Setting label1='%s'", label)
}

// GetLabel основная подпись
func (li *ListItem) GetLabel() string {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.label
}

// SetLabel2 задает вторую подпись
func (li *ListItem) SetLabel2(label string) {
	li.mu.Lock()
	li.label2 = label
	li.info["*label2"] = label
	li.mu.Unlock()

	li.verbose("Setting label2='%s'", label)
}

// GetLabel2 вторая подпись
func (li *ListItem) GetLabel2() string {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.label2
}

// SetPath задает путь элемента
func (li *ListItem) SetPath(path string) {
	li.mu.Lock()
	defer li.mu.Unlock()
	li.path = path
}

// GetPath путь элемента
func (li *ListItem) GetPath() string {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.path
}

// SetSubtitles задает файлы субтитров
func (li *ListItem) SetSubtitles(files []string) {
	li.mu.Lock()
	li.subtitles = append([]string(nil), files...)
	li.mu.Unlock()

	for _, f := range files {
		li.verbose("Adding subtitles: %s", f)
	}
}

// Subtitles файлы субтитров
func (li *ListItem) Subtitles() []string {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return append([]string(nil), li.subtitles...)
}

// SetProperty задает свойство. Регистр ключа не учитывается
func (li *ListItem) SetProperty(key, value string) {
	li.mu.Lock()
	li.props[strings.ToLower(key)] = value
	li.mu.Unlock()

	li.verbose("Adding property: %s: %s", key, value)
}

// GetProperty значение свойства или пустая строка
func (li *ListItem) GetProperty(key string) string {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.props[strings.ToLower(key)]
}

// SetMimeType задает MIME-тип
func (li *ListItem) SetMimeType(mime string) {
	li.mu.Lock()
	defer li.mu.Unlock()
	li.mimeType = mime
}

// MimeType MIME-тип элемента
func (li *ListItem) MimeType() string {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.mimeType
}

// SetContentLookup включает или отключает определение типа содержимого
func (li *ListItem) SetContentLookup(enable bool) {
	li.mu.Lock()
	defer li.mu.Unlock()
	li.contentLookup = enable
}

// ContentLookup включено ли определение типа содержимого
func (li *ListItem) ContentLookup() bool {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.contentLookup
}

// SetIsFolder помечает элемент как каталог
func (li *ListItem) SetIsFolder(folder bool) {
	li.mu.Lock()
	defer li.mu.Unlock()
	li.isFolder = folder
}

// IsFolder является ли элемент каталогом
func (li *ListItem) IsFolder() bool {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.isFolder
}

// String подпись элемента. В режиме verbose выводит также InfoLabels и свойства
func (li *ListItem) String() string {
	if li.con == nil || !li.con.Verbose() {
		return li.GetLabel()
	}
	return li.Dump()
}

// Dump подробное описание элемента
func (li *ListItem) Dump() string {
	li.mu.RLock()
	defer li.mu.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]\n", li.label, li.infoType)
	b.WriteString("InfoLabels\n")
	for _, k := range sortedKeys(li.info) {
		fmt.Fprintf(&b, "    - %s: %v\n", k, li.info[k])
	}
	b.WriteString("Properties\n")
	for _, k := range sortedKeys(li.props) {
		fmt.Fprintf(&b, "    - %s: %s\n", k, li.props[k])
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
