// Package plugin содержит реестр дескрипторов каталогов, которые плагин возвращает хосту
package plugin

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/gui"
)

// DefaultContent тип содержимого, пока плагин не вызвал SetContent
const DefaultContent = "not-set"

// Entry элемент каталога
type Entry struct {
	Item     *gui.ListItem
	URL      string
	IsFolder bool
}

// Listing состояние одного дескриптора
type Listing struct {
	Handle        int
	Entries       []Entry
	Content       string
	SortMethods   []int
	Category      string
	Fanart        string
	Properties    map[string]string
	Succeeded     bool
	UpdateListing bool
	CacheToDisc   bool
}

// Count количество добавленных элементов
func (l *Listing) Count() int { return len(l.Entries) }

func (l *Listing) clone() *Listing {
	c := *l
	c.Entries = append([]Entry(nil), l.Entries...)
	c.SortMethods = append([]int(nil), l.SortMethods...)
	c.Properties = make(map[string]string, len(l.Properties))
	for k, v := range l.Properties {
		c.Properties[k] = v
	}
	return &c
}

// Registry дескрипторы каталогов по номеру
type Registry struct {
	mu       sync.Mutex
	con      *console.Console
	listings map[int]*Listing
	onClose  []func(*Listing)
}

// NewRegistry создает реестр
func NewRegistry(con *console.Console) *Registry {
	return &Registry{con: con, listings: make(map[int]*Listing)}
}

// OnClose регистрирует получателя закрытых каталогов
func (r *Registry) OnClose(fn func(*Listing)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onClose = append(r.onClose, fn)
}

// get возвращает или создает дескриптор. Вызывается под мьютексом
func (r *Registry) get(handle int) *Listing {
	l, ok := r.listings[handle]
	if !ok {
		l = &Listing{Handle: handle, Content: DefaultContent, Properties: make(map[string]string)}
		r.listings[handle] = l
	}
	return l
}

// Get возвращает копию дескриптора, создавая его при первом обращении
func (r *Registry) Get(handle int) *Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(handle).clone()
}

// Open сообщает, существует ли дескриптор
func (r *Registry) Open(handle int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.listings[handle]
	return ok
}

// AddItem добавляет элемент в конец каталога
func (r *Registry) AddItem(handle int, item *gui.ListItem, url string, isFolder bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.get(handle)
	l.Entries = append(l.Entries, Entry{Item: item, URL: url, IsFolder: isFolder})
}

// AddItems добавляет несколько элементов
func (r *Registry) AddItems(handle int, entries []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.get(handle)
	l.Entries = append(l.Entries, entries...)
}

// AddSortMethod добавляет метод сортировки. Повторное добавление игнорируется,
// неизвестный идентификатор сохраняется с предупреждением
func (r *Registry) AddSortMethod(handle, method int) {
	if _, ok := SortMethodName(method); !ok {
		r.con.Line(fmt.Sprintf("Unknown sort method: %d", method), console.Yellow, false)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.get(handle)
	if slices.Contains(l.SortMethods, method) {
		return
	}
	l.SortMethods = append(l.SortMethods, method)
}

// SetContent задает тип содержимого каталога
func (r *Registry) SetContent(handle int, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(handle).Content = content
}

// SetPluginCategory задает подкатегорию и печатает ее
func (r *Registry) SetPluginCategory(handle int, category string) {
	r.mu.Lock()
	r.get(handle).Category = category
	r.mu.Unlock()

	r.con.Line(fmt.Sprintf("> %s", category), console.Blue, false)
}

// SetPluginFanart задает фон каталога
func (r *Registry) SetPluginFanart(handle int, image string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(handle).Fanart = image
}

// SetProperty задает свойство каталога
func (r *Registry) SetProperty(handle int, key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(handle).Properties[key] = value
}

// Close печатает итог каталога и удаляет дескриптор.
// Возвращает nil, если дескриптор уже закрыт
func (r *Registry) Close(handle int, succeeded, updateListing, cacheToDisc bool) *Listing {
	r.mu.Lock()
	l, ok := r.listings[handle]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	delete(r.listings, handle)
	l.Succeeded = succeeded
	l.UpdateListing = updateListing
	l.CacheToDisc = cacheToDisc
	hooks := slices.Clone(r.onClose)
	r.mu.Unlock()

	r.Print(l)
	for _, fn := range hooks {
		fn(l.clone())
	}
	return l
}

// Print печатает содержимое дескриптора
func (r *Registry) Print(l *Listing) {
	r.con.Heading(fmt.Sprintf("Listing for handle %d", l.Handle), false, console.Yellow)

	for _, e := range l.Entries {
		kind := "V"
		if e.IsFolder {
			kind = "F"
		}
		label := ""
		if e.Item != nil {
			label = e.Item.String()
		}
		r.con.Printf("*%s: %s [%s]", kind, r.con.ReplaceColors(label), e.URL)
	}

	for _, m := range l.SortMethods {
		name, ok := SortMethodName(m)
		if !ok {
			name = "<unknown>"
		}
		r.con.Printf("%s Added sortmethod: %02d - %s", r.con.Colorize(">", console.Yellow), m, name)
	}

	r.con.Heading(Summary(l), true, console.Yellow)
}

// Summary строка итога каталога
func Summary(l *Listing) string {
	sorts := make([]string, len(l.SortMethods))
	for i, m := range l.SortMethods {
		sorts[i] = strconv.Itoa(m)
	}
	return fmt.Sprintf("End of Folder (items=%d,success=%t,content=%s,sort=%s,cache=%t,update=%t)",
		l.Count(), l.Succeeded, l.Content, strings.Join(sorts, "+"), l.CacheToDisc, l.UpdateListing)
}
