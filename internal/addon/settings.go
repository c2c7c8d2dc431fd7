package addon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hazadus/go-sake/internal/paths"
)

// Settings значения настроек одного дополнения
type Settings struct {
	mu       sync.RWMutex
	order    []string
	values   map[string]string
	userFile string
}

func newSettings(userFile string) *Settings {
	return &Settings{values: make(map[string]string), userFile: userFile}
}

// LoadSettings читает значения по умолчанию из resources/settings.xml
// и поверх них пользовательские значения из профиля. Отсутствующие файлы пропускаются
func LoadSettings(env paths.Env) (*Settings, error) {
	s := newSettings(filepath.Join(env.AddonDataPath(), "settings.xml"))

	defaults, err := readOptional(filepath.Join(env.AddonPath, "resources", "settings.xml"))
	if err != nil {
		return nil, err
	}
	if defaults != "" {
		order, values := ParseDefaults(defaults)
		s.merge(order, values)
	}

	user, err := readOptional(s.userFile)
	if err != nil {
		return nil, err
	}
	if user != "" {
		order, values := ParseUserValues(user)
		s.merge(order, values)
	}

	return s, nil
}

func (s *Settings) merge(order []string, values map[string]string) {
	for _, id := range order {
		s.set(id, values[id])
	}
}

func (s *Settings) set(id, value string) {
	if _, ok := s.values[id]; !ok {
		s.order = append(s.order, id)
	}
	s.values[id] = value
}

// Get возвращает значение настройки
func (s *Settings) Get(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[id]
	return v, ok
}

// Set изменяет значение настройки в памяти
func (s *Settings) Set(id, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(id, value)
}

// Keys возвращает идентификаторы настроек в порядке появления
func (s *Settings) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Len количество настроек
func (s *Settings) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

type userSettingsXML struct {
	XMLName  xml.Name         `xml:"settings"`
	Version  string           `xml:"version,attr"`
	Settings []userSettingXML `xml:"setting"`
}

type userSettingXML struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

// Save записывает значения в пользовательский settings.xml профиля
func (s *Settings) Save() error {
	s.mu.RLock()
	doc := userSettingsXML{Version: "2"}
	ids := append([]string(nil), s.order...)
	sort.Strings(ids)
	for _, id := range ids {
		doc.Settings = append(doc.Settings, userSettingXML{ID: id, Value: s.values[id]})
	}
	s.mu.RUnlock()

	data, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации настроек: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.userFile), 0755); err != nil {
		return fmt.Errorf("ошибка создания каталога настроек: %w", err)
	}
	if err := os.WriteFile(s.userFile, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("ошибка записи настроек: %w", err)
	}
	return nil
}

// Store кеширует настройки по идентификатору дополнения
type Store struct {
	mu    sync.Mutex
	byID  map[string]*Settings
	fresh func(paths.Env) (*Settings, error)
}

// NewStore создает пустой кеш настроек
func NewStore() *Store {
	return &Store{byID: make(map[string]*Settings), fresh: LoadSettings}
}

// Load возвращает настройки дополнения, читая файлы только при первом обращении
func (st *Store) Load(env paths.Env) (*Settings, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.byID[env.AddonID]; ok {
		return s, nil
	}

	s, err := st.fresh(env)
	if err != nil {
		return nil, err
	}
	st.byID[env.AddonID] = s
	return s, nil
}

// Forget удаляет настройки дополнения из кеша
func (st *Store) Forget(addonID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.byID, addonID)
}

func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("ошибка чтения %s: %w", path, err)
	}
	return string(data), nil
}
