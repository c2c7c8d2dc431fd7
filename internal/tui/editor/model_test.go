package editor

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeStore struct {
	keys   []string
	values map[string]string
	saved  int
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		keys:   []string{"quality", "username"},
		values: map[string]string{"quality": "720p", "username": "guest"},
	}
}

func (s *fakeStore) Keys() []string { return s.keys }

func (s *fakeStore) Get(id string) (string, bool) {
	v, ok := s.values[id]
	return v, ok
}

func (s *fakeStore) Set(id, value string) { s.values[id] = value }

func (s *fakeStore) Save() error {
	if s.err != nil {
		return s.err
	}
	s.saved++
	return nil
}

func TestNewModel(t *testing.T) {
	model := NewModel("plugin.video.example", newFakeStore())

	values := model.Values()
	if values["quality"] != "720p" || values["username"] != "guest" {
		t.Errorf("Поля должны быть заполнены из хранилища: %v", values)
	}
	if !model.inputs[0].Focused() {
		t.Error("Первое поле должно быть в фокусе")
	}
	if !strings.Contains(model.View(), "Настройки plugin.video.example") {
		t.Error("Заголовок должен содержать идентификатор дополнения")
	}
}

func TestSave(t *testing.T) {
	store := newFakeStore()
	model := NewModel("plugin.video.example", store)
	model.inputs[0].SetValue(" 1080p ")

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("Ожидалась команда сохранения")
	}
	if _, ok := cmd().(SettingsSavedMsg); !ok {
		t.Error("Ожидалось SettingsSavedMsg")
	}
	if store.saved != 1 {
		t.Errorf("Save должен быть вызван один раз, вызван %d", store.saved)
	}
	if store.values["quality"] != "1080p" {
		t.Errorf("Значение должно быть обрезано и записано, получено %q", store.values["quality"])
	}
}

func TestSaveError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("диск заполнен")
	model := NewModel("plugin.video.example", store)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if msg := cmd(); msg != nil {
		t.Errorf("При ошибке сообщение не ожидалось, получено %v", msg)
	}
	if !strings.Contains(model.View(), "диск заполнен") {
		t.Error("Ошибка должна отображаться")
	}
}

func TestFocusNavigation(t *testing.T) {
	model := NewModel("plugin.video.example", newFakeStore())

	model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.focusIndex != 1 || !model.inputs[1].Focused() || model.inputs[0].Focused() {
		t.Errorf("Фокус должен перейти на второе поле, индекс %d", model.focusIndex)
	}

	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if model.focusIndex != len(model.inputs) {
		t.Errorf("Фокус должен перейти на кнопку, индекс %d", model.focusIndex)
	}

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(GoBackMsg); !ok {
		t.Error("Esc должен возвращать GoBackMsg")
	}
}
