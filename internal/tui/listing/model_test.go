package listing

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-sake/internal/gui"
	"github.com/hazadus/go-sake/internal/plugin"
)

func testListing() *plugin.Listing {
	return &plugin.Listing{
		Handle:   1,
		Content:  "movies",
		Category: "Фильмы",
		Entries: []plugin.Entry{
			{Item: gui.NewListItem(nil, "Folder", "", ""), URL: "plugin://plugin.video.example/folder", IsFolder: true},
			{Item: gui.NewListItem(nil, "Clip", "", ""), URL: "plugin://plugin.video.example/?play=1"},
		},
		Succeeded: true,
	}
}

func TestNewModel(t *testing.T) {
	model := NewModel(testListing())

	if len(model.list.Items()) != 2 {
		t.Fatalf("Ожидалось 2 элемента, получено %d", len(model.list.Items()))
	}
	if model.list.Title != "Фильмы" {
		t.Errorf("Заголовок должен совпадать с категорией, получено %q", model.list.Title)
	}

	empty := NewModel(nil)
	if len(empty.list.Items()) != 0 || empty.Listing() == nil {
		t.Error("Пустой каталог должен отображаться без элементов")
	}
}

func TestSelectEntry(t *testing.T) {
	model := NewModel(testListing())

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Ожидалась команда для Enter")
	}
	msg, ok := cmd().(EntrySelectedMsg)
	if !ok {
		t.Fatal("Ожидалось EntrySelectedMsg")
	}
	if !msg.Entry.IsFolder || msg.Entry.URL != "plugin://plugin.video.example/folder" {
		t.Errorf("Выбран неверный элемент: %+v", msg.Entry)
	}
}

func TestNavigationKeys(t *testing.T) {
	model := NewModel(testListing())

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if cmd == nil {
		t.Fatal("Ожидалась команда для Backspace")
	}
	if _, ok := cmd().(GoUpMsg); !ok {
		t.Error("Ожидалось GoUpMsg")
	}

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if cmd == nil {
		t.Fatal("Ожидалась команда для s")
	}
	if _, ok := cmd().(EditSettingsMsg); !ok {
		t.Error("Ожидалось EditSettingsMsg")
	}
}

func TestView(t *testing.T) {
	model := NewModel(testListing())
	model.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	view := model.View()
	if !strings.Contains(view, "End of Folder (items=2") {
		t.Errorf("Ожидался итог каталога: %q", view)
	}
}
