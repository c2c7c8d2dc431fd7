// Package listing содержит экран каталога дополнения для TUI
package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-sake/internal/plugin"
	"github.com/hazadus/go-sake/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	folderStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	summaryStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(4)
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	quitTextStyle     = lipgloss.NewStyle().Margin(1, 0, 2, 4)
)

// EntrySelectedMsg отправляется при выборе элемента каталога
type EntrySelectedMsg struct {
	Entry plugin.Entry
}

// GoUpMsg отправляется для возврата к предыдущему каталогу
type GoUpMsg struct{}

// EditSettingsMsg отправляется для открытия настроек дополнения
type EditSettingsMsg struct{}

// entryItem реализует list.Item для элемента каталога
type entryItem struct {
	entry plugin.Entry
}

func (i entryItem) label() string {
	if i.entry.Item == nil {
		return i.entry.URL
	}
	return i.entry.Item.GetLabel()
}

func (i entryItem) FilterValue() string { return i.label() }

type entryDelegate struct{}

func (d entryDelegate) Height() int { return 1 }

func (d entryDelegate) Spacing() int { return 0 }

func (d entryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d entryDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(entryItem)
	if !ok {
		return
	}

	// F папка, V воспроизводимый элемент, как в печатном каталоге
	kind := "V"
	if i.entry.IsFolder {
		kind = folderStyle.Render("F")
	}
	label2 := ""
	if i.entry.Item != nil {
		label2 = i.entry.Item.GetLabel2()
	}
	str := fmt.Sprintf("%s %-50s %s", kind, utils.TruncateString(i.label(), 50), utils.TruncateString(label2, 20))

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model экран каталога
type Model struct {
	list     list.Model
	listing  *plugin.Listing
	quitting bool
}

// NewModel создает экран для закрытого каталога
func NewModel(l *plugin.Listing) *Model {
	lm := list.New(nil, entryDelegate{}, 0, 0)
	lm.SetShowStatusBar(false)
	lm.SetShowTitle(true)
	lm.SetFilteringEnabled(true)
	lm.Styles.Title = titleStyle
	lm.Styles.PaginationStyle = paginationStyle
	lm.Styles.HelpStyle = helpStyle

	m := &Model{list: lm}
	m.SetListing(l)
	return m
}

// SetListing заменяет содержимое экрана
func (m *Model) SetListing(l *plugin.Listing) {
	if l == nil {
		l = &plugin.Listing{Content: plugin.DefaultContent}
	}
	m.listing = l

	items := make([]list.Item, len(l.Entries))
	for i, e := range l.Entries {
		items[i] = entryItem{entry: e}
	}
	m.list.SetItems(items)
	m.list.ResetSelected()

	m.list.Title = "Каталог"
	if l.Category != "" {
		m.list.Title = l.Category
	}
}

// Listing текущий каталог
func (m *Model) Listing() *plugin.Listing { return m.listing }

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 5)
		return m, nil

	case tea.KeyMsg:
		// Во время фильтрации клавиши принадлежат строке поиска
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "q":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if item, ok := m.list.SelectedItem().(entryItem); ok {
				return m, func() tea.Msg {
					return EntrySelectedMsg{Entry: item.entry}
				}
			}

		case "backspace", "h":
			return m, func() tea.Msg { return GoUpMsg{} }

		case "s":
			return m, func() tea.Msg { return EditSettingsMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	if m.quitting {
		return quitTextStyle.Render("До свидания!")
	}

	summary := summaryStyle.Render(plugin.Summary(m.listing))
	extraHelp := helpStyle.Render("Enter: открыть • Backspace: назад • s: настройки • q: выход")
	return m.list.View() + "\n" + summary + "\n" + extraHelp
}
