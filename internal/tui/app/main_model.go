// Package app содержит основную логику TUI приложения
package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-sake/internal/addon"
	"github.com/hazadus/go-sake/internal/gui"
	"github.com/hazadus/go-sake/internal/player"
	"github.com/hazadus/go-sake/internal/plugin"
	"github.com/hazadus/go-sake/internal/tui/editor"
	"github.com/hazadus/go-sake/internal/tui/listing"
	tuiPlayer "github.com/hazadus/go-sake/internal/tui/player"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).PaddingLeft(4)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// ListingScreen экран каталога дополнения
	ListingScreen ScreenType = iota
	// PlayerScreen экран плеера
	PlayerScreen
	// EditorScreen экран настроек
	EditorScreen
)

// Host окружение, из которого TUI получает каталоги и плеер. *kodi.Host удовлетворяет интерфейсу
type Host interface {
	Browse(ctx context.Context, url string) (*plugin.Listing, error)
	Open(ctx context.Context, url string, item *gui.ListItem) error
	Simulator() *player.Simulator
	Addon() *addon.Addon
}

// ListingLoadedMsg результат запуска дополнения для каталога
type ListingLoadedMsg struct {
	URL     string
	Listing *plugin.Listing
	// Push true для перехода вглубь, false для возврата по истории
	Push  bool
	Error error
}

// PlaybackStartedMsg отправляется после успешного запуска воспроизведения
type PlaybackStartedMsg struct {
	Title string
}

// OpenFailedMsg отправляется, если элемент не удалось открыть
type OpenFailedMsg struct {
	Error error
}

// MainModel представляет главную модель TUI
type MainModel struct {
	ctx           context.Context
	host          Host
	currentScreen ScreenType
	listingModel  *listing.Model
	playerModel   *tuiPlayer.Model
	editorModel   *editor.Model
	// history адреса открытых каталогов, последний отображается
	history []string
	err     error
	size    *tea.WindowSizeMsg
}

// NewMainModel создает главную модель. Корневой каталог загружается в Init
func NewMainModel(ctx context.Context, host Host, rootURL string) *MainModel {
	return &MainModel{
		ctx:           ctx,
		host:          host,
		currentScreen: ListingScreen,
		listingModel:  listing.NewModel(nil),
		history:       []string{rootURL},
	}
}

// Init загружает корневой каталог
func (m *MainModel) Init() tea.Cmd {
	return m.browse(m.history[0], false)
}

// CurrentURL адрес отображаемого каталога
func (m *MainModel) CurrentURL() string {
	return m.history[len(m.history)-1]
}

// Screen текущий экран
func (m *MainModel) Screen() ScreenType {
	return m.currentScreen
}

// browse запускает дополнение в отдельной команде, чтобы не блокировать интерфейс
func (m *MainModel) browse(url string, push bool) tea.Cmd {
	return func() tea.Msg {
		l, err := m.host.Browse(m.ctx, url)
		return ListingLoadedMsg{URL: url, Listing: l, Push: push, Error: err}
	}
}

func (m *MainModel) open(entry plugin.Entry) tea.Cmd {
	return func() tea.Msg {
		if err := m.host.Open(m.ctx, entry.URL, entry.Item); err != nil {
			return OpenFailedMsg{Error: err}
		}
		title := entry.URL
		if entry.Item != nil && entry.Item.GetLabel() != "" {
			title = entry.Item.GetLabel()
		}
		return PlaybackStartedMsg{Title: title}
	}
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// Останавливаем плеер перед выходом
			_ = m.host.Simulator().Stop(m.ctx)
			return m, tea.Quit
		}

	case ListingLoadedMsg:
		if msg.Error != nil {
			m.err = msg.Error
			return m, nil
		}
		m.err = nil
		if msg.Push {
			m.history = append(m.history, msg.URL)
		}
		if msg.Listing == nil {
			m.err = fmt.Errorf("дополнение не вызвало endOfDirectory для %s", msg.URL)
		}
		m.listingModel.SetListing(msg.Listing)
		return m, nil

	case listing.EntrySelectedMsg:
		m.err = nil
		if msg.Entry.IsFolder {
			return m, m.browse(msg.Entry.URL, true)
		}
		return m, m.open(msg.Entry)

	case listing.GoUpMsg:
		if len(m.history) < 2 {
			return m, nil
		}
		m.history = m.history[:len(m.history)-1]
		return m, m.browse(m.CurrentURL(), false)

	case listing.EditSettingsMsg:
		ad := m.host.Addon()
		if ad == nil {
			return m, nil
		}
		m.currentScreen = EditorScreen
		m.editorModel = editor.NewModel(ad.ID(), ad.Settings())
		return m, tea.Batch(m.editorModel.Init(), m.resize())

	case PlaybackStartedMsg:
		m.currentScreen = PlayerScreen
		m.playerModel = tuiPlayer.NewModel(m.host.Simulator(), msg.Title)
		return m, tea.Batch(m.playerModel.Init(), m.resize())

	case OpenFailedMsg:
		m.err = msg.Error
		return m, nil

	case tuiPlayer.GoBackMsg:
		m.currentScreen = ListingScreen
		m.playerModel = nil
		return m, nil

	case editor.SettingsSavedMsg:
		return m, editor.Back()

	case editor.GoBackMsg:
		m.currentScreen = ListingScreen
		m.editorModel = nil
		return m, nil

	case tea.WindowSizeMsg:
		m.size = &msg
		// Каталог хранит размер и тогда, когда не отображается
		m.listingModel, cmd = m.listingModel.Update(msg)
		if m.currentScreen == ListingScreen {
			return m, cmd
		}
	}

	switch m.currentScreen {
	case ListingScreen:
		m.listingModel, cmd = m.listingModel.Update(msg)

	case PlayerScreen:
		if m.playerModel != nil {
			var updated tea.Model
			updated, cmd = m.playerModel.Update(msg)
			if playerModel, ok := updated.(*tuiPlayer.Model); ok {
				m.playerModel = playerModel
			}
		}

	case EditorScreen:
		if m.editorModel != nil {
			m.editorModel, cmd = m.editorModel.Update(msg)
		}
	}

	return m, cmd
}

// resize передает новому экрану последний известный размер окна
func (m *MainModel) resize() tea.Cmd {
	if m.size == nil {
		return nil
	}
	size := *m.size
	return func() tea.Msg { return size }
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case ListingScreen:
		view := m.listingModel.View()
		if m.err != nil {
			view += "\n" + errorStyle.Render("Ошибка: "+m.err.Error())
		}
		return view

	case PlayerScreen:
		if m.playerModel != nil {
			return m.playerModel.View()
		}
		return "Ошибка: модель плеера не инициализирована"

	case EditorScreen:
		if m.editorModel != nil {
			return m.editorModel.View()
		}
		return "Ошибка: модель редактора не инициализирована"

	default:
		return "Неизвестный экран"
	}
}
