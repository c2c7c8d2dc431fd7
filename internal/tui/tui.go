// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-sake/internal/tui/app"
	"github.com/hazadus/go-sake/internal/tui/editor"
)

// App представляет основное TUI приложение
type App struct {
	host    app.Host
	rootURL string
}

// NewApp создает TUI для просмотра дополнения, начиная с rootURL
func NewApp(host app.Host, rootURL string) *App {
	return &App{
		host:    host,
		rootURL: rootURL,
	}
}

// Run запускает TUI приложение и блокируется до выхода из него
func (tuiApp *App) Run(ctx context.Context) error {
	model := app.NewMainModel(ctx, tuiApp.host, tuiApp.rootURL)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()

	// Останавливаем воспроизведение, начатое из интерфейса
	_ = tuiApp.host.Simulator().Halt(context.Background())

	return err
}

// settingsModel запускает редактор настроек как самостоятельную программу
type settingsModel struct {
	editor *editor.Model
}

func (m settingsModel) Init() tea.Cmd { return m.editor.Init() }

func (m settingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case editor.GoBackMsg:
		return m, tea.Quit
	case editor.SettingsSavedMsg:
		return m, editor.Back()
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m settingsModel) View() string { return m.editor.View() }

// RunSettings открывает редактор настроек дополнения и ждет выхода из него
func RunSettings(ctx context.Context, addonID string, store editor.Store) error {
	p := tea.NewProgram(settingsModel{editor: editor.NewModel(addonID, store)}, tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
