// Package player содержит экран воспроизведения для TUI
package player

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-sake/internal/player"
	"github.com/hazadus/go-sake/internal/utils"
)

// pollInterval период опроса состояния симулятора
const pollInterval = 200 * time.Millisecond

// seekStep шаг перемотки стрелками в секундах
const seekStep = 1.0

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff")).
			MarginBottom(1)

	fileInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

// GoBackMsg отправляется для возврата к каталогу
type GoBackMsg struct{}

// SnapshotMsg содержит состояние симулятора
type SnapshotMsg struct {
	Snapshot player.Snapshot
}

// PlaybackErrorMsg отправляется при ошибке управления плеером
type PlaybackErrorMsg struct {
	Error error
}

// Model экран воспроизведения
type Model struct {
	sim         *player.Simulator
	title       string
	progressBar progress.Model
	snap        player.Snapshot
	// started становится true, когда сеанс впервые замечен активным
	started bool
	error   error
	width   int
	height  int
}

// NewModel создает экран для уже запущенного симулятора
func NewModel(sim *player.Simulator, title string) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	return &Model{
		sim:         sim,
		title:       title,
		progressBar: prog,
	}
}

// Init запускает опрос симулятора
func (m *Model) Init() tea.Cmd {
	return m.poll()
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(60, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, m.control(func(ctx context.Context) error { return m.sim.Stop(ctx) }, true)

		case " ":
			return m, m.control(func(ctx context.Context) error { return m.sim.Pause(ctx) }, false)

		case "left":
			target := max(0, m.snap.Position-seekStep)
			return m, m.control(func(ctx context.Context) error { return m.sim.Seek(ctx, target) }, false)

		case "right":
			target := min(m.snap.Total, m.snap.Position+seekStep)
			return m, m.control(func(ctx context.Context) error { return m.sim.Seek(ctx, target) }, false)
		}

	case SnapshotMsg:
		m.snap = msg.Snapshot
		if m.snap.State.IsActive() {
			m.started = true
		} else if m.started {
			// Сеанс закончился сам, возвращаемся к каталогу
			return m, goBack
		}

		return m, tea.Batch(
			m.progressBar.SetPercent(m.snap.Percentage()/100),
			m.poll(),
		)

	case PlaybackErrorMsg:
		m.error = msg.Error
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// View отображает модель
func (m *Model) View() string {
	if m.error != nil {
		return fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			titleStyle.Render("❌ Ошибка воспроизведения"),
			errorStyle.Render(m.error.Error()),
			controlsStyle.Render("Нажмите 'q' или 'esc' для возврата"),
		)
	}

	title := titleStyle.Render("🎬 " + m.title)
	fileInfo := fileInfoStyle.Render(fmt.Sprintf("📄 %s\n🆔 %s", m.snap.File, m.snap.Session))
	statusText := statusStyle.Render(fmt.Sprintf("%s %s", statusIcon(m.snap.State), formatStatus(m.snap.State)))

	timeText := fmt.Sprintf(
		"%s / %s",
		utils.FormatDuration(m.snap.PositionDuration()),
		utils.FormatDuration(m.snap.TotalDuration()),
	)

	controls := controlsStyle.Render(
		"Пробел: пауза/воспроизведение • ←/→: перемотка • q/esc: стоп и назад",
	)

	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n\n%s\n%s\n\n%s",
		title,
		fileInfo,
		statusText,
		m.progressBar.View(),
		timeText,
		controls,
	)
}

func (m *Model) poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return SnapshotMsg{Snapshot: m.sim.Snapshot()}
	})
}

// control выполняет команду плеера. back возвращает к каталогу после успешной команды
func (m *Model) control(fn func(ctx context.Context) error, back bool) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return PlaybackErrorMsg{Error: err}
		}
		if back {
			return GoBackMsg{}
		}
		return nil
	}
}

func goBack() tea.Msg { return GoBackMsg{} }

func statusIcon(state player.State) string {
	switch state {
	case player.Playing:
		return "▶️"
	case player.Paused:
		return "⏸️"
	case player.Initializing:
		return "⏳"
	default:
		return "⏹️"
	}
}

func formatStatus(state player.State) string {
	switch state {
	case player.Playing:
		return "Воспроизведение"
	case player.Paused:
		return "Пауза"
	case player.Initializing:
		return "Загрузка"
	default:
		return "Остановлено"
	}
}
