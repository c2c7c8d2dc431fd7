package player

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-sake/internal/logger"
	"github.com/hazadus/go-sake/internal/player"
)

func newSimulator(t *testing.T) *player.Simulator {
	t.Helper()
	sim := player.New(player.Options{Logger: logger.Discard()})
	t.Cleanup(func() { sim.Close() })
	return sim
}

func TestFormatStatus(t *testing.T) {
	tests := []struct {
		state player.State
		want  string
	}{
		{player.Playing, "Воспроизведение"},
		{player.Paused, "Пауза"},
		{player.Initializing, "Загрузка"},
		{player.Stopped, "Остановлено"},
	}

	for _, tt := range tests {
		if got := formatStatus(tt.state); got != tt.want {
			t.Errorf("formatStatus(%s) = %s, ожидалось %s", tt.state, got, tt.want)
		}
	}
}

func TestUpdateWindowSize(t *testing.T) {
	model := NewModel(newSimulator(t), "Clip")

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m := updated.(*Model)
	if m.width != 100 || m.height != 40 {
		t.Errorf("Ожидался размер 100x40, получено %dx%d", m.width, m.height)
	}
	if m.progressBar.Width != 60 {
		t.Errorf("Ожидалась ширина прогресса 60, получено %d", m.progressBar.Width)
	}
}

func TestPauseAndStopKeys(t *testing.T) {
	sim := newSimulator(t)
	ctx := context.Background()
	if err := sim.Play(ctx, "/tmp/clip.mp4"); err != nil {
		t.Fatal(err)
	}
	if err := sim.Advance(ctx); err != nil {
		t.Fatal(err)
	}
	model := NewModel(sim, "Clip")

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd == nil {
		t.Fatal("Ожидалась команда для пробела")
	}
	if msg := cmd(); msg != nil {
		t.Errorf("Пауза не должна возвращать сообщение, получено %v", msg)
	}
	if sim.Snapshot().State != player.Paused {
		t.Errorf("Ожидалась пауза, состояние %s", sim.Snapshot().State)
	}

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if _, ok := cmd().(GoBackMsg); !ok {
		t.Error("Ожидалось GoBackMsg после q")
	}
	if sim.Snapshot().State != player.Stopped {
		t.Errorf("После q плеер должен остановиться, состояние %s", sim.Snapshot().State)
	}
}

func TestSnapshotFinishesSession(t *testing.T) {
	model := NewModel(newSimulator(t), "Clip")

	_, cmd := model.Update(SnapshotMsg{Snapshot: player.Snapshot{State: player.Playing, Position: 2, Total: 5}})
	if !model.started {
		t.Fatal("Активный сеанс должен быть замечен")
	}
	if cmd == nil {
		t.Fatal("Ожидалось продолжение опроса")
	}
	if !strings.Contains(model.View(), "00:00:02 / 00:00:05") {
		t.Errorf("Неверное время в представлении: %q", model.View())
	}

	_, cmd = model.Update(SnapshotMsg{Snapshot: player.Snapshot{State: player.Stopped}})
	if cmd == nil {
		t.Fatal("Ожидалась команда возврата")
	}
	if _, ok := cmd().(GoBackMsg); !ok {
		t.Error("После окончания сеанса ожидалось GoBackMsg")
	}
}
