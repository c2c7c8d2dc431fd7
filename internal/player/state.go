package player

import (
	"fmt"
	"time"
)

// State состояние сеанса воспроизведения
type State int

// Состояния плеера
const (
	Stopped State = iota
	Initializing
	Playing
	Paused
)

// String возвращает имя состояния
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Initializing:
		return "init"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// IsActive true для любого состояния, кроме Stopped
func (s State) IsActive() bool {
	return s != Stopped
}

// Snapshot копия состояния сеанса на момент запроса
type Snapshot struct {
	State    State
	File     string
	Position float64 // секунды
	Total    float64 // секунды
	Session  string
}

// PositionDuration позиция как time.Duration
func (s Snapshot) PositionDuration() time.Duration {
	return time.Duration(s.Position * float64(time.Second))
}

// TotalDuration длительность как time.Duration
func (s Snapshot) TotalDuration() time.Duration {
	return time.Duration(s.Total * float64(time.Second))
}

// Percentage процент воспроизведения
func (s Snapshot) Percentage() float64 {
	if s.Total <= 0 {
		return 0
	}
	return s.Position / s.Total * 100
}
