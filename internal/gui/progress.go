package gui

import (
	"fmt"

	"github.com/hazadus/go-sake/internal/console"
)

// DialogProgress эмуляция модального индикатора прогресса
type DialogProgress struct {
	con     *console.Console
	percent int
}

// NewDialogProgress создает индикатор
func NewDialogProgress(con *console.Console) *DialogProgress {
	return &DialogProgress{con: con}
}

// Create показывает индикатор
func (p *DialogProgress) Create(heading, message string) {
	p.con.Heading(heading, false, console.Yellow)
	p.con.Line(message, console.NoColor, true)
}

// Update обновляет процент и сообщение
func (p *DialogProgress) Update(percent int, message string) {
	p.percent = clampPercent(percent)
	p.con.Line(fmt.Sprintf("%d%%: %s", p.percent, message), console.Yellow, true)
}

// Percent последний установленный процент
func (p *DialogProgress) Percent() int { return p.percent }

// Close закрывает индикатор
func (p *DialogProgress) Close() {
	p.con.Line(separator, console.Yellow, true)
}

// IsCanceled всегда false: пользователь не может отменить эмулируемый диалог
func (p *DialogProgress) IsCanceled() bool { return false }

// DialogProgressBG фоновый индикатор прогресса
type DialogProgressBG struct {
	con     *console.Console
	percent int
}

// NewDialogProgressBG создает фоновый индикатор
func NewDialogProgressBG(con *console.Console) *DialogProgressBG {
	return &DialogProgressBG{con: con}
}

// Create показывает индикатор
func (p *DialogProgressBG) Create(heading, message string) {
	p.con.Heading(heading, true, console.Yellow)
	p.con.Line(message, console.NoColor, true)
}

// Update обновляет процент, заголовок и сообщение
func (p *DialogProgressBG) Update(percent int, heading, message string) {
	p.percent = clampPercent(percent)
	if heading != "" {
		p.con.Line(fmt.Sprintf("%d%%: %s - %s", p.percent, heading, message), console.Yellow, true)
		return
	}
	p.con.Line(fmt.Sprintf("%d%%: %s", p.percent, message), console.Yellow, true)
}

// Percent последний установленный процент
func (p *DialogProgressBG) Percent() int { return p.percent }

// Close закрывает индикатор
func (p *DialogProgressBG) Close() {
	p.con.Line(separator, console.Yellow, true)
}

// IsFinished всегда false
func (p *DialogProgressBG) IsFinished() bool { return false }

func clampPercent(p int) int {
	return min(100, max(0, p))
}
