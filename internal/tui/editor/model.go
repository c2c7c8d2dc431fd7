// Package editor содержит экран редактирования настроек дополнения для TUI
package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(20)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Margin(1, 0)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Margin(1, 0)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
)

// SettingsSavedMsg отправляется когда настройки успешно сохранены
type SettingsSavedMsg struct{}

// GoBackMsg отправляется при отмене редактирования
type GoBackMsg struct{}

// Store хранилище настроек дополнения. *addon.Settings удовлетворяет интерфейсу
type Store interface {
	Keys() []string
	Get(id string) (string, bool)
	Set(id, value string)
	Save() error
}

// Model экран редактирования настроек
type Model struct {
	addonID    string
	store      Store
	keys       []string
	inputs     []textinput.Model
	focusIndex int
	err        string
	success    string
}

// NewModel создает редактор для всех известных ключей хранилища
func NewModel(addonID string, store Store) *Model {
	keys := store.Keys()
	inputs := make([]textinput.Model, len(keys))
	for i, key := range keys {
		value, _ := store.Get(key)
		inputs[i] = textinput.New()
		inputs[i].Placeholder = key
		inputs[i].SetValue(value)
		inputs[i].PromptStyle = blurredStyle
		inputs[i].TextStyle = blurredStyle
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
		inputs[0].PromptStyle = focusedStyle
		inputs[0].TextStyle = focusedStyle
	}

	return &Model{
		addonID: addonID,
		store:   store,
		keys:    keys,
		inputs:  inputs,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "ctrl+s":
			return m, m.save()

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && m.focusIndex == len(m.inputs) {
				return m, m.save()
			}

			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}

			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			cmds := make([]tea.Cmd, len(m.inputs))
			for i := range m.inputs {
				if i == m.focusIndex {
					cmds[i] = m.inputs[i].Focus()
					m.inputs[i].PromptStyle = focusedStyle
					m.inputs[i].TextStyle = focusedStyle
				} else {
					m.inputs[i].Blur()
					m.inputs[i].PromptStyle = blurredStyle
					m.inputs[i].TextStyle = blurredStyle
				}
			}

			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = msg.Width - 25
		}
		return m, nil
	}

	if m.focusIndex < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		return m, cmd
	}

	return m, nil
}

// Values текущие значения полей по ключам
func (m *Model) Values() map[string]string {
	values := make(map[string]string, len(m.keys))
	for i, key := range m.keys {
		values[key] = m.inputs[i].Value()
	}
	return values
}

// save записывает значения в хранилище и сохраняет его на диск
func (m *Model) save() tea.Cmd {
	return func() tea.Msg {
		for i, key := range m.keys {
			m.store.Set(key, strings.TrimSpace(m.inputs[i].Value()))
		}

		if err := m.store.Save(); err != nil {
			m.err = fmt.Sprintf("Ошибка сохранения настроек: %v", err)
			m.success = ""
			return nil
		}

		m.err = ""
		m.success = "Настройки сохранены!"
		return SettingsSavedMsg{}
	}
}

// Back команда возврата после сохранения с небольшой задержкой
func Back() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return GoBackMsg{}
	})
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Настройки " + m.addonID))
	b.WriteString("\n\n")

	if len(m.inputs) == 0 {
		b.WriteString(blurredStyle.Render("У дополнения нет настроек"))
		b.WriteString("\n\n")
	}

	for i, input := range m.inputs {
		b.WriteString(labelStyle.Render(m.keys[i] + ":"))
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	saveButton := "[ Сохранить ]"
	if m.focusIndex == len(m.inputs) {
		saveButton = focusedStyle.Render(saveButton)
	} else {
		saveButton = blurredStyle.Render(saveButton)
	}
	b.WriteString(saveButton)
	b.WriteString("\n\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	if m.success != "" {
		b.WriteString(successStyle.Render(m.success))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("Tab/Enter: следующее поле • Shift+Tab: предыдущее поле"))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("Ctrl+S: сохранить • Esc: отмена"))

	return b.String()
}
