package gui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/keyboard"
)

// Значки уведомлений
const (
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// Типы ввода Dialog.Input
const (
	InputAlphanum = 0
	InputNumeric  = 1
	InputDate     = 2
	InputTime     = 3
	InputIPAddr   = 4
	InputPassword = 5
)

var separator = strings.Repeat("=", console.HeadingWidth)

// Dialog эмуляция xbmcgui.Dialog. В неинтерактивном режиме ответы берутся из очереди ввода
type Dialog struct {
	con   *console.Console
	queue *keyboard.Queue
}

// NewDialog создает диалог
func NewDialog(con *console.Console, queue *keyboard.Queue) *Dialog {
	return &Dialog{con: con, queue: queue}
}

// answer читает ответ с клавиатуры или из очереди
func (d *Dialog) answer(prompt string) (string, error) {
	if d.con.Interactive() {
		line, err := d.con.ReadInput(prompt, console.Yellow)
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("ошибка чтения ответа: %w", err)
		}
		return line, nil
	}

	d.con.Line(prompt, console.Yellow, false)
	if d.queue == nil {
		return "", nil
	}
	line, _ := d.queue.Pop()
	return line, nil
}

// OK показывает сообщение и всегда возвращает true
func (d *Dialog) OK(heading, message string) (bool, error) {
	d.con.Heading(heading, false, console.Yellow)
	if _, err := d.answer(fmt.Sprintf("%s. OK?", message)); err != nil {
		return false, err
	}
	return true, nil
}

// YesNo задает вопрос. В неинтерактивном режиме ответ всегда "да"
func (d *Dialog) YesNo(heading, message, noLabel, yesLabel string) (bool, error) {
	if noLabel == "" {
		noLabel = "No"
	}
	if yesLabel == "" {
		yesLabel = "Yes"
	}

	d.con.Heading(heading, false, console.Yellow)
	question := fmt.Sprintf("%s %s or %s:", message, hotkey(yesLabel), hotkey(noLabel))

	if !d.con.Interactive() {
		d.con.Line(question, console.Yellow, false)
		return true, nil
	}

	reply, err := d.answer(question)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(yesLabel), strings.ToLower(reply)), nil
}

func hotkey(label string) string {
	r := []rune(label)
	return fmt.Sprintf("[%s]%s", string(r[:1]), string(r[1:]))
}

// Select показывает список и возвращает выбранный индекс или -1
func (d *Dialog) Select(heading string, options []string) (int, error) {
	selected, err := d.choose(heading, options, "What item to select")
	if err != nil || len(selected) == 0 {
		return -1, err
	}
	return selected[0], nil
}

// MultiSelect показывает список и возвращает выбранные индексы или nil
func (d *Dialog) MultiSelect(heading string, options []string) ([]int, error) {
	return d.choose(heading, options, "What items to select")
}

// ContextMenu работает как Select без заголовка
func (d *Dialog) ContextMenu(options []string) (int, error) {
	return d.Select("Context menu", options)
}

func (d *Dialog) choose(heading string, options []string, question string) ([]int, error) {
	d.con.Heading(heading, false, console.Yellow)

	indices := make([]string, len(options))
	for i, opt := range options {
		d.con.Printf("%d ) %s", i, opt)
		indices[i] = strconv.Itoa(i)
	}
	d.con.Line(separator, console.Yellow, false)

	reply, err := d.answer(fmt.Sprintf("%s (%s)?", question, strings.Join(indices, ",")))
	if err != nil {
		return nil, err
	}
	return ParseSelection(reply, len(options))
}

// ParseSelection разбирает список индексов через запятую. Пустая строка дает nil
func ParseSelection(reply string, count int) ([]int, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, nil
	}

	var selected []int
	for _, part := range strings.Split(reply, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("ошибка разбора выбора %q: %w", part, err)
		}
		if idx < 0 || idx >= count {
			return nil, fmt.Errorf("индекс %d вне диапазона 0..%d", idx, count-1)
		}
		selected = append(selected, idx)
	}
	return selected, nil
}

// Input запрашивает строку. Пустой ответ возвращает значение по умолчанию
func (d *Dialog) Input(heading, defaultText string, inputType int) (string, error) {
	d.con.Heading(heading, false, console.Yellow)

	prompt := "Input"
	if defaultText != "" {
		prompt = fmt.Sprintf("Input [%s]", defaultText)
	}
	if inputType == InputPassword {
		prompt += " (hidden)"
	}

	reply, err := d.answer(prompt + ":")
	if err != nil {
		return "", err
	}
	if reply == "" {
		return defaultText, nil
	}
	return reply, nil
}

// Numeric запрашивает число в виде строки
func (d *Dialog) Numeric(heading, defaultText string) (string, error) {
	return d.Input(heading, defaultText, InputNumeric)
}

// Browse возвращает путь по умолчанию
func (d *Dialog) Browse(heading, defaultPath string) string {
	d.con.Heading(heading, false, console.Yellow)
	d.con.Line(fmt.Sprintf("Browse: %s", defaultPath), console.Yellow, false)
	return defaultPath
}

// TextViewer печатает текст
func (d *Dialog) TextViewer(heading, text string) {
	d.con.Heading(heading, false, console.Yellow)
	d.con.Println(d.con.ReplaceColors(text))
	d.con.Line(separator, console.Yellow, false)
}

// Notification печатает уведомление цветом значка
func (d *Dialog) Notification(heading, message, icon string) {
	color := NotificationColor(icon)
	d.con.Heading(heading, true, color)
	d.con.Line(message, color, false)
	d.con.Line(separator, color, false)
}

// NotificationColor цвет уведомления по значку
func NotificationColor(icon string) console.Color {
	switch icon {
	case NotificationWarning:
		return console.Yellow
	case NotificationError:
		return console.Red
	default:
		return console.White
	}
}
