// Package keyboard содержит очередь заранее заданного ввода и эмуляцию экранной клавиатуры
package keyboard

import (
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hazadus/go-sake/internal/console"
)

// SeedSeparator разделяет несколько ответов в KODI_STUB_INPUT
const SeedSeparator = ";"

// Queue очередь строк ввода для неинтерактивного режима
type Queue struct {
	mu    sync.Mutex
	id    string
	seed  string
	items []string
}

// NewQueue создает очередь и заполняет ее из seed
func NewQueue(seed string) *Queue {
	q := &Queue{id: uuid.NewString(), seed: seed}
	q.Reset()
	return q
}

// ID идентификатор очереди
func (q *Queue) ID() string { return q.id }

// Push добавляет строку в конец очереди
func (q *Queue) Push(line string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, line)
}

// Pop извлекает первую строку. false если очередь пуста
func (q *Queue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return "", false
	}
	line := q.items[0]
	q.items = q.items[1:]
	return line, true
}

// Clear очищает очередь
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// Reset очищает очередь и заполняет ее исходными значениями
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = nil
	if q.seed == "" {
		return
	}
	for _, line := range strings.Split(q.seed, SeedSeparator) {
		q.items = append(q.items, line)
	}
}

// Len количество строк в очереди
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Keyboard экранная клавиатура Kodi
type Keyboard struct {
	queue     *Queue
	console   *console.Console
	text      string
	heading   string
	hidden    bool
	confirmed bool
}

// New создает клавиатуру с текстом по умолчанию и заголовком
func New(queue *Queue, con *console.Console, defaultText, heading string, hidden bool) *Keyboard {
	return &Keyboard{
		queue:   queue,
		console: con,
		text:    defaultText,
		heading: heading,
		hidden:  hidden,
	}
}

// DoModal показывает клавиатуру. В неинтерактивном режиме ответ берется из очереди,
// в интерактивном читается строка ввода
func (k *Keyboard) DoModal() error {
	if !k.console.Interactive() {
		k.confirmed = true
		if line, ok := k.queue.Pop(); ok {
			k.text = line
		}
		k.console.Line("Keyboard input: "+k.text, console.Blue, true)
		return nil
	}

	k.console.Heading(k.heading, false, console.Yellow)
	line, err := k.console.ReadInput("Input ["+k.text+"]:", console.Yellow)
	if err != nil {
		k.confirmed = false
		if errors.Is(err, io.EOF) {
			k.text = ""
			return nil
		}
		return err
	}

	k.confirmed = true
	if line != "" {
		k.text = line
	}
	return nil
}

// GetText введенный текст
func (k *Keyboard) GetText() string { return k.text }

// IsConfirmed подтвержден ли ввод
func (k *Keyboard) IsConfirmed() bool { return k.confirmed }

// SetDefault задает текст по умолчанию
func (k *Keyboard) SetDefault(text string) { k.text = text }

// SetHeading задает заголовок
func (k *Keyboard) SetHeading(heading string) { k.heading = heading }

// SetHiddenInput скрывает ввод
func (k *Keyboard) SetHiddenInput(hidden bool) { k.hidden = hidden }

// IsHidden скрыт ли ввод
func (k *Keyboard) IsHidden() bool { return k.hidden }
