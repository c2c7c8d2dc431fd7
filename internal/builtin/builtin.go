// Package builtin разбирает и выполняет встроенные функции вида Name(param1,param2)
package builtin

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/hazadus/go-sake/internal/console"
)

var (
	ErrEmptyCommand   = errors.New("пустая встроенная функция")
	ErrNotImplemented = errors.New("встроенная функция не реализована")
	ErrInvalidName    = errors.New("некорректное имя встроенной функции")
	ErrNilHandler     = errors.New("обработчик не задан")
	ErrDuplicate      = errors.New("встроенная функция уже зарегистрирована")
)

var commandRe = regexp.MustCompile(`^([^(\s]*)(?:\((.*)\))?`)

// Call разобранный вызов встроенной функции
type Call struct {
	Name   string
	Params []string
}

// Parse разбирает строку вызова. Параметры разделяются запятыми,
// пробелы по краям и кавычки отбрасываются
func Parse(command string) (Call, error) {
	m := commandRe.FindStringSubmatch(strings.TrimSpace(command))
	if m == nil || m[1] == "" {
		return Call{}, fmt.Errorf("%q: %w", command, ErrEmptyCommand)
	}

	call := Call{Name: m[1]}
	if m[2] != "" {
		for _, p := range strings.Split(m[2], ",") {
			call.Params = append(call.Params, unquote(strings.TrimSpace(p)))
		}
	}
	return call, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Handler выполняет встроенную функцию с разобранными параметрами
type Handler func(ctx context.Context, params []string) error

// Registry реестр встроенных функций, имена сравниваются без учета регистра
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	names    map[string]string
	con      *console.Console
}

// NewRegistry создает пустой реестр
func NewRegistry(con *console.Console) *Registry {
	if con == nil {
		con = console.New(console.Options{})
	}
	return &Registry{
		handlers: make(map[string]Handler),
		names:    make(map[string]string),
		con:      con,
	}
}

// Register регистрирует обработчик функции
func (r *Registry) Register(name string, h Handler) error {
	if name == "" || strings.ContainsAny(name, "() \t") {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if h == nil {
		return fmt.Errorf("%s: %w", name, ErrNilHandler)
	}

	key := strings.ToLower(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[key]; ok {
		return fmt.Errorf("%s: %w", name, ErrDuplicate)
	}
	r.handlers[key] = h
	r.names[key] = name
	return nil
}

// Lookup ищет обработчик по имени
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[strings.ToLower(name)]
	return h, ok
}

// Names зарегистрированные функции в алфавитном порядке
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.names))
	for _, n := range r.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Execute разбирает и выполняет команду
func (r *Registry) Execute(ctx context.Context, command string) error {
	call, err := Parse(command)
	if err != nil {
		return err
	}

	h, ok := r.Lookup(call.Name)
	if !ok {
		r.con.Line(fmt.Sprintf("Executebuiltin: %s is not implemented", command), console.Red, false)
		return fmt.Errorf("%s: %w", call.Name, ErrNotImplemented)
	}

	if err := h(ctx, call.Params); err != nil {
		return fmt.Errorf("ошибка выполнения %s: %w", call.Name, err)
	}
	return nil
}
