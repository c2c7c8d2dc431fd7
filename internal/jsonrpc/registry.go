// Package jsonrpc реализует JSON-RPC API эмулятора: реестр методов, диспетчер,
// HTTP и WebSocket сервер
package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var (
	ErrInvalidMethodName = errors.New("некорректное имя метода")
	ErrNilHandler        = errors.New("обработчик не задан")
	ErrDuplicateMethod   = errors.New("метод уже зарегистрирован")
)

var methodName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*\.[A-Za-z][A-Za-z0-9]*$`)

// Handler обрабатывает вызов метода. params содержит сырой JSON или nil.
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

type entry struct {
	name    string
	handler Handler
}

// Registry реестр методов JSON-RPC, имена сравниваются без учета регистра
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]entry
}

// NewRegistry создает пустой реестр
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]entry)}
}

// Register регистрирует обработчик метода вида Namespace.Method
func (r *Registry) Register(name string, h Handler) error {
	if !methodName.MatchString(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidMethodName)
	}
	if h == nil {
		return fmt.Errorf("%s: %w", name, ErrNilHandler)
	}

	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[key]; ok {
		return fmt.Errorf("%s: %w", name, ErrDuplicateMethod)
	}
	r.handlers[key] = entry{name: name, handler: h}
	return nil
}

// Register регистрирует типизированный обработчик: params декодируются в P
func Register[P any](r *Registry, name string, fn func(ctx context.Context, params P) (any, error)) error {
	if fn == nil {
		return r.Register(name, nil)
	}
	return r.Register(name, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var params P
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &params); err != nil {
				return nil, &Error{Code: CodeInvalidParams, Message: "Invalid params", Data: err.Error()}
			}
		}
		return fn(ctx, params)
	})
}

// Lookup ищет обработчик по имени метода
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.handlers[strings.ToLower(name)]
	return e.handler, ok
}

// Methods зарегистрированные методы в алфавитном порядке
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for _, e := range r.handlers {
		names = append(names, e.name)
	}
	sort.Strings(names)
	return names
}

// Коды ошибок JSON-RPC 2.0
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Error ошибка, которая попадает в ответ как есть
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("JSON-RPC ошибка %d: %s", e.Code, e.Message)
}

// Version версия API, которую сообщает JSONRPC.Version
var Version = map[string]int{"major": 12, "minor": 0, "patch": 0}

// RegisterBuiltins регистрирует служебные методы пространства JSONRPC
func RegisterBuiltins(r *Registry) error {
	methods := map[string]Handler{
		"JSONRPC.Ping": func(context.Context, json.RawMessage) (any, error) {
			return "pong", nil
		},
		"JSONRPC.Version": func(context.Context, json.RawMessage) (any, error) {
			return map[string]any{"version": Version}, nil
		},
		"JSONRPC.Introspect": func(context.Context, json.RawMessage) (any, error) {
			return map[string]any{"methods": r.Methods()}, nil
		},
	}
	for name, h := range methods {
		if err := r.Register(name, h); err != nil {
			return err
		}
	}
	return nil
}
