package script

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Func функция API, доступная скрипту. Аргументы уже приведены к значениям Go
type Func func(args Args) (any, error)

// Callback функция скрипта, переданная в API
type Callback func(args ...any) (any, error)

// Object объект API: значение Go и его методы
type Object struct {
	Class   string
	Value   any
	Methods map[string]Func
}

func (o *Object) String() string {
	if s, ok := o.Value.(fmt.Stringer); ok {
		return s.String()
	}
	return o.Class
}

// Module глобальный модуль скрипта (xbmc, xbmcgui, ...)
type Module struct {
	Name      string
	Functions map[string]Func
	Constants map[string]any
}

// Names отсортированные имена функций модуля
func (m Module) Names() []string {
	names := make([]string, 0, len(m.Functions))
	for name := range m.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Args позиционные аргументы вызова. Значения: nil, bool, int64, float64, string,
// []any, map[string]any, *Object, Callback
type Args []any

func (a Args) get(i int) any {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// Len количество аргументов
func (a Args) Len() int { return len(a) }

// String строковый аргумент, def если он не передан
func (a Args) String(i int, def string) string {
	switch v := a.get(i).(type) {
	case nil:
		return def
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *Object:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Int целочисленный аргумент
func (a Args) Int(i int, def int) int {
	switch v := a.get(i).(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Float числовой аргумент
func (a Args) Float(i int, def float64) float64 {
	switch v := a.get(i).(type) {
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// Bool логический аргумент. Числа и строки трактуются как в Python
func (a Args) Bool(i int, def bool) bool {
	switch v := a.get(i).(type) {
	case nil:
		return def
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != "" && !strings.EqualFold(v, "false")
	}
	return true
}

// Map аргумент-словарь, nil если передано другое
func (a Args) Map(i int) map[string]any {
	m, _ := a.get(i).(map[string]any)
	return m
}

// List аргумент-список
func (a Args) List(i int) []any {
	l, _ := a.get(i).([]any)
	return l
}

// Strings список строк
func (a Args) Strings(i int) []string {
	list := a.List(i)
	out := make([]string, len(list))
	for j := range list {
		out[j] = Args(list).String(j, "")
	}
	return out
}

// StringMap словарь со строковыми значениями
func (a Args) StringMap(i int) map[string]string {
	m := a.Map(i)
	out := make(map[string]string, len(m))
	for k := range m {
		out[k] = Args{m[k]}.String(0, "")
	}
	return out
}

// Object объект API
func (a Args) Object(i int) *Object {
	o, _ := a.get(i).(*Object)
	return o
}

// Callback функция скрипта
func (a Args) Callback(i int) Callback {
	c, _ := a.get(i).(Callback)
	return c
}

// value возвращает значение объекта API нужного типа
func value[T any](a Args, i int) (T, bool) {
	var zero T
	o := a.Object(i)
	if o == nil {
		return zero, false
	}
	v, ok := o.Value.(T)
	return v, ok
}
