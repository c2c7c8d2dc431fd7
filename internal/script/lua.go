package script

import (
	"context"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// luaEngine привязывает модули к gopher-lua. Методы объектов вызываются
// и как obj:method(), и как obj.method()
type luaEngine struct {
	L       *lua.LState
	s       *session
	wrapped map[*Object]*lua.LTable
	objects map[*lua.LTable]*Object
}

func newLuaEngine() engine {
	return &luaEngine{
		wrapped: make(map[*Object]*lua.LTable),
		objects: make(map[*lua.LTable]*Object),
	}
}

func (e *luaEngine) run(ctx context.Context, s *session, name, source string) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)
	e.L, e.s = L, s

	for _, m := range s.modules() {
		L.SetGlobal(m.Name, e.module(m))
	}

	// Индексы sys.argv совпадают с Python: argv[0] это URL, argv[1] дескриптор
	argv := L.NewTable()
	for i, arg := range s.argv {
		argv.RawSetInt(i, lua.LString(arg))
	}
	sys := L.NewTable()
	L.SetField(sys, "argv", argv)
	L.SetGlobal("sys", sys)
	L.SetGlobal("arg", argv)

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		s.h.Console().Println(strings.Join(parts, "\t"))
		return 0
	}))

	fn, err := L.Load(strings.NewReader(source), name)
	if err != nil {
		return fmt.Errorf("ошибка компиляции: %w", err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (e *luaEngine) module(m Module) *lua.LTable {
	t := e.L.NewTable()
	for name, value := range m.Constants {
		e.L.SetField(t, name, e.toLua(value))
	}
	for name, fn := range m.Functions {
		e.L.SetField(t, name, e.L.NewFunction(e.native(fn, nil)))
	}
	return t
}

// native оборачивает функцию API. self задан для методов: при вызове через
// двоеточие первый аргумент отбрасывается
func (e *luaEngine) native(fn Func, self *lua.LTable) lua.LGFunction {
	return func(L *lua.LState) int {
		first := 1
		if self != nil && L.GetTop() >= 1 && L.Get(1) == lua.LValue(self) {
			first = 2
		}
		args := make(Args, 0, L.GetTop())
		for i := first; i <= L.GetTop(); i++ {
			args = append(args, e.toGo(L.Get(i)))
		}

		result, err := fn(args)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		L.Push(e.toLua(result))
		return 1
	}
}

func (e *luaEngine) wrap(o *Object) *lua.LTable {
	if t, ok := e.wrapped[o]; ok {
		return t
	}
	t := e.L.NewTable()
	for name, fn := range o.Methods {
		e.L.SetField(t, name, e.L.NewFunction(e.native(fn, t)))
	}
	mt := e.L.NewTable()
	e.L.SetField(mt, "__tostring", e.L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(o.String()))
		return 1
	}))
	e.L.SetMetatable(t, mt)

	e.wrapped[o] = t
	e.objects[t] = o
	return t
}

func (e *luaEngine) toLua(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case *Object:
		return e.wrap(val)
	case []any:
		t := e.L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, e.toLua(item))
		}
		return t
	case []string:
		t := e.L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, lua.LString(item))
		}
		return t
	case []int:
		t := e.L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, lua.LNumber(item))
		}
		return t
	case map[string]any:
		t := e.L.NewTable()
		for k, item := range val {
			t.RawSetString(k, e.toLua(item))
		}
		return t
	case map[string]string:
		t := e.L.NewTable()
		for k, item := range val {
			t.RawSetString(k, lua.LString(item))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

func (e *luaEngine) toGo(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if o, ok := e.objects[v]; ok {
			return o
		}
		return e.tableToGo(v, make(map[*lua.LTable]bool))
	case *lua.LFunction:
		return e.callback(v)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

func (e *luaEngine) callback(fn *lua.LFunction) Callback {
	return e.s.callback(func(args ...any) (any, error) {
		params := make([]lua.LValue, len(args))
		for i := range args {
			params[i] = e.toLua(args[i])
		}
		if err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, params...); err != nil {
			return nil, err
		}
		ret := e.L.Get(-1)
		e.L.Pop(1)
		return e.toGo(ret), nil
	})
}

// tableToGo превращает таблицу с ключами 1..n в []any, остальные в map[string]any
func (e *luaEngine) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	if visited[t] {
		return nil
	}
	visited[t] = true

	convert := func(lv lua.LValue) any {
		if nested, ok := lv.(*lua.LTable); ok {
			if o, ok := e.objects[nested]; ok {
				return o
			}
			return e.tableToGo(nested, visited)
		}
		return e.toGo(lv)
	}

	isArray := true
	maxN, count := 0, 0
	t.ForEach(func(k, _ lua.LValue) {
		count++
		if kn, ok := k.(lua.LNumber); ok {
			n := int(kn)
			if float64(n) == float64(kn) && n > 0 {
				maxN = max(maxN, n)
				return
			}
		}
		isArray = false
	})

	if isArray && maxN > 0 && count == maxN {
		list := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			list[i-1] = convert(t.RawGetInt(i))
		}
		return list
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = convert(v)
	})
	return m
}
