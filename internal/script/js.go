package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// jsEngine привязывает модули к goja. Конструкторы Kodi вызываются как фабрики:
// xbmcgui.ListItem("label"), без new
type jsEngine struct {
	vm *goja.Runtime
	s  *session
	// Один и тот же объект API всегда отображается в один объект JS и обратно
	wrapped map[*Object]*goja.Object
	objects map[*goja.Object]*Object
}

func newJSEngine() engine {
	return &jsEngine{
		wrapped: make(map[*Object]*goja.Object),
		objects: make(map[*goja.Object]*Object),
	}
}

func (e *jsEngine) run(ctx context.Context, s *session, name, source string) error {
	vm := goja.New()
	e.vm, e.s = vm, s

	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	for _, m := range s.modules() {
		if err := vm.Set(m.Name, e.module(m)); err != nil {
			return fmt.Errorf("ошибка регистрации модуля %s: %w", m.Name, err)
		}
	}

	sys := vm.NewObject()
	_ = sys.Set("argv", e.toJS(s.argv))
	_ = vm.Set("sys", sys)

	printLine := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		s.h.Console().Println(strings.Join(parts, " "))
		return goja.Undefined()
	}
	console := vm.NewObject()
	_ = console.Set("log", printLine)
	_ = console.Set("info", printLine)
	_ = console.Set("warn", printLine)
	_ = console.Set("error", printLine)
	_ = vm.Set("console", console)
	_ = vm.Set("print", printLine)

	_, err := vm.RunScript(name, source)
	if err == nil {
		return nil
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (e *jsEngine) module(m Module) *goja.Object {
	obj := e.vm.NewObject()
	for name, value := range m.Constants {
		_ = obj.Set(name, e.toJS(value))
	}
	for name, fn := range m.Functions {
		_ = obj.Set(name, e.native(fn))
	}
	return obj
}

// native оборачивает функцию API. Ошибка Go становится исключением JS
func (e *jsEngine) native(fn Func) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		args := make(Args, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = e.toGo(arg)
		}
		result, err := fn(args)
		if err != nil {
			panic(e.vm.NewGoError(err))
		}
		return e.toJS(result)
	}
}

func (e *jsEngine) wrap(o *Object) *goja.Object {
	if obj, ok := e.wrapped[o]; ok {
		return obj
	}
	obj := e.vm.NewObject()
	for name, fn := range o.Methods {
		_ = obj.Set(name, e.native(fn))
	}
	_ = obj.Set("toString", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(o.String())
	})
	e.wrapped[o] = obj
	e.objects[obj] = o
	return obj
}

func (e *jsEngine) toJS(v any) goja.Value {
	switch val := v.(type) {
	case nil:
		return goja.Null()
	case goja.Value:
		return val
	case *Object:
		return e.wrap(val)
	case []any:
		items := make([]any, len(val))
		for i := range val {
			items[i] = e.toJS(val[i])
		}
		return e.vm.NewArray(items...)
	case []string:
		items := make([]any, len(val))
		for i := range val {
			items[i] = val[i]
		}
		return e.vm.NewArray(items...)
	case []int:
		items := make([]any, len(val))
		for i := range val {
			items[i] = val[i]
		}
		return e.vm.NewArray(items...)
	case map[string]any:
		obj := e.vm.NewObject()
		for k, item := range val {
			_ = obj.Set(k, e.toJS(item))
		}
		return obj
	default:
		return e.vm.ToValue(val)
	}
}

func (e *jsEngine) toGo(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}

	obj, ok := v.(*goja.Object)
	if !ok {
		return v.Export()
	}
	if o, ok := e.objects[obj]; ok {
		return o
	}
	if fn, ok := goja.AssertFunction(v); ok {
		return e.s.callback(func(args ...any) (any, error) {
			jsArgs := make([]goja.Value, len(args))
			for i := range args {
				jsArgs[i] = e.toJS(args[i])
			}
			result, err := fn(goja.Undefined(), jsArgs...)
			if err != nil {
				return nil, err
			}
			return e.toGo(result), nil
		})
	}

	if obj.ClassName() == "Array" {
		n := int(obj.Get("length").ToInteger())
		list := make([]any, n)
		for i := 0; i < n; i++ {
			list[i] = e.toGo(obj.Get(fmt.Sprint(i)))
		}
		return list
	}

	m := make(map[string]any)
	for _, key := range obj.Keys() {
		m[key] = e.toGo(obj.Get(key))
	}
	return m
}
