package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/logger"
)

// FallbackResponse ответ, если ни обработчик, ни заготовка не нашлись
const FallbackResponse = `{"id":1,"jsonrpc":"2.0","result":"OK"}`

const envelope = `{"id":0,"jsonrpc":"2.0"}`

// DispatcherOptions параметры диспетчера
type DispatcherOptions struct {
	Registry *Registry
	StubDir  string // каталог с заготовками ответов, KODI_STUB_RPC_RESPONSES
	Console  *console.Console
	Logger   *logger.Logger
}

// Dispatcher выполняет запросы JSON-RPC
type Dispatcher struct {
	registry *Registry
	stubDir  string
	con      *console.Console
	log      *logger.Logger
}

// NewDispatcher создает диспетчер
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Console == nil {
		opts.Console = console.New(console.Options{})
	}
	if opts.Logger == nil {
		opts.Logger = logger.Global()
	}
	return &Dispatcher{
		registry: opts.Registry,
		stubDir:  opts.StubDir,
		con:      opts.Console,
		log:      opts.Logger.With("component", "jsonrpc"),
	}
}

// Registry реестр методов диспетчера
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Execute выполняет запрос и возвращает ответ в виде строки JSON
func (d *Dispatcher) Execute(ctx context.Context, request string) string {
	if !gjson.Valid(request) {
		IncRequest("", OutcomeError)
		return errorResponse("null", &Error{Code: CodeParseError, Message: "Parse error"})
	}

	req := gjson.Parse(request)
	method := req.Get("method").String()
	id := "0"
	if v := req.Get("id"); v.Exists() {
		id = v.Raw
	}
	if !req.IsObject() || method == "" {
		IncRequest("", OutcomeError)
		return errorResponse(id, &Error{Code: CodeInvalidRequest, Message: "Invalid Request"})
	}

	d.log.Debug("запрос JSON-RPC", "method", method, "id", id)

	if h, ok := d.registry.Lookup(method); ok {
		var params json.RawMessage
		if p := req.Get("params"); p.Exists() {
			params = json.RawMessage(p.Raw)
		}
		return d.call(ctx, h, method, id, params)
	}

	return d.stub(req, method)
}

func (d *Dispatcher) call(ctx context.Context, h Handler, method, id string, params json.RawMessage) string {
	result, err := h(ctx, params)
	if err != nil {
		IncRequest(method, OutcomeError)
		d.log.Warn("ошибка обработки JSON-RPC", "method", method, "error", err)

		var rpcErr *Error
		if !errors.As(err, &rpcErr) {
			rpcErr = &Error{Code: CodeInternalError, Message: err.Error()}
		}
		return errorResponse(id, rpcErr)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		IncRequest(method, OutcomeError)
		return errorResponse(id, &Error{Code: CodeInternalError, Message: fmt.Sprintf("ошибка кодирования результата: %v", err)})
	}

	IncRequest(method, OutcomeHandled)
	return response(id, "result", string(raw))
}

// stub ищет заготовку ответа в файле <каталог>/<метод>.json
func (d *Dispatcher) stub(req gjson.Result, method string) string {
	if d.stubDir == "" {
		IncRequest(method, OutcomeFallback)
		d.con.Line("Warning: Could not find JSON Response folder. Use the environment variable KODI_STUB_RPC_RESPONSES to set one.", console.Red, false)
		return FallbackResponse
	}

	path := filepath.Join(d.stubDir, strings.ToLower(method)+".json")
	content, err := os.ReadFile(path)
	if err != nil || !gjson.ValidBytes(content) {
		IncRequest(method, OutcomeFallback)
		d.con.Line(fmt.Sprintf("Warning: No JSON Response found for %s in %s", method, d.stubDir), console.Red, false)
		return FallbackResponse
	}

	stub := gjson.ParseBytes(content)
	if stub.IsObject() {
		IncRequest(method, OutcomeStub)
		return stub.Get("@ugly").Raw
	}

	if resp, ok := matchStub(stub, req); ok {
		IncRequest(method, OutcomeStub)
		return resp
	}

	IncRequest(method, OutcomeFallback)
	d.con.Line(fmt.Sprintf("Warning: No matching JSON Response for %s in %s", method, path), console.Red, false)
	return FallbackResponse
}

// matchStub выбирает из массива заготовок ответ с совпадающими методом и параметрами.
// Запрос без параметров не совпадает ни с чем.
func matchStub(stubs, req gjson.Result) (string, bool) {
	params := req.Get("params")
	if !truthy(params) {
		return "", false
	}
	method := req.Get("method").String()
	want := params.Value()

	var found string
	stubs.ForEach(func(_, s gjson.Result) bool {
		if s.Get("request.method").String() != method {
			return true
		}
		if !reflect.DeepEqual(s.Get("request.params").Value(), want) {
			return true
		}
		found = s.Get("response|@ugly").Raw
		return false
	})
	if found == "" {
		return "", false
	}
	return found, true
}

func truthy(v gjson.Result) bool {
	switch {
	case !v.Exists():
		return false
	case v.IsObject():
		return len(v.Map()) > 0
	case v.IsArray():
		return len(v.Array()) > 0
	default:
		return v.Bool() || v.String() != ""
	}
}

func response(id, key, raw string) string {
	out, _ := sjson.SetRaw(envelope, "id", id)
	out, _ = sjson.SetRaw(out, key, raw)
	return out
}

func errorResponse(id string, e *Error) string {
	raw, err := json.Marshal(e)
	if err != nil {
		raw = []byte(fmt.Sprintf(`{"code":%d,"message":"Internal error"}`, CodeInternalError))
	}
	return response(id, "error", string(raw))
}
