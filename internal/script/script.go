// Package script выполняет точки входа дополнений: JavaScript через goja и Lua через gopher-lua.
// Скрипту доступны глобальные модули xbmc, xbmcgui, xbmcplugin, xbmcaddon, xbmcvfs,
// inputstreamhelper и sys.argv
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hazadus/go-sake/internal/kodi"
	"github.com/hazadus/go-sake/internal/logger"
)

// ErrUnsupported расширение точки входа не поддерживается
var ErrUnsupported = errors.New("неподдерживаемый тип скрипта")

// engine выполняет исходный код скрипта с привязанными модулями
type engine interface {
	run(ctx context.Context, s *session, name, source string) error
}

var engines = map[string]func() engine{
	".js":  newJSEngine,
	".lua": newLuaEngine,
}

// Supported сообщает, может ли Runner выполнить файл
func Supported(path string) bool {
	_, ok := engines[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Runner исполнитель скриптов дополнений, реализует kodi.Runner
type Runner struct {
	log *logger.Logger
}

// New создает исполнитель. log может быть nil
func New(log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Global()
	}
	return &Runner{log: log.With("component", "script")}
}

// Run выполняет entry с sys.argv = argv
func (r *Runner) Run(ctx context.Context, h *kodi.Host, entry string, argv []string) error {
	newEngine, ok := engines[strings.ToLower(filepath.Ext(entry))]
	if !ok {
		return fmt.Errorf("%s: %w", entry, ErrUnsupported)
	}

	source, err := os.ReadFile(entry)
	if err != nil {
		return fmt.Errorf("ошибка чтения скрипта: %w", err)
	}

	s := newSession(ctx, h, argv, r.log)
	s.enter()
	defer s.leave()
	// Обратные вызовы, ждущие VM, после close ничего не выполняют
	defer s.close()

	r.log.Debug("запуск скрипта", "entry", entry, "argv", argv)
	if err := newEngine().run(ctx, s, filepath.Base(entry), string(source)); err != nil {
		return fmt.Errorf("ошибка выполнения %s: %w", filepath.Base(entry), err)
	}
	return nil
}

// session состояние одного запуска. mu принадлежит тому, кто сейчас исполняет код
// в VM: основному скрипту или обратному вызову плеера
type session struct {
	ctx  context.Context
	h    *kodi.Host
	argv []string
	log  *logger.Logger

	mu      sync.Mutex
	stateMu sync.Mutex
	done    bool
	closers []func()
}

func newSession(ctx context.Context, h *kodi.Host, argv []string, log *logger.Logger) *session {
	return &session{ctx: ctx, h: h, argv: argv, log: log}
}

func (s *session) enter() { s.mu.Lock() }

func (s *session) leave() { s.mu.Unlock() }

// outside выполняет блокирующую операцию, отпустив VM для обратных вызовов
func (s *session) outside(fn func()) {
	s.mu.Unlock()
	defer s.mu.Lock()
	fn()
}

// callback оборачивает вызов в VM так, чтобы он не пересекался с основным скриптом
func (s *session) callback(call func(args ...any) (any, error)) Callback {
	return func(args ...any) (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.finished() {
			return nil, nil
		}
		return call(args...)
	}
}

func (s *session) onClose(fn func()) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.closers = append(s.closers, fn)
}

func (s *session) finished() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.done
}

func (s *session) close() {
	s.stateMu.Lock()
	s.done = true
	closers := s.closers
	s.closers = nil
	s.stateMu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}

// modules все модули, доступные скрипту
func (s *session) modules() []Module {
	return []Module{
		s.xbmcModule(),
		s.guiModule(),
		s.pluginModule(),
		s.addonModule(),
		s.vfsModule(),
		s.inputstreamModule(),
	}
}
