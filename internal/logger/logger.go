// Package logger содержит обертку над slog для диагностического журнала эмулятора
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config содержит настройки журнала
type Config struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	Output string `yaml:"output"` // stdout, stderr или путь к файлу
}

// Logger оборачивает slog.Logger
type Logger struct {
	*slog.Logger
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// New создает журнал по конфигурации
func New(cfg Config) *Logger {
	return NewWithWriter(cfg, outputFor(cfg.Output))
}

// NewWithWriter создает журнал, пишущий в переданный writer
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Discard возвращает журнал, который ничего не пишет
func Discard() *Logger {
	return NewWithWriter(Config{Level: "error"}, io.Discard)
}

// Global возвращает глобальный журнал
func Global() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}
	return New(Config{Level: "warn", Output: "stderr"})
}

// SetGlobal устанавливает глобальный журнал
func SetGlobal(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// With возвращает журнал с дополнительными атрибутами
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func outputFor(output string) io.Writer {
	switch output {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	}

	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		// Не удалось открыть файл - пишем в stderr
		return os.Stderr
	}
	return f
}
