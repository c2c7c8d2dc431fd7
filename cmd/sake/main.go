package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazadus/go-sake/internal/config"
	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/kodi"
	"github.com/hazadus/go-sake/internal/logger"
	"github.com/hazadus/go-sake/internal/metadata"
	"github.com/hazadus/go-sake/internal/script"
)

// Application общее состояние команд: конфигурация, потоки ввода-вывода и каталог дополнения
type Application struct {
	Config *config.Config
	Logger *logger.Logger
	// Cwd каталог дополнения, пустая строка означает текущий
	Cwd string
	Out io.Writer
	In  io.Reader
}

// newApplication создает приложение со стандартными потоками
func newApplication() *Application {
	return &Application{
		Out: os.Stdout,
		In:  os.Stdin,
	}
}

// loadConfig загружает конфигурацию и применяет флаги командной строки
func (app *Application) loadConfig(path string, flags globalFlags) error {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	flags.apply(cfg)

	app.Config = cfg
	app.Logger = logger.New(cfg.Log)
	logger.SetGlobal(app.Logger)
	return nil
}

// openHost создает окружение дополнения. Вызывающий закрывает его через Close
func (app *Application) openHost(ctx context.Context) (*kodi.Host, error) {
	cfg := app.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := app.Logger
	if log == nil {
		log = logger.Global()
	}

	con := console.New(console.Options{
		Out:         app.Out,
		In:          app.In,
		Verbose:     cfg.Verbose,
		Interactive: cfg.Interactive,
	})

	h, err := kodi.New(ctx, kodi.Options{
		Config:  cfg,
		Cwd:     app.Cwd,
		Console: con,
		Logger:  log,
		Runner:  script.New(log),
		YouTube: youtubeFetcher(cfg.YouTube),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания окружения дополнения: %w", err)
	}
	return h, nil
}

// youtubeFetcher клиент YouTube для GetVideoInfoTag, nil если запросы выключены
func youtubeFetcher(cfg config.YouTubeConfig) metadata.VideoFetcher {
	if !cfg.Enabled {
		return nil
	}
	return metadata.NewYouTubeClient(&http.Client{Timeout: cfg.Timeout})
}

// withHost открывает окружение на время fn
func (app *Application) withHost(ctx context.Context, fn func(h *kodi.Host) error) error {
	h, err := app.openHost(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			h.Logger().Warn("ошибка закрытия окружения", "error", err)
		}
	}()
	return fn(h)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApplication()
	if err := app.createRootCommand(ctx).Execute(); err != nil {
		stop()
		os.Exit(1)
	}
}
