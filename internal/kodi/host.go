// Package kodi собирает окружение эмулятора в один объект Host: пути, консоль,
// очередь ввода, плеер, реестр листингов, настройки, JSON-RPC, встроенные функции и VFS
package kodi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/hazadus/go-sake/internal/addon"
	"github.com/hazadus/go-sake/internal/builtin"
	"github.com/hazadus/go-sake/internal/config"
	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/gui"
	"github.com/hazadus/go-sake/internal/jsonrpc"
	"github.com/hazadus/go-sake/internal/keyboard"
	"github.com/hazadus/go-sake/internal/logger"
	"github.com/hazadus/go-sake/internal/metadata"
	"github.com/hazadus/go-sake/internal/paths"
	"github.com/hazadus/go-sake/internal/player"
	"github.com/hazadus/go-sake/internal/plugin"
	"github.com/hazadus/go-sake/internal/s3"
	"github.com/hazadus/go-sake/internal/streaming"
	"github.com/hazadus/go-sake/internal/vfs"
)

// backgroundTimeout ограничивает ожидание фоновых запусков при закрытии
const backgroundTimeout = 2 * time.Second

// Runner выполняет точку входа дополнения с заданными sys.argv
type Runner interface {
	Run(ctx context.Context, h *Host, entry string, argv []string) error
}

// RunnerFunc адаптер функции к Runner
type RunnerFunc func(ctx context.Context, h *Host, entry string, argv []string) error

// Run вызывает f
func (f RunnerFunc) Run(ctx context.Context, h *Host, entry string, argv []string) error {
	return f(ctx, h, entry, argv)
}

// Options параметры создания Host
type Options struct {
	Config *config.Config
	// Cwd каталог дополнения, по умолчанию текущий
	Cwd     string
	Console *console.Console
	Logger  *logger.Logger
	Runner  Runner
	// YouTube клиент для тегов роликов; nil отключает запросы к YouTube
	YouTube    metadata.VideoFetcher
	HTTPClient *http.Client
	// S3 хранилище для путей s3://; если nil, создается по конфигурации
	S3 *s3.Store
}

// Host окружение одного запуска дополнения
type Host struct {
	cfg      *config.Config
	env      paths.Env
	resolver *paths.Resolver
	con      *console.Console
	log      *logger.Logger

	queue    *keyboard.Queue
	player   *player.Simulator
	plugins  *plugin.Registry
	store    *addon.Store
	addon    *addon.Addon
	rpc      *jsonrpc.Dispatcher
	builtins *builtin.Registry
	fs       *vfs.FS
	meta     *metadata.Extractor

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.RWMutex
	runner     Runner
	playing    *gui.ListItem
	properties map[string]string
	skin       map[string]string
	playlists  map[int]*player.PlayList
	lastHandle int
	browsing   map[int]*plugin.Listing
	guiOnce    sync.Once
	guiValues  map[string]string
}

// New создает Host для дополнения в opts.Cwd
func New(ctx context.Context, opts Options) (*Host, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	cwd := opts.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("ошибка определения рабочей директории: %w", err)
		}
		cwd = wd
	}

	con := opts.Console
	if con == nil {
		con = console.New(console.Options{Verbose: cfg.Verbose, Interactive: cfg.Interactive})
	}
	log := opts.Logger
	if log == nil {
		log = logger.Global()
	}

	resolver := paths.NewResolver(paths.Options{
		Home:          cfg.KodiHome,
		Profile:       cfg.KodiProfile,
		ActiveProfile: cfg.ActiveProfile,
	}, cwd)
	env, err := resolver.Resolve("")
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		con.Line(env.Describe(), console.DarkGrey, true)
	}

	store := addon.NewStore()
	current, err := addon.Open(env, store, con)
	if err != nil {
		return nil, err
	}

	s3Store := opts.S3
	if s3Store == nil && cfg.HasS3() {
		s3Store, err = s3.NewStore(&s3.Config{
			Region:     cfg.AwsRegion,
			AccessKey:  cfg.AwsAccessKey,
			SecretKey:  cfg.AwsSecretKey,
			Endpoint:   cfg.AwsEndpoint,
			BucketName: cfg.AwsBucketName,
		})
		if err != nil {
			return nil, err
		}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = streaming.NewClient()
	}

	hostCtx, cancel := context.WithCancel(ctx)
	h := &Host{
		cfg:      cfg,
		env:      current.Env(),
		resolver: resolver,
		con:      con,
		log:      log.With("addon", current.ID()),
		queue:    keyboard.NewQueue(cfg.Input),
		player: player.New(player.Options{
			Interval: cfg.Player.TickInterval,
			Total:    cfg.Player.TotalTime,
			Console:  con,
			Logger:   log,
		}),
		plugins: plugin.NewRegistry(con),
		store:   store,
		addon:   current,
		fs: vfs.New(vfs.Options{
			Translate:  env.TranslatePath,
			HTTPClient: httpClient,
			S3:         s3Store,
			Logger:     log,
		}),
		meta:       metadata.NewExtractor(opts.YouTube),
		ctx:        hostCtx,
		cancel:     cancel,
		runner:     opts.Runner,
		properties: make(map[string]string),
		skin:       make(map[string]string),
		playlists:  make(map[int]*player.PlayList),
		browsing:   make(map[int]*plugin.Listing),
	}

	rpcRegistry := jsonrpc.NewRegistry()
	h.rpc = jsonrpc.NewDispatcher(jsonrpc.DispatcherOptions{
		Registry: rpcRegistry,
		StubDir:  cfg.RPCResponsesDir,
		Console:  con,
		Logger:   log,
	})
	h.builtins = builtin.NewRegistry(con)

	if err := h.registerRPC(rpcRegistry); err != nil {
		h.Close()
		return nil, err
	}
	if err := h.registerBuiltins(h.builtins); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

// Close отменяет контекст, ждет фоновые запуски и останавливает плеер
func (h *Host) Close() error {
	h.cancel()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	var errs []error
	select {
	case <-done:
	case <-time.After(backgroundTimeout):
		errs = append(errs, fmt.Errorf("фоновые дополнения не завершились за %s", backgroundTimeout))
	}

	if err := h.player.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SetRunner задает исполнителя скриптов для RunPlugin и RunScript
func (h *Host) SetRunner(r Runner) {
	h.mu.Lock()
	h.runner = r
	h.mu.Unlock()
}

func (h *Host) scriptRunner() Runner {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.runner
}

// Context отменяется при Close или прерывании пользователем
func (h *Host) Context() context.Context { return h.ctx }

func (h *Host) Config() *config.Config { return h.cfg }

// Env пути текущего дополнения
func (h *Host) Env() paths.Env { return h.env }

func (h *Host) Console() *console.Console { return h.con }

func (h *Host) Logger() *logger.Logger { return h.log }

// Queue очередь ответов для клавиатуры и диалогов
func (h *Host) Queue() *keyboard.Queue { return h.queue }

// Simulator общий симулятор плеера
func (h *Host) Simulator() *player.Simulator { return h.player }

// Plugins реестр листингов по handle
func (h *Host) Plugins() *plugin.Registry { return h.plugins }

// Addon текущее дополнение
func (h *Host) Addon() *addon.Addon { return h.addon }

func (h *Host) RPC() *jsonrpc.Dispatcher { return h.rpc }

func (h *Host) Builtins() *builtin.Registry { return h.builtins }

func (h *Host) FS() *vfs.FS { return h.fs }

func (h *Host) Metadata() *metadata.Extractor { return h.meta }

// Dialog диалоги, отвечающие из очереди ввода Host
func (h *Host) Dialog() *gui.Dialog {
	return gui.NewDialog(h.con, h.queue)
}

// Keyboard экранная клавиатура
func (h *Host) Keyboard(defaultText, heading string, hidden bool) *keyboard.Keyboard {
	return keyboard.New(h.queue, h.con, defaultText, heading, hidden)
}

// NewListItem элемент списка, печатающий подробности в консоль Host
func (h *Host) NewListItem(label, label2, path string) *gui.ListItem {
	return gui.NewListItem(h.con, label, label2, path)
}

// PlayList общий плейлист заданного вида (player.PlaylistMusic или player.PlaylistVideo)
func (h *Host) PlayList(kind int) *player.PlayList {
	h.mu.Lock()
	defer h.mu.Unlock()
	pl, ok := h.playlists[kind]
	if !ok {
		pl = player.NewPlayList(kind)
		h.playlists[kind] = pl
	}
	return pl
}

// OpenAddon загружает дополнение по идентификатору. Пустой id означает текущее дополнение
func (h *Host) OpenAddon(id string) (*addon.Addon, error) {
	if id == "" || id == h.addon.ID() {
		return h.addon, nil
	}
	env, err := h.resolver.Resolve(id)
	if err != nil {
		return nil, err
	}
	return addon.Open(env, h.store, h.con)
}
