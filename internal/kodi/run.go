package kodi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/hazadus/go-sake/internal/addon"
)

var (
	// ErrNoRunner Host создан без исполнителя скриптов
	ErrNoRunner = errors.New("исполнитель скриптов не задан")
	// ErrAddonNotFound дополнение не установлено
	ErrAddonNotFound = errors.New("дополнение не найдено")
	// ErrInvalidPluginURL путь не вида plugin://id/path?query
	ErrInvalidPluginURL = errors.New("некорректный plugin:// путь")
)

var pluginURLRe = regexp.MustCompile(`^plugin://([^?\s/]*)([^?\s]*)(\?.*)?`)

// PluginCall разобранный plugin:// путь
type PluginCall struct {
	AddonID string
	Path    string
	Query   string
}

// Route путь plugin://id/path без query, sys.argv[0]
func (c PluginCall) Route() string {
	return "plugin://" + c.AddonID + c.Path
}

// ParsePluginURL разбирает plugin://id/path?query
func ParsePluginURL(url string) (PluginCall, error) {
	m := pluginURLRe.FindStringSubmatch(url)
	if m == nil || m[1] == "" {
		return PluginCall{}, fmt.Errorf("%s: %w", url, ErrInvalidPluginURL)
	}
	return PluginCall{AddonID: m[1], Path: m[2], Query: m[3]}, nil
}

// RunOptions параметры запуска дополнения
type RunOptions struct {
	Handle int
	Resume bool
}

// PluginArgv sys.argv для запуска plugin:// пути
func PluginArgv(call PluginCall, opts RunOptions) []string {
	return []string{
		call.Route(),
		fmt.Sprint(opts.Handle),
		call.Query,
		fmt.Sprintf("resume:%t", opts.Resume),
	}
}

// pluginEntry путь к библиотеке xbmc.python.pluginsource дополнения
func (h *Host) pluginEntry(addonID string) (string, error) {
	dir := h.findAddonDir(addonID)
	if addonID == h.addon.ID() {
		dir = h.env.AddonPath
	}
	if dir == "" {
		return "", fmt.Errorf("%s: %w", addonID, ErrAddonNotFound)
	}

	m, err := addon.ReadManifest(dir)
	if err != nil {
		return "", err
	}
	library, ok := m.Library()
	if !ok {
		return "", fmt.Errorf("у дополнения %s нет точки входа %s", addonID, addon.PointPluginSource)
	}
	return filepath.Join(dir, filepath.FromSlash(library)), nil
}

// RunPlugin выполняет plugin:// путь в текущей горутине
func (h *Host) RunPlugin(ctx context.Context, url string, opts RunOptions) error {
	call, err := ParsePluginURL(url)
	if err != nil {
		return err
	}
	entry, err := h.pluginEntry(call.AddonID)
	if err != nil {
		return err
	}
	return h.runEntry(ctx, entry, PluginArgv(call, opts))
}

// RunPluginBackground выполняет plugin:// путь в фоне с handle -1.
// Ошибки скрипта попадают в журнал
func (h *Host) RunPluginBackground(url string) error {
	call, err := ParsePluginURL(url)
	if err != nil {
		return err
	}
	entry, err := h.pluginEntry(call.AddonID)
	if err != nil {
		return err
	}
	h.background(entry, PluginArgv(call, RunOptions{Handle: -1}))
	return nil
}

// RunScript выполняет дополнение по идентификатору или путь к скрипту в фоне
func (h *Host) RunScript(target string, args ...string) error {
	entry := target
	if _, err := os.Stat(target); err != nil {
		dir := h.findAddonDir(target)
		if dir == "" {
			return fmt.Errorf("%s: %w", target, ErrAddonNotFound)
		}
		m, err := addon.ReadManifest(dir)
		if err != nil {
			return err
		}
		library, ok := m.Library()
		if !ok {
			return fmt.Errorf("у дополнения %s нет исполняемого скрипта", target)
		}
		entry = filepath.Join(dir, filepath.FromSlash(library))
	}

	h.background(entry, append([]string{entry}, args...))
	return nil
}

func (h *Host) runEntry(ctx context.Context, entry string, argv []string) error {
	runner := h.scriptRunner()
	if runner == nil {
		return ErrNoRunner
	}
	h.log.Debug("запуск дополнения", "entry", entry, "argv", argv)
	return runner.Run(ctx, h, entry, argv)
}

func (h *Host) background(entry string, argv []string) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if err := h.runEntry(h.ctx, entry, argv); err != nil && !errors.Is(err, context.Canceled) {
			h.log.Error("ошибка фонового запуска", "entry", entry, "error", err)
		}
	}()
}
