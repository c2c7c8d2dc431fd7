// Package paths определяет каталоги Kodi (home, профиль, дополнение) и переводит special:// пути
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ManifestFile имя файла описания дополнения
const ManifestFile = "addon.xml"

var (
	// ErrNoManifest рабочая директория не является каталогом дополнения
	ErrNoManifest = errors.New("рабочая директория вне каталога дополнения")
	// ErrMissingDir один из каталогов Kodi не существует
	ErrMissingDir = errors.New("каталог не существует")
)

// Options задает переопределения путей (обычно из KODI_HOME, KODI_PROFILE, KODI_ACTIVE_PROFILE)
type Options struct {
	Home          string
	Profile       string
	ActiveProfile string
}

// Env содержит найденные пути для одного дополнения
type Env struct {
	HomePath    string
	AddonID     string
	AddonPath   string
	ProfilePath string
}

// Resolve определяет пути для дополнения addonID, запущенного из cwd.
// Пустой addonID означает дополнение в cwd
func Resolve(opts Options, cwd, addonID string) (Env, error) {
	if _, err := os.Stat(filepath.Join(cwd, ManifestFile)); err != nil {
		return Env{}, fmt.Errorf("%w: %s", ErrNoManifest, cwd)
	}

	cwd = filepath.Clean(cwd)
	pathAddonID := filepath.Base(cwd)

	home := opts.Home
	if home == "" {
		// <home>/addons/<id>
		home = filepath.Dir(filepath.Dir(cwd))
	}
	home, err := filepath.Abs(home)
	if err != nil {
		return Env{}, fmt.Errorf("ошибка определения special://home: %w", err)
	}
	if err := requireDir(home, "special://home"); err != nil {
		return Env{}, err
	}

	if addonID == "" {
		addonID = pathAddonID
	}

	addonPath := cwd
	if addonID != pathAddonID {
		addonPath = filepath.Join(home, "addons", addonID)
		if !isDir(addonPath) && strings.Contains(cwd, "portable_data") {
			addonPath = filepath.Join(home, "..", "addons", addonID)
		}
	}
	if err := requireDir(addonPath, "дополнение "+addonID); err != nil {
		return Env{}, err
	}

	profile := opts.Profile
	if profile == "" {
		profile = filepath.Join(home, "userdata")
	}
	if profile, err = filepath.Abs(profile); err != nil {
		return Env{}, fmt.Errorf("ошибка определения special://masterprofile: %w", err)
	}
	if err := requireDir(profile, "special://masterprofile"); err != nil {
		return Env{}, err
	}

	if opts.ActiveProfile != "" {
		profile = filepath.Join(profile, "profiles", opts.ActiveProfile)
		if err := requireDir(profile, "special://profile"); err != nil {
			return Env{}, err
		}
	}

	return Env{
		HomePath:    home,
		AddonID:     addonID,
		AddonPath:   filepath.Clean(addonPath),
		ProfilePath: profile,
	}, nil
}

// Resolver кеширует найденные пути по идентификатору дополнения
type Resolver struct {
	opts  Options
	cwd   string
	mu    sync.Mutex
	cache map[string]Env
}

// NewResolver создает резолвер для дополнения в cwd
func NewResolver(opts Options, cwd string) *Resolver {
	return &Resolver{
		opts:  opts,
		cwd:   cwd,
		cache: make(map[string]Env),
	}
}

// Resolve возвращает пути для addonID, пустой идентификатор означает текущее дополнение
func (r *Resolver) Resolve(addonID string) (Env, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if env, ok := r.cache[addonID]; ok {
		return env, nil
	}

	env, err := Resolve(r.opts, r.cwd, addonID)
	if err != nil {
		return Env{}, err
	}

	r.cache[addonID] = env
	r.cache[env.AddonID] = env
	return env, nil
}

// AddonDataPath каталог пользовательских данных дополнения (special://profile/addon_data/<id>)
func (e Env) AddonDataPath() string {
	return filepath.Join(e.ProfilePath, "addon_data", e.AddonID)
}

// Describe возвращает описание найденных путей
func (e Env) Describe() string {
	return fmt.Sprintf("Found Add-on info: \n"+
		"- Kodi Home (special://home):       %s \n"+
		"- Add-on ID:                        %s \n"+
		"- Add-on Path:                      %s \n"+
		"- Kodi Profile (special://profile): %s \n",
		e.HomePath, e.AddonID, e.AddonPath, e.ProfilePath)
}

// TranslatePath переводит special:// путь в путь файловой системы.
// Неизвестные корни и обычные пути возвращаются без изменений
func (e Env) TranslatePath(path string) string {
	const prefix = "special://"
	if !strings.HasPrefix(strings.ToLower(path), prefix) {
		return path
	}

	rest := path[len(prefix):]
	root, tail, _ := strings.Cut(rest, "/")

	var base string
	switch strings.ToLower(root) {
	case "home", "xbmc", "xbmcbin", "xbmcbinaddons":
		base = e.HomePath
	case "profile", "masterprofile", "userdata":
		base = e.ProfilePath
	case "temp", "logpath":
		base = filepath.Join(e.HomePath, "temp")
	case "database":
		base = filepath.Join(e.ProfilePath, "Database")
	case "thumbnails":
		base = filepath.Join(e.ProfilePath, "Thumbnails")
	case "addon_data":
		base = filepath.Join(e.ProfilePath, "addon_data")
	default:
		return path
	}

	translated := filepath.Join(base, filepath.FromSlash(tail))
	if strings.HasSuffix(path, "/") && !strings.HasSuffix(translated, string(filepath.Separator)) {
		translated += string(filepath.Separator)
	}
	return translated
}

func requireDir(path, what string) error {
	if !isDir(path) {
		return fmt.Errorf("%w: %s (%s)", ErrMissingDir, path, what)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
