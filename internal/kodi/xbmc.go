package kodi

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hazadus/go-sake/internal/addon"
	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/player"
)

// BuildVersion значение System.BuildVersion
const BuildVersion = "19.0 Git:20200626-xxxxxxxxxx"

// SkinDir идентификатор активного скина
const SkinDir = "skin.estuary"

// Уровни журнала xbmc.log
const (
	LogDebug   = 0
	LogInfo    = 1
	LogNotice  = 2
	LogWarning = 3
	LogError   = 4
	LogSevere  = 5
	LogFatal   = 6
	LogNone    = 7
)

// Форматы xbmc.getLanguage
const (
	ISO639_1    = 0
	ISO639_2    = 1
	EnglishName = 2
)

var regionValues = map[string]string{
	"datelong":  "%A, %d %B %Y",
	"dateshort": "%d/%m/%Y",
	"tempunit":  "°C",
	"speedunit": "kmh",
	"time":      "%H:%M:%S",
	"meridiem":  "AM/PM",
}

var platforms = map[string]string{
	"windows": "windows",
	"linux":   "linux",
	"osx":     "darwin",
	"darwin":  "darwin",
	"android": "android",
	"ios":     "ios",
}

// GetCondVisibility вычисляет логическое условие Kodi.
// Неизвестные условия печатают предупреждение и ложны
func (h *Host) GetCondVisibility(condition string) bool {
	result, known := h.condition(strings.TrimSpace(condition))
	if !known {
		h.con.Line(fmt.Sprintf("Missing condition: %s", condition), console.Yellow, false)
	}
	h.con.Line(fmt.Sprintf("Condition: %s=%t", condition, result), console.Blue, true)
	return result
}

func (h *Host) condition(cond string) (result, known bool) {
	lower := strings.ToLower(cond)

	if strings.HasPrefix(lower, "!") {
		r, ok := h.condition(strings.TrimSpace(cond[1:]))
		return !r, ok
	}

	if arg, ok := callArg(cond, "system.hasaddon"); ok {
		return h.findAddonDir(arg) != "", true
	}
	if arg, ok := callArg(cond, "skin.hassetting"); ok {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return h.skin[strings.ToLower(arg)] == "true", true
	}
	if arg, ok := callArg(cond, "skin.string"); ok {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return h.skin[strings.ToLower(arg)] != "", true
	}

	if name, ok := strings.CutPrefix(lower, "system.platform."); ok {
		switch name {
		case "xbox", "uwp":
			return false, true
		}
		goos, ok := platforms[name]
		if !ok {
			return false, false
		}
		return runtime.GOOS == goos, true
	}

	switch lower {
	case "player.hasmedia":
		return h.player.Snapshot().State.IsActive(), true
	case "player.playing":
		return h.player.IsPlaying(), true
	case "player.paused":
		return h.player.Snapshot().State == player.Paused, true
	case "player.hasvideo", "player.hasaudio":
		return h.player.IsPlaying(), true
	}
	return false, false
}

// callArg разбирает вызов вида Name(arg), имя сравнивается без учета регистра
func callArg(cond, name string) (string, bool) {
	if len(cond) <= len(name) || !strings.EqualFold(cond[:len(name)], name) {
		return "", false
	}
	rest := cond[len(name):]
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return "", false
	}
	return strings.Trim(rest[1:len(rest)-1], `"' `), true
}

// findAddonDir каталог дополнения в home/addons или ../addons, пустая строка если не найден
func (h *Host) findAddonDir(id string) string {
	if id == "" {
		return ""
	}
	for _, dir := range []string{
		filepath.Join(h.env.HomePath, "addons", id),
		filepath.Join(h.env.HomePath, "..", "addons", id),
	} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return filepath.Clean(dir)
		}
	}
	return ""
}

// installedAddons манифесты всех дополнений в home/addons
func (h *Host) installedAddons() []*addon.Manifest {
	dirs, _ := filepath.Glob(filepath.Join(h.env.HomePath, "addons", "*", "addon.xml"))
	manifests := make([]*addon.Manifest, 0, len(dirs))
	for _, path := range dirs {
		m, err := addon.ReadManifest(filepath.Dir(path))
		if err != nil {
			h.log.Warn("пропущен некорректный addon.xml", "path", path, "error", err)
			continue
		}
		manifests = append(manifests, m)
	}
	return manifests
}

// GetInfoLabel значение InfoLabel
func (h *Host) GetInfoLabel(label string) string {
	switch strings.ToLower(label) {
	case "system.buildversion":
		return BuildVersion
	case "player.filenameandpath":
		return h.player.PlayingFile()
	}
	return "InfoLabel:" + label
}

// GetLanguage активный язык в заданном формате
func (h *Host) GetLanguage(format int, region bool) string {
	switch format {
	case ISO639_1:
		if region {
			return "en-gb"
		}
		return "en"
	case ISO639_2:
		if region {
			return "eng-gbr"
		}
		return "eng"
	}
	return "English"
}

// GetRegion региональный формат, неизвестный ключ дает пустую строку
func (h *Host) GetRegion(id string) string {
	return regionValues[strings.ToLower(id)]
}

// GetSkinDir идентификатор активного скина
func (h *Host) GetSkinDir() string { return SkinDir }

// Log печатает сообщение дополнения и дублирует его в журнал
func (h *Host) Log(msg string, level int) {
	switch {
	case level >= LogNone:
		return
	case level >= LogError:
		h.con.Line(msg, console.Red, false)
		h.log.Error(msg, "source", "xbmc.log")
	case level == LogWarning:
		h.con.Line(msg, console.Yellow, false)
		h.log.Warn(msg, "source", "xbmc.log")
	case level == LogDebug:
		h.con.Line(msg, console.NoColor, true)
		h.log.Debug(msg, "source", "xbmc.log")
	default:
		h.con.Println(msg)
		h.log.Info(msg, "source", "xbmc.log")
	}
}

// ExecuteBuiltin выполняет встроенную функцию. Нереализованные функции только печатают предупреждение
func (h *Host) ExecuteBuiltin(command string) error {
	return h.builtins.Execute(h.ctx, command)
}

// ExecuteJSONRPC выполняет запрос JSON-RPC
func (h *Host) ExecuteJSONRPC(request string) string {
	return h.rpc.Execute(h.ctx, request)
}

// TranslatePath переводит special:// путь
func (h *Host) TranslatePath(path string) string {
	return h.fs.TranslatePath(path)
}

// Sleep ждет ms миллисекунд или отмены Host.
// Возвращает false, если ожидание прервано
func (h *Host) Sleep(ms int) bool {
	return sleepCtx(h.ctx, time.Duration(ms)*time.Millisecond)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// SetWindowProperty свойство окна Home
func (h *Host) SetWindowProperty(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.properties[strings.ToLower(key)] = value
}

// GetWindowProperty свойство окна Home, пустая строка если не задано
func (h *Host) GetWindowProperty(key string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.properties[strings.ToLower(key)]
}

// ClearWindowProperty удаляет свойство окна Home
func (h *Host) ClearWindowProperty(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.properties, strings.ToLower(key))
}

// SkinString значение Skin.String
func (h *Host) SkinString(key string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.skin[strings.ToLower(key)]
}

func (h *Host) setSkin(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.skin[strings.ToLower(key)] = value
}
