package kodi

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/gui"
	"github.com/hazadus/go-sake/internal/plugin"
)

// AddDirectoryItem добавляет элемент в листинг handle
func (h *Host) AddDirectoryItem(handle int, url string, item *gui.ListItem, isFolder bool) bool {
	h.plugins.AddItem(handle, item, url, isFolder)
	return true
}

// AddDirectoryItems добавляет несколько элементов в листинг handle
func (h *Host) AddDirectoryItems(handle int, entries []plugin.Entry) bool {
	h.plugins.AddItems(handle, entries)
	return true
}

// EndOfDirectory печатает листинг и молча останавливает плеер
func (h *Host) EndOfDirectory(handle int, succeeded, updateListing, cacheToDisc bool) *plugin.Listing {
	listing := h.plugins.Close(handle, succeeded, updateListing, cacheToDisc)
	h.mu.Lock()
	if _, ok := h.browsing[handle]; ok && listing != nil {
		h.browsing[handle] = listing
	}
	h.mu.Unlock()

	if err := h.player.Halt(h.ctx); err != nil {
		h.log.Warn("не удалось остановить плеер", "error", err)
	}
	return listing
}

// SetResolvedURL запускает воспроизведение элемента, в который разрешился plugin:// путь
func (h *Host) SetResolvedURL(handle int, succeeded bool, item *gui.ListItem) error {
	if !succeeded || item == nil {
		h.con.Line(fmt.Sprintf("Item failed to resolve: %v", item), console.Red, false)
		return nil
	}

	h.con.Line(fmt.Sprintf("Item resolved to: %s", item), console.Blue, false)
	h.log.Debug("элемент разрешен", "handle", handle, "path", item.GetPath())
	return h.play(item.GetPath(), item)
}

// AddSortMethod добавляет метод сортировки
func (h *Host) AddSortMethod(handle, method int) {
	h.plugins.AddSortMethod(handle, method)
}

func (h *Host) SetContent(handle int, content string) {
	h.plugins.SetContent(handle, content)
}

func (h *Host) SetPluginCategory(handle int, category string) {
	h.plugins.SetPluginCategory(handle, category)
}

func (h *Host) SetPluginFanart(handle int, image string) {
	h.plugins.SetPluginFanart(handle, image)
}

func (h *Host) SetProperty(handle int, key, value string) {
	h.plugins.SetProperty(handle, key, value)
}

// GetSetting значение настройки текущего дополнения (xbmcplugin.getSetting)
func (h *Host) GetSetting(_ int, id string) string {
	return h.addon.GetSetting(id)
}

// SetSetting меняет настройку текущего дополнения (xbmcplugin.setSetting)
func (h *Host) SetSetting(_ int, id, value string) {
	h.addon.SetSetting(id, value)
}

// ParseHandle разбирает handle из sys.argv[1], некорректное значение дает -1
func ParseHandle(arg string) int {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return -1
	}
	return n
}

// Browse выполняет plugin:// путь с новым дескриптором и возвращает закрытый им каталог.
// nil без ошибки означает, что дополнение не вызвало endOfDirectory, например разрешило URL
func (h *Host) Browse(ctx context.Context, url string) (*plugin.Listing, error) {
	h.mu.Lock()
	h.lastHandle++
	handle := h.lastHandle
	h.browsing[handle] = nil
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.browsing, handle)
		h.mu.Unlock()
	}()

	if err := h.RunPlugin(ctx, url, RunOptions{Handle: handle}); err != nil {
		return nil, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.browsing[handle], nil
}

// Open воспроизводит элемент каталога. plugin:// путь выполняется, чтобы дополнение
// разрешило его через setResolvedUrl, остальные пути сразу передаются плееру
func (h *Host) Open(ctx context.Context, url string, item *gui.ListItem) error {
	if strings.HasPrefix(url, "plugin://") {
		_, err := h.Browse(ctx, url)
		return err
	}
	return h.play(url, item)
}
