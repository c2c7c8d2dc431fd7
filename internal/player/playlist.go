package player

import "sync"

// Виды плейлистов Kodi
const (
	PlaylistMusic = 0
	PlaylistVideo = 1
)

// PlaylistItem элемент плейлиста
type PlaylistItem struct {
	URL   string
	Label string
}

// PlayList плейлист Kodi. Позиция всегда 0, как в эмулируемом API
type PlayList struct {
	mu    sync.Mutex
	kind  int
	items []PlaylistItem
}

// NewPlayList создает пустой плейлист
func NewPlayList(kind int) *PlayList {
	return &PlayList{kind: kind}
}

// Kind вид плейлиста
func (p *PlayList) Kind() int { return p.kind }

// Add добавляет элемент. index < 0 или за пределами списка добавляет в конец
func (p *PlayList) Add(url, label string, index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	item := PlaylistItem{URL: url, Label: label}
	if index < 0 || index >= len(p.items) {
		p.items = append(p.items, item)
		return
	}

	p.items = append(p.items, PlaylistItem{})
	copy(p.items[index+1:], p.items[index:])
	p.items[index] = item
}

// Clear очищает плейлист
func (p *PlayList) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
}

// Position текущая позиция
func (p *PlayList) Position() int { return 0 }

// Size количество элементов
func (p *PlayList) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Items копия элементов
func (p *PlayList) Items() []PlaylistItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PlaylistItem(nil), p.items...)
}
