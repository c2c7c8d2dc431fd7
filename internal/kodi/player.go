package kodi

import (
	"fmt"

	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/gui"
	"github.com/hazadus/go-sake/internal/metadata"
	"github.com/hazadus/go-sake/internal/player"
)

// Player объект xbmc.Player скрипта. Обратные вызовы observer приходят
// из отдельной горутины в порядке событий
type Player struct {
	h           *Host
	unsubscribe func()
}

// NewPlayer создает xbmc.Player. observer может быть nil
func (h *Host) NewPlayer(observer player.Observer) *Player {
	if observer == nil {
		observer = player.BaseObserver{}
	}
	p := &Player{h: h}
	p.unsubscribe = h.player.Subscribe(h.tracedListener(player.ObserverListener(observer)))
	return p
}

// tracedListener печатает вызываемый обработчик в подробном режиме
func (h *Host) tracedListener(next player.Listener) player.Listener {
	return func(ev player.Event) {
		h.con.Line("Invoked "+callbackName(ev), console.NoColor, true)
		next(ev)
	}
}

func callbackName(ev player.Event) string {
	switch ev.Kind {
	case player.EventStarted:
		return "onPlayBackStarted()"
	case player.EventAVStarted:
		return "onAVStarted()"
	case player.EventAVChange:
		return "onAVChange()"
	case player.EventPaused:
		return "onPlayBackPaused()"
	case player.EventResumed:
		return "onPlayBackResumed()"
	case player.EventSeek:
		return fmt.Sprintf("onPlayBackSeek(%d, %d)", int(ev.Position), int(ev.Offset))
	case player.EventStopped:
		return "onPlayBackStopped()"
	}
	return ev.Kind.String()
}

// Close отписывает обработчики плеера
func (p *Player) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// Play начинает воспроизведение item. item может быть пустым, если задан listitem с путем
func (p *Player) Play(item string, listitem *gui.ListItem) error {
	if item == "" && listitem != nil {
		item = listitem.GetPath()
	}
	return p.h.play(item, listitem)
}

// Pause ставит на паузу или продолжает воспроизведение
func (p *Player) Pause() error {
	return p.h.player.Pause(p.h.ctx)
}

// Stop останавливает воспроизведение
func (p *Player) Stop() error {
	return p.h.player.Stop(p.h.ctx)
}

// SeekTime перематывает на seconds от начала
func (p *Player) SeekTime(seconds float64) error {
	return p.h.player.Seek(p.h.ctx, seconds)
}

func (p *Player) IsPlaying() bool { return p.h.player.IsPlaying() }

func (p *Player) IsPlayingAudio() bool { return p.h.player.IsPlaying() }

func (p *Player) IsPlayingVideo() bool { return p.h.player.IsPlaying() }

func (p *Player) IsExternalPlayer() bool { return false }

// GetTime текущая позиция в секундах
func (p *Player) GetTime() float64 { return p.h.player.Time() }

// GetTotalTime длительность, ErrNotPlaying если плеер остановлен
func (p *Player) GetTotalTime() (float64, error) { return p.h.player.TotalTime() }

// GetPlayingFile путь проигрываемого файла
func (p *Player) GetPlayingFile() string { return p.h.player.PlayingFile() }

// GetMusicInfoTag музыкальный тег текущего файла
func (p *Player) GetMusicInfoTag() (metadata.MusicInfoTag, error) {
	snap := p.h.player.Snapshot()
	if !snap.State.IsActive() {
		return metadata.MusicInfoTag{}, player.ErrNotPlaying
	}

	tag := p.h.meta.MusicTag(snap.File)
	tag.Duration = snap.TotalDuration()
	if li := p.h.playingItem(); li != nil {
		overrideString(&tag.Title, li, "title")
		overrideString(&tag.Artist, li, "artist")
		overrideString(&tag.Album, li, "album")
		overrideString(&tag.Genre, li, "genre")
	}
	return tag, nil
}

// GetVideoInfoTag видео тег текущего файла
func (p *Player) GetVideoInfoTag() (metadata.VideoInfoTag, error) {
	snap := p.h.player.Snapshot()
	if !snap.State.IsActive() {
		return metadata.VideoInfoTag{}, player.ErrNotPlaying
	}

	tag, err := p.h.meta.VideoTag(p.h.ctx, snap.File)
	if err != nil {
		p.h.log.Warn("не удалось получить видео тег", "file", snap.File, "error", err)
		tag = metadata.VideoInfoTag{File: snap.File}
	}
	if tag.Duration == 0 {
		tag.Duration = snap.TotalDuration()
	}
	if li := p.h.playingItem(); li != nil {
		overrideString(&tag.Title, li, "title")
		overrideString(&tag.Plot, li, "plot")
		overrideString(&tag.Director, li, "director")
		if tag.Title == "" {
			tag.Title = li.GetLabel()
		}
	}
	return tag, nil
}

// UpdateInfoTag заменяет элемент, описывающий текущий файл
func (p *Player) UpdateInfoTag(item *gui.ListItem) error {
	if !p.h.player.Snapshot().State.IsActive() {
		return player.ErrNotPlaying
	}
	p.h.mu.Lock()
	p.h.playing = item
	p.h.mu.Unlock()
	return nil
}

// Методы без эффекта в эмуляторе

func (p *Player) PlayNext() {}

func (p *Player) PlayPrevious() {}

func (p *Player) GetAvailableAudioStreams() []string { return []string{} }

func (p *Player) GetAvailableSubtitleStreams() []string { return []string{} }

func (p *Player) GetSubtitles() string { return "" }

func overrideString(dst *string, li *gui.ListItem, key string) {
	v, ok := li.Info(key)
	if !ok {
		return
	}
	if s := fmt.Sprint(v); s != "" {
		*dst = s
	}
}

// play запускает новый сеанс и запоминает элемент списка
func (h *Host) play(item string, listitem *gui.ListItem) error {
	h.mu.Lock()
	h.playing = listitem
	h.mu.Unlock()

	if err := h.player.Play(h.ctx, item); err != nil {
		return fmt.Errorf("ошибка запуска воспроизведения: %w", err)
	}
	return nil
}

func (h *Host) playingItem() *gui.ListItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.playing
}
