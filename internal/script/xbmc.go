package script

import (
	"github.com/hazadus/go-sake/internal/gui"
	"github.com/hazadus/go-sake/internal/kodi"
	"github.com/hazadus/go-sake/internal/metadata"
	"github.com/hazadus/go-sake/internal/player"
)

func (s *session) xbmcModule() Module {
	h := s.h
	return Module{
		Name: "xbmc",
		Constants: map[string]any{
			"LOGDEBUG":       kodi.LogDebug,
			"LOGINFO":        kodi.LogInfo,
			"LOGNOTICE":      kodi.LogNotice,
			"LOGWARNING":     kodi.LogWarning,
			"LOGERROR":       kodi.LogError,
			"LOGSEVERE":      kodi.LogSevere,
			"LOGFATAL":       kodi.LogFatal,
			"LOGNONE":        kodi.LogNone,
			"ISO_639_1":      kodi.ISO639_1,
			"ISO_639_2":      kodi.ISO639_2,
			"ENGLISH_NAME":   kodi.EnglishName,
			"PLAYLIST_MUSIC": player.PlaylistMusic,
			"PLAYLIST_VIDEO": player.PlaylistVideo,
		},
		Functions: map[string]Func{
			"log": func(a Args) (any, error) {
				h.Log(a.String(0, ""), a.Int(1, kodi.LogDebug))
				return nil, nil
			},
			"getCondVisibility": func(a Args) (any, error) {
				return h.GetCondVisibility(a.String(0, "")), nil
			},
			"getInfoLabel": func(a Args) (any, error) {
				return h.GetInfoLabel(a.String(0, "")), nil
			},
			"getLanguage": func(a Args) (any, error) {
				return h.GetLanguage(a.Int(0, kodi.EnglishName), a.Bool(1, false)), nil
			},
			"getRegion": func(a Args) (any, error) {
				return h.GetRegion(a.String(0, "")), nil
			},
			"getSkinDir": func(Args) (any, error) {
				return h.GetSkinDir(), nil
			},
			"executebuiltin": func(a Args) (any, error) {
				// Ошибки встроенных функций, как и в Kodi, не прерывают скрипт
				if err := h.ExecuteBuiltin(a.String(0, "")); err != nil {
					s.log.Warn("ошибка встроенной функции", "command", a.String(0, ""), "error", err)
				}
				return nil, nil
			},
			"executeJSONRPC": func(a Args) (any, error) {
				return h.ExecuteJSONRPC(a.String(0, "")), nil
			},
			"translatePath": func(a Args) (any, error) {
				return h.TranslatePath(a.String(0, "")), nil
			},
			"sleep": func(a Args) (any, error) {
				s.outside(func() { h.Sleep(a.Int(0, 0)) })
				return nil, nil
			},
			"Player":   s.newPlayer,
			"Monitor":  s.newMonitor,
			"Keyboard": s.newKeyboard,
			"PlayList": s.newPlayList,
		},
	}
}

// callbackObserver передает события плеера функциям скрипта по именам Kodi
type callbackObserver struct {
	s         *session
	callbacks map[string]Callback
}

func (o callbackObserver) call(name string, args ...any) {
	cb := o.callbacks[name]
	if cb == nil {
		return
	}
	if _, err := cb(args...); err != nil {
		o.s.log.Warn("ошибка в обработчике плеера", "callback", name, "error", err)
	}
}

func (o callbackObserver) OnPlayBackStarted() { o.call("onPlayBackStarted") }

func (o callbackObserver) OnAVStarted() { o.call("onAVStarted") }

func (o callbackObserver) OnAVChange() { o.call("onAVChange") }

func (o callbackObserver) OnPlayBackPaused() { o.call("onPlayBackPaused") }

func (o callbackObserver) OnPlayBackResumed() { o.call("onPlayBackResumed") }

func (o callbackObserver) OnPlayBackSeek(position, offset float64) {
	o.call("onPlayBackSeek", position, offset)
}

func (o callbackObserver) OnPlayBackStopped() { o.call("onPlayBackStopped") }

// newPlayer xbmc.Player([callbacks]). callbacks словарь onPlayBackStarted, onAVStarted, ...
func (s *session) newPlayer(a Args) (any, error) {
	callbacks := make(map[string]Callback)
	for name, v := range a.Map(0) {
		if cb, ok := v.(Callback); ok {
			callbacks[name] = cb
		}
	}

	p := s.h.NewPlayer(callbackObserver{s: s, callbacks: callbacks})
	s.onClose(p.Close)

	return &Object{
		Class: "Player",
		Value: p,
		Methods: map[string]Func{
			"play": func(a Args) (any, error) {
				item := a.String(0, "")
				li, _ := value[*gui.ListItem](a, 1)
				if obj, ok := value[*gui.ListItem](a, 0); ok {
					item, li = obj.GetPath(), obj
				}
				return nil, p.Play(item, li)
			},
			"pause": func(Args) (any, error) { return nil, p.Pause() },
			"stop":  func(Args) (any, error) { return nil, p.Stop() },
			"seekTime": func(a Args) (any, error) {
				return nil, p.SeekTime(a.Float(0, 0))
			},
			"isPlaying":        func(Args) (any, error) { return p.IsPlaying(), nil },
			"isPlayingAudio":   func(Args) (any, error) { return p.IsPlayingAudio(), nil },
			"isPlayingVideo":   func(Args) (any, error) { return p.IsPlayingVideo(), nil },
			"isExternalPlayer": func(Args) (any, error) { return p.IsExternalPlayer(), nil },
			"getTime":          func(Args) (any, error) { return p.GetTime(), nil },
			"getTotalTime": func(Args) (any, error) {
				return p.GetTotalTime()
			},
			"getPlayingFile": func(Args) (any, error) { return p.GetPlayingFile(), nil },
			"getMusicInfoTag": func(Args) (any, error) {
				tag, err := p.GetMusicInfoTag()
				if err != nil {
					return nil, err
				}
				return musicTagObject(tag), nil
			},
			"getVideoInfoTag": func(Args) (any, error) {
				tag, err := p.GetVideoInfoTag()
				if err != nil {
					return nil, err
				}
				return videoTagObject(tag), nil
			},
			"updateInfoTag": func(a Args) (any, error) {
				li, _ := value[*gui.ListItem](a, 0)
				return nil, p.UpdateInfoTag(li)
			},
			"playnext":     func(Args) (any, error) { p.PlayNext(); return nil, nil },
			"playprevious": func(Args) (any, error) { p.PlayPrevious(); return nil, nil },
			"getAvailableAudioStreams": func(Args) (any, error) {
				return p.GetAvailableAudioStreams(), nil
			},
			"getAvailableSubtitleStreams": func(Args) (any, error) {
				return p.GetAvailableSubtitleStreams(), nil
			},
			"getSubtitles": func(Args) (any, error) { return p.GetSubtitles(), nil },
		},
	}, nil
}

func getter(v any) Func {
	return func(Args) (any, error) { return v, nil }
}

func musicTagObject(tag metadata.MusicInfoTag) *Object {
	return &Object{
		Class: "InfoTagMusic",
		Value: tag,
		Methods: map[string]Func{
			"getTitle":       getter(tag.Title),
			"getArtist":      getter(tag.Artist),
			"getAlbum":       getter(tag.Album),
			"getGenre":       getter(tag.Genre),
			"getYear":        getter(tag.Year),
			"getTrack":       getter(tag.Track),
			"getDuration":    getter(int(tag.Duration.Seconds())),
			"getComment":     getter(tag.Comment),
			"getURL":         getter(tag.File),
			"getMediaType":   getter("song"),
			"getDbId":        getter(-1),
			"getDiscNumber":  getter(0),
			"getListeners":   getter(0),
			"getPlayCount":   getter(0),
			"getLastPlayed":  getter(""),
			"getReleaseDate": getter(""),
		},
	}
}

func videoTagObject(tag metadata.VideoInfoTag) *Object {
	premiered := ""
	year := 0
	if !tag.Premiered.IsZero() {
		premiered = tag.Premiered.Format("2006-01-02")
		year = tag.Premiered.Year()
	}
	return &Object{
		Class: "InfoTagVideo",
		Value: tag,
		Methods: map[string]Func{
			"getTitle":          getter(tag.Title),
			"getDirector":       getter(tag.Director),
			"getPlot":           getter(tag.Plot),
			"getPlotOutline":    getter(tag.Plot),
			"getDuration":       getter(int(tag.Duration.Seconds())),
			"getVotes":          getter(tag.Votes),
			"getPictureURL":     getter(tag.Thumbnail),
			"getPremiered":      getter(premiered),
			"getYear":           getter(year),
			"getFile":           getter(tag.File),
			"getPath":           getter(tag.File),
			"getMediaType":      getter("video"),
			"getDbId":           getter(-1),
			"getOriginalTitle":  getter(tag.Title),
			"getGenre":          getter(""),
			"getIMDBNumber":     getter(""),
			"getRating":         getter(0.0),
			"getUserRating":     getter(0),
			"getPlayCount":      getter(0),
			"getLastPlayed":     getter(""),
			"getTVShowTitle":    getter(""),
			"getWritingCredits": getter(""),
		},
	}
}

// newMonitor xbmc.Monitor()
func (s *session) newMonitor(Args) (any, error) {
	m := s.h.NewMonitor()
	return &Object{
		Class: "Monitor",
		Value: m,
		Methods: map[string]Func{
			"abortRequested": func(Args) (any, error) { return m.AbortRequested(), nil },
			"waitForAbort": func(a Args) (any, error) {
				var aborted bool
				s.outside(func() { aborted = m.WaitForAbort(a.Float(0, 0)) })
				return aborted, nil
			},
		},
	}, nil
}

// newKeyboard xbmc.Keyboard(default, heading, hidden)
func (s *session) newKeyboard(a Args) (any, error) {
	k := s.h.Keyboard(a.String(0, ""), a.String(1, ""), a.Bool(2, false))
	return &Object{
		Class: "Keyboard",
		Value: k,
		Methods: map[string]Func{
			"doModal": func(Args) (any, error) { return nil, k.DoModal() },
			"getText": func(Args) (any, error) { return k.GetText(), nil },
			"isConfirmed": func(Args) (any, error) {
				return k.IsConfirmed(), nil
			},
			"setDefault": func(a Args) (any, error) {
				k.SetDefault(a.String(0, ""))
				return nil, nil
			},
			"setHeading": func(a Args) (any, error) {
				k.SetHeading(a.String(0, ""))
				return nil, nil
			},
			"setHiddenInput": func(a Args) (any, error) {
				k.SetHiddenInput(a.Bool(0, true))
				return nil, nil
			},
		},
	}, nil
}

// newPlayList xbmc.PlayList(kind), общий для всех скриптов Host
func (s *session) newPlayList(a Args) (any, error) {
	pl := s.h.PlayList(a.Int(0, player.PlaylistVideo))
	return &Object{
		Class: "PlayList",
		Value: pl,
		Methods: map[string]Func{
			"add": func(a Args) (any, error) {
				label := ""
				if li, ok := value[*gui.ListItem](a, 1); ok {
					label = li.GetLabel()
				}
				pl.Add(a.String(0, ""), label, a.Int(2, -1))
				return nil, nil
			},
			"clear":         func(Args) (any, error) { pl.Clear(); return nil, nil },
			"size":          func(Args) (any, error) { return pl.Size(), nil },
			"getposition":   func(Args) (any, error) { return pl.Position(), nil },
			"getPlayListId": func(Args) (any, error) { return pl.Kind(), nil },
			"shuffle":       func(Args) (any, error) { return nil, nil },
			"unshuffle":     func(Args) (any, error) { return nil, nil },
		},
	}, nil
}
