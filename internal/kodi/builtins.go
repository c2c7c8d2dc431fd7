package kodi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hazadus/go-sake/internal/builtin"
	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/gui"
)

// Шаги перемотки PlayerControl в секундах
const (
	bigSkip   = 600
	smallSkip = 30
)

// ErrUnknownPlayerControl неизвестная команда PlayerControl
var ErrUnknownPlayerControl = errors.New("неизвестная команда PlayerControl")

var errMissingParam = errors.New("не хватает параметров")

func (h *Host) registerBuiltins(r *builtin.Registry) error {
	handlers := map[string]builtin.Handler{
		"RunPlugin":         h.builtinRunPlugin,
		"RunAddon":          h.builtinRunAddon,
		"RunScript":         h.builtinRunScript,
		"PlayMedia":         h.builtinPlayMedia,
		"PlayerControl":     h.builtinPlayerControl,
		"Notification":      h.builtinNotification,
		"Container.Refresh": h.builtinTrace,
		"Container.Update":  h.builtinTrace,
		"ActivateWindow":    h.builtinTrace,
		"Action":            h.builtinTrace,
		"Dialog.Close":      h.builtinTrace,
		"SetProperty":       h.builtinSetProperty,
		"ClearProperty":     h.builtinClearProperty,
		"Skin.SetString":    h.builtinSkinSetString,
		"Skin.SetBool":      h.builtinSkinSetBool,
		"Skin.Reset":        h.builtinSkinReset,
	}
	for name, fn := range handlers {
		if err := r.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func param(params []string, i int) (string, error) {
	if i >= len(params) || params[i] == "" {
		return "", fmt.Errorf("параметр %d: %w", i+1, errMissingParam)
	}
	return params[i], nil
}

func (h *Host) builtinRunPlugin(_ context.Context, params []string) error {
	url, err := param(params, 0)
	if err != nil {
		return err
	}
	return h.RunPluginBackground(url)
}

func (h *Host) builtinRunAddon(_ context.Context, params []string) error {
	id, err := param(params, 0)
	if err != nil {
		return err
	}
	url := "plugin://" + id + "/"
	if len(params) > 1 {
		url += params[1]
	}
	return h.RunPluginBackground(url)
}

func (h *Host) builtinRunScript(_ context.Context, params []string) error {
	target, err := param(params, 0)
	if err != nil {
		return err
	}
	return h.RunScript(target, params[1:]...)
}

func (h *Host) builtinPlayMedia(_ context.Context, params []string) error {
	media, err := param(params, 0)
	if err != nil {
		return err
	}
	if strings.HasPrefix(media, "plugin://") {
		return h.RunPluginBackground(media)
	}
	return h.play(media, nil)
}

func (h *Host) builtinPlayerControl(ctx context.Context, params []string) error {
	command, err := param(params, 0)
	if err != nil {
		return err
	}

	seek := func(delta float64) error {
		return h.player.Seek(ctx, h.player.Time()+delta)
	}

	switch lower := strings.ToLower(command); {
	case lower == "play":
		return h.player.Pause(ctx)
	case lower == "stop":
		return h.player.Stop(ctx)
	case lower == "bigskipforward":
		return seek(bigSkip)
	case lower == "bigskipbackward":
		return seek(-bigSkip)
	case lower == "smallskipforward":
		return seek(smallSkip)
	case lower == "smallskipbackward":
		return seek(-smallSkip)
	case lower == "next", lower == "previous",
		lower == "forward", lower == "rewind",
		lower == "tempoup", lower == "tempodown",
		lower == "random", lower == "randomon", lower == "randomoff",
		lower == "repeat", lower == "repeatone", lower == "repeatall", lower == "repeatoff",
		strings.HasPrefix(lower, "frameadvance("),
		strings.HasPrefix(lower, "tempo("),
		strings.HasPrefix(lower, "partymode("):
		h.con.Line("PlayerControl: "+command, console.DarkGrey, true)
		return nil
	}
	return fmt.Errorf("%s: %w", command, ErrUnknownPlayerControl)
}

func (h *Host) builtinNotification(_ context.Context, params []string) error {
	header, err := param(params, 0)
	if err != nil {
		return err
	}
	message := ""
	if len(params) > 1 {
		message = params[1]
	}
	icon := gui.NotificationInfo
	if len(params) > 3 {
		icon = params[3]
	}
	h.Dialog().Notification(header, message, icon)
	return nil
}

// builtinTrace функции окон и контейнеров только печатаются
func (h *Host) builtinTrace(_ context.Context, params []string) error {
	h.con.Line(fmt.Sprintf("Executebuiltin: %s", strings.Join(params, ", ")), console.DarkGrey, true)
	return nil
}

func (h *Host) builtinSetProperty(_ context.Context, params []string) error {
	key, err := param(params, 0)
	if err != nil {
		return err
	}
	value := ""
	if len(params) > 1 {
		value = params[1]
	}
	h.SetWindowProperty(key, value)
	return nil
}

func (h *Host) builtinClearProperty(_ context.Context, params []string) error {
	key, err := param(params, 0)
	if err != nil {
		return err
	}
	h.ClearWindowProperty(key)
	return nil
}

func (h *Host) builtinSkinSetString(_ context.Context, params []string) error {
	key, err := param(params, 0)
	if err != nil {
		return err
	}
	value := ""
	if len(params) > 1 {
		value = params[1]
	}
	h.setSkin(key, value)
	return nil
}

func (h *Host) builtinSkinSetBool(_ context.Context, params []string) error {
	key, err := param(params, 0)
	if err != nil {
		return err
	}
	value := "true"
	if len(params) > 1 && strings.EqualFold(params[1], "false") {
		value = "false"
	}
	h.setSkin(key, value)
	return nil
}

func (h *Host) builtinSkinReset(_ context.Context, params []string) error {
	key, err := param(params, 0)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.skin, strings.ToLower(key))
	h.mu.Unlock()
	return nil
}
