package kodi

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hazadus/go-sake/internal/builtin"
)

func TestBuiltinPlayerControl(t *testing.T) {
	h, _ := newTestHost(t, false)
	ctx := context.Background()

	mustDo(t, h.play("/tmp/f.mov", nil))
	mustDo(t, h.Simulator().Advance(ctx))

	mustDo(t, h.ExecuteBuiltin("PlayerControl(SmallSkipForward)"))
	if got := h.Simulator().Time(); got != smallSkip {
		t.Errorf("Ожидалась позиция %d, получено: %v", smallSkip, got)
	}
	mustDo(t, h.ExecuteBuiltin("PlayerControl(SmallSkipBackward)"))
	if got := h.Simulator().Time(); got != 0 {
		t.Errorf("Ожидалась позиция 0, получено: %v", got)
	}

	mustDo(t, h.ExecuteBuiltin("PlayerControl(Play)"))
	if h.Simulator().IsPlaying() {
		t.Error("PlayerControl(Play) должен поставить на паузу")
	}
	mustDo(t, h.ExecuteBuiltin("PlayerControl(Repeat)"))

	if err := h.ExecuteBuiltin("PlayerControl(Explode)"); !errors.Is(err, ErrUnknownPlayerControl) {
		t.Errorf("Ожидалась ErrUnknownPlayerControl, получено: %v", err)
	}

	mustDo(t, h.ExecuteBuiltin("PlayerControl(Stop)"))
	if h.Simulator().Snapshot().State.IsActive() {
		t.Error("PlayerControl(Stop) должен остановить плеер")
	}
}

func TestBuiltinSkinAndProperties(t *testing.T) {
	h, _ := newTestHost(t, false)

	mustDo(t, h.ExecuteBuiltin(`Skin.SetString(theme, "dark")`))
	if got := h.SkinString("theme"); got != "dark" {
		t.Errorf("Ожидалось dark, получено: %q", got)
	}
	if !h.GetCondVisibility("Skin.String(theme)") {
		t.Error("Skin.String(theme) должно быть истинным")
	}

	mustDo(t, h.ExecuteBuiltin("Skin.SetBool(autoplay)"))
	if !h.GetCondVisibility("Skin.HasSetting(autoplay)") {
		t.Error("Skin.HasSetting(autoplay) должно быть истинным")
	}
	mustDo(t, h.ExecuteBuiltin("Skin.Reset(autoplay)"))
	if h.GetCondVisibility("Skin.HasSetting(autoplay)") {
		t.Error("После Skin.Reset настройка должна исчезнуть")
	}

	mustDo(t, h.ExecuteBuiltin("SetProperty(Busy, yes)"))
	if h.GetWindowProperty("busy") != "yes" {
		t.Errorf("Свойство окна не установлено: %q", h.GetWindowProperty("busy"))
	}
	mustDo(t, h.ExecuteBuiltin("ClearProperty(Busy)"))
	if h.GetWindowProperty("busy") != "" {
		t.Error("Свойство окна должно быть удалено")
	}
}

func TestBuiltinNotification(t *testing.T) {
	h, out := newTestHost(t, false)

	mustDo(t, h.ExecuteBuiltin("Notification(Heading, Some message, 5000, warning)"))
	if !strings.Contains(out.String(), "Heading") || !strings.Contains(out.String(), "Some message") {
		t.Errorf("Ожидалось уведомление: %q", out.String())
	}

	if err := h.ExecuteBuiltin("Notification()"); !errors.Is(err, errMissingParam) {
		t.Errorf("Ожидалась ошибка отсутствующего параметра, получено: %v", err)
	}
}

func TestBuiltinNotImplemented(t *testing.T) {
	h, out := newTestHost(t, false)

	err := h.ExecuteBuiltin("UpdateLibrary(video)")
	if !errors.Is(err, builtin.ErrNotImplemented) {
		t.Errorf("Ожидалась ErrNotImplemented, получено: %v", err)
	}
	if !strings.Contains(out.String(), "Executebuiltin: UpdateLibrary(video) is not implemented") {
		t.Errorf("Ожидалось предупреждение: %q", out.String())
	}
}

func TestBuiltinRunPlugin(t *testing.T) {
	h, _ := newTestHost(t, false)

	calls := make(chan []string, 1)
	h.SetRunner(RunnerFunc(func(_ context.Context, _ *Host, entry string, argv []string) error {
		if filepath.Base(entry) != "main.js" {
			t.Errorf("Неверная точка входа: %s", entry)
		}
		calls <- argv
		return nil
	}))

	mustDo(t, h.ExecuteBuiltin("RunPlugin(plugin://plugin.video.example/play?id=7)"))
	select {
	case argv := <-calls:
		want := []string{"plugin://plugin.video.example/play", "-1", "?id=7", "resume:false"}
		if strings.Join(argv, " ") != strings.Join(want, " ") {
			t.Errorf("Ожидались аргументы %v, получено: %v", want, argv)
		}
	case <-time.After(time.Second):
		t.Fatal("Дополнение не запущено")
	}
}
