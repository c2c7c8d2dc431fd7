package kodi

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParsePluginURL(t *testing.T) {
	tests := []struct {
		url     string
		want    PluginCall
		wantErr bool
	}{
		{url: "plugin://plugin.video.example/", want: PluginCall{AddonID: "plugin.video.example", Path: "/"}},
		{url: "plugin://plugin.video.example", want: PluginCall{AddonID: "plugin.video.example"}},
		{
			url:  "plugin://plugin.video.example/list/movies?page=2&sort=name",
			want: PluginCall{AddonID: "plugin.video.example", Path: "/list/movies", Query: "?page=2&sort=name"},
		},
		{url: "plugin://", wantErr: true},
		{url: "http://example.com/", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePluginURL(tt.url)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPluginURL) {
				t.Errorf("%s: ожидалась ErrInvalidPluginURL, получено: %v", tt.url, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: неожиданная ошибка: %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: ожидалось %+v, получено %+v", tt.url, tt.want, got)
		}
	}
}

func TestPluginArgv(t *testing.T) {
	call := PluginCall{AddonID: "plugin.video.example", Path: "/play", Query: "?id=1"}

	argv := PluginArgv(call, RunOptions{Handle: 3, Resume: true})
	want := []string{"plugin://plugin.video.example/play", "3", "?id=1", "resume:true"}
	if strings.Join(argv, "|") != strings.Join(want, "|") {
		t.Errorf("Ожидалось %v, получено: %v", want, argv)
	}
}

func TestParseHandle(t *testing.T) {
	if ParseHandle("12") != 12 {
		t.Error("Ожидался handle 12")
	}
	if ParseHandle("abc") != -1 {
		t.Error("Некорректный handle должен давать -1")
	}
}

func TestRunPluginForeground(t *testing.T) {
	h, _ := newTestHost(t, false)

	var gotArgv []string
	h.SetRunner(RunnerFunc(func(_ context.Context, host *Host, entry string, argv []string) error {
		if host != h {
			t.Error("Исполнитель должен получить тот же Host")
		}
		gotArgv = argv
		return nil
	}))

	mustDo(t, h.RunPlugin(context.Background(), "plugin://plugin.video.example/", RunOptions{Handle: 1}))
	if len(gotArgv) != 4 || gotArgv[1] != "1" || gotArgv[3] != "resume:false" {
		t.Errorf("Неверные аргументы: %v", gotArgv)
	}

	err := h.RunPlugin(context.Background(), "plugin://plugin.video.missing/", RunOptions{})
	if !errors.Is(err, ErrAddonNotFound) {
		t.Errorf("Ожидалась ErrAddonNotFound, получено: %v", err)
	}
}

func TestRunPluginWithoutRunner(t *testing.T) {
	h, _ := newTestHost(t, false)

	err := h.RunPlugin(context.Background(), "plugin://plugin.video.example/", RunOptions{})
	if !errors.Is(err, ErrNoRunner) {
		t.Errorf("Ожидалась ErrNoRunner, получено: %v", err)
	}
}

func TestRunScriptByAddonID(t *testing.T) {
	h, _ := newTestHost(t, false)

	entries := make(chan string, 1)
	h.SetRunner(RunnerFunc(func(_ context.Context, _ *Host, entry string, argv []string) error {
		if len(argv) != 2 || argv[1] != "arg" {
			t.Errorf("Неверные аргументы: %v", argv)
		}
		entries <- entry
		return nil
	}))

	mustDo(t, h.RunScript("script.example.tool", "arg"))
	select {
	case entry := <-entries:
		if filepath.Base(entry) != "tool.lua" {
			t.Errorf("Ожидался tool.lua, получено: %s", entry)
		}
	case <-time.After(time.Second):
		t.Fatal("Скрипт не запущен")
	}

	if err := h.RunScript("script.missing"); !errors.Is(err, ErrAddonNotFound) {
		t.Errorf("Ожидалась ErrAddonNotFound, получено: %v", err)
	}
}

func TestBrowseAndOpen(t *testing.T) {
	h, _ := newTestHost(t, false)

	h.SetRunner(RunnerFunc(func(_ context.Context, host *Host, _ string, argv []string) error {
		handle := ParseHandle(argv[1])
		if argv[2] == "?play=1" {
			item := host.NewListItem("Clip", "", "/tmp/clip.mp4")
			return host.SetResolvedURL(handle, true, item)
		}
		host.AddDirectoryItem(handle, "plugin://plugin.video.example/?play=1", host.NewListItem("Clip", "", ""), false)
		host.EndOfDirectory(handle, true, false, true)
		return nil
	}))

	ctx := context.Background()
	first, err := h.Browse(ctx, "plugin://plugin.video.example/")
	mustDo(t, err)
	if first == nil || first.Count() != 1 {
		t.Fatalf("Ожидался каталог из одного элемента, получено: %+v", first)
	}
	second, err := h.Browse(ctx, "plugin://plugin.video.example/")
	mustDo(t, err)
	if second.Handle == first.Handle {
		t.Error("Каждый переход должен получать новый дескриптор")
	}

	mustDo(t, h.Open(ctx, first.Entries[0].URL, first.Entries[0].Item))
	if snap := h.Simulator().Snapshot(); snap.File != "/tmp/clip.mp4" {
		t.Errorf("Ожидалось воспроизведение /tmp/clip.mp4, получено: %+v", snap)
	}

	mustDo(t, h.Open(ctx, "/tmp/direct.mp3", nil))
	if snap := h.Simulator().Snapshot(); snap.File != "/tmp/direct.mp3" {
		t.Errorf("Ожидалось воспроизведение /tmp/direct.mp3, получено: %+v", snap)
	}
}
