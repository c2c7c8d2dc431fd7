package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hazadus/go-sake/internal/config"
	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/kodi"
	"github.com/hazadus/go-sake/internal/logger"
	"github.com/hazadus/go-sake/internal/plugin"
)

const testManifest = `<?xml version="1.0" encoding="UTF-8"?>
<addon id="plugin.video.example" name="Example" version="1.2.3" provider-name="hazadus">
  <extension point="xbmc.python.pluginsource" library="main.js">
    <provides>video</provides>
  </extension>
</addon>
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

type testEnv struct {
	h        *kodi.Host
	out      *bytes.Buffer
	addonDir string
	runner   *Runner
}

// newTestEnv создает Host с дополнением plugin.video.example. tick задает такт плеера,
// 0 означает ручные такты
func newTestEnv(t *testing.T, tick time.Duration) *testEnv {
	t.Helper()

	home := t.TempDir()
	addonDir := filepath.Join(home, "addons", "plugin.video.example")
	writeFile(t, filepath.Join(addonDir, "addon.xml"), testManifest)
	writeFile(t, filepath.Join(addonDir, "main.js"), "")
	if err := os.MkdirAll(filepath.Join(home, "userdata"), 0755); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.KodiHome = home
	cfg.Interactive = false
	cfg.Player.TickInterval = tick

	var out bytes.Buffer
	runner := New(logger.Discard())
	h, err := kodi.New(context.Background(), kodi.Options{
		Config:  cfg,
		Cwd:     addonDir,
		Console: console.New(console.Options{Out: &out}),
		Logger:  logger.Discard(),
		Runner:  runner,
	})
	if err != nil {
		t.Fatalf("Ошибка создания Host: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return &testEnv{h: h, out: &out, addonDir: addonDir, runner: runner}
}

// run записывает скрипт во временный файл и выполняет его
func (e *testEnv) run(t *testing.T, name, source string, argv ...string) error {
	t.Helper()
	entry := filepath.Join(t.TempDir(), name)
	writeFile(t, entry, source)
	return e.runner.Run(context.Background(), e.h, entry, append([]string{entry}, argv...))
}

// captureListings запоминает закрытые каталоги
func captureListings(h *kodi.Host) func() []*plugin.Listing {
	var mu sync.Mutex
	var listings []*plugin.Listing
	h.Plugins().OnClose(func(l *plugin.Listing) {
		mu.Lock()
		defer mu.Unlock()
		listings = append(listings, l)
	})
	return func() []*plugin.Listing {
		mu.Lock()
		defer mu.Unlock()
		return append([]*plugin.Listing(nil), listings...)
	}
}

func TestSupported(t *testing.T) {
	for path, want := range map[string]bool{
		"main.js":   true,
		"MAIN.LUA":  true,
		"addon.py":  false,
		"README.md": false,
	} {
		if Supported(path) != want {
			t.Errorf("%s: ожидалось %t", path, want)
		}
	}
}

func TestUnsupportedScript(t *testing.T) {
	env := newTestEnv(t, 0)

	err := env.run(t, "default.py", "print('hi')")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Ожидалась ErrUnsupported, получено: %v", err)
	}
}

func TestJSDirectoryListing(t *testing.T) {
	env := newTestEnv(t, 0)
	listings := captureListings(env.h)

	writeFile(t, filepath.Join(env.addonDir, "main.js"), `
var handle = parseInt(sys.argv[1]);
var movies = xbmcgui.ListItem("Movies");
xbmcplugin.addDirectoryItem(handle, sys.argv[0] + "movies", movies, true);
var clip = xbmcgui.ListItem("Clip");
clip.setInfo("video", {title: "Clip title", year: 2020});
clip.setProperty("IsPlayable", "true");
xbmcplugin.addDirectoryItems(handle, [[sys.argv[0] + "play?id=1", clip, false]]);
xbmcplugin.addSortMethod(handle, xbmcplugin.SORT_METHOD_LABEL);
xbmcplugin.setContent(handle, "movies");
xbmcplugin.endOfDirectory(handle);
`)

	err := env.h.RunPlugin(context.Background(), "plugin://plugin.video.example/", kodi.RunOptions{Handle: 5})
	if err != nil {
		t.Fatalf("Ошибка выполнения плагина: %v", err)
	}

	got := listings()
	if len(got) != 1 {
		t.Fatalf("Ожидался один каталог, получено: %d", len(got))
	}
	l := got[0]
	if l.Handle != 5 || l.Count() != 2 || !l.Succeeded {
		t.Errorf("Неверный каталог: %+v", l)
	}
	if !l.Entries[0].IsFolder || l.Entries[1].IsFolder {
		t.Error("Неверные признаки папок")
	}
	if l.Entries[1].URL != "plugin://plugin.video.example/play?id=1" {
		t.Errorf("Неверный URL: %s", l.Entries[1].URL)
	}
	if l.Entries[1].Item.GetProperty("IsPlayable") != "true" {
		t.Error("Свойство элемента должно сохраниться")
	}
	if title, _ := l.Entries[1].Item.Info("title"); title != "Clip title" {
		t.Errorf("Ожидался заголовок Clip title, получено: %v", title)
	}
	if l.Content != "movies" || len(l.SortMethods) != 1 || l.SortMethods[0] != plugin.SortMethodLabel {
		t.Errorf("Неверные свойства каталога: %+v", l)
	}
	if !strings.Contains(env.out.String(), "End of Folder (items=2") {
		t.Errorf("Ожидался итог каталога в выводе: %q", env.out.String())
	}
}

func TestJSErrors(t *testing.T) {
	env := newTestEnv(t, 0)

	err := env.run(t, "caught.js", `
try {
  xbmcaddon.Addon("plugin.video.missing");
} catch (e) {
  xbmcgui.Window(10000).setProperty("caught", "yes");
}
`)
	if err != nil {
		t.Fatalf("Ошибка должна перехватываться скриптом: %v", err)
	}
	if env.h.GetWindowProperty("caught") != "yes" {
		t.Error("Исключение не перехвачено")
	}

	err = env.run(t, "thrown.js", `throw new Error("boom");`)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Ожидалась ошибка boom, получено: %v", err)
	}
}

func TestJSAddonAndSettings(t *testing.T) {
	env := newTestEnv(t, 0)

	err := env.run(t, "addon.js", `
var addon = xbmcaddon.Addon();
addon.setSetting("quality", "720p");
var w = xbmcgui.Window(10000);
w.setProperty("id", addon.getAddonInfo("id"));
w.setProperty("version", addon.getAddonInfo("version"));
w.setProperty("quality", addon.getSetting("quality"));
w.setProperty("plugin-setting", xbmcplugin.getSetting(1, "quality"));
console.log("argv", sys.argv.length);
`)
	if err != nil {
		t.Fatalf("Ошибка выполнения: %v", err)
	}

	for key, want := range map[string]string{
		"id":             "plugin.video.example",
		"version":        "1.2.3",
		"quality":        "720p",
		"plugin-setting": "720p",
	} {
		if got := env.h.GetWindowProperty(key); got != want {
			t.Errorf("%s: ожидалось %q, получено %q", key, want, got)
		}
	}
	if !strings.Contains(env.out.String(), "argv 1") {
		t.Errorf("Ожидался вывод console.log: %q", env.out.String())
	}
}

func TestJSInputStreamHelper(t *testing.T) {
	env := newTestEnv(t, 0)

	err := env.run(t, "isa.js", `
var helper = inputstreamhelper.Helper("mpd", "com.widevine.alpha");
xbmcgui.Window(10000).setProperty("isa", String(helper.check_inputstream()));
xbmcgui.Window(10000).setProperty("plain", String(inputstreamhelper.Helper("hls").check_inputstream()));
`)
	if err != nil {
		t.Fatalf("Ошибка выполнения: %v", err)
	}
	for _, key := range []string{"isa", "plain"} {
		if got := env.h.GetWindowProperty(key); got != "true" {
			t.Errorf("%s: check_inputstream должен возвращать true, получено %q", key, got)
		}
	}
}

func TestJSPlayerCallbacks(t *testing.T) {
	env := newTestEnv(t, 10*time.Millisecond)

	err := env.run(t, "play.js", `
var w = xbmcgui.Window(10000);
var player = xbmc.Player({
  onAVStarted: function() { w.setProperty("started", "yes"); },
  onPlayBackStopped: function() { w.setProperty("stopped", "yes"); }
});
var li = xbmcgui.ListItem("Clip", "", "/tmp/clip.mp4");
xbmcplugin.setResolvedUrl(parseInt(sys.argv[1]), true, li);
var monitor = xbmc.Monitor();
for (var i = 0; i < 250 && w.getProperty("stopped") !== "yes"; i++) {
  if (monitor.waitForAbort(0.02)) break;
}
`, "1")
	if err != nil {
		t.Fatalf("Ошибка выполнения: %v", err)
	}

	if env.h.GetWindowProperty("started") != "yes" {
		t.Error("onAVStarted не вызван")
	}
	if env.h.GetWindowProperty("stopped") != "yes" {
		t.Error("onPlayBackStopped не вызван")
	}
}

func TestJSCancel(t *testing.T) {
	env := newTestEnv(t, 0)
	entry := filepath.Join(t.TempDir(), "loop.js")
	writeFile(t, entry, "while (true) {}")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := env.runner.Run(ctx, env.h, entry, []string{entry})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Ожидалась отмена по таймауту, получено: %v", err)
	}
}
