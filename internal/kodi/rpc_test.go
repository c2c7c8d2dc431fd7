package kodi

import (
	"context"
	"math"
	"testing"

	"github.com/tidwall/gjson"
)

func rpcCall(t *testing.T, h *Host, request string) gjson.Result {
	t.Helper()
	resp := h.ExecuteJSONRPC(request)
	if !gjson.Valid(resp) {
		t.Fatalf("Ответ не является JSON: %s", resp)
	}
	return gjson.Parse(resp)
}

func TestRPCAddons(t *testing.T) {
	h, _ := newTestHost(t, false)

	resp := rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Addons.GetAddons"}`)
	if resp.Get("result.limits.total").Int() != 2 {
		t.Errorf("Ожидалось 2 дополнения: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Addons.GetAddons","params":{"type":"xbmc.python.script"}}`)
	addons := resp.Get("result.addons").Array()
	if len(addons) != 1 || addons[0].Get("addonid").String() != "script.example.tool" {
		t.Errorf("Фильтр по типу не сработал: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":2,"method":"Addons.GetAddonDetails",
		"params":{"addonid":"plugin.video.example","properties":["name","version","summary","enabled"]}}`)
	addon := resp.Get("result.addon")
	if addon.Get("name").String() != "Example" || addon.Get("version").String() != "1.2.3" {
		t.Errorf("Неверные сведения о дополнении: %s", resp.Raw)
	}
	if addon.Get("summary").String() != "Example summary" || !addon.Get("enabled").Bool() {
		t.Errorf("Неверные сведения о дополнении: %s", resp.Raw)
	}
	if addon.Get("path").Exists() {
		t.Errorf("Незапрошенные свойства не возвращаются: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":3,"method":"Addons.GetAddonDetails","params":{"addonid":"missing"}}`)
	if resp.Get("error.code").Int() != -32602 {
		t.Errorf("Ожидался код -32602: %s", resp.Raw)
	}
}

func TestRPCSettingValue(t *testing.T) {
	h, _ := newTestHost(t, false)

	resp := rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Settings.GetSettingValue","params":{"setting":"locale.language"}}`)
	if resp.Get("result.value").String() != "resource.language.en_gb" {
		t.Errorf("Неверное значение настройки: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Settings.GetSettingValue","params":{"setting":"videoplayer.usedisplayasclock"}}`)
	if resp.Get("result.value").Type != gjson.True {
		t.Errorf("Ожидалось логическое true: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Settings.GetSettingValue","params":{"setting":"missing"}}`)
	if v := resp.Get("result.value"); v.Type != gjson.String || v.String() != "" {
		t.Errorf("Ожидалась пустая строка: %s", resp.Raw)
	}
}

func TestRPCPlayer(t *testing.T) {
	h, _ := newTestHost(t, false)
	ctx := context.Background()

	resp := rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Player.GetActivePlayers"}`)
	if resp.Get("result.#").Int() != 0 {
		t.Errorf("Без воспроизведения список плееров пуст: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Player.PlayPause","params":{"playerid":1}}`)
	if resp.Get("error.code").Int() != -32100 {
		t.Errorf("Ожидался код -32100: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Player.Open","params":{"item":{"file":"/tmp/f.mov"}}}`)
	if resp.Get("result").String() != "OK" {
		t.Fatalf("Неожиданный ответ: %s", resp.Raw)
	}
	mustDo(t, h.Simulator().Advance(ctx))

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Player.GetActivePlayers"}`)
	if resp.Get("result.0.playerid").Int() != 1 {
		t.Errorf("Ожидался активный плеер 1: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Player.Seek","params":{"playerid":1,"value":{"time":{"hours":0,"minutes":0,"seconds":2,"milliseconds":0}}}}`)
	if resp.Get("result.time.seconds").Int() != 2 {
		t.Errorf("Ожидалась позиция 2 секунды: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Player.Seek","params":{"playerid":1,"value":{"seconds":1}}}`)
	if resp.Get("result.time.seconds").Int() != 3 {
		t.Errorf("Относительная перемотка должна дать 3 секунды: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Player.GetProperties","params":{"playerid":1,"properties":["time","totaltime","percentage","speed"]}}`)
	if resp.Get("result.totaltime.seconds").Int() != 5 || math.Abs(resp.Get("result.percentage").Float()-60) > 1e-9 {
		t.Errorf("Неверные свойства плеера: %s", resp.Raw)
	}
	if resp.Get("result.speed").Int() != 1 {
		t.Errorf("Ожидалась скорость 1: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Player.PlayPause","params":{"playerid":1}}`)
	if resp.Get("result.speed").Int() != 0 {
		t.Errorf("После паузы скорость 0: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Player.Stop","params":{"playerid":1}}`)
	if resp.Get("result").String() != "OK" || h.Simulator().Snapshot().State.IsActive() {
		t.Errorf("Плеер должен остановиться: %s", resp.Raw)
	}
}

func TestRPCSeekPercentage(t *testing.T) {
	h, _ := newTestHost(t, false)
	mustDo(t, h.play("/tmp/f.mov", nil))

	resp := rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Player.Seek","params":{"playerid":1,"value":40}}`)
	if resp.Get("result.time.seconds").Int() != 2 {
		t.Errorf("40%% от 5 секунд это 2 секунды: %s", resp.Raw)
	}

	resp = rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Player.Seek","params":{"playerid":1,"value":"forward"}}`)
	if resp.Get("error.code").Int() != -32602 {
		t.Errorf("Ожидался код -32602: %s", resp.Raw)
	}
}

func TestRPCApplicationProperties(t *testing.T) {
	h, _ := newTestHost(t, false)

	resp := rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"Application.GetProperties","params":{"properties":["version","volume"]}}`)
	if resp.Get("result.version.major").Int() != 19 || resp.Get("result.volume").Int() != 100 {
		t.Errorf("Неверные свойства приложения: %s", resp.Raw)
	}
	if resp.Get("result.name").Exists() {
		t.Errorf("Незапрошенные свойства не возвращаются: %s", resp.Raw)
	}
}

func TestRPCUnknownMethodFallback(t *testing.T) {
	h, _ := newTestHost(t, false)

	resp := h.ExecuteJSONRPC(`{"jsonrpc":"2.0","id":1,"method":"VideoLibrary.GetMovies"}`)
	if resp != `{"id":1,"jsonrpc":"2.0","result":"OK"}` {
		t.Errorf("Без каталога заготовок ожидался ответ по умолчанию: %s", resp)
	}
}
