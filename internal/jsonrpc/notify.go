package jsonrpc

import (
	"github.com/tidwall/sjson"

	"github.com/hazadus/go-sake/internal/player"
)

// Sender отправитель уведомлений
const Sender = "xbmc"

// PlayerID идентификатор единственного плеера эмулятора
const PlayerID = 1

var playerMethods = map[player.EventKind]string{
	player.EventStarted:   "Player.OnPlay",
	player.EventAVStarted: "Player.OnAVStart",
	player.EventAVChange:  "Player.OnAVChange",
	player.EventPaused:    "Player.OnPause",
	player.EventResumed:   "Player.OnResume",
	player.EventSeek:      "Player.OnSeek",
	player.EventStopped:   "Player.OnStop",
}

// Notification собирает уведомление {"jsonrpc":"2.0","method":...,"params":{"data":...,"sender":"xbmc"}}.
// data должен быть корректным JSON.
func Notification(method, data string) string {
	out, _ := sjson.Set(`{"jsonrpc":"2.0"}`, "method", method)
	out, _ = sjson.SetRaw(out, "params", `{}`)
	out, _ = sjson.SetRaw(out, "params.data", data)
	out, _ = sjson.Set(out, "params.sender", Sender)
	return out
}

// PlayerMethod имя уведомления для события плеера
func PlayerMethod(kind player.EventKind) (string, bool) {
	m, ok := playerMethods[kind]
	return m, ok
}

// PlayerNotification уведомление о событии плеера
func PlayerNotification(ev player.Event) (string, bool) {
	method, ok := PlayerMethod(ev.Kind)
	if !ok {
		return "", false
	}

	data := `{}`
	data, _ = sjson.Set(data, "item.type", "unknown")
	data, _ = sjson.Set(data, "item.file", ev.File)
	data, _ = sjson.Set(data, "player.playerid", PlayerID)

	switch ev.Kind {
	case player.EventPaused:
		data, _ = sjson.Set(data, "player.speed", 0)
	case player.EventSeek:
		data, _ = sjson.Set(data, "player.speed", 1)
		data, _ = sjson.Set(data, "player.seekoffset", ev.Offset)
		data, _ = sjson.Set(data, "player.time", ev.Position)
	case player.EventStopped:
		data, _ = sjson.Delete(data, "player")
		data, _ = sjson.Set(data, "end", false)
	default:
		data, _ = sjson.Set(data, "player.speed", 1)
	}
	return Notification(method, data), true
}
