package kodi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hazadus/go-sake/internal/addon"
	"github.com/hazadus/go-sake/internal/jsonrpc"
	"github.com/hazadus/go-sake/internal/player"
	"github.com/hazadus/go-sake/internal/utils"
)

// errFailedToExecute ответ Kodi на команду плееру без активного сеанса
var errFailedToExecute = &jsonrpc.Error{Code: -32100, Message: "Failed to execute method."}

var guiSettingRe = regexp.MustCompile(`id="([^"]+)"[^>]*>([^<]+)<`)

type addonsParams struct {
	Type       string   `json:"type"`
	Properties []string `json:"properties"`
}

type addonDetailsParams struct {
	AddonID    string   `json:"addonid"`
	Properties []string `json:"properties"`
}

type settingParams struct {
	Setting string `json:"setting"`
}

type playerParams struct {
	PlayerID   int      `json:"playerid"`
	Properties []string `json:"properties"`
}

type seekParams struct {
	PlayerID int             `json:"playerid"`
	Value    json.RawMessage `json:"value"`
}

type openParams struct {
	Item struct {
		File string `json:"file"`
	} `json:"item"`
}

type applicationParams struct {
	Properties []string `json:"properties"`
}

// Время в формате Kodi Global.Time
type rpcTime struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	Seconds      int `json:"seconds"`
	Milliseconds int `json:"milliseconds"`
}

func newRPCTime(seconds float64) rpcTime {
	h, m, s, ms := utils.ClockParts(seconds)
	return rpcTime{Hours: h, Minutes: m, Seconds: s, Milliseconds: ms}
}

func (t rpcTime) seconds() float64 {
	return float64(t.Hours*3600+t.Minutes*60+t.Seconds) + float64(t.Milliseconds)/1000
}

func (h *Host) registerRPC(r *jsonrpc.Registry) error {
	if err := jsonrpc.RegisterBuiltins(r); err != nil {
		return err
	}

	regs := []error{
		jsonrpc.Register(r, "Addons.GetAddons", h.rpcGetAddons),
		jsonrpc.Register(r, "Addons.GetAddonDetails", h.rpcGetAddonDetails),
		jsonrpc.Register(r, "Settings.GetSettingValue", h.rpcGetSettingValue),
		jsonrpc.Register(r, "Player.GetActivePlayers", h.rpcGetActivePlayers),
		jsonrpc.Register(r, "Player.GetProperties", h.rpcGetPlayerProperties),
		jsonrpc.Register(r, "Player.GetItem", h.rpcGetItem),
		jsonrpc.Register(r, "Player.PlayPause", h.rpcPlayPause),
		jsonrpc.Register(r, "Player.Stop", h.rpcStop),
		jsonrpc.Register(r, "Player.Seek", h.rpcSeek),
		jsonrpc.Register(r, "Player.Open", h.rpcOpen),
		jsonrpc.Register(r, "Application.GetProperties", h.rpcApplicationProperties),
	}
	for _, err := range regs {
		if err != nil {
			return fmt.Errorf("ошибка регистрации JSON-RPC: %w", err)
		}
	}
	return nil
}

func (h *Host) rpcGetAddons(_ context.Context, p addonsParams) (any, error) {
	addons := []map[string]any{}
	for _, m := range h.installedAddons() {
		if p.Type != "" && p.Type != "unknown" && m.Type() != p.Type {
			continue
		}
		addons = append(addons, map[string]any{
			"type":    m.Type(),
			"addonid": m.ID,
		})
	}
	return map[string]any{
		"addons": addons,
		"limits": map[string]int{"start": 0, "end": len(addons), "total": len(addons)},
	}, nil
}

func (h *Host) rpcGetAddonDetails(_ context.Context, p addonDetailsParams) (any, error) {
	dir := h.findAddonDir(p.AddonID)
	if dir == "" {
		return nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: "Invalid params.", Data: p.AddonID}
	}
	m, err := addon.ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	all := map[string]any{
		"name":        m.Name,
		"version":     m.Version,
		"summary":     m.Summary(),
		"description": m.Description(),
		"disclaimer":  m.Disclaimer(),
		"author":      m.ProviderName,
		"path":        dir,
		"fanart":      m.Fanart(),
		"thumbnail":   m.Icon(),
		"enabled":     true,
		"installed":   true,
	}
	details := map[string]any{"addonid": m.ID, "type": m.Type()}
	for _, prop := range p.Properties {
		if v, ok := all[prop]; ok {
			details[prop] = v
		}
	}
	return map[string]any{"addon": details}, nil
}

// guiSettings значения из profile/guisettings.xml, читаются один раз
func (h *Host) guiSettings() map[string]string {
	h.guiOnce.Do(func() {
		content, err := os.ReadFile(filepath.Join(h.env.ProfilePath, "guisettings.xml"))
		if err != nil {
			h.guiValues = map[string]string{}
			return
		}
		h.guiValues = addon.ScrapePairs(string(content), guiSettingRe)
	})
	return h.guiValues
}

func (h *Host) rpcGetSettingValue(_ context.Context, p settingParams) (any, error) {
	value, ok := h.guiSettings()[p.Setting]
	if !ok {
		return map[string]any{"value": ""}, nil
	}
	if value == "true" {
		return map[string]any{"value": true}, nil
	}
	return map[string]any{"value": value}, nil
}

func (h *Host) rpcGetActivePlayers(_ context.Context, _ struct{}) (any, error) {
	if !h.player.Snapshot().State.IsActive() {
		return []any{}, nil
	}
	return []map[string]any{{
		"playerid":   jsonrpc.PlayerID,
		"playertype": "internal",
		"type":       "video",
	}}, nil
}

func playerSpeed(snap player.Snapshot) int {
	if snap.State == player.Playing {
		return 1
	}
	return 0
}

func (h *Host) rpcGetPlayerProperties(_ context.Context, p playerParams) (any, error) {
	snap := h.player.Snapshot()
	all := map[string]any{
		"time":       newRPCTime(snap.Position),
		"totaltime":  newRPCTime(snap.Total),
		"percentage": snap.Percentage(),
		"speed":      playerSpeed(snap),
		"position":   0,
		"playlistid": 1,
		"type":       "video",
	}

	props := p.Properties
	if len(props) == 0 {
		props = []string{"time", "totaltime", "percentage", "speed"}
	}
	result := make(map[string]any, len(props))
	for _, name := range props {
		if v, ok := all[strings.ToLower(name)]; ok {
			result[name] = v
		}
	}
	return result, nil
}

func (h *Host) rpcGetItem(_ context.Context, _ playerParams) (any, error) {
	snap := h.player.Snapshot()
	item := map[string]any{"type": "unknown", "label": "", "file": snap.File}
	if li := h.playingItem(); li != nil {
		item["label"] = li.GetLabel()
	}
	return map[string]any{"item": item}, nil
}

func (h *Host) rpcPlayPause(ctx context.Context, _ playerParams) (any, error) {
	if !h.player.Snapshot().State.IsActive() {
		return nil, errFailedToExecute
	}
	if err := h.player.Pause(ctx); err != nil {
		return nil, err
	}
	return map[string]int{"speed": playerSpeed(h.player.Snapshot())}, nil
}

func (h *Host) rpcStop(ctx context.Context, _ playerParams) (any, error) {
	if err := h.player.Stop(ctx); err != nil {
		return nil, err
	}
	return "OK", nil
}

// rpcSeek принимает value как проценты, {"percentage":n}, {"seconds":n} (относительно)
// или {"time":{...}}
func (h *Host) rpcSeek(ctx context.Context, p seekParams) (any, error) {
	snap := h.player.Snapshot()
	if !snap.State.IsActive() {
		return nil, errFailedToExecute
	}

	target, err := seekTarget(p.Value, snap)
	if err != nil {
		return nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: "Invalid params.", Data: err.Error()}
	}
	if err := h.player.Seek(ctx, target); err != nil {
		return nil, err
	}

	snap = h.player.Snapshot()
	return map[string]any{
		"percentage": snap.Percentage(),
		"time":       newRPCTime(snap.Position),
		"totaltime":  newRPCTime(snap.Total),
	}, nil
}

func seekTarget(raw json.RawMessage, snap player.Snapshot) (float64, error) {
	var percentage float64
	if err := json.Unmarshal(raw, &percentage); err == nil {
		return snap.Total * percentage / 100, nil
	}

	var value struct {
		Percentage *float64 `json:"percentage"`
		Seconds    *float64 `json:"seconds"`
		Time       *rpcTime `json:"time"`
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, fmt.Errorf("некорректное значение перемотки: %w", err)
	}
	switch {
	case value.Time != nil:
		return value.Time.seconds(), nil
	case value.Seconds != nil:
		return snap.Position + *value.Seconds, nil
	case value.Percentage != nil:
		return snap.Total * *value.Percentage / 100, nil
	}
	return 0, fmt.Errorf("не указано значение перемотки")
}

func (h *Host) rpcOpen(_ context.Context, p openParams) (any, error) {
	if p.Item.File == "" {
		return nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: "Invalid params.", Data: "item.file"}
	}
	if strings.HasPrefix(p.Item.File, "plugin://") {
		if err := h.RunPluginBackground(p.Item.File); err != nil {
			return nil, err
		}
		return "OK", nil
	}
	if err := h.play(p.Item.File, nil); err != nil {
		return nil, err
	}
	return "OK", nil
}

func (h *Host) rpcApplicationProperties(_ context.Context, p applicationParams) (any, error) {
	all := map[string]any{
		"name": "Kodi",
		"version": map[string]any{
			"major":    19,
			"minor":    0,
			"revision": "20200626-xxxxxxxxxx",
			"tag":      "stable",
		},
		"volume": 100,
		"muted":  false,
	}
	props := p.Properties
	if len(props) == 0 {
		props = []string{"name", "version"}
	}
	result := make(map[string]any, len(props))
	for _, name := range props {
		if v, ok := all[name]; ok {
			result[name] = v
		}
	}
	return result, nil
}
