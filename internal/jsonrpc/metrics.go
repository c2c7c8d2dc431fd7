package jsonrpc

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sake_jsonrpc_requests_total",
		Help: "The total number of JSON-RPC requests by method and outcome",
	}, []string{"method", "outcome"})

	playerEventCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sake_player_events_total",
		Help: "The total number of player events by kind",
	}, []string{"event"})

	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sake_ws_clients",
		Help: "The number of connected WebSocket clients",
	})
)

// Исходы обработки запроса
const (
	OutcomeHandled  = "handled"
	OutcomeStub     = "stub"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// IncRequest увеличивает счетчик запросов
func IncRequest(method, outcome string) {
	if method == "" {
		method = "invalid"
	}
	requestCount.WithLabelValues(strings.ToLower(method), outcome).Inc()
}

// IncPlayerEvent увеличивает счетчик событий плеера
func IncPlayerEvent(kind string) {
	playerEventCount.WithLabelValues(kind).Inc()
}

// SetConnectedClients устанавливает число подключенных клиентов
func SetConnectedClients(count int) {
	connectedClients.Set(float64(count))
}
