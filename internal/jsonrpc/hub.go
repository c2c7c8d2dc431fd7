package jsonrpc

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hazadus/go-sake/internal/logger"
	"github.com/hazadus/go-sake/internal/player"
)

const (
	pingInterval  = 30 * time.Second
	writeTimeout  = 10 * time.Second
	sendQueueSize = 256
)

// Hub рассылает уведомления подключенным WebSocket клиентам
// и выполняет присланные ими запросы
type Hub struct {
	mu         sync.RWMutex
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	clients    map[*wsClient]bool
	log        *logger.Logger
}

type wsClient struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub создает хаб. allowedOrigins пустой или с "*" разрешает любой Origin.
func NewHub(d *Dispatcher, allowedOrigins []string, log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Global()
	}
	return &Hub{
		dispatcher: d,
		clients:    make(map[*wsClient]bool),
		log:        log.With("component", "ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowedOrigins) == 0 || origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

// Clients число подключенных клиентов
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP принимает WebSocket подключение
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ошибка установки WebSocket соединения", "error", err)
		return
	}

	c := &wsClient{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}

	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()
	SetConnectedClients(count)
	h.log.Debug("клиент подключен", "client", c.id)

	go c.writePump()
	go c.readPump()
}

// Broadcast отправляет сообщение всем клиентам.
// Клиент с переполненной очередью отключается.
func (h *Hub) Broadcast(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- []byte(message):
		default:
			h.dropLocked(c)
		}
	}
}

// PlayerListener слушатель плеера, рассылающий уведомления Player.On*
func (h *Hub) PlayerListener() player.Listener {
	return func(ev player.Event) {
		IncPlayerEvent(ev.Kind.String())
		if msg, ok := PlayerNotification(ev); ok {
			h.Broadcast(msg)
		}
	}
}

// Close отключает всех клиентов
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.dropLocked(c)
	}
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *wsClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	SetConnectedClients(len(h.clients))
	h.log.Debug("клиент отключен", "client", c.id)
}

// readPump выполняет запросы клиента и отправляет ему ответы
func (c *wsClient) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		resp := c.hub.dispatcher.Execute(context.Background(), string(message))

		c.hub.mu.RLock()
		_, alive := c.hub.clients[c]
		if alive {
			select {
			case c.send <- []byte(resp):
			default:
			}
		}
		c.hub.mu.RUnlock()
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
