package notify

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hpungsan/scrawl/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

var (
	// ErrOffline is returned when the player has no open connection.
	ErrOffline = stderrors.New("player is not connected")

	// ErrQueueFull is returned when the player's send queue is saturated.
	ErrQueueFull = stderrors.New("player send queue is full")
)

// client is one player's websocket connection.
type client struct {
	playerID string
	conn     *websocket.Conn
	send     chan []byte
	once     sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub keeps one websocket connection per player and pushes events to them.
// A new connection for a player replaces the old one.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
}

// NewHub creates an empty hub. checkOrigin may be nil to accept same-origin
// requests only.
func NewHub(logger *zap.Logger, checkOrigin func(*http.Request) bool) *Hub {
	return &Hub{
		logger: logger.With(zap.String("component", "hub")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		clients: make(map[string]*client),
	}
}

// NotifyPlayer queues event for playerID. It never blocks on the network.
func (h *Hub) NotifyPlayer(ctx context.Context, playerID string, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[playerID]
	if !ok {
		return ErrOffline
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrQueueFull
	}
}

// Connected reports how many players hold a connection.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve upgrades the request and streams events to playerID until the
// connection closes. The caller has already authorized playerID.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, playerID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already wrote the HTTP error
		h.logger.Warn("websocket upgrade failed", zap.String("player_id", playerID), zap.Error(err))
		return
	}

	c := &client{playerID: playerID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)

	logger := h.logger.With(zap.String("player_id", playerID))
	logger.Info("websocket connected")

	go h.writePump(c, logger)
	h.readPump(c, logger)
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
	metrics.SetConnectedPlayers(0)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[c.playerID]; ok {
		old.close()
	}
	h.clients[c.playerID] = c
	metrics.SetConnectedPlayers(len(h.clients))
}

// unregister removes c unless it was already replaced by a newer connection.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.playerID] == c {
		delete(h.clients, c.playerID)
	}
	c.close()
	metrics.SetConnectedPlayers(len(h.clients))
}

// readPump discards client messages and tracks pongs. It returns when the
// connection fails or closes.
func (h *Hub) readPump(c *client, logger *zap.Logger) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
	}
}

// writePump drains the send queue and keeps the connection alive with pings.
func (h *Hub) writePump(c *client, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
