// Package realtime pushes notifications to connected browsers over websockets.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/metrics"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

var ErrHubClosed = errors.New("realtime hub is closed")

type client struct {
	hub    *Hub
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks the open streams of every user. Run owns the client set; all
// other methods talk to it through channels.
type Hub struct {
	clients    map[string]map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan domain.Notification
	done       chan struct{}
	mu         sync.RWMutex

	upgrader websocket.Upgrader
	metrics  *metrics.Metrics
}

// NewHub builds a hub. An empty allowedOrigins accepts any origin.
func NewHub(m *metrics.Metrics, allowedOrigins []string) *Hub {
	h := &Hub{
		clients:    make(map[string]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan domain.Notification, 256),
		done:       make(chan struct{}),
		metrics:    m,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
		},
	}
	return h
}

// Run serves registrations and deliveries until ctx is canceled, then closes
// every stream.
func (h *Hub) Run(ctx context.Context) {
	logger.Info("Realtime hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for userID, set := range h.clients {
				for c := range set {
					close(c.send)
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			h.metrics.SetRealtimeClients(0)
			logger.Info("Realtime hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[c.userID]
			if !ok {
				set = make(map[*client]struct{})
				h.clients[c.userID] = set
			}
			set[c] = struct{}{}
			h.mu.Unlock()
			h.metrics.SetRealtimeClients(h.count())
			logger.Debug("Realtime client connected", "userID", c.userID)

		case c := <-h.unregister:
			h.remove(c)

		case n := <-h.broadcast:
			payload, err := json.Marshal(n)
			if err != nil {
				logger.Error("Failed to encode notification", "notificationID", n.ID, "error", err)
				continue
			}
			h.mu.RLock()
			var slow []*client
			for c := range h.clients[n.UserID] {
				select {
				case c.send <- payload:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				logger.Warn("Dropping slow realtime client", "userID", c.userID)
				h.remove(c)
			}
		}
	}
}

// remove must only be called from Run.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	set, ok := h.clients[c.userID]
	if ok {
		if _, ok = set[c]; ok {
			delete(set, c)
			close(c.send)
			if len(set) == 0 {
				delete(h.clients, c.userID)
			}
		}
	}
	h.mu.Unlock()
	if ok {
		h.metrics.SetRealtimeClients(h.count())
		logger.Debug("Realtime client disconnected", "userID", c.userID)
	}
}

func (h *Hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// Connected reports how many streams the user has open.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) Name() string { return "websocket" }

// Deliver queues n for the user's open streams. Users without a stream are
// skipped; they read the notification from their inbox.
func (h *Hub) Deliver(ctx context.Context, n domain.Notification) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	select {
	case h.broadcast <- n:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeWS upgrades the request and attaches the stream to userID, who must
// already be authenticated by the caller.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{hub: h, userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return ErrHubClosed
	}

	go c.writePump()
	go c.readPump()
	return nil
}

// readPump discards inbound frames; it exists to process pongs and notice
// when the peer goes away.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Realtime read error", "userID", c.userID, "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
