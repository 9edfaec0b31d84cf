// Package realtime pushes cache invalidations to connected consoles so that
// every open list of the same organisation refetches after a write.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/events"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

const (
	MessageInvalidate = "invalidate"

	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

// Message is the frame sent to clients after a resource change.
type Message struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	IDs       []int64   `json:"ids"`
	Keys      []string  `json:"keys"`
	Timestamp time.Time `json:"timestamp"`
}

type Subscriber interface {
	Subscribe(eventType, name string, handler events.Handler) func()
}

type client struct {
	conn  *websocket.Conn
	scope string
	send  chan []byte
}

// Hub keeps the open connections grouped by scope key.
type Hub struct {
	*transport.BaseHandler
	cfg      internal.RealtimeConfig
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]map[*client]struct{}
	closed  bool
}

func NewHub(baseHandler *transport.BaseHandler, cfg internal.RealtimeConfig, origins []string) *Hub {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	h := &Hub{
		BaseHandler: baseHandler,
		cfg:         cfg,
		clients:     make(map[string]map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}
	return h
}

func originChecker(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(origins) == 0 {
			return true
		}
		for _, o := range origins {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// Attach subscribes the hub to resource changes and returns the
// unsubscribe function.
func (h *Hub) Attach(bus Subscriber) func() {
	return bus.Subscribe(events.EventTypeResourceChanged, "realtime.hub", h.Handle)
}

func (h *Hub) Handle(ctx context.Context, event events.Event) error {
	ev, ok := event.(*events.ResourceChangedEvent)
	if !ok {
		return nil
	}
	h.Broadcast(ev.ScopeKey, Message{
		Type:      MessageInvalidate,
		Entity:    ev.Entity,
		Action:    ev.Action,
		IDs:       ev.IDs,
		Keys:      ev.Keys,
		Timestamp: ev.OccurredAt(),
	})
	return nil
}

// Broadcast sends msg to every client of scope. A client whose buffer is
// full is dropped.
func (h *Hub) Broadcast(scope string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.Logger.Error("failed to marshal realtime message", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[scope] {
		select {
		case c.send <- data:
		default:
			h.Logger.Warn("dropping slow realtime client", "scope", scope)
			h.removeLocked(c)
		}
	}
}

// Clients returns the number of open connections of scope.
func (h *Hub) Clients(scope string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[scope])
}

// ServeWS handles GET /ws. The auth middleware has already placed the
// session on the request context.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !scope.Resolved() {
		h.HandleServiceError(w, internal.ErrScopeUnresolved)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the response.
		h.Logger.Warn("ServeWS: upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, scope: scope.Key(), send: make(chan []byte, h.cfg.SendBuffer)}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	h.Logger.Debug("realtime client connected", "scope", c.scope)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.clients[c.scope]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.scope] = set
	}
	set[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked closes the send channel exactly once; the writer sees the
// close and ends the connection.
func (h *Hub) removeLocked(c *client) {
	set, ok := h.clients[c.scope]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.scope)
	}
}

// readPump only consumes control frames; clients never send data.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	pongWait := h.cfg.PingInterval * 10 / 9
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Warn("realtime read failed", "scope", c.scope, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, set := range h.clients {
		for c := range set {
			h.removeLocked(c)
		}
	}
}
