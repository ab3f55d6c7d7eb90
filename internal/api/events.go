package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/pulseboard/pulseboard/internal/storage"
)

// Change event types pushed to subscribed clients. A consumer's only
// obligation is to refetch affected queries on any event; the subscription
// is an optimization over polling, not a correctness requirement.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Event describes a single store mutation. Record is set for inserts and
// updates; deletes carry only the id.
type Event struct {
	Type   string          `json:"type"`
	Record *storage.Record `json:"record,omitempty"`
	ID     string          `json:"id,omitempty"`
}

var upgrader = &websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans change events out to all connected websocket clients.
type Hub struct {
	connections map[*connection]bool
	broadcast   chan []byte
	register    chan *connection
	unregister  chan *connection
}

// NewHub creates an event hub. Run must be started before clients connect.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*connection]bool),
		broadcast:   make(chan []byte, 64),
		register:    make(chan *connection),
		unregister:  make(chan *connection),
	}
}

// Publish broadcasts a change event to all connected clients. Marshal
// failures are logged and dropped; delivery is best-effort.
func (h *Hub) Publish(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		slog.Error("marshaling change event", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		slog.Warn("change event dropped, hub backlogged")
	}
}

// Run owns the connection set. It exits when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.connections {
				delete(h.connections, c)
				close(c.send)
			}
			return
		case c := <-h.register:
			h.connections[c] = true
			slog.Debug("websocket client connected")
		case c := <-h.unregister:
			if _, ok := h.connections[c]; ok {
				delete(h.connections, c)
				close(c.send)
			}
			slog.Debug("websocket client disconnected")
		case m := <-h.broadcast:
			for c := range h.connections {
				select {
				case c.send <- m:
				default:
					// Slow client; drop it rather than block the hub.
					delete(h.connections, c)
					close(c.send)
				}
			}
		}
	}
}

type connection struct {
	ws   *websocket.Conn
	send chan []byte
	hub  *Hub
}

// reader drains inbound frames so control messages are processed; client
// payloads are ignored.
func (c *connection) reader() {
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			break
		}
	}
	c.ws.Close()
}

func (c *connection) writer() {
	for message := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
			slog.Debug("websocket write error", "error", err)
			break
		}
	}
	c.ws.Close()
}

func handleEvents(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("upgrading websocket", "error", err)
			return
		}
		c := &connection{ws: ws, send: make(chan []byte, 256), hub: hub}
		hub.register <- c
		defer func() { hub.unregister <- c }()
		go c.writer()
		c.reader()
	}
}
