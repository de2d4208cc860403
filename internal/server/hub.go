package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 2 * time.Second
	sendBuffer = 8
)

// client is one websocket subscriber. Messages queue on sending; a client
// that falls sendBuffer frames behind is dropped.
type client struct {
	conn    *websocket.Conn
	sending chan []byte
}

// hub fans frames out to every connected client.
type hub struct {
	mu      sync.Mutex
	clients map[*client]bool
	log     logrus.FieldLogger
}

func newHub(log logrus.FieldLogger) *hub {
	return &hub{clients: make(map[*client]bool), log: log}
}

func (h *hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	h.log.WithField("clients", len(h.clients)).Debug("stream client connected")
}

func (h *hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.sending)
		delete(h.clients, c)
		h.log.WithField("clients", len(h.clients)).Debug("stream client disconnected")
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.sending <- msg:
		default:
			close(c.sending)
			delete(h.clients, c)
			h.log.Warn("dropping slow stream client")
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.sending)
		delete(h.clients, c)
	}
}

// write drains the send queue until it is closed.
func (c *client) write() {
	defer c.conn.Close()
	for msg := range c.sending {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
