package relay

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jakehasgithubnow/MentraOS-Extended-App/pkg/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 256
)

// client is a connected WebSocket UI subscriber. Clients only receive;
// incoming data messages are discarded.
type client struct {
	conn *websocket.Conn
	id   string
	send chan []byte
	hub  *hub
}

// hub fans broadcast messages out to all connected clients.
type hub struct {
	logger     *zap.Logger
	clients    map[*client]struct{}
	clientsMu  sync.Mutex
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
}

func newHub(logger *zap.Logger) *hub {
	return &hub{
		logger:     logger,
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

func (h *hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clientsMu.Lock()
			h.clients[c] = struct{}{}
			count := len(h.clients)
			h.clientsMu.Unlock()
			h.logger.Info("client connected",
				zap.String("clientID", c.id),
				zap.Int("clients", count))
			h.broadcastClientCount(count)

		case c := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.clientsMu.Unlock()
			h.logger.Info("client disconnected",
				zap.String("clientID", c.id),
				zap.Int("clients", count))
			h.broadcastClientCount(count)

		case message := <-h.broadcast:
			h.clientsMu.Lock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow consumer; drop it.
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.clientsMu.Unlock()
		}
	}
}

func (h *hub) broadcastClientCount(count int) {
	payload, err := json.Marshal(model.ClientsMessage{
		Type:    model.MessageTypeClients,
		Clients: count,
	})
	if err != nil {
		h.logger.Error("marshal clients message", zap.Error(err))
		return
	}
	h.broadcast <- payload
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error",
					zap.String("clientID", c.id),
					zap.Error(err))
			}
			return
		}
		// Subscribers have nothing to say; ignore data frames.
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
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
