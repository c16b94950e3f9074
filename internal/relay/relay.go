// Package relay implements the local control server the bridge posts to.
// Accepted actions are fanned out to connected WebSocket UI clients.
package relay

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jakehasgithubnow/MentraOS-Extended-App/internal/ratelimit"
	"github.com/jakehasgithubnow/MentraOS-Extended-App/pkg/model"
)

const (
	maxRequestBodySize = 1024
	readBufferSize     = 1024
	writeBufferSize    = 1024

	errInvalidPayload = "invalid payload, expected {\"userId\": string, \"action\": string}"
	errRateLimited    = "rate limit exceeded"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  readBufferSize,
	WriteBufferSize: writeBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		// Local development relay; any origin may subscribe.
		return true
	},
}

// Server accepts action events over HTTP and broadcasts them to WebSocket
// subscribers.
type Server struct {
	logger  *zap.Logger
	hub     *hub
	limiter *ratelimit.Limiter
}

// NewServer creates a Server. Call Run in a goroutine to start the
// broadcast hub before serving.
func NewServer(logger *zap.Logger) *Server {
	return &Server{
		logger:  logger,
		hub:     newHub(logger),
		limiter: ratelimit.New(ratelimit.DefaultActionLimit, ratelimit.DefaultWindow),
	}
}

// Run drives the broadcast hub. It never returns.
func (s *Server) Run() {
	s.hub.run()
}

// Handler returns the HTTP routes served by the relay.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/control", s.handleControl)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	var event model.ActionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, errInvalidPayload, http.StatusBadRequest)
		return
	}

	if err := validateEvent(event); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !s.limiter.Allow(event.UserID) {
		s.logger.Warn("action rate limited", zap.String("userID", event.UserID))
		http.Error(w, errRateLimited, http.StatusTooManyRequests)
		return
	}

	payload, err := json.Marshal(model.ActionMessage{
		Type:      model.MessageTypeAction,
		UserID:    event.UserID,
		Action:    event.Action,
		Direction: event.Direction,
	})
	if err != nil {
		s.logger.Error("marshal action message", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.hub.broadcast <- payload

	s.logger.Info("action accepted",
		zap.String("userID", event.UserID),
		zap.String("action", event.Action),
		zap.String("direction", event.Direction),
		zap.String("eventID", r.Header.Get("X-Event-ID")))

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		id:   uuid.NewString(),
		send: make(chan []byte, sendBufferSize),
		hub:  s.hub,
	}
	s.hub.register <- c

	go c.writePump()
	go c.readPump()
}

func validateEvent(event model.ActionEvent) error {
	if event.UserID == "" {
		return fmt.Errorf("userId is required")
	}
	switch event.Action {
	case model.ActionSelect:
		if event.Direction != "" {
			return fmt.Errorf("select action must not carry a direction")
		}
	case model.ActionCycle:
		if event.Direction != model.DirectionUp && event.Direction != model.DirectionDown {
			return fmt.Errorf("cycle action requires direction %q or %q", model.DirectionUp, model.DirectionDown)
		}
	default:
		return fmt.Errorf("unknown action %q", event.Action)
	}
	return nil
}
