package model

// Actions understood by the control server.
const (
	ActionSelect = "select"
	ActionCycle  = "cycle"
)

// Directions for cycle actions.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// ActionEvent is the payload the bridge posts to the control endpoint.
type ActionEvent struct {
	UserID    string `json:"userId"`
	Action    string `json:"action"`
	Direction string `json:"direction,omitempty"`
}

// Message types broadcast by the relay to its WebSocket clients.
const (
	MessageTypeAction  = "action"
	MessageTypeClients = "clients"
)

// ActionMessage is fanned out to every connected client for each accepted event.
type ActionMessage struct {
	Type      string `json:"type"`
	UserID    string `json:"userId"`
	Action    string `json:"action"`
	Direction string `json:"direction,omitempty"`
}

// ClientsMessage reports the number of connected WebSocket clients.
type ClientsMessage struct {
	Type    string `json:"type"`
	Clients int    `json:"clients"`
}
