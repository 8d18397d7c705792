package models

import "encoding/json"

type EventName string

const (
	EventConnected      EventName = "connected"
	EventJoinRoom       EventName = "join_room"
	EventLeaveRoom      EventName = "leave_room"
	EventSendMessage    EventName = "send_message"
	EventReceiveMessage EventName = "receive_message"
	EventError          EventName = "error"
)

// Envelope is the frame exchanged over the socket. Data is kept raw so that
// chat payloads can be rebroadcast byte for byte.
type Envelope struct {
	Event EventName       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ChatMessage holds the fields the gateway inspects on send_message. The
// full payload, including fields not listed here, is rebroadcast unmodified.
type ChatMessage struct {
	Room     string `json:"room"`
	SenderID any    `json:"sender_id,omitempty"`
	Text     string `json:"text,omitempty"`
}

type JoinRequest struct {
	Room string `json:"room"`
}

type ConnectedPayload struct {
	SID string `json:"sid"`
}

type ErrorPayload struct {
	Event   EventName `json:"event,omitempty"`
	Message string    `json:"message"`
}
