package websocket

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"nutrition-coach/internal/models"
	"nutrition-coach/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// EventHandler handles one inbound event. A returned error is reported to
// the sending client only and the connection stays open.
type EventHandler func(c *Client, data json.RawMessage) error

var (
	errMissingRoom  = errors.New("room is required")
	errUnknownEvent = errors.New("unknown event")
	errBadEnvelope  = errors.New("message must be a JSON object with an event field")
)

type Gateway struct {
	registry    *Registry
	broadcaster *Broadcaster
	upgrader    websocket.Upgrader
	handlers    map[models.EventName]EventHandler
}

func NewGateway(registry *Registry, broadcaster *Broadcaster, allowedOrigins []string) *Gateway {
	g := &Gateway{
		registry:    registry,
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     newOriginChecker(allowedOrigins),
		},
	}

	g.handlers = map[models.EventName]EventHandler{
		models.EventJoinRoom:    g.handleJoinRoom,
		models.EventLeaveRoom:   g.handleLeaveRoom,
		models.EventSendMessage: g.handleSendMessage,
	}
	return g
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	client := newClient(uuid.NewString(), conn, g)
	g.connect(client)

	go client.WritePump()
	go client.ReadPump()
}

func (g *Gateway) connect(c *Client) {
	g.registry.Register(c)
	if err := c.transition(StateConnected); err != nil {
		logger.Error("Connect failed: %v", err)
		return
	}

	connections, _ := g.registry.Stats()
	logger.Info("Client connected: %s (%d online)", c.id, connections)
	g.emit(c, models.EventConnected, models.ConnectedPayload{SID: c.id})
}

func (g *Gateway) disconnect(c *Client) {
	g.registry.DisconnectAll(c.id)
	if c.close() {
		logger.Info("Client disconnected: %s", c.id)
	}
}

// Shutdown closes every live connection.
func (g *Gateway) Shutdown() {
	peers := g.registry.All()
	for _, p := range peers {
		if c, ok := p.(*Client); ok {
			g.disconnect(c)
		}
	}
	logger.Info("Closed %d websocket connections", len(peers))
}

func (g *Gateway) dispatch(c *Client, raw []byte) {
	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
		g.emitError(c, "", errBadEnvelope)
		return
	}

	handler, ok := g.handlers[env.Event]
	if !ok {
		g.emitError(c, env.Event, fmt.Errorf("%w %q", errUnknownEvent, env.Event))
		return
	}

	if err := handler(c, env.Data); err != nil {
		logger.Debug("Rejected %s from %s: %v", env.Event, c.id, err)
		g.emitError(c, env.Event, err)
	}
}

func (g *Gateway) handleJoinRoom(c *Client, data json.RawMessage) error {
	room, err := roomFromPayload(data)
	if err != nil {
		return err
	}

	g.registry.Join(c.id, room)
	logger.Info("Client %s joined room %s", c.id, room)
	return nil
}

func (g *Gateway) handleLeaveRoom(c *Client, data json.RawMessage) error {
	room, err := roomFromPayload(data)
	if err != nil {
		return err
	}

	g.registry.Leave(c.id, room)
	logger.Info("Client %s left room %s", c.id, room)
	return nil
}

// handleSendMessage rebroadcasts the payload bytes unmodified to every room
// member, sender included.
func (g *Gateway) handleSendMessage(c *Client, data json.RawMessage) error {
	var msg models.ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("invalid message payload: %w", err)
	}
	if msg.Room == "" {
		return errMissingRoom
	}

	delivered := g.broadcaster.Broadcast(msg.Room, receiveMessageFrame(data), "")
	logger.Debug("Message from %s to room %s delivered to %d clients", c.id, msg.Room, delivered)
	return nil
}

// receiveMessageFrame wraps data without re-encoding it, so clients see the
// exact bytes the sender wrote.
func receiveMessageFrame(data json.RawMessage) []byte {
	frame := make([]byte, 0, len(data)+40)
	frame = append(frame, `{"event":"`+string(models.EventReceiveMessage)+`","data":`...)
	frame = append(frame, data...)
	return append(frame, '}')
}

// roomFromPayload accepts either a bare room name or {"room": "..."}.
func roomFromPayload(data json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", errMissingRoom
	}

	var room string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &room); err != nil {
			return "", fmt.Errorf("invalid room: %w", err)
		}
	} else {
		var req models.JoinRequest
		if err := json.Unmarshal(trimmed, &req); err != nil {
			return "", fmt.Errorf("invalid room: %w", err)
		}
		room = req.Room
	}

	if room == "" {
		return "", errMissingRoom
	}
	return room, nil
}

func (g *Gateway) emit(c *Client, event models.EventName, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error marshaling %s payload: %v", event, err)
		return
	}

	out, err := json.Marshal(models.Envelope{Event: event, Data: data})
	if err != nil {
		logger.Error("Error marshaling %s envelope: %v", event, err)
		return
	}

	if !c.Send(out) {
		logger.Debug("Dropped %s event for %s", event, c.id)
	}
}

func (g *Gateway) emitError(c *Client, event models.EventName, err error) {
	g.emit(c, models.EventError, models.ErrorPayload{Event: event, Message: err.Error()})
}
