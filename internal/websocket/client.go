package websocket

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"nutrition-coach/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024
	sendQueueSize  = 256
)

type State int

const (
	StateConnecting State = iota
	StateConnected
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Client struct {
	id      string
	conn    *websocket.Conn
	gateway *Gateway
	send    chan []byte

	mu    sync.Mutex
	state State
}

func newClient(id string, conn *websocket.Conn, gateway *Gateway) *Client {
	return &Client{
		id:      id,
		conn:    conn,
		gateway: gateway,
		send:    make(chan []byte, sendQueueSize),
		state:   StateConnecting,
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// transition moves the client forward through connecting, connected and
// disconnected. Disconnected is terminal.
func (c *Client) transition(to State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitionLocked(to)
}

func (c *Client) transitionLocked(to State) error {
	if to <= c.state {
		return fmt.Errorf("invalid transition %s -> %s for %s", c.state, to, c.id)
	}
	c.state = to
	return nil
}

// Send queues message without blocking. It reports false when the client is
// not connected or its queue is full.
func (c *Client) Send(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConnected {
		return false
	}

	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// close ends the session once; the write pump drains and closes the socket.
func (c *Client) close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDisconnected {
		return false
	}
	if err := c.transitionLocked(StateDisconnected); err != nil {
		return false
	}
	close(c.send)
	return true
}

func (c *Client) ReadPump() {
	defer func() {
		c.gateway.disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if !isExpectedCloseError(err) {
				logger.Error("WebSocket read error from %s: %v", c.id, err)
			}
			break
		}

		c.gateway.dispatch(c, message)
	}
}

func (c *Client) WritePump() {
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
				logger.Error("Write error for %s: %v", c.id, err)
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

func isExpectedCloseError(err error) bool {
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
		websocket.CloseAbnormalClosure) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
