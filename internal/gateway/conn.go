package gateway

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 8192
	sendQueueSize  = 256
)

// Conn is one client channel. The Send queue decouples table broadcasts from
// socket writes; a full queue drops the connection rather than blocking a
// table actor.
type Conn struct {
	ID string

	ws *websocket.Conn
	gw *Gateway

	// Send is never closed; done signals the writer so a broadcast racing a
	// teardown cannot hit a closed channel.
	Send chan []byte
	done chan struct{}

	mu        sync.Mutex
	closed    bool
	table     string
	spectator bool
}

func newConn(id string, ws *websocket.Conn, gw *Gateway) *Conn {
	return &Conn{
		ID:   id,
		ws:   ws,
		gw:   gw,
		Send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
}

// enqueue hands bytes to the writer. Returns false when the queue is full,
// which marks the client as too slow to keep.
func (c *Conn) enqueue(data []byte) bool {
	select {
	case c.Send <- data:
		return true
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Conn) setTable(id string, spectator bool) {
	c.mu.Lock()
	c.table = id
	c.spectator = spectator
	c.mu.Unlock()
}

func (c *Conn) currentTable() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table, c.spectator
}

func (c *Conn) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	close(c.done)
	c.ws.Close()
}

// readPump feeds inbound frames to the gateway dispatcher until the socket
// dies.
func (c *Conn) readPump() {
	defer c.gw.dropConn(c)

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.gw.log.Debugf("conn %s read error: %v", c.ID, err)
			}
			return
		}
		c.gw.dispatch(c, data)
	}
}

// writePump drains the Send queue and keeps the socket alive with pings.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case data := <-c.Send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
