package live

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Listeners only send control frames.
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one websocket listener of a session.
type Client struct {
	hub     *Hub
	session string
	conn    *websocket.Conn
	send    chan []byte
}

// readPump drains the connection so pongs and close frames are processed.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("live: session %s: %v", c.session, err)
			}
			return
		}
	}
}

// writePump forwards hub messages and keeps the connection alive.
func (c *Client) writePump() {
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
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
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

// Accept upgrades the request to a websocket connection. On failure the
// upgrader has already answered the request.
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

// Attach registers conn as a listener of session. hello is queued before
// registration, so it precedes every later Publish on that session. Callers
// that publish under their own lock should attach under the same lock.
func (h *Hub) Attach(session string, conn *websocket.Conn, hello any) error {
	msg, err := json.Marshal(hello)
	if err != nil {
		conn.Close()
		return err
	}
	c := &Client{hub: h, session: session, conn: conn, send: make(chan []byte, 64)}
	c.send <- msg
	h.register(c)

	go c.writePump()
	go c.readPump()
	return nil
}

// Serve upgrades the request and attaches it as a listener of session.
func Serve(hub *Hub, session string, hello any, w http.ResponseWriter, r *http.Request) {
	conn, err := Accept(w, r)
	if err != nil {
		log.Printf("live: upgrade: %v", err)
		return
	}
	if err := hub.Attach(session, conn, hello); err != nil {
		log.Printf("live: hello: %v", err)
	}
}
