package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"gig-marketplace/utils"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// IncomingMessage is a frame sent by the browser
type IncomingMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type identifyData struct {
	Token string `json:"token"`
}

// StatusMessage is the hub's reply to a client action
type StatusMessage struct {
	Event  string `json:"event"`
	UserID string `json:"userId,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Client is one WebSocket connection
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan any

	mu     sync.Mutex
	userID string
}

func newClient(hub *Hub, conn *websocket.Conn, id string, buffer int) *Client {
	return &Client{
		id:   id,
		hub:  hub,
		conn: conn,
		send: make(chan any, buffer),
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.Warn("realtime: read error", map[string]any{"connection_id": c.id, "error": err.Error()})
			}
			return
		}

		var msg IncomingMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.reply(StatusMessage{Event: "error", Error: "malformed message"})
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg IncomingMessage) {
	switch msg.Action {
	case "identify":
		var data identifyData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.reply(StatusMessage{Event: "error", Error: "malformed identify payload"})
			return
		}
		userID, err := c.hub.verifier.Verify(data.Token)
		if err != nil {
			utils.Warn("realtime: identify rejected", map[string]any{"connection_id": c.id, "error": err.Error()})
			c.reply(StatusMessage{Event: "error", Error: "invalid token"})
			return
		}
		c.hub.identify(c, userID)
		c.reply(StatusMessage{Event: "identified", UserID: userID})

	default:
		c.reply(StatusMessage{Event: "error", Error: "unknown action"})
	}
}

// reply queues a frame for this connection, dropping it if the buffer is full
func (c *Client) reply(msg StatusMessage) {
	if err := c.hub.Push(c.id, msg); err != nil {
		utils.Warn("realtime: reply dropped", map[string]any{"connection_id": c.id, "error": err.Error()})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				utils.Warn("realtime: write error", map[string]any{"connection_id": c.id, "error": err.Error()})
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
