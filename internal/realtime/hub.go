// Package realtime owns live WebSocket connections. Each connection gets
// its own id; once the user behind it is known the connection is put in
// the registry so notifications can reach it.
package realtime

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"gig-marketplace/internal/auth"
	"gig-marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var (
	ErrUnknownConnection = errors.New("realtime: unknown connection")
	ErrSendBufferFull    = errors.New("realtime: send buffer full")
)

// Registry is the part of the connection registry the hub mutates
type Registry interface {
	Register(userID, connectionID string)
	Unregister(connectionID string) []string
}

// Hub tracks open connections by connection id
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client // key: connectionID -> value: client
	registry   Registry
	verifier   auth.Verifier
	sendBuffer int
	upgrader   websocket.Upgrader
}

// NewHub creates a Hub. sendBuffer is the per-connection outbound queue size.
// allowedOrigins lists the browser origins, besides the server's own, that
// may open a connection.
func NewHub(registry Registry, verifier auth.Verifier, sendBuffer int, allowedOrigins []string) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[strings.ToLower(strings.TrimRight(origin, "/"))] = struct{}{}
	}

	return &Hub{
		clients:    make(map[string]*Client),
		registry:   registry,
		verifier:   verifier,
		sendBuffer: sendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
	}
}

// originChecker accepts non-browser clients (no Origin header), same-origin
// pages and the configured origins. Everything else is refused.
func originChecker(allowed map[string]struct{}) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := allowed[strings.ToLower(strings.TrimRight(origin, "/"))]; ok {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		utils.Warn("ServeWS: rejected cross-origin upgrade", map[string]any{"origin": origin, "host": r.Host})
		return false
	}
}

// ServeWS handles GET /ws. A token on the request identifies the user
// right away; without one the client must send an identify frame.
func (h *Hub) ServeWS(c *gin.Context) {
	var userID string
	if token := auth.TokenFromRequest(c.Request); token != "" {
		id, err := h.verifier.Verify(token)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, err, "unauthorized")
			utils.Warn("ServeWS: rejected token at upgrade", map[string]any{"error": err.Error()})
			return
		}
		userID = id
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		utils.Warn("ServeWS: websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}

	client := newClient(h, conn, utils.GenerateID(), h.sendBuffer)
	h.add(client)
	if userID != "" {
		h.identify(client, userID)
	}

	utils.Info("ServeWS: connection opened", map[string]any{
		"connection_id": client.id,
		"user_id":       userID,
	})

	go client.writePump()
	go client.readPump()
}

// Push queues msg on the connection without blocking
func (h *Hub) Push(connID string, msg any) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConnection, connID)
	}
	select {
	case client.send <- msg:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrSendBufferFull, connID)
	}
}

// Len returns the number of open connections
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes every open connection. Each read loop then removes its
// connection from the registry.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		_ = client.conn.Close()
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.id] = client
}

// identify binds the connection to userID, dropping any mapping it held
// for another user
func (h *Hub) identify(client *Client, userID string) {
	client.mu.Lock()
	previous := client.userID
	client.userID = userID
	client.mu.Unlock()

	if previous != "" && previous != userID {
		h.registry.Unregister(client.id)
	}
	h.registry.Register(userID, client.id)
}

// remove detaches a closing connection. The registry entry goes first so
// no lookup can return a connection that is about to disappear.
func (h *Hub) remove(client *Client) {
	detached := h.registry.Unregister(client.id)

	h.mu.Lock()
	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		close(client.send)
	}
	h.mu.Unlock()

	utils.Info("realtime: connection closed", map[string]any{
		"connection_id": client.id,
		"detached":      detached,
	})
}
