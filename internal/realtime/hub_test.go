package realtime

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gig-marketplace/internal/auth"
	"gig-marketplace/internal/registry"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server   *httptest.Server
	hub      *Hub
	registry *registry.ConnectionRegistry
	tokens   *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("ws-secret", time.Hour)
	reg := registry.NewConnectionRegistry()
	hub := NewHub(reg, tokens, 8, []string{"https://app.example.com"})

	router := gin.New()
	router.GET("/ws", hub.ServeWS)
	server := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})

	return &testEnv{server: server, hub: hub, registry: reg, tokens: tokens}
}

func (e *testEnv) dial(t *testing.T, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	return websocket.DefaultDialer.Dial(url, nil)
}

func (e *testEnv) issue(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.tokens.Issue(userID)
	require.NoError(t, err)
	return token
}

func (e *testEnv) waitForUser(t *testing.T, userID string) string {
	t.Helper()
	var connID string
	require.Eventually(t, func() bool {
		id, ok := e.registry.Lookup(userID)
		connID = id
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	return connID
}

func TestHub_TokenAtUpgradeRegistersAndPushes(t *testing.T) {
	env := newTestEnv(t)

	conn, _, err := env.dial(t, env.issue(t, "freelancer-1"))
	require.NoError(t, err)
	defer conn.Close()

	connID := env.waitForUser(t, "freelancer-1")
	require.Equal(t, 1, env.hub.Len())

	require.NoError(t, env.hub.Push(connID, map[string]string{"event": "hired", "gig_id": "g1"}))

	var frame map[string]string
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, "hired", frame["event"])
	require.Equal(t, "g1", frame["gig_id"])
}

func TestHub_InvalidTokenRejectedBeforeUpgrade(t *testing.T) {
	env := newTestEnv(t)

	_, resp, err := env.dial(t, "garbage")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 0, env.hub.Len())
}

func TestHub_OriginCheck(t *testing.T) {
	env := newTestEnv(t)
	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws"

	tests := []struct {
		name       string
		origin     string
		wantStatus int
	}{
		{name: "foreign_site", origin: "https://evil.example", wantStatus: http.StatusForbidden},
		{name: "lookalike_subdomain", origin: "https://app.example.com.evil.example", wantStatus: http.StatusForbidden},
		{name: "configured_frontend", origin: "https://app.example.com", wantStatus: http.StatusSwitchingProtocols},
		{name: "configured_frontend_trailing_slash", origin: "https://APP.example.com/", wantStatus: http.StatusSwitchingProtocols},
		{name: "same_origin", origin: env.server.URL, wantStatus: http.StatusSwitchingProtocols},
		{name: "no_origin_header", origin: "", wantStatus: http.StatusSwitchingProtocols},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			userID := "victim-" + tc.name
			header := http.Header{}
			header.Set("Cookie", auth.TokenCookie+"="+env.issue(t, userID))
			if tc.origin != "" {
				header.Set("Origin", tc.origin)
			}

			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
			require.NotNil(t, resp)
			require.Equal(t, tc.wantStatus, resp.StatusCode)

			if tc.wantStatus != http.StatusSwitchingProtocols {
				require.ErrorIs(t, err, websocket.ErrBadHandshake)
				_, ok := env.registry.Lookup(userID)
				require.False(t, ok, "refused connection must not be registered")
				return
			}
			require.NoError(t, err)
			defer conn.Close()
			env.waitForUser(t, userID)
		})
	}
}

func TestHub_IdentifyFrame(t *testing.T) {
	env := newTestEnv(t)

	conn, _, err := env.dial(t, "")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	// bad token first
	require.NoError(t, conn.WriteJSON(map[string]any{"action": "identify", "data": map[string]string{"token": "nope"}}))
	var reply StatusMessage
	require.NoError(t, conn.ReadJSON(&reply))
	require.Equal(t, "error", reply.Event)

	require.NoError(t, conn.WriteJSON(map[string]any{"action": "identify", "data": map[string]string{"token": env.issue(t, "client-1")}}))
	require.NoError(t, conn.ReadJSON(&reply))
	require.Equal(t, "identified", reply.Event)
	require.Equal(t, "client-1", reply.UserID)

	env.waitForUser(t, "client-1")

	require.NoError(t, conn.WriteJSON(map[string]any{"action": "dance"}))
	require.NoError(t, conn.ReadJSON(&reply))
	require.Equal(t, "error", reply.Event)
	require.Equal(t, "unknown action", reply.Error)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	env := newTestEnv(t)

	conn, _, err := env.dial(t, env.issue(t, "user-1"))
	require.NoError(t, err)
	connID := env.waitForUser(t, "user-1")

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		_, ok := env.registry.Lookup("user-1")
		return !ok && env.hub.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)

	err = env.hub.Push(connID, "late")
	require.True(t, errors.Is(err, ErrUnknownConnection))
}

func TestHub_ReconnectLastRegisterWins(t *testing.T) {
	env := newTestEnv(t)
	token := env.issue(t, "user-1")

	first, _, err := env.dial(t, token)
	require.NoError(t, err)
	firstID := env.waitForUser(t, "user-1")

	second, _, err := env.dial(t, token)
	require.NoError(t, err)
	defer second.Close()

	var secondID string
	require.Eventually(t, func() bool {
		id, ok := env.registry.Lookup("user-1")
		secondID = id
		return ok && id != firstID
	}, 2*time.Second, 10*time.Millisecond)

	// the stale connection closing must not evict the new one
	require.NoError(t, first.Close())
	require.Eventually(t, func() bool { return env.hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	id, ok := env.registry.Lookup("user-1")
	require.True(t, ok)
	require.Equal(t, secondID, id)
}

func TestHub_PushUnknownAndFull(t *testing.T) {
	reg := registry.NewConnectionRegistry()
	hub := NewHub(reg, auth.NewTokenManager("s", time.Hour), 1, nil)

	require.ErrorIs(t, hub.Push("nope", "x"), ErrUnknownConnection)

	// a client with no writer attached fills up after one frame
	client := &Client{id: "c1", hub: hub, send: make(chan any, 1)}
	hub.add(client)
	require.NoError(t, hub.Push("c1", "first"))
	require.ErrorIs(t, hub.Push("c1", "second"), ErrSendBufferFull)

	hub.identify(client, "u1")
	id, ok := reg.Lookup("u1")
	require.True(t, ok)
	require.Equal(t, "c1", id)

	// re-identifying as someone else moves the mapping
	hub.identify(client, "u2")
	_, ok = reg.Lookup("u1")
	require.False(t, ok)

	hub.remove(client)
	_, ok = reg.Lookup("u2")
	require.False(t, ok)
	require.Equal(t, 0, hub.Len())
}
