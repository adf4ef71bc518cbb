package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gig-marketplace/internal/auth"
	"gig-marketplace/internal/events"
	"gig-marketplace/internal/hiring"
	"gig-marketplace/internal/marketplace"
	"gig-marketplace/internal/notification"
	"gig-marketplace/internal/realtime"
	"gig-marketplace/internal/registry"
	"gig-marketplace/internal/repository"
	"gig-marketplace/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// TestApp is the fully wired application over an in-memory repository
type TestApp struct {
	Router   *gin.Engine
	Server   *httptest.Server
	Repo     *repository.MemoryRepo
	Tokens   *auth.TokenManager
	Registry *registry.ConnectionRegistry
	Hub      *realtime.Hub
}

// SetupTestApp wires every component the way main does and serves it on a
// local test server.
func SetupTestApp(t *testing.T) *TestApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	tokens := auth.NewTokenManager("integration-secret", time.Hour)
	connections := registry.NewConnectionRegistry()
	hub := realtime.NewHub(connections, tokens, 16, []string{"https://app.example.com"})
	fanout := notification.NewFanout(repo, connections, hub, 0)

	dispatcher := events.NewDispatcher(fanout, 2, 64)
	dispatcher.Start()

	router := server.SetupRouter(server.Services{
		Gigs:          marketplace.NewGigService(repo),
		Bids:          marketplace.NewBidService(repo, dispatcher),
		Hiring:        hiring.NewCoordinator(repo, dispatcher),
		Notifications: fanout,
		Verifier:      tokens,
		Realtime:      hub.ServeWS,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
		dispatcher.Close()
	})

	return &TestApp{
		Router:   router,
		Server:   srv,
		Repo:     repo,
		Tokens:   tokens,
		Registry: connections,
		Hub:      hub,
	}
}

// Token issues a session token for userID
func (a *TestApp) Token(t *testing.T, userID string) string {
	t.Helper()
	token, err := a.Tokens.Issue(userID)
	require.NoError(t, err)
	return token
}

// ExecuteRequestAndParse executes an HTTP request on the router as the
// holder of token and returns the decoded envelope.
func ExecuteRequestAndParse(t *testing.T, router http.Handler, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.TokenCookie, Value: token})
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// CreateGig creates a gig through the API and returns its id
func (a *TestApp) CreateGig(t *testing.T, ownerToken, title string, budget float64) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, a.Router, http.MethodPost, "/gigs", ownerToken, map[string]any{
		"title":       title,
		"description": title + " description",
		"budget":      budget,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return resp["data"].(map[string]any)["id"].(string)
}

// PlaceBid places a bid through the API and returns its id
func (a *TestApp) PlaceBid(t *testing.T, freelancerToken, gigID string, amount float64) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, a.Router, http.MethodPost, "/bids", freelancerToken, map[string]any{
		"gig_id":  gigID,
		"amount":  amount,
		"message": "I can deliver this",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return resp["data"].(map[string]any)["id"].(string)
}

// DialWS opens a websocket to the test server authenticated by token
func (a *TestApp) DialWS(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(a.Server.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// WaitForConnection blocks until userID holds a registered connection
func (a *TestApp) WaitForConnection(t *testing.T, userID string) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, ok := a.Registry.Lookup(userID)
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}
