package integrationtests

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func bidStatuses(t *testing.T, app *TestApp, ownerToken, gigID string) map[string]string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/gigs/"+gigID+"/bids", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	statuses := map[string]string{}
	for _, raw := range resp["data"].([]any) {
		bid := raw.(map[string]any)
		statuses[bid["id"].(string)] = bid["status"].(string)
	}
	return statuses
}

func TestHireScenario(t *testing.T) {
	app := SetupTestApp(t)
	owner := app.Token(t, "client1")
	f1 := app.Token(t, "F1")
	f2 := app.Token(t, "F2")

	gigID := app.CreateGig(t, owner, "G1", 5000)
	b1 := app.PlaceBid(t, f1, gigID, 4000)
	b2 := app.PlaceBid(t, f2, gigID, 4800)

	resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodPatch, "/bids/"+b1+"/hire", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	require.Equal(t, "assigned", data["gig"].(map[string]any)["status"])
	require.Equal(t, "hired", data["bid"].(map[string]any)["status"])

	require.Equal(t, map[string]string{b1: "hired", b2: "rejected"}, bidStatuses(t, app, owner, gigID))

	resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodPatch, "/bids/"+b2+"/hire", owner, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "gig already assigned", resp["message"])

	// late bids and accepts are refused once the gig is assigned
	_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/bids", app.Token(t, "F3"), map[string]any{
		"gig_id": gigID, "amount": 100, "message": "too late",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// F1 gets a durable hired notification
	require.Eventually(t, func() bool {
		resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/notifications", f1, nil)
		if w.Code != http.StatusOK {
			return false
		}
		for _, raw := range resp["data"].([]any) {
			if raw.(map[string]any)["type"] == "hired" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConcurrentHireExactlyOnce(t *testing.T) {
	app := SetupTestApp(t)
	owner := app.Token(t, "client1")

	gigID := app.CreateGig(t, owner, "Contended gig", 1000)

	const bidders = 20
	bidIDs := make([]string, bidders)
	for i := range bidIDs {
		bidIDs[i] = app.PlaceBid(t, app.Token(t, fmt.Sprintf("F%d", i)), gigID, float64(100+i))
	}

	codes := make([]int, bidders)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, bidID := range bidIDs {
		wg.Add(1)
		go func(i int, bidID string) {
			defer wg.Done()
			<-start
			_, w := ExecuteRequestAndParse(t, app.Router, http.MethodPatch, "/bids/"+bidID+"/hire", owner, nil)
			codes[i] = w.Code
		}(i, bidID)
	}
	close(start)
	wg.Wait()

	var ok, conflict int
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, bidders-1, conflict)

	var hired int
	for _, status := range bidStatuses(t, app, owner, gigID) {
		if status == "hired" {
			hired++
		} else {
			require.Equal(t, "rejected", status)
		}
	}
	require.Equal(t, 1, hired)
}

func TestBidDecisionsAndNotifications(t *testing.T) {
	app := SetupTestApp(t)
	owner := app.Token(t, "client1")
	f1 := app.Token(t, "F1")
	f2 := app.Token(t, "F2")

	gigID := app.CreateGig(t, owner, "Copywriting", 300)
	b1 := app.PlaceBid(t, f1, gigID, 250)
	b2 := app.PlaceBid(t, f2, gigID, 280)

	_, w := ExecuteRequestAndParse(t, app.Router, http.MethodPatch, "/bids/"+b1+"/accept", f2, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodPatch, "/bids/"+b1+"/accept", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "accepted", resp["data"].(map[string]any)["status"])

	resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodPatch, "/bids/"+b2+"/reject", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "rejected", resp["data"].(map[string]any)["status"])

	_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPatch, "/bids/"+b2+"/accept", owner, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	// the owner was told about both bids
	var ownerNotifications []any
	require.Eventually(t, func() bool {
		resp, _ := ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/notifications", owner, nil)
		ownerNotifications = resp["data"].([]any)
		return len(ownerNotifications) == 2
	}, 2*time.Second, 10*time.Millisecond)

	first := ownerNotifications[0].(map[string]any)
	require.Equal(t, "new_bid", first["type"])
	notificationID := first["id"].(string)

	_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPut, "/notifications/"+notificationID+"/read", f1, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodPut, "/notifications/"+notificationID+"/read", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp["data"].(map[string]any)["is_read"])

	_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPut, "/notifications/missing/read", owner, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/bids/my", f1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 1)

	resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/bids/received", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 2)

	resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/bids/received", f1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 0)
}

func TestGigListingAndValidation(t *testing.T) {
	app := SetupTestApp(t)
	owner := app.Token(t, "client1")

	app.CreateGig(t, owner, "Mobile App", 9000)
	app.CreateGig(t, owner, "Landing page", 700)

	resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/gigs?search=app", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 1)

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"invalid_json", []byte(`{title: 'missing quotes'}`), http.StatusBadRequest},
		{"zero_budget", map[string]any{"title": "x", "budget": 0}, http.StatusBadRequest},
		{"blank_title", map[string]any{"title": "   ", "budget": 10}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/gigs", owner, tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
		})
	}

	gigID := app.CreateGig(t, owner, "Own gig", 100)
	_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/bids", owner, map[string]any{
		"gig_id": gigID, "amount": 50, "message": "self bid",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}
