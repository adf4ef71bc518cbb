package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gig-marketplace/internal/marketerrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestJSONError_CarriesKind(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		status       int
		err          error
		expectedKind marketerrors.Kind
	}{
		{"taxonomy_error", http.StatusConflict, fmt.Errorf("service: %w", marketerrors.ErrGigAlreadyAssigned), marketerrors.KindConflict},
		{"owner_check_on_forbidden_status", http.StatusForbidden, marketerrors.ErrNotGigOwner, marketerrors.KindUnauthorized},
		{"bind_failure", http.StatusBadRequest, errors.New("invalid request payload: EOF"), marketerrors.KindInvalid},
		{"missing_token", http.StatusUnauthorized, errors.New("missing token"), marketerrors.KindUnauthorized},
		{"unknown_failure", http.StatusInternalServerError, errors.New("connection reset"), marketerrors.KindInternal},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			JSONError(c, tc.status, tc.err, "request failed")

			require.Equal(t, tc.status, w.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, float64(tc.status), resp["status"])
			require.Equal(t, "request failed", resp["message"])
			require.Equal(t, tc.err.Error(), resp["error"])
			require.Equal(t, string(tc.expectedKind), resp["kind"])
			require.NotContains(t, resp, "data")
		})
	}
}

func TestJSONResponse_Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	JSONResponse(c, http.StatusCreated, []string{}, "gig created successfully")

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "gig created successfully", resp["message"])
	require.Equal(t, []any{}, resp["data"])
	require.NotContains(t, resp, "kind")
}
