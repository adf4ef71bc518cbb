package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"gig-marketplace/internal/marketerrors"
	"gig-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, marketerrors.ErrGigAlreadyAssigned):
		return http.StatusConflict, "gig already assigned"
	case errors.Is(err, marketerrors.ErrBidNotPending):
		return http.StatusConflict, "bid is not pending"
	case errors.Is(err, marketerrors.ErrGigNotOpen):
		return http.StatusConflict, "gig is not open"
	case errors.Is(err, marketerrors.ErrBidNotFound):
		return http.StatusNotFound, "bid not found"
	case errors.Is(err, marketerrors.ErrGigNotFound):
		return http.StatusNotFound, "gig not found"
	case errors.Is(err, marketerrors.ErrNotificationNotFound):
		return http.StatusNotFound, "notification not found"
	case errors.Is(err, marketerrors.ErrNotGigOwner):
		return http.StatusForbidden, "not authorized for this gig"
	case errors.Is(err, marketerrors.ErrOwnGig):
		return http.StatusForbidden, "cannot bid on your own gig"
	case errors.Is(err, marketerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, marketerrors.ErrInvalidGig):
		return http.StatusBadRequest, "invalid gig details"
	}

	switch marketerrors.KindOf(err) {
	case marketerrors.KindNotFound:
		return http.StatusNotFound, "resource not found"
	case marketerrors.KindUnauthorized, marketerrors.KindForbidden:
		return http.StatusForbidden, "access denied"
	case marketerrors.KindConflict:
		return http.StatusConflict, "request conflicts with current state"
	case marketerrors.KindInvalid:
		return http.StatusBadRequest, "invalid request"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
