package utils

import (
	"net/http"

	"gig-marketplace/internal/marketerrors"

	"github.com/gin-gonic/gin"
)

// JSONResponse sends the success envelope {status, message, data}
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError sends the error envelope {status, message, error, kind}
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
		"kind":    ErrorKind(status, err),
	})
}

// ErrorKind classifies err for the envelope. Errors outside the marketplace
// taxonomy, such as bind or token failures, take their kind from status.
func ErrorKind(status int, err error) marketerrors.Kind {
	if kind := marketerrors.KindOf(err); kind != marketerrors.KindInternal {
		return kind
	}
	switch status {
	case http.StatusBadRequest:
		return marketerrors.KindInvalid
	case http.StatusUnauthorized:
		return marketerrors.KindUnauthorized
	case http.StatusForbidden:
		return marketerrors.KindForbidden
	case http.StatusNotFound:
		return marketerrors.KindNotFound
	case http.StatusConflict:
		return marketerrors.KindConflict
	default:
		return marketerrors.KindInternal
	}
}
