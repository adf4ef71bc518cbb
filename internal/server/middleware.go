package server

import (
	"net/http"
	"time"

	"gig-marketplace/internal/auth"
	"gig-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing. Server errors
// are logged at warn level so they stand out from normal traffic.
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.FullPath(),
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if userID := c.GetString(auth.ContextUserKey); userID != "" {
		fields["user_id"] = userID
	}
	if fields["path"] == "" {
		fields["path"] = c.Request.URL.Path
	}

	if c.Writer.Status() >= http.StatusInternalServerError {
		utils.Warn("HTTP Request", fields)
		return
	}
	utils.Info("HTTP Request", fields)
}
