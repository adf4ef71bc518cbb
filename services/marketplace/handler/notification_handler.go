package handler

import (
	"fmt"
	"net/http"

	"gig-marketplace/internal/auth"
	"gig-marketplace/services/marketplace/helpers"
	"gig-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service NotificationServiceInterface
}

func NewNotificationHandler(service NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListNotificationsHandler handles GET /notifications
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	userID := auth.UserID(c)
	notifications, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListNotificationsHandler: error retrieving notifications", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToNotificationResponses(notifications), "notifications retrieved successfully")
	helpers.LogSuccess("ListNotificationsHandler", "notifications retrieved successfully", map[string]any{
		"user_id": userID,
		"count":   len(notifications),
	})
}

// MarkAsReadHandler handles PUT /notifications/:id/read
func (h *NotificationHandler) MarkAsReadHandler(c *gin.Context) {
	notificationID := c.Param("id")
	userID := auth.UserID(c)
	n, err := h.service.MarkAsRead(c.Request.Context(), notificationID, userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("MarkAsReadHandler: failed to mark notification", map[string]any{
			"notification_id": notificationID,
			"user_id":         userID,
			"error":           err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToNotificationResponse(n), "notification marked as read")
	helpers.LogSuccess("MarkAsReadHandler", "notification marked as read", map[string]any{
		"notification_id": n.ID,
		"user_id":         userID,
	})
}
