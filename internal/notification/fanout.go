// Package notification persists notifications and pushes them to users
// who currently hold a live connection. The stored record is the source of
// truth; the push only lowers latency.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gig-marketplace/internal/events"
	"gig-marketplace/internal/marketerrors"
	"gig-marketplace/internal/models"
	"gig-marketplace/internal/repository"
	"gig-marketplace/utils"
)

//go:generate mockgen -source=fanout.go -destination=mock_notification.go -package=notification

// DefaultListLimit caps how many notifications a user gets per fetch
const DefaultListLimit = 20

// Locator finds the live connection of a user
type Locator interface {
	Lookup(userID string) (string, bool)
}

// Pusher delivers a message over one live connection without blocking
type Pusher interface {
	Push(connID string, msg any) error
}

// Payload is what a notification refers to
type Payload struct {
	GigID   string
	BidID   string
	Message string
}

// PushMessage is the frame written to a live connection
type PushMessage struct {
	Event        models.NotificationType `json:"event"`
	Notification models.Notification     `json:"notification"`
}

// Fanout stores notifications and attempts real-time delivery
type Fanout struct {
	store     repository.NotificationDB
	locator   Locator
	pusher    Pusher
	listLimit int
	now       func() time.Time
}

// NewFanout creates a Fanout. listLimit <= 0 uses DefaultListLimit.
func NewFanout(store repository.NotificationDB, locator Locator, pusher Pusher, listLimit int) *Fanout {
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	return &Fanout{
		store:     store,
		locator:   locator,
		pusher:    pusher,
		listLimit: listLimit,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Notify persists a notification for userID and pushes it if the user is
// connected. Only a persistence failure is returned; push failures are
// logged and the user picks the record up on the next fetch.
func (f *Fanout) Notify(ctx context.Context, userID string, notifType models.NotificationType, payload Payload) (models.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return models.Notification{}, fmt.Errorf("service: %w - empty recipient", marketerrors.ErrInvalidInput)
	}

	n := models.Notification{
		ID:        utils.GenerateID(),
		UserID:    userID,
		Type:      notifType,
		Message:   payload.Message,
		GigID:     payload.GigID,
		BidID:     payload.BidID,
		IsRead:    false,
		CreatedAt: f.now(),
	}

	if err := f.store.CreateNotification(ctx, n); err != nil {
		utils.Error("Notify: failed to persist notification", map[string]any{
			"user_id": userID,
			"type":    notifType,
			"gig_id":  payload.GigID,
			"error":   err.Error(),
		})
		return models.Notification{}, fmt.Errorf("service: failed to persist notification for user %s: %w", userID, err)
	}

	f.push(n)
	return n, nil
}

func (f *Fanout) push(n models.Notification) {
	connID, ok := f.locator.Lookup(n.UserID)
	if !ok {
		utils.Debug("Notify: user offline, stored only", map[string]any{"user_id": n.UserID, "notification_id": n.ID})
		return
	}
	if err := f.pusher.Push(connID, PushMessage{Event: n.Type, Notification: n}); err != nil {
		utils.Warn("Notify: live push failed", map[string]any{
			"user_id":         n.UserID,
			"connection_id":   connID,
			"notification_id": n.ID,
			"error":           err.Error(),
		})
		return
	}
	utils.Debug("Notify: pushed", map[string]any{"connection_id": connID, "notification_id": n.ID})
}

// HandleEvent turns a dispatched domain event into a notification
func (f *Fanout) HandleEvent(ctx context.Context, ev events.Event) error {
	_, err := f.Notify(ctx, ev.RecipientID, ev.Type, Payload{
		GigID:   ev.GigID,
		BidID:   ev.BidID,
		Message: ev.Message,
	})
	return err
}

// ListForUser returns the newest notifications of userID
func (f *Fanout) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", marketerrors.ErrInvalidInput)
	}

	list, err := f.store.ListNotifications(ctx, userID, f.listLimit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list notifications for user %s: %w", userID, err)
	}
	return list, nil
}

// MarkAsRead flags a notification read on behalf of its recipient
func (f *Fanout) MarkAsRead(ctx context.Context, notificationID, userID string) (models.Notification, error) {
	n, err := f.store.GetNotification(ctx, notificationID)
	if err != nil {
		return models.Notification{}, fmt.Errorf("service: failed to get notification %s: %w", notificationID, err)
	}
	if n.UserID != userID {
		return models.Notification{}, fmt.Errorf("service: notification %s belongs to another user: %w", notificationID, marketerrors.ErrForbidden)
	}
	if n.IsRead {
		return n, nil
	}

	if err := f.store.MarkNotificationRead(ctx, notificationID); err != nil {
		return models.Notification{}, fmt.Errorf("service: failed to mark notification %s read: %w", notificationID, err)
	}
	n.IsRead = true
	return n, nil
}
