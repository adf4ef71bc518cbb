package handler

import (
	"context"

	"gig-marketplace/internal/hiring"
	model "gig-marketplace/internal/models"
)

//go:generate mockgen -source=interfaces.go -destination=mock_handler.go -package=handler

type GigServiceInterface interface {
	CreateGig(ctx context.Context, ownerID, title, description string, budget float64) (model.Gig, error)
	ListOpenGigs(ctx context.Context, search string) ([]model.Gig, error)
}

type BidServiceInterface interface {
	PlaceBid(ctx context.Context, gigID, freelancerID string, amount float64, message string) (model.Bid, error)
	GetBidsForGig(ctx context.Context, gigID, requesterID string) ([]model.Bid, error)
	GetMyBids(ctx context.Context, freelancerID string) ([]model.Bid, error)
	GetReceivedBids(ctx context.Context, clientID string) ([]model.Bid, error)
	AcceptBid(ctx context.Context, bidID, requesterID string) (model.Bid, error)
	RejectBid(ctx context.Context, bidID, requesterID string) (model.Bid, error)
}

type HireServiceInterface interface {
	Hire(ctx context.Context, bidID, requesterID string) (hiring.Outcome, error)
}

type NotificationServiceInterface interface {
	ListForUser(ctx context.Context, userID string) ([]model.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) (model.Notification, error)
}
