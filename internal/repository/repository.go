package repository

import (
	"context"

	model "gig-marketplace/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// Tx is the set of reads and writes allowed inside one atomic transaction.
// Transition methods are conditional: when the stored status no longer
// equals from, they fail with marketerrors.ErrWriteConflict.
type Tx interface {
	GetBid(ctx context.Context, bidID string) (model.Bid, error)
	// GetGig reads the gig and holds it against concurrent writers until
	// the transaction ends.
	GetGig(ctx context.Context, gigID string) (model.Gig, error)
	InsertBid(ctx context.Context, bid model.Bid) error
	TransitionGig(ctx context.Context, gigID string, from, to model.GigStatus) error
	TransitionBid(ctx context.Context, bidID string, from, to model.BidStatus) error
	RejectPendingBids(ctx context.Context, gigID, exceptBidID string) ([]string, error)
}

// MarketplaceDB stores gigs and bids
type MarketplaceDB interface {
	// WithinTx runs fn inside a single transaction. An error from fn rolls
	// everything back; a conflict detected at commit returns
	// marketerrors.ErrWriteConflict.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	CreateGig(ctx context.Context, gig model.Gig) error
	GetGig(ctx context.Context, gigID string) (model.Gig, error)
	GetBid(ctx context.Context, bidID string) (model.Bid, error)
	ListOpenGigs(ctx context.Context, search string) ([]model.Gig, error)
	ListBidsByGig(ctx context.Context, gigID string) ([]model.Bid, error)
	ListBidsByFreelancer(ctx context.Context, freelancerID string) ([]model.Bid, error)
	// ListBidsByClient returns the bids received on gigs owned by clientID
	ListBidsByClient(ctx context.Context, clientID string) ([]model.Bid, error)
}

// NotificationDB stores notifications
type NotificationDB interface {
	CreateNotification(ctx context.Context, n model.Notification) error
	GetNotification(ctx context.Context, notificationID string) (model.Notification, error)
	// ListNotifications returns the newest notifications first. limit <= 0
	// means no limit.
	ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID string) error
}

// Store is the full persistence surface a backend provides
type Store interface {
	MarketplaceDB
	NotificationDB
	Close() error
}
