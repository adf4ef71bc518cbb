// Package hiring performs the hire of a bid: the gig is assigned, the bid
// hired and every other pending bid on the gig rejected in one store
// transaction. At most one hire per gig can ever commit.
package hiring

import (
	"context"
	"errors"
	"fmt"

	"gig-marketplace/internal/events"
	"gig-marketplace/internal/lifecycle"
	"gig-marketplace/internal/marketerrors"
	"gig-marketplace/internal/models"
	"gig-marketplace/internal/repository"
	"gig-marketplace/utils"
)

//go:generate mockgen -source=coordinator.go -destination=mock_hiring.go -package=hiring

// Publisher receives events once their transaction has committed
type Publisher interface {
	Publish(ev events.Event)
}

// Outcome is the committed result of a hire
type Outcome struct {
	Gig            models.Gig
	Bid            models.Bid
	RejectedBidIDs []string
}

// Coordinator runs hire transactions
type Coordinator struct {
	db        repository.MarketplaceDB
	publisher Publisher
}

// NewCoordinator creates a Coordinator. It cannot work without a store
// that provides transactions.
func NewCoordinator(db repository.MarketplaceDB, publisher Publisher) *Coordinator {
	return &Coordinator{db: db, publisher: publisher}
}

// hireAttempts bounds how often a hire transaction runs when its commit
// loses to a concurrent write
const hireAttempts = 2

// Hire selects bidID for its gig on behalf of requesterID.
//
// Errors, classified by marketerrors.KindOf:
//   - not_found: the bid or its gig does not exist
//   - unauthorized: requesterID does not own the gig
//   - conflict: the gig is already assigned, including when a concurrent
//     hire committed first, or the gig kept changing under every attempt
func (c *Coordinator) Hire(ctx context.Context, bidID, requesterID string) (Outcome, error) {
	if bidID == "" || requesterID == "" {
		return Outcome{}, fmt.Errorf("service: %w - missing bidID or requesterID", marketerrors.ErrInvalidInput)
	}

	var (
		out Outcome
		err error
	)
	for attempt := 1; attempt <= hireAttempts; attempt++ {
		out, err = c.hireTx(ctx, bidID, requesterID)
		if err == nil || !errors.Is(err, marketerrors.ErrWriteConflict) {
			break
		}
		// a bid insert on the gig conflicts too; the next attempt re-reads
		// the gig and fails with ErrGigAlreadyAssigned only if a hire won
		utils.Debug("Hire: write conflict, retrying", map[string]any{
			"bid_id":  bidID,
			"attempt": attempt,
			"error":   err.Error(),
		})
	}
	if err != nil {
		utils.Warn("Hire: hire failed", map[string]any{
			"bid_id":       bidID,
			"requester_id": requesterID,
			"kind":         marketerrors.KindOf(err),
			"error":        err.Error(),
		})
		return Outcome{}, fmt.Errorf("service: hire bid %s: %w", bidID, err)
	}

	utils.Info("Hire: freelancer hired", map[string]any{
		"bid_id":        out.Bid.ID,
		"gig_id":        out.Gig.ID,
		"requester_id":  requesterID,
		"freelancer_id": out.Bid.FreelancerID,
		"rejected":      len(out.RejectedBidIDs),
	})

	c.publisher.Publish(events.Event{
		Type:        models.NotificationHired,
		RecipientID: out.Bid.FreelancerID,
		GigID:       out.Gig.ID,
		BidID:       out.Bid.ID,
		Message:     fmt.Sprintf("You have been hired for %q", out.Gig.Title),
	})

	return out, nil
}

// hireTx runs one hire transaction
func (c *Coordinator) hireTx(ctx context.Context, bidID, requesterID string) (Outcome, error) {
	var out Outcome
	err := c.db.WithinTx(ctx, func(tx repository.Tx) error {
		bid, err := tx.GetBid(ctx, bidID)
		if err != nil {
			return err
		}
		gig, err := tx.GetGig(ctx, bid.GigID)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckHire(gig, bid, requesterID); err != nil {
			return err
		}

		if err := tx.TransitionGig(ctx, gig.ID, models.GigStatusOpen, models.GigStatusAssigned); err != nil {
			return err
		}
		if err := tx.TransitionBid(ctx, bid.ID, models.BidStatusPending, models.BidStatusHired); err != nil {
			return err
		}
		rejected, err := tx.RejectPendingBids(ctx, gig.ID, bid.ID)
		if err != nil {
			return err
		}

		gig.Status = models.GigStatusAssigned
		bid.Status = models.BidStatusHired
		out = Outcome{Gig: gig, Bid: bid, RejectedBidIDs: rejected}
		return nil
	})
	return out, err
}
