package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gig-marketplace/internal/events"
	"gig-marketplace/internal/lifecycle"
	"gig-marketplace/internal/marketerrors"
	"gig-marketplace/internal/models"
	"gig-marketplace/internal/repository"
	"gig-marketplace/utils"
)

// placeBidAttempts bounds retries when a concurrent write on the same gig
// invalidates the bid transaction
const placeBidAttempts = 3

// BidService places bids and records the owner's explicit decisions
type BidService struct {
	db        repository.MarketplaceDB
	publisher Publisher
	now       func() time.Time
}

// NewBidService creates a new BidService instance
func NewBidService(db repository.MarketplaceDB, publisher Publisher) *BidService {
	return &BidService{
		db:        db,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PlaceBid records a pending bid by freelancerID on an open gig and tells
// the gig owner about it
func (s *BidService) PlaceBid(ctx context.Context, gigID, freelancerID string, amount float64, message string) (models.Bid, error) {
	message = strings.TrimSpace(message)
	if gigID == "" || freelancerID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing gigID or freelancerID", marketerrors.ErrInvalidBid)
	}
	if amount <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", marketerrors.ErrInvalidBid)
	}
	if message == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty message", marketerrors.ErrInvalidBid)
	}

	var (
		bid models.Bid
		gig models.Gig
		err error
	)
	for attempt := 1; attempt <= placeBidAttempts; attempt++ {
		bid, gig, err = s.placeBidTx(ctx, gigID, freelancerID, amount, message)
		if !errors.Is(err, marketerrors.ErrWriteConflict) {
			break
		}
		utils.Warn("PlaceBid: write conflict, retrying", map[string]any{
			"gig_id":        gigID,
			"freelancer_id": freelancerID,
			"attempt":       attempt,
		})
	}
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to place bid on gig %s by %s: %w", gigID, freelancerID, err)
	}

	s.publisher.Publish(events.Event{
		Type:        models.NotificationNewBid,
		RecipientID: gig.OwnerID,
		GigID:       gig.ID,
		BidID:       bid.ID,
		Message:     fmt.Sprintf("New bid of %.2f on %q", bid.Amount, gig.Title),
	})
	return bid, nil
}

func (s *BidService) placeBidTx(ctx context.Context, gigID, freelancerID string, amount float64, message string) (models.Bid, models.Gig, error) {
	var bid models.Bid
	var gig models.Gig
	err := s.db.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		gig, err = tx.GetGig(ctx, gigID)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckNewBid(gig, freelancerID); err != nil {
			return err
		}

		now := s.now()
		bid = models.Bid{
			ID:           utils.GenerateID(),
			GigID:        gig.ID,
			FreelancerID: freelancerID,
			ClientID:     gig.OwnerID,
			Amount:       amount,
			Message:      message,
			Status:       models.BidStatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.InsertBid(ctx, bid)
	})
	return bid, gig, err
}

// GetBidsForGig returns every bid on a gig. Only the gig owner may see them.
func (s *BidService) GetBidsForGig(ctx context.Context, gigID, requesterID string) ([]models.Bid, error) {
	if gigID == "" {
		return nil, fmt.Errorf("service: %w - empty gig ID", marketerrors.ErrInvalidInput)
	}

	gig, err := s.db.GetGig(ctx, gigID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get gig %s: %w", gigID, err)
	}
	if gig.OwnerID != requesterID {
		return nil, fmt.Errorf("service: list bids for gig %s: %w", gigID, marketerrors.ErrNotGigOwner)
	}

	bids, err := s.db.ListBidsByGig(ctx, gigID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for gig %s: %w", gigID, err)
	}
	return bids, nil
}

// GetMyBids returns the bids placed by freelancerID, newest first
func (s *BidService) GetMyBids(ctx context.Context, freelancerID string) ([]models.Bid, error) {
	if freelancerID == "" {
		return nil, fmt.Errorf("service: %w - empty freelancer ID", marketerrors.ErrInvalidInput)
	}

	bids, err := s.db.ListBidsByFreelancer(ctx, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for freelancer %s: %w", freelancerID, err)
	}
	return bids, nil
}

// GetReceivedBids returns every bid on the gigs owned by clientID, newest
// first
func (s *BidService) GetReceivedBids(ctx context.Context, clientID string) ([]models.Bid, error) {
	if clientID == "" {
		return nil, fmt.Errorf("service: %w - empty client ID", marketerrors.ErrInvalidInput)
	}

	bids, err := s.db.ListBidsByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids received by client %s: %w", clientID, err)
	}
	return bids, nil
}

// AcceptBid marks a pending bid accepted while its gig is still open
func (s *BidService) AcceptBid(ctx context.Context, bidID, requesterID string) (models.Bid, error) {
	return s.decide(ctx, bidID, requesterID, models.BidStatusAccepted)
}

// RejectBid marks a pending bid rejected
func (s *BidService) RejectBid(ctx context.Context, bidID, requesterID string) (models.Bid, error) {
	return s.decide(ctx, bidID, requesterID, models.BidStatusRejected)
}

func (s *BidService) decide(ctx context.Context, bidID, requesterID string, to models.BidStatus) (models.Bid, error) {
	if bidID == "" || requesterID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing bidID or requesterID", marketerrors.ErrInvalidInput)
	}

	var bid models.Bid
	var gig models.Gig
	err := s.db.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		bid, err = tx.GetBid(ctx, bidID)
		if err != nil {
			return err
		}
		gig, err = tx.GetGig(ctx, bid.GigID)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckDecision(gig, bid, requesterID, to); err != nil {
			return err
		}
		if err := tx.TransitionBid(ctx, bid.ID, models.BidStatusPending, to); err != nil {
			return err
		}
		bid.Status = to
		return nil
	})
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to mark bid %s %s: %w", bidID, to, err)
	}

	notifType := models.NotificationBidRejected
	verb := "rejected"
	if to == models.BidStatusAccepted {
		notifType = models.NotificationBidAccepted
		verb = "accepted"
	}
	s.publisher.Publish(events.Event{
		Type:        notifType,
		RecipientID: bid.FreelancerID,
		GigID:       gig.ID,
		BidID:       bid.ID,
		Message:     fmt.Sprintf("Your bid on %q was %s", gig.Title, verb),
	})
	return bid, nil
}
