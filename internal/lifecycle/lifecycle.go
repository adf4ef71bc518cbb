// Package lifecycle holds the gig and bid state machines. Every status
// change in the marketplace is checked here before it is written.
package lifecycle

import (
	"fmt"

	"gig-marketplace/internal/marketerrors"
	"gig-marketplace/internal/models"
)

var gigTransitions = map[models.GigStatus][]models.GigStatus{
	models.GigStatusOpen: {models.GigStatusAssigned},
}

var bidTransitions = map[models.BidStatus][]models.BidStatus{
	models.BidStatusPending: {models.BidStatusHired, models.BidStatusAccepted, models.BidStatusRejected},
}

// CanTransitionGig reports whether a gig may move from one status to another
func CanTransitionGig(from, to models.GigStatus) bool {
	for _, next := range gigTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionBid reports whether a bid may move from one status to another
func CanTransitionBid(from, to models.BidStatus) bool {
	for _, next := range bidTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckHire validates a hire of bid on gig by requesterID. Checks run in
// the order the hire contract defines: ownership, gig still open, then
// bid membership and pending state.
func CheckHire(gig models.Gig, bid models.Bid, requesterID string) error {
	if gig.OwnerID != requesterID {
		return fmt.Errorf("hire bid %s: %w", bid.ID, marketerrors.ErrNotGigOwner)
	}
	if gig.Status != models.GigStatusOpen {
		return fmt.Errorf("hire bid %s: %w", bid.ID, marketerrors.ErrGigAlreadyAssigned)
	}
	if bid.GigID != gig.ID {
		return fmt.Errorf("hire bid %s: bid belongs to gig %s: %w", bid.ID, bid.GigID, marketerrors.ErrInvalidTransition)
	}
	if bid.Status != models.BidStatusPending {
		return fmt.Errorf("hire bid %s in status %s: %w", bid.ID, bid.Status, marketerrors.ErrBidNotPending)
	}
	return nil
}

// CheckDecision validates an explicit accept or reject of a pending bid by
// the gig owner. Rejection is allowed at any time; acceptance only while
// the gig is still open.
func CheckDecision(gig models.Gig, bid models.Bid, requesterID string, to models.BidStatus) error {
	if to != models.BidStatusAccepted && to != models.BidStatusRejected {
		return fmt.Errorf("decide bid %s -> %s: %w", bid.ID, to, marketerrors.ErrInvalidTransition)
	}
	if gig.OwnerID != requesterID {
		return fmt.Errorf("decide bid %s: %w", bid.ID, marketerrors.ErrNotGigOwner)
	}
	if !CanTransitionBid(bid.Status, to) {
		return fmt.Errorf("decide bid %s in status %s: %w", bid.ID, bid.Status, marketerrors.ErrBidNotPending)
	}
	if to == models.BidStatusAccepted && gig.Status != models.GigStatusOpen {
		return fmt.Errorf("accept bid %s: %w", bid.ID, marketerrors.ErrGigAlreadyAssigned)
	}
	return nil
}

// CheckNewBid validates that freelancerID may bid on gig
func CheckNewBid(gig models.Gig, freelancerID string) error {
	if gig.OwnerID == freelancerID {
		return fmt.Errorf("bid on gig %s: %w", gig.ID, marketerrors.ErrOwnGig)
	}
	if gig.Status != models.GigStatusOpen {
		return fmt.Errorf("bid on gig %s: %w", gig.ID, marketerrors.ErrGigNotOpen)
	}
	return nil
}
