package postgres

import (
	"context"
	"fmt"
	"time"

	"gig-marketplace/internal/marketerrors"
	model "gig-marketplace/internal/models"
)

// txRepo is the repository.Tx view of an open pgx transaction
type txRepo struct {
	q   querier
	now func() time.Time
}

// GetBid does not lock the bid row. Writers always lock the parent gig
// first and bid updates are conditional on status, so a stale read fails
// at write time instead of deadlocking against RejectPendingBids.
func (t *txRepo) GetBid(ctx context.Context, bidID string) (model.Bid, error) {
	return getBid(ctx, t.q, bidID)
}

func (t *txRepo) GetGig(ctx context.Context, gigID string) (model.Gig, error) {
	return getGig(ctx, t.q, gigID, true)
}

func (t *txRepo) InsertBid(ctx context.Context, bid model.Bid) error {
	_, err := t.q.Exec(ctx,
		`INSERT INTO bids (`+bidColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		bid.ID, bid.GigID, bid.FreelancerID, bid.ClientID, bid.Amount, bid.Message, string(bid.Status), bid.CreatedAt, bid.UpdatedAt)
	if err != nil {
		return mapError("insert bid "+bid.ID, err)
	}
	return nil
}

func (t *txRepo) TransitionGig(ctx context.Context, gigID string, from, to model.GigStatus) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE gigs SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		gigID, string(from), string(to), t.now())
	if err != nil {
		return mapError("transition gig "+gigID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repository: transition gig %s %s -> %s: %w", gigID, from, to, marketerrors.ErrWriteConflict)
	}
	return nil
}

func (t *txRepo) TransitionBid(ctx context.Context, bidID string, from, to model.BidStatus) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE bids SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		bidID, string(from), string(to), t.now())
	if err != nil {
		return mapError("transition bid "+bidID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repository: transition bid %s %s -> %s: %w", bidID, from, to, marketerrors.ErrWriteConflict)
	}
	return nil
}

func (t *txRepo) RejectPendingBids(ctx context.Context, gigID, exceptBidID string) ([]string, error) {
	rows, err := t.q.Query(ctx,
		`UPDATE bids SET status = 'rejected', updated_at = $3
		 WHERE gig_id = $1 AND id <> $2 AND status = 'pending'
		 RETURNING id`,
		gigID, exceptBidID, t.now())
	if err != nil {
		return nil, mapError("reject pending bids", err)
	}
	defer rows.Close()

	var rejected []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError("scan rejected bid", err)
		}
		rejected = append(rejected, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("reject pending bids", err)
	}
	return rejected, nil
}
