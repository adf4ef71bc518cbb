package sqlite

import (
	"context"
	"fmt"
	"time"

	"gig-marketplace/internal/marketerrors"
	model "gig-marketplace/internal/models"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// txRepo is the repository.Tx view of a connection holding an IMMEDIATE
// transaction
type txRepo struct {
	conn *sqlite.Conn
	now  func() time.Time
}

func (t *txRepo) GetBid(_ context.Context, bidID string) (model.Bid, error) {
	return getBid(t.conn, bidID)
}

func (t *txRepo) GetGig(_ context.Context, gigID string) (model.Gig, error) {
	return getGig(t.conn, gigID)
}

func (t *txRepo) InsertBid(_ context.Context, bid model.Bid) error {
	if _, err := getGig(t.conn, bid.GigID); err != nil {
		return err
	}
	err := sqlitex.Execute(t.conn, `INSERT INTO bids (`+bidColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, &sqlitex.ExecOptions{
		Args: []any{bid.ID, bid.GigID, bid.FreelancerID, bid.ClientID, bid.Amount, bid.Message, string(bid.Status), bid.CreatedAt.UnixNano(), bid.UpdatedAt.UnixNano()},
	})
	if err != nil {
		return mapError("insert bid "+bid.ID, err)
	}
	return nil
}

func (t *txRepo) TransitionGig(_ context.Context, gigID string, from, to model.GigStatus) error {
	err := sqlitex.Execute(t.conn, `UPDATE gigs SET status = ?, updated_at = ? WHERE id = ? AND status = ?`, &sqlitex.ExecOptions{
		Args: []any{string(to), t.now().UnixNano(), gigID, string(from)},
	})
	if err != nil {
		return mapError("transition gig "+gigID, err)
	}
	if t.conn.Changes() == 0 {
		return fmt.Errorf("repository: transition gig %s %s -> %s: %w", gigID, from, to, marketerrors.ErrWriteConflict)
	}
	return nil
}

func (t *txRepo) TransitionBid(_ context.Context, bidID string, from, to model.BidStatus) error {
	err := sqlitex.Execute(t.conn, `UPDATE bids SET status = ?, updated_at = ? WHERE id = ? AND status = ?`, &sqlitex.ExecOptions{
		Args: []any{string(to), t.now().UnixNano(), bidID, string(from)},
	})
	if err != nil {
		return mapError("transition bid "+bidID, err)
	}
	if t.conn.Changes() == 0 {
		return fmt.Errorf("repository: transition bid %s %s -> %s: %w", bidID, from, to, marketerrors.ErrWriteConflict)
	}
	return nil
}

func (t *txRepo) RejectPendingBids(_ context.Context, gigID, exceptBidID string) ([]string, error) {
	var rejected []string
	err := sqlitex.Execute(t.conn,
		`UPDATE bids SET status = 'rejected', updated_at = ?
		 WHERE gig_id = ? AND id <> ? AND status = 'pending'
		 RETURNING id`,
		&sqlitex.ExecOptions{
			Args: []any{t.now().UnixNano(), gigID, exceptBidID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				rejected = append(rejected, stmt.ColumnText(0))
				return nil
			},
		})
	if err != nil {
		return nil, mapError("reject pending bids", err)
	}
	return rejected, nil
}
