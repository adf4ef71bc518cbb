// Package postgres implements repository.Store on top of a pgx connection
// pool. Hire serialization relies on row locks taken with SELECT ... FOR
// UPDATE and on conditional status updates.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gig-marketplace/internal/marketerrors"
	model "gig-marketplace/internal/models"
	"gig-marketplace/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	gigColumns          = `id, owner_id, title, description, budget, status, created_at, updated_at`
	bidColumns          = `id, gig_id, freelancer_id, client_id, amount, message, status, created_at, updated_at`
	notificationColumns = `id, user_id, type, message, gig_id, bid_id, is_read, created_at`
)

// querier is the subset shared by *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo is a Postgres-backed repository.Store
type Repo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ repository.Store = (*Repo)(nil)

// NewRepo wraps an already connected pool
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// WithinTx runs fn in a READ COMMITTED transaction. Gigs read through the
// Tx are locked until commit, so two hires on one gig queue behind each
// other and the second sees the gig already assigned.
func (r *Repo) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) (err error) {
	pgxTx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("repository: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = pgxTx.Rollback(ctx)
		}
	}()

	if err = fn(&txRepo{q: pgxTx, now: r.now}); err != nil {
		return err
	}
	if err = pgxTx.Commit(ctx); err != nil {
		return mapError("commit tx", err)
	}
	return nil
}

// CreateGig inserts a new gig
func (r *Repo) CreateGig(ctx context.Context, gig model.Gig) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO gigs (`+gigColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		gig.ID, gig.OwnerID, gig.Title, gig.Description, gig.Budget, string(gig.Status), gig.CreatedAt, gig.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("repository: create gig %s: already exists: %w", gig.ID, marketerrors.ErrInvalidGig)
		}
		return mapError("create gig "+gig.ID, err)
	}
	return nil
}

// GetGig returns a gig without locking it
func (r *Repo) GetGig(ctx context.Context, gigID string) (model.Gig, error) {
	return getGig(ctx, r.pool, gigID, false)
}

// GetBid returns a bid without locking it
func (r *Repo) GetBid(ctx context.Context, bidID string) (model.Bid, error) {
	return getBid(ctx, r.pool, bidID)
}

// ListOpenGigs returns open gigs whose title contains search, newest first
func (r *Repo) ListOpenGigs(ctx context.Context, search string) ([]model.Gig, error) {
	search = strings.TrimSpace(search)
	rows, err := r.pool.Query(ctx,
		`SELECT `+gigColumns+` FROM gigs
		 WHERE status = 'open' AND ($1 = '' OR title ILIKE '%' || $1 || '%' ESCAPE '\')
		 ORDER BY created_at DESC`,
		escapeLike(search))
	if err != nil {
		return nil, mapError("list open gigs", err)
	}
	defer rows.Close()

	gigs := make([]model.Gig, 0)
	for rows.Next() {
		gig, err := scanGig(rows)
		if err != nil {
			return nil, mapError("scan gig", err)
		}
		gigs = append(gigs, gig)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list open gigs", err)
	}
	return gigs, nil
}

// ListBidsByGig returns every bid on a gig, oldest first
func (r *Repo) ListBidsByGig(ctx context.Context, gigID string) ([]model.Bid, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM gigs WHERE id = $1)`, gigID).Scan(&exists); err != nil {
		return nil, mapError("check gig "+gigID, err)
	}
	if !exists {
		return nil, fmt.Errorf("repository: list bids for gig %s: %w", gigID, marketerrors.ErrGigNotFound)
	}
	return queryBids(ctx, r.pool, `SELECT `+bidColumns+` FROM bids WHERE gig_id = $1 ORDER BY created_at, id`, gigID)
}

// ListBidsByFreelancer returns a freelancer's bids, newest first
func (r *Repo) ListBidsByFreelancer(ctx context.Context, freelancerID string) ([]model.Bid, error) {
	return queryBids(ctx, r.pool, `SELECT `+bidColumns+` FROM bids WHERE freelancer_id = $1 ORDER BY created_at DESC`, freelancerID)
}

// ListBidsByClient returns the bids on a client's gigs, newest first
func (r *Repo) ListBidsByClient(ctx context.Context, clientID string) ([]model.Bid, error) {
	return queryBids(ctx, r.pool, `SELECT `+bidColumns+` FROM bids WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
}

// CreateNotification inserts a notification
func (r *Repo) CreateNotification(ctx context.Context, n model.Notification) error {
	var bidID *string
	if n.BidID != "" {
		bidID = &n.BidID
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (`+notificationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, string(n.Type), n.Message, n.GigID, bidID, n.IsRead, n.CreatedAt)
	if err != nil {
		return mapError("create notification "+n.ID, err)
	}
	return nil
}

// GetNotification returns a notification by id
func (r *Repo) GetNotification(ctx context.Context, notificationID string) (model.Notification, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, notificationID)
	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Notification{}, fmt.Errorf("repository: get notification %s: %w", notificationID, marketerrors.ErrNotificationNotFound)
	}
	if err != nil {
		return model.Notification{}, mapError("get notification "+notificationID, err)
	}
	return n, nil
}

// ListNotifications returns a user's notifications, newest first
func (r *Repo) ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	var lim any
	if limit > 0 {
		lim = limit
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, lim)
	if err != nil {
		return nil, mapError("list notifications", err)
	}
	defer rows.Close()

	list := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, mapError("scan notification", err)
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list notifications", err)
	}
	return list, nil
}

// MarkNotificationRead flags a notification as read
func (r *Repo) MarkNotificationRead(ctx context.Context, notificationID string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, notificationID)
	if err != nil {
		return mapError("mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repository: mark notification %s read: %w", notificationID, marketerrors.ErrNotificationNotFound)
	}
	return nil
}

// Close releases the pool
func (r *Repo) Close() error {
	r.pool.Close()
	return nil
}

func getGig(ctx context.Context, q querier, gigID string, forUpdate bool) (model.Gig, error) {
	query := `SELECT ` + gigColumns + ` FROM gigs WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	gig, err := scanGig(q.QueryRow(ctx, query, gigID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Gig{}, fmt.Errorf("repository: get gig %s: %w", gigID, marketerrors.ErrGigNotFound)
	}
	if err != nil {
		return model.Gig{}, mapError("get gig "+gigID, err)
	}
	return gig, nil
}

func getBid(ctx context.Context, q querier, bidID string) (model.Bid, error) {
	bid, err := scanBid(q.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, bidID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("repository: get bid %s: %w", bidID, marketerrors.ErrBidNotFound)
	}
	if err != nil {
		return model.Bid{}, mapError("get bid "+bidID, err)
	}
	return bid, nil
}

func queryBids(ctx context.Context, q querier, query string, args ...any) ([]model.Bid, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list bids", err)
	}
	defer rows.Close()

	bids := make([]model.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, mapError("scan bid", err)
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list bids", err)
	}
	return bids, nil
}

func scanGig(row pgx.Row) (model.Gig, error) {
	var gig model.Gig
	var status string
	err := row.Scan(&gig.ID, &gig.OwnerID, &gig.Title, &gig.Description, &gig.Budget, &status, &gig.CreatedAt, &gig.UpdatedAt)
	gig.Status = model.GigStatus(status)
	return gig, err
}

func scanBid(row pgx.Row) (model.Bid, error) {
	var bid model.Bid
	var status string
	err := row.Scan(&bid.ID, &bid.GigID, &bid.FreelancerID, &bid.ClientID, &bid.Amount, &bid.Message, &status, &bid.CreatedAt, &bid.UpdatedAt)
	bid.Status = model.BidStatus(status)
	return bid, err
}

func scanNotification(row pgx.Row) (model.Notification, error) {
	var n model.Notification
	var notifType string
	var bidID *string
	err := row.Scan(&n.ID, &n.UserID, &notifType, &n.Message, &n.GigID, &bidID, &n.IsRead, &n.CreatedAt)
	n.Type = model.NotificationType(notifType)
	if bidID != nil {
		n.BidID = *bidID
	}
	return n, err
}

// mapError translates Postgres failures into marketplace errors
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			// serialization failure, deadlock
			return fmt.Errorf("repository: %s: %s: %w", op, pgErr.Message, marketerrors.ErrWriteConflict)
		case "23505":
			return fmt.Errorf("repository: %s: %s: %w", op, pgErr.ConstraintName, marketerrors.ErrWriteConflict)
		case "23503":
			return fmt.Errorf("repository: %s: %s: %w", op, pgErr.ConstraintName, marketerrors.ErrGigNotFound)
		}
	}
	return fmt.Errorf("repository: %s: %w", op, err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
