// Package sqlite implements repository.Store on an embedded SQLite
// database. Every transaction is IMMEDIATE, so SQLite's single writer lock
// serializes hires and bid placement across the whole database.
package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gig-marketplace/internal/marketerrors"
	model "gig-marketplace/internal/models"
	"gig-marketplace/internal/repository"
	"gig-marketplace/utils"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS gigs (
    id          TEXT PRIMARY KEY,
    owner_id    TEXT NOT NULL,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    budget      REAL NOT NULL,
    status      TEXT NOT NULL,
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS gigs_status_created_idx ON gigs (status, created_at);

CREATE TABLE IF NOT EXISTS bids (
    id            TEXT PRIMARY KEY,
    gig_id        TEXT NOT NULL,
    freelancer_id TEXT NOT NULL,
    client_id     TEXT NOT NULL,
    amount        REAL NOT NULL,
    message       TEXT NOT NULL,
    status        TEXT NOT NULL,
    created_at    INTEGER NOT NULL,
    updated_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS bids_gig_idx ON bids (gig_id, created_at);
CREATE INDEX IF NOT EXISTS bids_freelancer_idx ON bids (freelancer_id, created_at);
CREATE INDEX IF NOT EXISTS bids_client_idx ON bids (client_id, created_at);
CREATE UNIQUE INDEX IF NOT EXISTS bids_one_hired_per_gig ON bids (gig_id) WHERE status = 'hired';

CREATE TABLE IF NOT EXISTS notifications (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    type       TEXT NOT NULL,
    message    TEXT NOT NULL,
    gig_id     TEXT NOT NULL,
    bid_id     TEXT,
    is_read    INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS notifications_user_created_idx ON notifications (user_id, created_at);
`

const (
	gigColumns          = `id, owner_id, title, description, budget, status, created_at, updated_at`
	bidColumns          = `id, gig_id, freelancer_id, client_id, amount, message, status, created_at, updated_at`
	notificationColumns = `id, user_id, type, message, gig_id, bid_id, is_read, created_at`
)

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=OFF",
	"PRAGMA temp_store=MEMORY",
}

// Repo is a SQLite-backed repository.Store
type Repo struct {
	pool *sqlitex.Pool
	now  func() time.Time
}

var _ repository.Store = (*Repo)(nil)

// Open creates the database at path if needed, applies the schema and
// returns a store backed by a pool of poolSize connections.
func Open(ctx context.Context, path string, poolSize int) (*Repo, error) {
	if path == "" {
		return nil, fmt.Errorf("repository: sqlite path is required")
	}
	if poolSize <= 0 {
		poolSize = 4
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConn,
	})
	if err != nil {
		return nil, fmt.Errorf("repository: opening sqlite %s: %w", path, err)
	}

	conn, err := pool.Take(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("repository: take sqlite conn: %w", err)
	}
	err = sqlitex.ExecuteScript(conn, schema, nil)
	pool.Put(conn)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("repository: apply sqlite schema: %w", err)
	}

	utils.Info("sqlite store opened", map[string]any{"path": path, "pool_size": poolSize})
	return &Repo{
		pool: pool,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func prepareConn(conn *sqlite.Conn) error {
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("repository: %s: %w", pragma, err)
		}
	}
	return nil
}

// WithinTx runs fn inside an IMMEDIATE transaction on a single connection
func (r *Repo) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) (err error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("repository: take sqlite conn: %w", err)
	}
	defer r.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return mapError("begin tx", err)
	}
	defer func() {
		endTransaction(&err)
		if err != nil && sqlite.ErrCode(err).ToPrimary() == sqlite.ResultBusy {
			err = mapError("commit tx", err)
		}
	}()

	return fn(&txRepo{conn: conn, now: r.now})
}

// withConn borrows a pooled connection for a single statement
func (r *Repo) withConn(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("repository: take sqlite conn: %w", err)
	}
	defer r.pool.Put(conn)
	return fn(conn)
}

// CreateGig inserts a new gig
func (r *Repo) CreateGig(ctx context.Context, gig model.Gig) error {
	return r.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `INSERT INTO gigs (`+gigColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, &sqlitex.ExecOptions{
			Args: []any{gig.ID, gig.OwnerID, gig.Title, gig.Description, gig.Budget, string(gig.Status), gig.CreatedAt.UnixNano(), gig.UpdatedAt.UnixNano()},
		})
		if isConstraint(err) {
			return fmt.Errorf("repository: create gig %s: already exists: %w", gig.ID, marketerrors.ErrInvalidGig)
		}
		if err != nil {
			return mapError("create gig "+gig.ID, err)
		}
		return nil
	})
}

// GetGig returns a gig by id
func (r *Repo) GetGig(ctx context.Context, gigID string) (gig model.Gig, err error) {
	err = r.withConn(ctx, func(conn *sqlite.Conn) error {
		gig, err = getGig(conn, gigID)
		return err
	})
	return gig, err
}

// GetBid returns a bid by id
func (r *Repo) GetBid(ctx context.Context, bidID string) (bid model.Bid, err error) {
	err = r.withConn(ctx, func(conn *sqlite.Conn) error {
		bid, err = getBid(conn, bidID)
		return err
	})
	return bid, err
}

// ListOpenGigs returns open gigs whose title contains search, newest first
func (r *Repo) ListOpenGigs(ctx context.Context, search string) ([]model.Gig, error) {
	needle := strings.ToLower(strings.TrimSpace(search))
	gigs := make([]model.Gig, 0)
	err := r.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT `+gigColumns+` FROM gigs
			 WHERE status = 'open' AND (?1 = '' OR instr(lower(title), ?1) > 0)
			 ORDER BY created_at DESC`,
			&sqlitex.ExecOptions{
				Args: []any{needle},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					gigs = append(gigs, scanGig(stmt))
					return nil
				},
			})
	})
	if err != nil {
		return nil, mapError("list open gigs", err)
	}
	return gigs, nil
}

// ListBidsByGig returns every bid on a gig, oldest first
func (r *Repo) ListBidsByGig(ctx context.Context, gigID string) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.withConn(ctx, func(conn *sqlite.Conn) error {
		if _, err := getGig(conn, gigID); err != nil {
			return err
		}
		var err error
		bids, err = queryBids(conn, `SELECT `+bidColumns+` FROM bids WHERE gig_id = ? ORDER BY created_at, rowid`, gigID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bids, nil
}

// ListBidsByFreelancer returns a freelancer's bids, newest first
func (r *Repo) ListBidsByFreelancer(ctx context.Context, freelancerID string) (bids []model.Bid, err error) {
	err = r.withConn(ctx, func(conn *sqlite.Conn) error {
		bids, err = queryBids(conn, `SELECT `+bidColumns+` FROM bids WHERE freelancer_id = ? ORDER BY created_at DESC`, freelancerID)
		return err
	})
	return bids, err
}

// ListBidsByClient returns the bids on a client's gigs, newest first
func (r *Repo) ListBidsByClient(ctx context.Context, clientID string) (bids []model.Bid, err error) {
	err = r.withConn(ctx, func(conn *sqlite.Conn) error {
		bids, err = queryBids(conn, `SELECT `+bidColumns+` FROM bids WHERE client_id = ? ORDER BY created_at DESC`, clientID)
		return err
	})
	return bids, err
}

// CreateNotification inserts a notification
func (r *Repo) CreateNotification(ctx context.Context, n model.Notification) error {
	var bidID any
	if n.BidID != "" {
		bidID = n.BidID
	}
	return r.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `INSERT INTO notifications (`+notificationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, &sqlitex.ExecOptions{
			Args: []any{n.ID, n.UserID, string(n.Type), n.Message, n.GigID, bidID, n.IsRead, n.CreatedAt.UnixNano()},
		})
		if err != nil {
			return mapError("create notification "+n.ID, err)
		}
		return nil
	})
}

// GetNotification returns a notification by id
func (r *Repo) GetNotification(ctx context.Context, notificationID string) (model.Notification, error) {
	var n model.Notification
	found := false
	err := r.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, &sqlitex.ExecOptions{
			Args: []any{notificationID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				n = scanNotification(stmt)
				found = true
				return nil
			},
		})
	})
	if err != nil {
		return model.Notification{}, mapError("get notification "+notificationID, err)
	}
	if !found {
		return model.Notification{}, fmt.Errorf("repository: get notification %s: %w", notificationID, marketerrors.ErrNotificationNotFound)
	}
	return n, nil
}

// ListNotifications returns a user's notifications, newest first
func (r *Repo) ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = -1
	}
	list := make([]model.Notification, 0)
	err := r.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT `+notificationColumns+` FROM notifications WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
			&sqlitex.ExecOptions{
				Args: []any{userID, limit},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					list = append(list, scanNotification(stmt))
					return nil
				},
			})
	})
	if err != nil {
		return nil, mapError("list notifications", err)
	}
	return list, nil
}

// MarkNotificationRead flags a notification as read
func (r *Repo) MarkNotificationRead(ctx context.Context, notificationID string) error {
	return r.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `UPDATE notifications SET is_read = 1 WHERE id = ?`, &sqlitex.ExecOptions{
			Args: []any{notificationID},
		})
		if err != nil {
			return mapError("mark notification read", err)
		}
		if conn.Changes() == 0 {
			return fmt.Errorf("repository: mark notification %s read: %w", notificationID, marketerrors.ErrNotificationNotFound)
		}
		return nil
	})
}

// Close closes every pooled connection
func (r *Repo) Close() error {
	return r.pool.Close()
}

func getGig(conn *sqlite.Conn, gigID string) (model.Gig, error) {
	var gig model.Gig
	found := false
	err := sqlitex.Execute(conn, `SELECT `+gigColumns+` FROM gigs WHERE id = ?`, &sqlitex.ExecOptions{
		Args: []any{gigID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			gig = scanGig(stmt)
			found = true
			return nil
		},
	})
	if err != nil {
		return model.Gig{}, mapError("get gig "+gigID, err)
	}
	if !found {
		return model.Gig{}, fmt.Errorf("repository: get gig %s: %w", gigID, marketerrors.ErrGigNotFound)
	}
	return gig, nil
}

func getBid(conn *sqlite.Conn, bidID string) (model.Bid, error) {
	var bid model.Bid
	found := false
	err := sqlitex.Execute(conn, `SELECT `+bidColumns+` FROM bids WHERE id = ?`, &sqlitex.ExecOptions{
		Args: []any{bidID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			bid = scanBid(stmt)
			found = true
			return nil
		},
	})
	if err != nil {
		return model.Bid{}, mapError("get bid "+bidID, err)
	}
	if !found {
		return model.Bid{}, fmt.Errorf("repository: get bid %s: %w", bidID, marketerrors.ErrBidNotFound)
	}
	return bid, nil
}

func queryBids(conn *sqlite.Conn, query string, args ...any) ([]model.Bid, error) {
	bids := make([]model.Bid, 0)
	err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			bids = append(bids, scanBid(stmt))
			return nil
		},
	})
	if err != nil {
		return nil, mapError("list bids", err)
	}
	return bids, nil
}

func scanGig(stmt *sqlite.Stmt) model.Gig {
	return model.Gig{
		ID:          stmt.ColumnText(0),
		OwnerID:     stmt.ColumnText(1),
		Title:       stmt.ColumnText(2),
		Description: stmt.ColumnText(3),
		Budget:      stmt.ColumnFloat(4),
		Status:      model.GigStatus(stmt.ColumnText(5)),
		CreatedAt:   fromUnixNano(stmt.ColumnInt64(6)),
		UpdatedAt:   fromUnixNano(stmt.ColumnInt64(7)),
	}
}

func scanBid(stmt *sqlite.Stmt) model.Bid {
	return model.Bid{
		ID:           stmt.ColumnText(0),
		GigID:        stmt.ColumnText(1),
		FreelancerID: stmt.ColumnText(2),
		ClientID:     stmt.ColumnText(3),
		Amount:       stmt.ColumnFloat(4),
		Message:      stmt.ColumnText(5),
		Status:       model.BidStatus(stmt.ColumnText(6)),
		CreatedAt:    fromUnixNano(stmt.ColumnInt64(7)),
		UpdatedAt:    fromUnixNano(stmt.ColumnInt64(8)),
	}
}

func scanNotification(stmt *sqlite.Stmt) model.Notification {
	n := model.Notification{
		ID:        stmt.ColumnText(0),
		UserID:    stmt.ColumnText(1),
		Type:      model.NotificationType(stmt.ColumnText(2)),
		Message:   stmt.ColumnText(3),
		GigID:     stmt.ColumnText(4),
		IsRead:    stmt.ColumnInt64(6) != 0,
		CreatedAt: fromUnixNano(stmt.ColumnInt64(7)),
	}
	if !stmt.ColumnIsNull(5) {
		n.BidID = stmt.ColumnText(5)
	}
	return n
}

func fromUnixNano(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

func isConstraint(err error) bool {
	return err != nil && sqlite.ErrCode(err).ToPrimary() == sqlite.ResultConstraint
}

// mapError translates SQLite result codes into marketplace errors
func mapError(op string, err error) error {
	switch sqlite.ErrCode(err).ToPrimary() {
	case sqlite.ResultBusy, sqlite.ResultLocked, sqlite.ResultConstraint:
		return fmt.Errorf("repository: %s: %v: %w", op, err, marketerrors.ErrWriteConflict)
	}
	return fmt.Errorf("repository: %s: %w", op, err)
}
