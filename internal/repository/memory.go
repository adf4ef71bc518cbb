package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gig-marketplace/internal/marketerrors"
	model "gig-marketplace/internal/models"
)

// MemoryRepo is a concurrency-safe in-memory implementation of Store.
// Transactions are optimistic: every record read inside WithinTx has its
// version checked again under the write lock at commit.
type MemoryRepo struct {
	mu            sync.RWMutex
	gigs          map[string]model.Gig          // key: gigID -> value: gig
	gigVersions   map[string]int64              // key: gigID -> value: version
	bids          map[string]model.Bid          // key: bidID -> value: bid
	bidVersions   map[string]int64              // key: bidID -> value: version
	gigBids       map[string][]string           // key: gigID -> value: bidIDs in insertion order
	notifications map[string]model.Notification // key: notificationID -> value: notification
	userNotifs    map[string][]string           // key: userID -> value: notificationIDs in insertion order
	now           func() time.Time
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		gigs:          make(map[string]model.Gig),
		gigVersions:   make(map[string]int64),
		bids:          make(map[string]model.Bid),
		bidVersions:   make(map[string]int64),
		gigBids:       make(map[string][]string),
		notifications: make(map[string]model.Notification),
		userNotifs:    make(map[string][]string),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithinTx runs fn against a transaction and commits it if fn succeeds
func (r *MemoryRepo) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := newMemoryTx(r)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

// CreateGig stores a new gig
func (r *MemoryRepo) CreateGig(_ context.Context, gig model.Gig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.gigs[gig.ID]; ok {
		return fmt.Errorf("create gig %s: already exists: %w", gig.ID, marketerrors.ErrInvalidGig)
	}
	r.gigs[gig.ID] = gig
	r.gigVersions[gig.ID] = 1
	return nil
}

// GetGig returns a gig by id
func (r *MemoryRepo) GetGig(_ context.Context, gigID string) (model.Gig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gig, ok := r.gigs[gigID]
	if !ok {
		return model.Gig{}, fmt.Errorf("get gig %s: %w", gigID, marketerrors.ErrGigNotFound)
	}
	return gig, nil
}

// GetBid returns a bid by id
func (r *MemoryRepo) GetBid(_ context.Context, bidID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bid, ok := r.bids[bidID]
	if !ok {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", bidID, marketerrors.ErrBidNotFound)
	}
	return bid, nil
}

// ListOpenGigs returns open gigs whose title contains search, newest first
func (r *MemoryRepo) ListOpenGigs(_ context.Context, search string) ([]model.Gig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	gigs := make([]model.Gig, 0, len(r.gigs))
	for _, gig := range r.gigs {
		if gig.Status != model.GigStatusOpen {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(gig.Title), needle) {
			continue
		}
		gigs = append(gigs, gig)
	}
	sort.Slice(gigs, func(i, j int) bool { return gigs[i].CreatedAt.After(gigs[j].CreatedAt) })
	return gigs, nil
}

// ListBidsByGig returns all bids on a gig in the order they were placed
func (r *MemoryRepo) ListBidsByGig(_ context.Context, gigID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.gigs[gigID]; !ok {
		return nil, fmt.Errorf("list bids for gig %s: %w", gigID, marketerrors.ErrGigNotFound)
	}

	ids := r.gigBids[gigID]
	bids := make([]model.Bid, 0, len(ids))
	for _, id := range ids {
		bids = append(bids, r.bids[id])
	}
	return bids, nil
}

// ListBidsByFreelancer returns all bids placed by a freelancer, newest first
func (r *MemoryRepo) ListBidsByFreelancer(_ context.Context, freelancerID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := make([]model.Bid, 0)
	for _, bid := range r.bids {
		if bid.FreelancerID == freelancerID {
			bids = append(bids, bid)
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].CreatedAt.After(bids[j].CreatedAt) })
	return bids, nil
}

// ListBidsByClient returns every bid received on gigs owned by clientID,
// newest first
func (r *MemoryRepo) ListBidsByClient(_ context.Context, clientID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := make([]model.Bid, 0)
	for _, bid := range r.bids {
		if bid.ClientID == clientID {
			bids = append(bids, bid)
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].CreatedAt.After(bids[j].CreatedAt) })
	return bids, nil
}

// CreateNotification stores a notification
func (r *MemoryRepo) CreateNotification(_ context.Context, n model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[n.ID]; ok {
		return fmt.Errorf("create notification %s: already exists", n.ID)
	}
	r.notifications[n.ID] = n
	r.userNotifs[n.UserID] = append(r.userNotifs[n.UserID], n.ID)
	return nil
}

// GetNotification returns a notification by id
func (r *MemoryRepo) GetNotification(_ context.Context, notificationID string) (model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[notificationID]
	if !ok {
		return model.Notification{}, fmt.Errorf("get notification %s: %w", notificationID, marketerrors.ErrNotificationNotFound)
	}
	return n, nil
}

// ListNotifications returns a user's notifications, newest first
func (r *MemoryRepo) ListNotifications(_ context.Context, userID string, limit int) ([]model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.userNotifs[userID]
	list := make([]model.Notification, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		list = append(list, r.notifications[ids[i]])
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// MarkNotificationRead flags a notification as read
func (r *MemoryRepo) MarkNotificationRead(_ context.Context, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[notificationID]
	if !ok {
		return fmt.Errorf("mark notification %s read: %w", notificationID, marketerrors.ErrNotificationNotFound)
	}
	n.IsRead = true
	r.notifications[notificationID] = n
	return nil
}

// Close is a no-op for the in-memory store
func (r *MemoryRepo) Close() error { return nil }

// AddGig adds a gig to the repository. This method is intended for tests and seeding only.
func (r *MemoryRepo) AddGig(gig model.Gig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gigs[gig.ID] = gig
	r.gigVersions[gig.ID]++
}

// AddBid adds a bid to the repository. This method is intended for tests and seeding only.
func (r *MemoryRepo) AddBid(bid model.Bid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bids[bid.ID]; !ok {
		r.gigBids[bid.GigID] = append(r.gigBids[bid.GigID], bid.ID)
	}
	r.bids[bid.ID] = bid
	r.bidVersions[bid.ID]++
}
