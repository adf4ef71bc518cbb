package repository

import (
	"context"
	"fmt"

	"gig-marketplace/internal/marketerrors"
	model "gig-marketplace/internal/models"
)

type txGig struct {
	gig     model.Gig
	version int64
	dirty   bool
}

type txBid struct {
	bid      model.Bid
	version  int64
	dirty    bool
	inserted bool
}

// memoryTx buffers reads and writes until commit
type memoryTx struct {
	repo     *MemoryRepo
	gigs     map[string]*txGig
	bids     map[string]*txBid
	inserted []string
}

func newMemoryTx(repo *MemoryRepo) *memoryTx {
	return &memoryTx{
		repo: repo,
		gigs: make(map[string]*txGig),
		bids: make(map[string]*txBid),
	}
}

func (tx *memoryTx) loadGig(gigID string) (*txGig, error) {
	if entry, ok := tx.gigs[gigID]; ok {
		return entry, nil
	}

	tx.repo.mu.RLock()
	gig, ok := tx.repo.gigs[gigID]
	version := tx.repo.gigVersions[gigID]
	tx.repo.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("get gig %s: %w", gigID, marketerrors.ErrGigNotFound)
	}
	entry := &txGig{gig: gig, version: version}
	tx.gigs[gigID] = entry
	return entry, nil
}

func (tx *memoryTx) loadBid(bidID string) (*txBid, error) {
	if entry, ok := tx.bids[bidID]; ok {
		return entry, nil
	}

	tx.repo.mu.RLock()
	bid, ok := tx.repo.bids[bidID]
	version := tx.repo.bidVersions[bidID]
	tx.repo.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("get bid %s: %w", bidID, marketerrors.ErrBidNotFound)
	}
	entry := &txBid{bid: bid, version: version}
	tx.bids[bidID] = entry
	return entry, nil
}

func (tx *memoryTx) GetBid(_ context.Context, bidID string) (model.Bid, error) {
	entry, err := tx.loadBid(bidID)
	if err != nil {
		return model.Bid{}, err
	}
	return entry.bid, nil
}

func (tx *memoryTx) GetGig(_ context.Context, gigID string) (model.Gig, error) {
	entry, err := tx.loadGig(gigID)
	if err != nil {
		return model.Gig{}, err
	}
	return entry.gig, nil
}

// InsertBid also marks the parent gig as written, so a concurrent
// transaction that scanned the gig's bids fails at commit.
func (tx *memoryTx) InsertBid(_ context.Context, bid model.Bid) error {
	gigEntry, err := tx.loadGig(bid.GigID)
	if err != nil {
		return err
	}
	if _, ok := tx.bids[bid.ID]; ok {
		return fmt.Errorf("insert bid %s: already exists: %w", bid.ID, marketerrors.ErrInvalidBid)
	}
	gigEntry.dirty = true
	tx.bids[bid.ID] = &txBid{bid: bid, dirty: true, inserted: true}
	tx.inserted = append(tx.inserted, bid.ID)
	return nil
}

func (tx *memoryTx) TransitionGig(_ context.Context, gigID string, from, to model.GigStatus) error {
	entry, err := tx.loadGig(gigID)
	if err != nil {
		return err
	}
	if entry.gig.Status != from {
		return fmt.Errorf("transition gig %s %s -> %s, found %s: %w", gigID, from, to, entry.gig.Status, marketerrors.ErrWriteConflict)
	}
	entry.gig.Status = to
	entry.gig.UpdatedAt = tx.repo.now()
	entry.dirty = true
	return nil
}

func (tx *memoryTx) TransitionBid(_ context.Context, bidID string, from, to model.BidStatus) error {
	entry, err := tx.loadBid(bidID)
	if err != nil {
		return err
	}
	if entry.bid.Status != from {
		return fmt.Errorf("transition bid %s %s -> %s, found %s: %w", bidID, from, to, entry.bid.Status, marketerrors.ErrWriteConflict)
	}
	entry.bid.Status = to
	entry.bid.UpdatedAt = tx.repo.now()
	entry.dirty = true
	return nil
}

func (tx *memoryTx) RejectPendingBids(_ context.Context, gigID, exceptBidID string) ([]string, error) {
	// the gig version guards the bid set against concurrent inserts
	if _, err := tx.loadGig(gigID); err != nil {
		return nil, err
	}

	tx.repo.mu.RLock()
	ids := append([]string(nil), tx.repo.gigBids[gigID]...)
	tx.repo.mu.RUnlock()

	for _, id := range tx.inserted {
		if tx.bids[id].bid.GigID == gigID {
			ids = append(ids, id)
		}
	}

	var rejected []string
	now := tx.repo.now()
	for _, id := range ids {
		if id == exceptBidID {
			continue
		}
		entry, err := tx.loadBid(id)
		if err != nil {
			return nil, err
		}
		if entry.bid.Status != model.BidStatusPending {
			continue
		}
		entry.bid.Status = model.BidStatusRejected
		entry.bid.UpdatedAt = now
		entry.dirty = true
		rejected = append(rejected, id)
	}
	return rejected, nil
}

// commit validates every version read by the transaction and applies the
// buffered writes atomically
func (tx *memoryTx) commit() error {
	r := tx.repo
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, entry := range tx.gigs {
		if r.gigVersions[id] != entry.version {
			return fmt.Errorf("commit: gig %s changed: %w", id, marketerrors.ErrWriteConflict)
		}
	}
	for id, entry := range tx.bids {
		_, exists := r.bids[id]
		if entry.inserted && exists {
			return fmt.Errorf("commit: bid %s already exists: %w", id, marketerrors.ErrWriteConflict)
		}
		if !entry.inserted && r.bidVersions[id] != entry.version {
			return fmt.Errorf("commit: bid %s changed: %w", id, marketerrors.ErrWriteConflict)
		}
	}

	for id, entry := range tx.gigs {
		if entry.dirty {
			r.gigs[id] = entry.gig
			r.gigVersions[id]++
		}
	}
	for id, entry := range tx.bids {
		if entry.dirty {
			r.bids[id] = entry.bid
			r.bidVersions[id]++
		}
	}
	for _, id := range tx.inserted {
		bid := tx.bids[id].bid
		r.gigBids[bid.GigID] = append(r.gigBids[bid.GigID], id)
	}
	return nil
}
