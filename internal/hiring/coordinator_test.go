package hiring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gig-marketplace/internal/events"
	"gig-marketplace/internal/marketerrors"
	"gig-marketplace/internal/models"
	"gig-marketplace/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// eventLog is a Publisher that remembers what it was given
type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) Publish(ev events.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) all() []events.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]events.Event(nil), l.events...)
}

// Tests Hire against a mocked transaction
func TestCoordinator_Hire(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := repository.NewMockMarketplaceDB(ctrl)
	mockTx := repository.NewMockTx(ctrl)
	mockPublisher := NewMockPublisher(ctrl)
	coordinator := NewCoordinator(mockDB, mockPublisher)

	openGig := models.Gig{ID: "g1", OwnerID: "client1", Title: "Logo", Budget: 5000, Status: models.GigStatusOpen}
	assignedGig := openGig
	assignedGig.Status = models.GigStatusAssigned
	pendingBid := models.Bid{ID: "b1", GigID: "g1", FreelancerID: "f1", ClientID: "client1", Amount: 300, Status: models.BidStatusPending}
	hiredBid := pendingBid
	hiredBid.Status = models.BidStatusHired

	runTx := func() {
		mockDB.EXPECT().WithinTx(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn func(repository.Tx) error) error {
				return fn(mockTx)
			})
	}

	tests := []struct {
		name          string
		bidID         string
		requesterID   string
		mockSetup     func()
		expectError     bool
		expectedError   error
		unexpectedError error
		expectedKind    marketerrors.Kind
	}{
		{
			name:        "successful_hire",
			bidID:       "b1",
			requesterID: "client1",
			mockSetup: func() {
				runTx()
				mockTx.EXPECT().GetBid(gomock.Any(), "b1").Return(pendingBid, nil)
				mockTx.EXPECT().GetGig(gomock.Any(), "g1").Return(openGig, nil)
				mockTx.EXPECT().TransitionGig(gomock.Any(), "g1", models.GigStatusOpen, models.GigStatusAssigned).Return(nil)
				mockTx.EXPECT().TransitionBid(gomock.Any(), "b1", models.BidStatusPending, models.BidStatusHired).Return(nil)
				mockTx.EXPECT().RejectPendingBids(gomock.Any(), "g1", "b1").Return([]string{"b2", "b3"}, nil)
				mockPublisher.EXPECT().Publish(events.Event{
					Type:        models.NotificationHired,
					RecipientID: "f1",
					GigID:       "g1",
					BidID:       "b1",
					Message:     `You have been hired for "Logo"`,
				})
			},
		},
		{
			name:        "bid_not_found",
			bidID:       "missing",
			requesterID: "client1",
			mockSetup: func() {
				runTx()
				mockTx.EXPECT().GetBid(gomock.Any(), "missing").Return(models.Bid{}, marketerrors.ErrBidNotFound)
			},
			expectError:   true,
			expectedError: marketerrors.ErrBidNotFound,
			expectedKind:  marketerrors.KindNotFound,
		},
		{
			name:        "gig_not_found",
			bidID:       "b1",
			requesterID: "client1",
			mockSetup: func() {
				runTx()
				mockTx.EXPECT().GetBid(gomock.Any(), "b1").Return(pendingBid, nil)
				mockTx.EXPECT().GetGig(gomock.Any(), "g1").Return(models.Gig{}, marketerrors.ErrGigNotFound)
			},
			expectError:   true,
			expectedError: marketerrors.ErrGigNotFound,
			expectedKind:  marketerrors.KindNotFound,
		},
		{
			name:        "requester_not_owner",
			bidID:       "b1",
			requesterID: "intruder",
			mockSetup: func() {
				runTx()
				mockTx.EXPECT().GetBid(gomock.Any(), "b1").Return(pendingBid, nil)
				mockTx.EXPECT().GetGig(gomock.Any(), "g1").Return(openGig, nil)
			},
			expectError:   true,
			expectedError: marketerrors.ErrNotGigOwner,
			expectedKind:  marketerrors.KindUnauthorized,
		},
		{
			name:        "gig_already_assigned",
			bidID:       "b1",
			requesterID: "client1",
			mockSetup: func() {
				runTx()
				mockTx.EXPECT().GetBid(gomock.Any(), "b1").Return(pendingBid, nil)
				mockTx.EXPECT().GetGig(gomock.Any(), "g1").Return(assignedGig, nil)
			},
			expectError:   true,
			expectedError: marketerrors.ErrGigAlreadyAssigned,
			expectedKind:  marketerrors.KindConflict,
		},
		{
			name:        "bid_not_pending",
			bidID:       "b1",
			requesterID: "client1",
			mockSetup: func() {
				runTx()
				mockTx.EXPECT().GetBid(gomock.Any(), "b1").Return(hiredBid, nil)
				mockTx.EXPECT().GetGig(gomock.Any(), "g1").Return(openGig, nil)
			},
			expectError:   true,
			expectedError: marketerrors.ErrBidNotPending,
			expectedKind:  marketerrors.KindConflict,
		},
		{
			name:        "lost_race_on_gig_update",
			bidID:       "b1",
			requesterID: "client1",
			mockSetup: func() {
				runTx()
				mockTx.EXPECT().GetBid(gomock.Any(), "b1").Return(pendingBid, nil)
				mockTx.EXPECT().GetGig(gomock.Any(), "g1").Return(openGig, nil)
				mockTx.EXPECT().TransitionGig(gomock.Any(), "g1", models.GigStatusOpen, models.GigStatusAssigned).Return(marketerrors.ErrWriteConflict)
				runTx()
				mockTx.EXPECT().GetBid(gomock.Any(), "b1").Return(pendingBid, nil)
				mockTx.EXPECT().GetGig(gomock.Any(), "g1").Return(assignedGig, nil)
			},
			expectError:   true,
			expectedError: marketerrors.ErrGigAlreadyAssigned,
			expectedKind:  marketerrors.KindConflict,
		},
		{
			name:        "conflict_at_commit_then_retry_succeeds",
			bidID:       "b1",
			requesterID: "client1",
			mockSetup: func() {
				mockDB.EXPECT().WithinTx(gomock.Any(), gomock.Any()).Return(fmt.Errorf("commit: %w", marketerrors.ErrWriteConflict))
				runTx()
				mockTx.EXPECT().GetBid(gomock.Any(), "b1").Return(pendingBid, nil)
				mockTx.EXPECT().GetGig(gomock.Any(), "g1").Return(openGig, nil)
				mockTx.EXPECT().TransitionGig(gomock.Any(), "g1", models.GigStatusOpen, models.GigStatusAssigned).Return(nil)
				mockTx.EXPECT().TransitionBid(gomock.Any(), "b1", models.BidStatusPending, models.BidStatusHired).Return(nil)
				mockTx.EXPECT().RejectPendingBids(gomock.Any(), "g1", "b1").Return([]string{"b2", "b3"}, nil)
				mockPublisher.EXPECT().Publish(gomock.Any())
			},
		},
		{
			name:        "conflict_at_every_commit",
			bidID:       "b1",
			requesterID: "client1",
			mockSetup: func() {
				mockDB.EXPECT().WithinTx(gomock.Any(), gomock.Any()).Return(fmt.Errorf("commit: %w", marketerrors.ErrWriteConflict)).Times(hireAttempts)
			},
			expectError:     true,
			expectedError:   marketerrors.ErrWriteConflict,
			unexpectedError: marketerrors.ErrGigAlreadyAssigned,
			expectedKind:    marketerrors.KindConflict,
		},
		{
			name:        "store_failure",
			bidID:       "b1",
			requesterID: "client1",
			mockSetup: func() {
				runTx()
				mockTx.EXPECT().GetBid(gomock.Any(), "b1").Return(pendingBid, nil)
				mockTx.EXPECT().GetGig(gomock.Any(), "g1").Return(openGig, nil)
				mockTx.EXPECT().TransitionGig(gomock.Any(), "g1", models.GigStatusOpen, models.GigStatusAssigned).Return(nil)
				mockTx.EXPECT().TransitionBid(gomock.Any(), "b1", models.BidStatusPending, models.BidStatusHired).Return(nil)
				mockTx.EXPECT().RejectPendingBids(gomock.Any(), "g1", "b1").Return(nil, errors.New("connection reset"))
			},
			expectError:  true,
			expectedKind: marketerrors.KindInternal,
		},
		{
			name:          "empty_bid_id",
			bidID:         "",
			requesterID:   "client1",
			mockSetup:     func() {},
			expectError:   true,
			expectedError: marketerrors.ErrInvalidInput,
			expectedKind:  marketerrors.KindInvalid,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			out, err := coordinator.Hire(context.Background(), tc.bidID, tc.requesterID)
			if tc.expectError {
				require.Error(t, err)
				if tc.expectedError != nil {
					require.ErrorIs(t, err, tc.expectedError)
				}
				if tc.unexpectedError != nil {
					require.NotErrorIs(t, err, tc.unexpectedError)
				}
				require.Equal(t, tc.expectedKind, marketerrors.KindOf(err))
				return
			}

			require.NoError(t, err)
			require.Equal(t, models.GigStatusAssigned, out.Gig.Status)
			require.Equal(t, models.BidStatusHired, out.Bid.Status)
			require.Equal(t, []string{"b2", "b3"}, out.RejectedBidIDs)
		})
	}
}

func seedScenario(repo *repository.MemoryRepo, pendingBids int) time.Time {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.AddGig(models.Gig{
		ID: "G1", OwnerID: "owner", Title: "Landing page", Budget: 5000,
		Status: models.GigStatusOpen, CreatedAt: created, UpdatedAt: created,
	})
	for i := 1; i <= pendingBids; i++ {
		repo.AddBid(models.Bid{
			ID: fmt.Sprintf("B%d", i), GigID: "G1", FreelancerID: fmt.Sprintf("F%d", i), ClientID: "owner",
			Amount: float64(1000 * i), Message: "hire me", Status: models.BidStatusPending,
			CreatedAt: created, UpdatedAt: created,
		})
	}
	return created
}

func TestCoordinator_ScenarioHireThenConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	seedScenario(repo, 2)
	log := &eventLog{}
	coordinator := NewCoordinator(repo, log)

	out, err := coordinator.Hire(ctx, "B1", "owner")
	require.NoError(t, err)
	require.Equal(t, []string{"B2"}, out.RejectedBidIDs)

	gig, err := repo.GetGig(ctx, "G1")
	require.NoError(t, err)
	require.Equal(t, models.GigStatusAssigned, gig.Status)

	b1, err := repo.GetBid(ctx, "B1")
	require.NoError(t, err)
	require.Equal(t, models.BidStatusHired, b1.Status)

	b2, err := repo.GetBid(ctx, "B2")
	require.NoError(t, err)
	require.Equal(t, models.BidStatusRejected, b2.Status)

	_, err = coordinator.Hire(ctx, "B2", "owner")
	require.ErrorIs(t, err, marketerrors.ErrGigAlreadyAssigned)
	require.Equal(t, marketerrors.KindConflict, marketerrors.KindOf(err))

	published := log.all()
	require.Len(t, published, 1)
	require.Equal(t, models.NotificationHired, published[0].Type)
	require.Equal(t, "F1", published[0].RecipientID)
	require.Equal(t, "B1", published[0].BidID)
}

func TestCoordinator_RejectsAllOtherPending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	seedScenario(repo, 5)
	coordinator := NewCoordinator(repo, &eventLog{})

	out, err := coordinator.Hire(ctx, "B3", "owner")
	require.NoError(t, err)
	require.Len(t, out.RejectedBidIDs, 4)

	bids, err := repo.ListBidsByGig(ctx, "G1")
	require.NoError(t, err)
	for _, b := range bids {
		require.NotEqual(t, models.BidStatusPending, b.Status, "bid %s left pending", b.ID)
	}
}

func TestCoordinator_FailedHireLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		prepare      func(repo *repository.MemoryRepo)
		bidID        string
		requesterID  string
		expectedKind marketerrors.Kind
	}{
		{
			name:         "unauthorized",
			prepare:      func(*repository.MemoryRepo) {},
			bidID:        "B1",
			requesterID:  "someone-else",
			expectedKind: marketerrors.KindUnauthorized,
		},
		{
			name: "already_assigned",
			prepare: func(repo *repository.MemoryRepo) {
				gig, _ := repo.GetGig(context.Background(), "G1")
				gig.Status = models.GigStatusAssigned
				repo.AddGig(gig)
			},
			bidID:        "B2",
			requesterID:  "owner",
			expectedKind: marketerrors.KindConflict,
		},
		{
			name:         "unknown_bid",
			prepare:      func(*repository.MemoryRepo) {},
			bidID:        "B404",
			requesterID:  "owner",
			expectedKind: marketerrors.KindNotFound,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			repo := repository.NewMemoryRepo()
			seedScenario(repo, 3)
			tc.prepare(repo)
			log := &eventLog{}
			coordinator := NewCoordinator(repo, log)

			gigBefore, err := repo.GetGig(ctx, "G1")
			require.NoError(t, err)
			bidsBefore, err := repo.ListBidsByGig(ctx, "G1")
			require.NoError(t, err)

			_, err = coordinator.Hire(ctx, tc.bidID, tc.requesterID)
			require.Error(t, err)
			require.Equal(t, tc.expectedKind, marketerrors.KindOf(err))

			gigAfter, err := repo.GetGig(ctx, "G1")
			require.NoError(t, err)
			require.Equal(t, gigBefore, gigAfter)
			bidsAfter, err := repo.ListBidsByGig(ctx, "G1")
			require.NoError(t, err)
			require.Equal(t, bidsBefore, bidsAfter)
			require.Empty(t, log.all())
		})
	}
}

func TestCoordinator_ConcurrentHiresExactlyOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	concurrentCount := 32
	seedScenario(repo, concurrentCount)
	log := &eventLog{}
	coordinator := NewCoordinator(repo, log)

	var wg sync.WaitGroup
	var successes, conflicts int64
	start := make(chan struct{})
	for i := 1; i <= concurrentCount; i++ {
		wg.Add(1)
		bidID := fmt.Sprintf("B%d", i)
		go func() {
			defer wg.Done()
			<-start
			_, err := coordinator.Hire(ctx, bidID, "owner")
			switch {
			case err == nil:
				atomic.AddInt64(&successes, 1)
			case marketerrors.KindOf(err) == marketerrors.KindConflict:
				atomic.AddInt64(&conflicts, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, int64(1), successes)
	require.Equal(t, int64(concurrentCount-1), conflicts)
	require.Len(t, log.all(), 1)

	gig, err := repo.GetGig(ctx, "G1")
	require.NoError(t, err)
	require.Equal(t, models.GigStatusAssigned, gig.Status)

	bids, err := repo.ListBidsByGig(ctx, "G1")
	require.NoError(t, err)
	hired := 0
	for _, b := range bids {
		switch b.Status {
		case models.BidStatusHired:
			hired++
		case models.BidStatusRejected:
		default:
			t.Fatalf("bid %s in unexpected status %s", b.ID, b.Status)
		}
	}
	require.Equal(t, 1, hired)
}

// bidDuringHire commits a new bid on G1 while the first conflicts hire
// transactions are still open
type bidDuringHire struct {
	*repository.MemoryRepo
	conflicts int
	placed    int
}

func (r *bidDuringHire) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	if r.placed >= r.conflicts {
		return r.MemoryRepo.WithinTx(ctx, fn)
	}
	return r.MemoryRepo.WithinTx(ctx, func(tx repository.Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		r.placed++
		late := models.Bid{
			ID: fmt.Sprintf("LATE%d", r.placed), GigID: "G1", FreelancerID: fmt.Sprintf("L%d", r.placed), ClientID: "owner",
			Amount: 900, Message: "me too", Status: models.BidStatusPending,
		}
		return r.MemoryRepo.WithinTx(ctx, func(other repository.Tx) error {
			return other.InsertBid(ctx, late)
		})
	})
}

func TestCoordinator_BidPlacedDuringHire(t *testing.T) {
	t.Parallel()

	t.Run("retry_hires", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		repo := &bidDuringHire{MemoryRepo: repository.NewMemoryRepo(), conflicts: 1}
		seedScenario(repo.MemoryRepo, 2)
		log := &eventLog{}
		coordinator := NewCoordinator(repo, log)

		out, err := coordinator.Hire(ctx, "B1", "owner")
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"B2", "LATE1"}, out.RejectedBidIDs)
		require.Len(t, log.all(), 1)

		late, err := repo.GetBid(ctx, "LATE1")
		require.NoError(t, err)
		require.Equal(t, models.BidStatusRejected, late.Status)
	})

	t.Run("gig_still_open_is_not_reported_assigned", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		repo := &bidDuringHire{MemoryRepo: repository.NewMemoryRepo(), conflicts: hireAttempts}
		seedScenario(repo.MemoryRepo, 2)
		log := &eventLog{}
		coordinator := NewCoordinator(repo, log)

		_, err := coordinator.Hire(ctx, "B1", "owner")
		require.ErrorIs(t, err, marketerrors.ErrWriteConflict)
		require.NotErrorIs(t, err, marketerrors.ErrGigAlreadyAssigned)
		require.Equal(t, marketerrors.KindConflict, marketerrors.KindOf(err))
		require.Empty(t, log.all())

		gig, err := repo.GetGig(ctx, "G1")
		require.NoError(t, err)
		require.Equal(t, models.GigStatusOpen, gig.Status)
		b1, err := repo.GetBid(ctx, "B1")
		require.NoError(t, err)
		require.Equal(t, models.BidStatusPending, b1.Status)
	})
}
