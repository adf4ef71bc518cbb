package marketplace

import (
	"context"
	"errors"
	"testing"

	"gig-marketplace/internal/marketerrors"
	model "gig-marketplace/internal/models"
	"gig-marketplace/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// Tests CreateGig
func TestGigService_CreateGig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockMarketplaceDB(ctrl)
	service := NewGigService(mockRepo)

	tests := []struct {
		name          string
		ownerID       string
		title         string
		budget        float64
		mockSetup     func()
		expectError   bool
		expectedError error
	}{
		{
			name:    "valid_gig",
			ownerID: "client1",
			title:   "  Logo design ",
			budget:  5000,
			mockSetup: func() {
				mockRepo.EXPECT().CreateGig(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, gig model.Gig) error {
					require.Equal(t, "Logo design", gig.Title)
					require.Equal(t, model.GigStatusOpen, gig.Status)
					return nil
				})
			},
		},
		{
			name:          "empty_owner",
			ownerID:       "",
			title:         "Logo",
			budget:        100,
			mockSetup:     func() {},
			expectError:   true,
			expectedError: marketerrors.ErrInvalidGig,
		},
		{
			name:          "blank_title",
			ownerID:       "client1",
			title:         "   ",
			budget:        100,
			mockSetup:     func() {},
			expectError:   true,
			expectedError: marketerrors.ErrInvalidGig,
		},
		{
			name:          "zero_budget",
			ownerID:       "client1",
			title:         "Logo",
			budget:        0,
			mockSetup:     func() {},
			expectError:   true,
			expectedError: marketerrors.ErrInvalidGig,
		},
		{
			name:    "repo_fails",
			ownerID: "client1",
			title:   "Logo",
			budget:  100,
			mockSetup: func() {
				mockRepo.EXPECT().CreateGig(gomock.Any(), gomock.Any()).Return(errors.New("repo write failed"))
			},
			expectError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			gig, err := service.CreateGig(context.Background(), tc.ownerID, tc.title, "desc", tc.budget)
			if tc.expectError {
				require.Error(t, err)
				if tc.expectedError != nil {
					require.ErrorIs(t, err, tc.expectedError)
				}
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, gig.ID)
			require.Equal(t, tc.ownerID, gig.OwnerID)
			require.Equal(t, tc.budget, gig.Budget)
		})
	}
}

func TestGigService_ListOpenGigs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	service := NewGigService(repo)

	_, err := service.CreateGig(ctx, "client1", "Logo design", "", 100)
	require.NoError(t, err)
	_, err = service.CreateGig(ctx, "client2", "Go API", "", 900)
	require.NoError(t, err)

	gigs, err := service.ListOpenGigs(ctx, "")
	require.NoError(t, err)
	require.Len(t, gigs, 2)

	gigs, err = service.ListOpenGigs(ctx, "logo")
	require.NoError(t, err)
	require.Len(t, gigs, 1)
	require.Equal(t, "Logo design", gigs[0].Title)
}
