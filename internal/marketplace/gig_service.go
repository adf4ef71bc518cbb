// Package marketplace holds the gig and bid use cases that surround a
// hire: posting gigs, placing bids and explicit accept or reject.
package marketplace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gig-marketplace/internal/events"
	"gig-marketplace/internal/marketerrors"
	"gig-marketplace/internal/models"
	"gig-marketplace/internal/repository"
	"gig-marketplace/utils"
)

//go:generate mockgen -source=gig_service.go -destination=mock_marketplace.go -package=marketplace

// Publisher receives events once their transaction has committed
type Publisher interface {
	Publish(ev events.Event)
}

// GigService posts and lists gigs
type GigService struct {
	db  repository.MarketplaceDB
	now func() time.Time
}

// NewGigService creates a new GigService instance
func NewGigService(db repository.MarketplaceDB) *GigService {
	return &GigService{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CreateGig validates and stores an open gig owned by ownerID
func (s *GigService) CreateGig(ctx context.Context, ownerID, title, description string, budget float64) (models.Gig, error) {
	title = strings.TrimSpace(title)
	if ownerID == "" || title == "" {
		return models.Gig{}, fmt.Errorf("service: %w - missing owner or title", marketerrors.ErrInvalidGig)
	}
	if budget <= 0 {
		return models.Gig{}, fmt.Errorf("service: %w - non-positive budget", marketerrors.ErrInvalidGig)
	}

	now := s.now()
	gig := models.Gig{
		ID:          utils.GenerateID(),
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Budget:      budget,
		Status:      models.GigStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.CreateGig(ctx, gig); err != nil {
		return models.Gig{}, fmt.Errorf("service: failed to create gig for owner %s: %w", ownerID, err)
	}
	return gig, nil
}

// ListOpenGigs returns open gigs matching search, newest first
func (s *GigService) ListOpenGigs(ctx context.Context, search string) ([]models.Gig, error) {
	gigs, err := s.db.ListOpenGigs(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list open gigs: %w", err)
	}
	return gigs, nil
}
