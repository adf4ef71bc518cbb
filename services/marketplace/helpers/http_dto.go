package helpers

import (
	"time"

	model "gig-marketplace/internal/models"
)

// Request/Response DTOs
type CreateGigRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget" binding:"required,gt=0"`
}

type PlaceBidRequest struct {
	GigID   string  `json:"gig_id" binding:"required"`
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	Message string  `json:"message" binding:"required"`
}

type GigResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

type BidResponse struct {
	ID           string  `json:"id"`
	GigID        string  `json:"gig_id"`
	FreelancerID string  `json:"freelancer_id"`
	ClientID     string  `json:"client_id"`
	Amount       float64 `json:"amount"`
	Message      string  `json:"message"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

type HireResponse struct {
	Gig            GigResponse `json:"gig"`
	Bid            BidResponse `json:"bid"`
	RejectedBidIDs []string    `json:"rejected_bid_ids"`
}

type NotificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	GigID     string `json:"gig_id"`
	BidID     string `json:"bid_id,omitempty"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

func ToGigResponse(gig model.Gig) GigResponse {
	return GigResponse{
		ID:          gig.ID,
		OwnerID:     gig.OwnerID,
		Title:       gig.Title,
		Description: gig.Description,
		Budget:      gig.Budget,
		Status:      string(gig.Status),
		CreatedAt:   gig.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		ID:           bid.ID,
		GigID:        bid.GigID,
		FreelancerID: bid.FreelancerID,
		ClientID:     bid.ClientID,
		Amount:       bid.Amount,
		Message:      bid.Message,
		Status:       string(bid.Status),
		CreatedAt:    bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToNotificationResponse(n model.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Message:   n.Message,
		GigID:     n.GigID,
		BidID:     n.BidID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToGigResponses never returns nil so empty lists encode as []
func ToGigResponses(gigs []model.Gig) []GigResponse {
	resp := make([]GigResponse, 0, len(gigs))
	for _, gig := range gigs {
		resp = append(resp, ToGigResponse(gig))
	}
	return resp
}

func ToBidResponses(bids []model.Bid) []BidResponse {
	resp := make([]BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, ToBidResponse(bid))
	}
	return resp
}

func ToNotificationResponses(notifications []model.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, ToNotificationResponse(n))
	}
	return resp
}
