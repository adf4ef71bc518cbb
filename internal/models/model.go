package models

import "time"

// GigStatus is the lifecycle state of a gig
type GigStatus string

const (
	GigStatusOpen     GigStatus = "open"
	GigStatusAssigned GigStatus = "assigned"
)

// BidStatus is the lifecycle state of a bid
type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusHired    BidStatus = "hired"
	BidStatusAccepted BidStatus = "accepted"
	BidStatusRejected BidStatus = "rejected"
)

// NotificationType identifies the event a notification was created for
type NotificationType string

const (
	NotificationNewBid      NotificationType = "new_bid"
	NotificationHired       NotificationType = "hired"
	NotificationBidAccepted NotificationType = "bid_accepted"
	NotificationBidRejected NotificationType = "bid_rejected"
)

// Gig represents a unit of work posted by a client
type Gig struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      float64   `json:"budget"`
	Status      GigStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Bid represents a freelancer's proposal against a gig
type Bid struct {
	ID           string    `json:"id"`
	GigID        string    `json:"gig_id"`
	FreelancerID string    `json:"freelancer_id"`
	ClientID     string    `json:"client_id"`
	Amount       float64   `json:"amount"`
	Message      string    `json:"message"`
	Status       BidStatus `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Notification is the durable record of an event addressed to one user.
// Only IsRead ever changes after creation.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	GigID     string           `json:"gig_id"`
	BidID     string           `json:"bid_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
