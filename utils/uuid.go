package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new random identifier. Gigs, bids, notifications and
// websocket connections all use it.
func GenerateID() string {
	return uuid.NewString()
}
