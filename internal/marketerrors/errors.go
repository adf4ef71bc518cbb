package marketerrors

import (
	"errors"
	"fmt"
)

// Umbrella errors, one per kind surfaced to callers
var (
	ErrNotFound     = errors.New("not found")
	ErrNotGigOwner  = errors.New("requester is not the gig owner")
	ErrForbidden    = errors.New("access denied")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// Repository-level errors
var (
	ErrBidNotFound          = fmt.Errorf("bid %w", ErrNotFound)
	ErrGigNotFound          = fmt.Errorf("gig %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
	ErrWriteConflict        = fmt.Errorf("concurrent write detected: %w", ErrConflict)
)

// business logic errors
var (
	ErrGigAlreadyAssigned = fmt.Errorf("gig already assigned: %w", ErrConflict)
	ErrGigNotOpen         = fmt.Errorf("gig is not open for bidding: %w", ErrConflict)
	ErrBidNotPending      = fmt.Errorf("bid is not pending: %w", ErrConflict)
	ErrInvalidTransition  = fmt.Errorf("invalid status transition: %w", ErrConflict)
	ErrInvalidGig         = fmt.Errorf("invalid gig: %w", ErrInvalidInput)
	ErrInvalidBid         = fmt.Errorf("invalid bid: %w", ErrInvalidInput)
	ErrOwnGig             = fmt.Errorf("cannot bid on own gig: %w", ErrForbidden)
)

// Kind is the coarse error category returned to API callers
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindConflict     Kind = "conflict"
	KindInvalid      Kind = "invalid"
	KindInternal     Kind = "internal"
)

// KindOf classifies err. Nil maps to the empty Kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrNotGigOwner):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidInput):
		return KindInvalid
	default:
		return KindInternal
	}
}
