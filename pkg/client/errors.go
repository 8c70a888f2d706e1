package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy surfaced to the view layer.
var (
	// ErrUnauthorized means the session is invalid; callers must force
	// re-authentication.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the action was denied but the session is still good.
	ErrForbidden = errors.New("permission denied")
	// ErrNotFound means the item vanished server-side; the list is stale.
	ErrNotFound = errors.New("not found")
	// ErrActionInFlight means another action already holds the single-flight
	// lock for this row or form.
	ErrActionInFlight = errors.New("another action is already in progress")
	// ErrOutOfStock is the client-side purchase guard; no request is made.
	ErrOutOfStock = errors.New("out of stock")
	// ErrInvalidQuantity is the client-side restock guard.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// APIError carries a backend rejection that is not covered by a sentinel.
// Status 0 means the backend was unreachable (transport failure).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s (check your connection and retry)", e.Message)
	}
	return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Message)
}
