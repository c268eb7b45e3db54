package domain

import "context"

// Ledger is the balance store behind the donation lifecycle.
type Ledger interface {
	// GetBalance returns the stored balance for a handle, or ErrNotFound.
	GetBalance(ctx context.Context, handle string) (int64, error)
	// AddBalance credits delta to the handle's row in a single server-side
	// increment and reports how many rows matched. Zero rows means the
	// handle has no ledger row; the caller decides what that means.
	AddBalance(ctx context.Context, handle string, delta int64) (int64, error)
	// ClaimRequest marks a request identifier as consumed with the given
	// terminal status. It returns false when the identifier was already
	// claimed, without touching the existing claim.
	ClaimRequest(ctx context.Context, requestID, status string) (bool, error)
	// ReleaseClaim drops a claim so the request can be retried.
	ReleaseClaim(ctx context.Context, requestID string) error
}
