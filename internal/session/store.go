package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by token lookups when the slot has never been
// written or has been cleared. Callers treat it as "dispatch unauthenticated",
// not as a failure.
var ErrNotFound = errors.New("not found")

// Store is the single authoritative holder of the credential set. Only the
// auth state machine and the pipeline's renewal step mutate it; everything
// else reads. Keeping one writer path is what prevents the persisted state
// and the in-memory view from diverging.
//
// Error Contract:
// All store methods follow this error pattern:
// - Lookups return ErrNotFound when the slot is absent
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
// - A corrupt or partially written backing record reads as absent, never as
//   an error: the store clears it and the caller proceeds anonymous
type Store interface {
	// Save stores every field present in creds and leaves absent fields
	// untouched. Token well-formedness is not validated here.
	Save(ctx context.Context, creds Credentials) error
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	IdentityToken(ctx context.Context) (string, error)
	// Clear removes all three slots. Idempotent.
	Clear(ctx context.Context) error
	// Bootstrap is called once at process start and returns the persisted
	// access token, used to decide whether to attempt a session restore.
	Bootstrap(ctx context.Context) (string, error)
}
