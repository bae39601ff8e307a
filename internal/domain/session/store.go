package session

import (
	"context"
	"time"

	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// UpdateFunc mutates a private copy of a session. Returning an error
// discards every change made by the function.
type UpdateFunc func(s *State) error

// Store persists sessions with a sliding TTL.
type Store interface {
	// Create saves a new session.
	// Returns shared.ErrAlreadyExists if the ID is taken.
	Create(ctx context.Context, s *State) error

	// Get returns a copy of the session.
	// Returns shared.ErrSessionNotFound if it does not exist or has expired.
	Get(ctx context.Context, id shared.SessionID) (*State, error)

	// Update loads the session, runs fn on a private copy and commits the
	// copy only when fn returns nil. Updates of one session never interleave.
	// The committed state is returned, with the pass output of fn intact.
	Update(ctx context.Context, id shared.SessionID, fn UpdateFunc) (*State, error)

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id shared.SessionID) error

	// Count returns the number of live sessions.
	Count(ctx context.Context) (int, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}

// Sweeper is implemented by stores that must drop expired sessions
// themselves.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}
