package ports

import (
	"context"
	"time"

	"github.com/peoplehub/hrflow/pkg/domain"
)

// SessionStore persists one SessionState per conversation identity.
// Implementations must be safe for concurrent use; linearizability per
// conversation is provided by the session Manager on top.
type SessionStore interface {
	// Save persists the state for a conversation ID.
	Save(ctx context.Context, conversationID string, state *domain.SessionState) error

	// Load retrieves the state for a conversation ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, conversationID string) (*domain.SessionState, error)

	// Delete removes the state for a conversation ID.
	Delete(ctx context.Context, conversationID string) error

	// List returns the IDs of active conversations.
	List(ctx context.Context) ([]string, error)

	// EvictIdle removes sessions whose last activity is older than
	// maxAge and returns the evicted IDs.
	EvictIdle(ctx context.Context, maxAge time.Duration) ([]string, error)
}
