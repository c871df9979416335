package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/mystery-engine/pkg/casefile"
	"github.com/jwebster45206/mystery-engine/pkg/session"
)

// Storage persists session state and serves authored case data. Sessions
// are mutable and live in Redis; cases are read-mostly JSON files under the
// data directory.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session operations. LoadSession returns (nil, nil) when the session
	// does not exist; callers decide whether that is an error.
	SaveSession(ctx context.Context, s *session.State) error
	LoadSession(ctx context.Context, id uuid.UUID) (*session.State, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// Case operations (read-mostly). ListCases maps case ID to title.
	ListCases(ctx context.Context) (map[string]string, error)
	GetCase(ctx context.Context, id string) (*casefile.Case, error)
	GetActiveCase(ctx context.Context) (*casefile.Case, error)
}
