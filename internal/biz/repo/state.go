package repo

import (
	"context"

	"github.com/anthropics/tg-awaybot/internal/biz/domain"
)

// StateRepo is the durable state repository interface.
// Responsible for persisting the owner-mutable tables (SQLite).
type StateRepo interface {
	// Load reads the persisted state. A missing or corrupt store yields
	// empty defaults, never an error that would abort startup.
	Load(ctx context.Context) (*domain.State, error)

	// Save writes the full state record
	Save(ctx context.Context, state *domain.State) error

	// Close closes the underlying store
	Close() error
}
