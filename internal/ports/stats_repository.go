package ports

import (
	"context"

	"github.com/bft-labs/arscan/internal/domain"
)

// StatsRepository persists pipeline counters across runs.
type StatsRepository interface {
	// Load retrieves the last saved stats.
	// Returns zero stats and nil error if nothing was saved yet.
	Load(ctx context.Context) (domain.DispatchStats, error)

	// Save persists stats atomically.
	Save(ctx context.Context, stats domain.DispatchStats) error
}
