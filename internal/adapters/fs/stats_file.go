package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/arscan/internal/domain"
)

const statsFileName = "stats.json"

// StatsFileRepository implements ports.StatsRepository using a JSON file.
type StatsFileRepository struct {
	dir string
}

// NewStatsFileRepository creates a new StatsFileRepository for the given directory.
func NewStatsFileRepository(dir string) *StatsFileRepository {
	return &StatsFileRepository{dir: dir}
}

// Load retrieves the last saved stats from disk.
// Returns zero stats and nil error if no stats file exists.
func (r *StatsFileRepository) Load(ctx context.Context) (domain.DispatchStats, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DispatchStats{}, nil
		}
		return domain.DispatchStats{}, err
	}

	var stats domain.DispatchStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return domain.DispatchStats{}, fmt.Errorf("parse %s: %w", r.Path(), err)
	}

	return stats, nil
}

// Save persists the stats atomically (temp file, then rename).
func (r *StatsFileRepository) Save(ctx context.Context, stats domain.DispatchStats) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// Path returns the full path to the stats file.
func (r *StatsFileRepository) Path() string {
	return filepath.Join(r.dir, statsFileName)
}
