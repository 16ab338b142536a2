package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bft-labs/arscan/internal/domain"
)

func TestStatsFileRepository_LoadMissing(t *testing.T) {
	repo := NewStatsFileRepository(t.TempDir())

	stats, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if stats != (domain.DispatchStats{}) {
		t.Errorf("Load() = %+v, want zero stats", stats)
	}
}

func TestStatsFileRepository_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "stats")
	repo := NewStatsFileRepository(dir)

	want := domain.DispatchStats{
		Ticks:            120,
		FramesAcquired:   110,
		FramesDispatched: 108,
		ConsumerErrors:   2,
		Reallocations:    1,
		UVRecomputes:     3,
		SessionSkips:     10,
	}
	if err := repo.Save(context.Background(), want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	if _, err := os.Stat(repo.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
	info, err := os.Stat(repo.Path())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %v, want 0600", perm)
	}
}

func TestStatsFileRepository_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	repo := NewStatsFileRepository(dir)
	if err := os.WriteFile(repo.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.Load(context.Background()); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}
