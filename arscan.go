// Package arscan runs a camera frame pipeline over a recorded AR session.
//
// Example usage:
//
//	cfg := arscan.DefaultConfig()
//	cfg.Recording = "/path/to/session.arsr"
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := arscan.Run(context.Background(), cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// To embed the pipeline with your own frame source and consumers, use
// github.com/bft-labs/arscan/pkg/arscan instead.
package arscan

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bft-labs/arscan/internal/cliconfig"
	"github.com/bft-labs/arscan/internal/pipeline"
)

// Config holds the configuration for a scanning run.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// Run replays the configured recording through the pipeline.
// It blocks until the recording ends (unless looping), the session status
// turns fatal or the context is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return pipeline.Run(ctx, cfg, cliconfig.Logger())
}

// DefaultConfig returns a Config with sensible default values.
// At minimum, you must set Recording before calling Run.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Logger returns the package-level zerolog logger used by Run.
func Logger() zerolog.Logger {
	return cliconfig.Logger()
}
