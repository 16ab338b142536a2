package ports

import (
	"context"

	"github.com/bft-labs/arscan/internal/domain"
)

// FrameSource provides the current camera frame once per tick.
//
// Acquire returns ok=false when no frame is available this tick (session
// warming up, previous frame still held, end of a recording). That is a normal
// condition, not an error.
type FrameSource interface {
	Acquire(ctx context.Context) (frame AcquiredFrame, ok bool)
}

// AcquiredFrame is a scoped handle on a native camera image.
// Frame().Data is valid only until Release is called. Release must be called
// exactly once on every exit path.
type AcquiredFrame interface {
	Frame() domain.RawFrame
	Release()
}
