package arscan

import (
	"github.com/bft-labs/arscan/internal/clock"
	"github.com/bft-labs/arscan/internal/domain"
	"github.com/bft-labs/arscan/internal/ports"
	"github.com/bft-labs/arscan/pkg/log"
)

// Re-export types so embedders never import internal packages.
type (
	// FrameSource hands out one scoped camera frame per tick.
	FrameSource = ports.FrameSource

	// AcquiredFrame is a frame handle that must be released exactly once.
	AcquiredFrame = ports.AcquiredFrame

	// StatusSource reports the AR session status.
	StatusSource = ports.StatusSource

	// Display reports orientation, screen size and image-to-display UVs.
	Display = ports.Display

	// Notifier shows a user-visible message and terminates the application.
	Notifier = ports.Notifier

	// FrameConsumer receives the packed frame each tick.
	FrameConsumer = ports.FrameConsumer

	// ConsumerFunc adapts a function to FrameConsumer.
	ConsumerFunc = ports.ConsumerFunc

	// StatsRepository persists pipeline counters across runs.
	StatsRepository = ports.StatsRepository

	// Clock abstracts time for the tick loop and the watchdog.
	Clock = clock.Clock

	// Logger is the structured logger interface from pkg/log.
	Logger = log.Logger

	RawFrame           = domain.RawFrame
	PackedFrame        = domain.PackedFrame
	DisplayUvTransform = domain.DisplayUvTransform
	Vec2               = domain.Vec2
	Orientation        = domain.Orientation
	SessionState       = domain.SessionState
	DispatchStats      = domain.DispatchStats
	ConsumerError      = domain.ConsumerError
)

// Session states.
const (
	SessionValid            = domain.SessionValid
	SessionPermissionDenied = domain.SessionPermissionDenied
	SessionFatalError       = domain.SessionFatalError
	SessionOther            = domain.SessionOther
)

// Display orientations.
const (
	OrientationUnknown            = domain.OrientationUnknown
	OrientationPortrait           = domain.OrientationPortrait
	OrientationPortraitUpsideDown = domain.OrientationPortraitUpsideDown
	OrientationLandscapeLeft      = domain.OrientationLandscapeLeft
	OrientationLandscapeRight     = domain.OrientationLandscapeRight
)

// Errors returned by the public API. Check with errors.Is.
var (
	ErrBufferTooSmall    = domain.ErrBufferTooSmall
	ErrSourceUnavailable = domain.ErrSourceUnavailable
	ErrInvalidFrame      = domain.ErrInvalidFrame
	ErrConsumerExists    = domain.ErrConsumerExists
	ErrConsumerNotFound  = domain.ErrConsumerNotFound
	ErrAlreadyRunning    = domain.ErrAlreadyRunning
	ErrNotRunning        = domain.ErrNotRunning
	ErrShutdownTimeout   = domain.ErrShutdownTimeout
	ErrInvalidConfig     = domain.ErrInvalidConfig
)

// IdentityUVs maps the full image onto the display without rotation.
var IdentityUVs = domain.IdentityUVs
