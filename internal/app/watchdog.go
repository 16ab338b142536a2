package app

import (
	"time"

	"github.com/bft-labs/arscan/internal/clock"
	"github.com/bft-labs/arscan/internal/domain"
	"github.com/bft-labs/arscan/internal/ports"
)

// DefaultQuitDelay is how long the user-visible message stays up before the
// application terminates.
const DefaultQuitDelay = 500 * time.Millisecond

// Messages shown before a shutdown.
const (
	MessagePermissionDenied = "Camera permission is needed to run this application."
	MessageFatalError       = "AR session encountered a problem connecting. Please start the app again."
)

// WatchdogState is the shutdown progress of a Watchdog.
type WatchdogState int

const (
	WatchdogRunning WatchdogState = iota
	WatchdogQuitting
	WatchdogTerminated
)

// String returns a human-readable representation of the state.
func (s WatchdogState) String() string {
	switch s {
	case WatchdogRunning:
		return "Running"
	case WatchdogQuitting:
		return "Quitting"
	case WatchdogTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Watchdog turns a fatal session status into exactly one user notification
// followed, after a delay, by exactly one termination request.
//
// The delay is checked by Observe, so termination happens on the first tick at
// or after the deadline. A Watchdog is not safe for concurrent use.
type Watchdog struct {
	notifier ports.Notifier
	clock    clock.Clock
	delay    time.Duration
	logger   ports.Logger

	state    WatchdogState
	deadline time.Time
}

// NewWatchdog creates a watchdog in the Running state.
// A non-positive delay falls back to DefaultQuitDelay.
func NewWatchdog(notifier ports.Notifier, clk clock.Clock, delay time.Duration, logger ports.Logger) *Watchdog {
	if delay <= 0 {
		delay = DefaultQuitDelay
	}
	return &Watchdog{
		notifier: notifier,
		clock:    clk,
		delay:    delay,
		logger:   logger,
		state:    WatchdogRunning,
	}
}

// Observe feeds the watchdog the session status for the current tick.
func (w *Watchdog) Observe(status domain.SessionState) {
	switch w.state {
	case WatchdogRunning:
		var msg string
		switch status {
		case domain.SessionPermissionDenied:
			msg = MessagePermissionDenied
		case domain.SessionFatalError:
			msg = MessageFatalError
		default:
			return
		}
		w.deadline = w.clock.Now().Add(w.delay)
		w.state = WatchdogQuitting
		w.logger.Warn("session failed, quitting",
			ports.Stringer("status", status),
			ports.Duration("delay", w.delay),
		)
		w.notifier.Notify(msg)

	case WatchdogQuitting:
		if w.clock.Now().Before(w.deadline) {
			return
		}
		w.state = WatchdogTerminated
		w.logger.Info("terminating application")
		w.notifier.Terminate()

	case WatchdogTerminated:
	}
}

// State returns the current watchdog state.
func (w *Watchdog) State() WatchdogState {
	return w.state
}

// Deadline returns the termination deadline. Zero while Running.
func (w *Watchdog) Deadline() time.Time {
	return w.deadline
}
