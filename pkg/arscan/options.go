package arscan

import (
	"time"

	"github.com/bft-labs/arscan/internal/ports"
)

// Option configures optional behavior of a Scanner.
type Option func(*options)

type namedConsumer struct {
	name     string
	consumer FrameConsumer
}

// options holds the optional configuration for a Scanner instance.
type options struct {
	logger       ports.Logger
	source       FrameSource
	status       StatusSource
	display      Display
	notifier     Notifier
	statsRepo    StatsRepository
	clock        Clock
	tickRate     float64
	quitDelay    time.Duration
	consumers    []namedConsumer
	eventHandler EventHandler
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFrameSource sets the camera frame source. Required.
func WithFrameSource(src FrameSource) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithStatusSource sets the AR session status source.
// If not provided, the session is always valid.
func WithStatusSource(src StatusSource) Option {
	return func(o *options) {
		o.status = src
	}
}

// WithDisplay sets the host display.
// If not provided, a 1080x1920 portrait display is used.
func WithDisplay(d Display) Option {
	return func(o *options) {
		o.display = d
	}
}

// WithNotifier sets the platform notifier the watchdog uses on fatal status.
// If not provided, messages are logged and the loop stops on termination.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithConsumer subscribes a consumer before the first tick.
// Consumers run in the order they are given.
func WithConsumer(name string, c FrameConsumer) Option {
	return func(o *options) {
		o.consumers = append(o.consumers, namedConsumer{name: name, consumer: c})
	}
}

// WithClock sets the clock driving the tick loop and the watchdog.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithTickRate sets the number of ticks per second (default 30).
func WithTickRate(fps float64) Option {
	return func(o *options) {
		o.tickRate = fps
	}
}

// WithQuitDelay sets how long the watchdog waits between showing the fatal
// message and terminating (default 500ms).
func WithQuitDelay(d time.Duration) Option {
	return func(o *options) {
		o.quitDelay = d
	}
}

// WithStatsRepository persists pipeline counters across runs.
// Stats are loaded on the first Start and saved whenever the loop exits.
func WithStatsRepository(repo StatsRepository) Option {
	return func(o *options) {
		o.statsRepo = repo
	}
}

// WithEventHandler sets a handler for lifecycle events.
// Events are called synchronously from the goroutine causing the transition.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}
