package arscan

import (
	"context"
	"fmt"

	"github.com/bft-labs/arscan/internal/adapters/display"
	logAdapter "github.com/bft-labs/arscan/internal/adapters/log"
	"github.com/bft-labs/arscan/internal/adapters/status"
	"github.com/bft-labs/arscan/internal/app"
	"github.com/bft-labs/arscan/internal/clock"
	"github.com/bft-labs/arscan/internal/domain"
	"github.com/bft-labs/arscan/internal/ports"
)

// Default display used when none is configured.
const (
	DefaultScreenWidth  = 1080
	DefaultScreenHeight = 1920
)

// Scanner runs the frame pipeline and can be embedded in other applications.
// Use New() to create an instance, then Start() to begin dispatching.
type Scanner struct {
	runner *app.Runner
	logger ports.Logger
}

// New creates a Scanner from the given options.
// The instance is created in StateStopped; call Start() to begin.
// Returns ErrInvalidConfig if no frame source is given.
func New(opts ...Option) (*Scanner, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.source == nil {
		return nil, fmt.Errorf("%w: frame source is required", ErrInvalidConfig)
	}
	if o.tickRate < 0 {
		return nil, fmt.Errorf("%w: tick rate must not be negative", ErrInvalidConfig)
	}

	logger := o.logger
	if logger == nil {
		logger = logAdapter.NewNoopLogger()
	}
	if o.status == nil {
		o.status = status.NewStatic(domain.SessionValid)
	}
	if o.display == nil {
		o.display = display.NewStatic(domain.OrientationPortrait, DefaultScreenWidth, DefaultScreenHeight)
	}
	if o.notifier == nil {
		o.notifier = logNotifier{logger: logger}
	}
	if o.clock == nil {
		o.clock = clock.Real()
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}

	runner := app.NewRunner(
		app.RunnerConfig{TickRate: o.tickRate, QuitDelay: o.quitDelay},
		o.source,
		o.status,
		o.display,
		o.notifier,
		o.statsRepo,
		o.clock,
		logger,
		emitter,
	)

	for _, c := range o.consumers {
		if err := runner.Subscribe(c.name, c.consumer); err != nil {
			return nil, err
		}
	}

	return &Scanner{runner: runner, logger: logger}, nil
}

// Start begins dispatching frames in the background.
// Returns ErrAlreadyRunning if the loop is already running.
// The provided context bounds the lifetime of the loop.
func (s *Scanner) Start(ctx context.Context) error {
	return s.runner.Start(ctx)
}

// Stop cancels the loop and waits for it to exit.
// Returns nil on graceful shutdown, ErrNotRunning if not running and
// ErrShutdownTimeout if the loop did not exit in time.
func (s *Scanner) Stop() error {
	return s.runner.Stop()
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (s *Scanner) Status() State {
	return convertState(s.runner.Status())
}

// Done returns a channel that is closed when the loop has stopped, whether
// through Stop, context cancellation, the end of the frame source or a fatal
// session status.
func (s *Scanner) Done() <-chan struct{} {
	return s.runner.Done()
}

// Subscribe adds a consumer at the end of the dispatch order.
// Returns ErrConsumerExists if the name is taken.
func (s *Scanner) Subscribe(name string, c FrameConsumer) error {
	return s.runner.Subscribe(name, c)
}

// Unsubscribe removes a consumer.
// Returns ErrConsumerNotFound if no consumer has that name.
func (s *Scanner) Unsubscribe(name string) error {
	return s.runner.Unsubscribe(name)
}

// Consumers returns the subscribed consumer names in dispatch order.
func (s *Scanner) Consumers() []string {
	return s.runner.Consumers()
}

// Stats returns the pipeline counters, including those loaded at start.
func (s *Scanner) Stats() DispatchStats {
	return s.runner.Stats()
}

// DisplayUVs returns the display transform used for the last dispatched frame.
func (s *Scanner) DisplayUVs() DisplayUvTransform {
	return s.runner.DisplayUVs()
}

// Step runs a single tick synchronously. Useful for tests and for hosts that
// drive their own frame loop instead of calling Start.
func (s *Scanner) Step(ctx context.Context) error {
	return s.runner.Step(ctx)
}

// logNotifier shows watchdog messages in the log. Termination is handled by
// the runner, which stops the loop once the watchdog has terminated.
type logNotifier struct {
	logger ports.Logger
}

func (n logNotifier) Notify(message string) {
	n.logger.Warn(message)
}

func (n logNotifier) Terminate() {
	n.logger.Info("session terminated")
}
