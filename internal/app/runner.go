package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/arscan/internal/clock"
	"github.com/bft-labs/arscan/internal/domain"
	"github.com/bft-labs/arscan/internal/ports"
)

// DefaultTickRate is the tick frequency in frames per second.
const DefaultTickRate = 30.0

// RunnerConfig contains configuration for the tick loop.
type RunnerConfig struct {
	// TickRate is the number of ticks per second.
	TickRate float64

	// QuitDelay is how long the watchdog waits between notifying and terminating.
	QuitDelay time.Duration
}

// Interval returns the tick period.
func (c RunnerConfig) Interval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return time.Duration(float64(time.Second) / rate)
}

// exhaustible is implemented by frame sources with a finite number of frames.
type exhaustible interface {
	Exhausted() bool
}

// Runner drives the per-tick pipeline from a single goroutine.
//
// Each tick the watchdog observes the session status first. Frames are only
// dispatched while the watchdog is running and the session is valid.
type Runner struct {
	config     RunnerConfig
	source     ports.FrameSource
	status     ports.StatusSource
	statsRepo  ports.StatsRepository
	clock      clock.Clock
	logger     ports.Logger
	lifecycle  *Lifecycle
	dispatcher *Dispatcher
	watchdog   *Watchdog

	// mu serializes ticks with subscription changes and stats reads.
	mu     sync.Mutex
	base   domain.DispatchStats
	loaded bool
	skips  uint64
}

// NewRunner wires a dispatcher and a watchdog around the given collaborators.
// statsRepo may be nil.
func NewRunner(
	config RunnerConfig,
	source ports.FrameSource,
	status ports.StatusSource,
	display ports.Display,
	notifier ports.Notifier,
	statsRepo ports.StatsRepository,
	clk clock.Clock,
	logger ports.Logger,
	emitter EventEmitter,
) *Runner {
	return &Runner{
		config:     config,
		source:     source,
		status:     status,
		statsRepo:  statsRepo,
		clock:      clk,
		logger:     logger,
		lifecycle:  NewLifecycle(logger, emitter),
		dispatcher: NewDispatcher(source, display, logger),
		watchdog:   NewWatchdog(notifier, clk, config.QuitDelay, logger),
	}
}

// Start launches the tick loop in the background.
// The provided context bounds the lifetime of the loop.
func (r *Runner) Start(ctx context.Context) error {
	if !r.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := r.lifecycle.TransitionTo(StateStarting, "Start() called"); err != nil {
		return err
	}

	r.loadStats(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	r.lifecycle.SetCancel(cancel)

	interval := r.config.Interval()
	ticker := r.clock.NewTicker(interval)

	if err := r.lifecycle.TransitionTo(StateRunning, "tick loop starting"); err != nil {
		ticker.Stop()
		cancel()
		return err
	}
	r.logger.Info("tick loop started", ports.Duration("interval", interval))

	r.lifecycle.AddWorker()
	go func() {
		defer r.lifecycle.WorkerDone()
		defer ticker.Stop()

		reason := r.loop(runCtx, ticker)
		r.saveStats()

		// Stop() may already own the shutdown; only finish a self-initiated one.
		if err := r.lifecycle.TransitionTo(StateStopping, reason); err != nil {
			return
		}
		cancel()
		_ = r.lifecycle.TransitionTo(StateStopped, reason)
	}()

	return nil
}

func (r *Runner) loop(ctx context.Context, ticker *clock.Ticker) string {
	for {
		select {
		case <-ctx.Done():
			return "context canceled"
		case <-ticker.C:
		}

		if err := r.Step(ctx); err != nil {
			r.logger.Warn("tick failed", ports.Err(err))
		}

		if r.WatchdogState() == WatchdogTerminated {
			return "session terminated"
		}
		if src, ok := r.source.(exhaustible); ok && src.Exhausted() {
			return "frame source exhausted"
		}
	}
}

// Step runs a single tick synchronously.
func (r *Runner) Step(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := r.status.Status()
	r.watchdog.Observe(status)
	if r.watchdog.State() != WatchdogRunning || !status.IsValid() {
		r.skips++
		return nil
	}
	return r.dispatcher.Tick(ctx)
}

// Stop cancels the tick loop and waits for it to exit.
// Returns ErrNotRunning if the loop is not running and ErrShutdownTimeout if
// the loop does not exit in time.
func (r *Runner) Stop() error {
	if !r.lifecycle.CanStop() {
		return domain.ErrNotRunning
	}
	if err := r.lifecycle.TransitionTo(StateStopping, "Stop() called"); err != nil {
		return err
	}
	r.lifecycle.Cancel()

	err := r.lifecycle.WaitWithTimeout(ShutdownTimeout)
	if err != nil {
		_ = r.lifecycle.TransitionTo(StateCrashed, "shutdown timeout")
		return err
	}
	_ = r.lifecycle.TransitionTo(StateStopped, "graceful shutdown")
	return nil
}

// Status returns the current lifecycle state.
func (r *Runner) Status() State {
	return r.lifecycle.State()
}

// Done returns a channel closed when the loop has fully stopped.
func (r *Runner) Done() <-chan struct{} {
	return r.lifecycle.Done()
}

// Subscribe adds a consumer to the dispatcher.
func (r *Runner) Subscribe(name string, c ports.FrameConsumer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dispatcher.Subscribe(name, c)
}

// Unsubscribe removes a consumer from the dispatcher.
func (r *Runner) Unsubscribe(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dispatcher.Unsubscribe(name)
}

// Consumers returns the subscribed consumer names in invocation order.
func (r *Runner) Consumers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dispatcher.Consumers()
}

// DisplayUVs returns the last display transform used for dispatch.
func (r *Runner) DisplayUVs() domain.DisplayUvTransform {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dispatcher.DisplayUVs()
}

// WatchdogState returns the watchdog's shutdown progress.
func (r *Runner) WatchdogState() WatchdogState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.watchdog.State()
}

// Stats returns the counters of this run added to those loaded at start.
func (r *Runner) Stats() domain.DispatchStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statsLocked()
}

func (r *Runner) statsLocked() domain.DispatchStats {
	s := r.dispatcher.Stats()
	s.SessionSkips = r.skips
	return r.base.Add(s)
}

// loadStats seeds the counters from the repository on the first start only.
// Later starts keep counting from the in-memory totals.
func (r *Runner) loadStats(ctx context.Context) {
	if r.statsRepo == nil || r.loaded {
		return
	}
	r.loaded = true
	base, err := r.statsRepo.Load(ctx)
	if err != nil {
		r.logger.Error("failed to load stats", ports.Err(err))
		// Continue from zero
		return
	}
	r.mu.Lock()
	r.base = base
	r.mu.Unlock()
}

func (r *Runner) saveStats() {
	if r.statsRepo == nil {
		return
	}
	stats := r.Stats()
	if err := r.statsRepo.Save(context.Background(), stats); err != nil {
		r.logger.Error("failed to save stats", ports.Err(err))
		return
	}
	r.logger.Info("stats saved",
		ports.Uint64("ticks", stats.Ticks),
		ports.Uint64("frames_dispatched", stats.FramesDispatched),
		ports.Uint64("consumer_errors", stats.ConsumerErrors),
	)
}
