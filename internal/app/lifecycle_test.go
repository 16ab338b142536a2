package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/arscan/internal/domain"
	"github.com/bft-labs/arscan/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}
func (m mockLogger) With(fields ...ports.Field) ports.Logger {
	return m
}

// mockEmitter tracks state change events for testing.
type mockEmitter struct {
	mu     sync.Mutex
	events []stateChangeEvent
}

type stateChangeEvent struct {
	previous State
	current  State
	reason   string
}

func (m *mockEmitter) OnStateChange(previous, current State, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, stateChangeEvent{previous, current, reason})
}

func (m *mockEmitter) Events() []stateChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stateChangeEvent{}, m.events...)
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestState_Terminal(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateStopped, true},
		{StateStarting, false},
		{StateRunning, false},
		{StateStopping, false},
		{StateCrashed, true},
	}
	for _, tt := range tests {
		if got := tt.state.Terminal(); got != tt.want {
			t.Errorf("%v.Terminal() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

// The runner walks these paths: a normal run, a start aborted before the loop
// runs, a self-initiated stop racing Stop(), and a restart after a crash.
func TestLifecycle_RunnerPaths(t *testing.T) {
	tests := []struct {
		name string
		path []State
	}{
		{"run and stop", []State{StateStarting, StateRunning, StateStopping, StateStopped}},
		{"stop while starting", []State{StateStarting, StateStopping, StateStopped}},
		{"crash while starting", []State{StateStarting, StateCrashed}},
		{"shutdown timeout", []State{StateStarting, StateRunning, StateStopping, StateCrashed}},
		{"restart after crash", []State{StateStarting, StateRunning, StateCrashed, StateStarting, StateRunning}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emitter := &mockEmitter{}
			l := NewLifecycle(mockLogger{}, emitter)
			for _, s := range tt.path {
				if err := l.TransitionTo(s, tt.name); err != nil {
					t.Fatalf("TransitionTo(%v) from %v error = %v", s, l.State(), err)
				}
			}
			if got := len(emitter.Events()); got != len(tt.path) {
				t.Errorf("emitted %d events, want %d", got, len(tt.path))
			}
		})
	}
}

func TestLifecycle_DoubleStopRejected(t *testing.T) {
	l := NewLifecycle(mockLogger{}, nil)
	_ = l.TransitionTo(StateStarting, "start")
	_ = l.TransitionTo(StateRunning, "loop")
	if err := l.TransitionTo(StateStopping, "Stop() called"); err != nil {
		t.Fatalf("first Stopping error = %v", err)
	}

	// The loop goroutine backs off when Stop() already owns the shutdown.
	err := l.TransitionTo(StateStopping, "frame source exhausted")
	if !errors.Is(err, domain.ErrAlreadyRunning) {
		t.Errorf("second Stopping error = %v, want ErrAlreadyRunning", err)
	}
	if l.State() != StateStopping {
		t.Errorf("state = %v, want Stopping", l.State())
	}
}

func TestLifecycle_DoneRearmsOnRestart(t *testing.T) {
	l := NewLifecycle(mockLogger{}, nil)
	if !isClosed(l.Done()) {
		t.Fatal("Done() should be closed while stopped")
	}

	_ = l.TransitionTo(StateStarting, "start")
	first := l.Done()
	_ = l.TransitionTo(StateRunning, "loop")
	if isClosed(first) {
		t.Fatal("Done() closed while running")
	}

	_ = l.TransitionTo(StateCrashed, "source failed")
	if !isClosed(first) {
		t.Fatal("Done() not closed after crash")
	}

	_ = l.TransitionTo(StateStarting, "restart")
	second := l.Done()
	if second == first {
		t.Fatal("restart reused the closed Done() channel")
	}
	if isClosed(second) {
		t.Fatal("Done() closed after restart")
	}

	_ = l.TransitionTo(StateStopping, "Stop() called")
	_ = l.TransitionTo(StateStopped, "graceful shutdown")
	if !isClosed(second) {
		t.Error("Done() not closed after stop")
	}
}

func TestLifecycle_TerminalTransitionWithoutStart(t *testing.T) {
	l := NewLifecycle(mockLogger{}, nil)
	l.state = StateStopping

	// Done is already closed; a second close must not panic.
	if err := l.TransitionTo(StateStopped, "test"); err != nil {
		t.Fatalf("TransitionTo() error = %v", err)
	}
}

func TestLifecycle_CanStopWhileStarting(t *testing.T) {
	l := NewLifecycle(mockLogger{}, nil)
	if l.CanStop() {
		t.Error("CanStop() = true while stopped")
	}
	_ = l.TransitionTo(StateStarting, "start")
	if !l.CanStop() {
		t.Error("CanStop() = false while starting")
	}
	if l.CanStart() {
		t.Error("CanStart() = true while starting")
	}
}

func TestLifecycle_WaitWithTimeout(t *testing.T) {
	l := NewLifecycle(mockLogger{}, nil)

	l.AddWorker()
	if err := l.WaitWithTimeout(10 * time.Millisecond); !errors.Is(err, domain.ErrShutdownTimeout) {
		t.Errorf("WaitWithTimeout() with busy worker = %v, want ErrShutdownTimeout", err)
	}

	l.WorkerDone()
	if err := l.WaitWithTimeout(time.Second); err != nil {
		t.Errorf("WaitWithTimeout() after WorkerDone = %v", err)
	}
}

func TestLifecycle_CancelWithoutSetCancel(t *testing.T) {
	l := NewLifecycle(mockLogger{}, nil)
	l.Cancel()

	called := false
	l.SetCancel(func() { called = true })
	l.Cancel()
	if !called {
		t.Error("Cancel() did not call the stored cancel func")
	}
}
