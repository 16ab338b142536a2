package app

import (
	"testing"
	"time"

	"github.com/bft-labs/arscan/internal/clock"
	"github.com/bft-labs/arscan/internal/domain"
)

// mockNotifier records notifications and terminations.
type mockNotifier struct {
	messages   []string
	terminates int
}

func (n *mockNotifier) Notify(message string) { n.messages = append(n.messages, message) }
func (n *mockNotifier) Terminate()            { n.terminates++ }

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestWatchdogState_String(t *testing.T) {
	tests := []struct {
		state WatchdogState
		want  string
	}{
		{WatchdogRunning, "Running"},
		{WatchdogQuitting, "Quitting"},
		{WatchdogTerminated, "Terminated"},
		{WatchdogState(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("WatchdogState(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestWatchdog_IgnoresNonFatalStatus(t *testing.T) {
	n := &mockNotifier{}
	clk := clock.Fake(epoch)
	w := NewWatchdog(n, clk, DefaultQuitDelay, &mockLogger{})

	for _, s := range []domain.SessionState{domain.SessionValid, domain.SessionOther, domain.SessionValid} {
		w.Observe(s)
		clk.Advance(time.Second)
	}
	if w.State() != WatchdogRunning {
		t.Errorf("State() = %v, want Running", w.State())
	}
	if len(n.messages) != 0 || n.terminates != 0 {
		t.Errorf("notifier got %v / %d terminates, want nothing", n.messages, n.terminates)
	}
	if !w.Deadline().IsZero() {
		t.Errorf("Deadline() = %v, want zero", w.Deadline())
	}
}

func TestWatchdog_FatalStatusQuitsOnce(t *testing.T) {
	tests := []struct {
		name   string
		status domain.SessionState
		want   string
	}{
		{"permission denied", domain.SessionPermissionDenied, MessagePermissionDenied},
		{"fatal error", domain.SessionFatalError, MessageFatalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &mockNotifier{}
			clk := clock.Fake(epoch)
			w := NewWatchdog(n, clk, 500*time.Millisecond, &mockLogger{})

			// Ten consecutive fatal ticks, 16ms apart: 160ms total, under the delay.
			for i := 0; i < 10; i++ {
				w.Observe(tt.status)
				clk.Advance(16 * time.Millisecond)
			}

			if len(n.messages) != 1 || n.messages[0] != tt.want {
				t.Errorf("messages = %q, want [%q]", n.messages, tt.want)
			}
			if n.terminates != 0 {
				t.Errorf("terminates = %d before the delay, want 0", n.terminates)
			}
			if w.State() != WatchdogQuitting {
				t.Errorf("State() = %v, want Quitting", w.State())
			}
			if want := epoch.Add(500 * time.Millisecond); !w.Deadline().Equal(want) {
				t.Errorf("Deadline() = %v, want %v", w.Deadline(), want)
			}

			clk.Advance(340 * time.Millisecond)
			w.Observe(tt.status)
			if n.terminates != 1 {
				t.Fatalf("terminates = %d at deadline, want 1", n.terminates)
			}
			if w.State() != WatchdogTerminated {
				t.Errorf("State() = %v, want Terminated", w.State())
			}

			for i := 0; i < 5; i++ {
				clk.Advance(time.Second)
				w.Observe(domain.SessionFatalError)
			}
			if len(n.messages) != 1 || n.terminates != 1 {
				t.Errorf("after termination: %d messages, %d terminates, want 1 and 1", len(n.messages), n.terminates)
			}
		})
	}
}

func TestWatchdog_StatusIgnoredWhileQuitting(t *testing.T) {
	n := &mockNotifier{}
	clk := clock.Fake(epoch)
	w := NewWatchdog(n, clk, time.Second, &mockLogger{})

	w.Observe(domain.SessionPermissionDenied)
	clk.Advance(100 * time.Millisecond)
	// Recovery does not cancel the shutdown.
	w.Observe(domain.SessionValid)
	w.Observe(domain.SessionFatalError)

	if len(n.messages) != 1 || n.messages[0] != MessagePermissionDenied {
		t.Errorf("messages = %q, want only the permission message", n.messages)
	}
	clk.Advance(time.Second)
	w.Observe(domain.SessionValid)
	if n.terminates != 1 {
		t.Errorf("terminates = %d, want 1", n.terminates)
	}
}

func TestNewWatchdog_DefaultDelay(t *testing.T) {
	n := &mockNotifier{}
	clk := clock.Fake(epoch)
	w := NewWatchdog(n, clk, 0, &mockLogger{})

	w.Observe(domain.SessionFatalError)
	if want := epoch.Add(DefaultQuitDelay); !w.Deadline().Equal(want) {
		t.Errorf("Deadline() = %v, want %v", w.Deadline(), want)
	}
}
