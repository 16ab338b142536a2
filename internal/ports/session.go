package ports

import "github.com/bft-labs/arscan/internal/domain"

// StatusSource reports the AR session status. Polled once per tick; must not block.
type StatusSource interface {
	Status() domain.SessionState
}

// Notifier is the platform capability the watchdog uses to shut down.
// Notify shows a user-visible message (a toast on device, a log line here).
// Terminate ends the application.
type Notifier interface {
	Notify(message string)
	Terminate()
}
