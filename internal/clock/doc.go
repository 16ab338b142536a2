// Package clock provides an injectable time source for the tick loop and the
// session watchdog.
//
// Production code uses Real(). Tests use Fake(), whose time stands still until
// Advance is called, so the watchdog's quit delay and the runner's ticker can
// be driven deterministically:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	w := app.NewWatchdog(notifier, c, 500*time.Millisecond, logger)
//	w.Observe(domain.SessionFatalError)
//	c.Advance(500 * time.Millisecond)
//	w.Observe(domain.SessionFatalError) // terminates
package clock
