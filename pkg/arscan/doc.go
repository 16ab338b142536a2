// Package arscan provides an embeddable camera frame pipeline for AR sessions.
//
// Each tick the pipeline acquires the current grayscale camera image, packs it
// into a tightly laid out buffer, computes the display UV transform and hands
// the result to every subscribed consumer. A watchdog follows the AR session
// status and shuts the application down after a fatal error.
//
// # Basic Usage
//
//	src, err := replay.Open("/path/to/session.arsr", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := arscan.New(
//	    arscan.WithFrameSource(src),
//	    arscan.WithConsumer("printer", arscan.ConsumerFunc(func(f arscan.PackedFrame) error {
//	        fmt.Println(f.Seq, f.Width, f.Height)
//	        return nil
//	    })),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := s.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	<-s.Done()
//
// # Consumers
//
// A [FrameConsumer] receives the packed frame once per dispatched tick. The
// pixel slice is reused on the next tick and must not be retained. Consumers
// run in subscription order; an error or panic in one consumer does not
// prevent the others from running. Failures are reported as [ConsumerError]
// values joined into the tick error.
//
// # Session Status
//
// Frames are dispatched only while the [StatusSource] reports [SessionValid].
// On [SessionPermissionDenied] or [SessionFatalError] the watchdog shows a
// message through the [Notifier] and terminates the session after the quit
// delay (500ms by default).
//
// # Lifecycle States
//
// A Scanner is in one of five states: [StateStopped], [StateStarting],
// [StateRunning], [StateStopping], or [StateCrashed]. Use [Scanner.Status]
// to query the current state and [Scanner.Done] to wait for the loop to end.
package arscan
