package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the arscan domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrBufferTooSmall is returned when the packed buffer cannot hold the frame.
	ErrBufferTooSmall = errors.New("arscan: buffer too small")

	// ErrSourceUnavailable is returned when no frame could be acquired.
	ErrSourceUnavailable = errors.New("arscan: frame source unavailable")

	// ErrInvalidFrame is returned when frame geometry does not match its data.
	ErrInvalidFrame = errors.New("arscan: invalid frame")

	// ErrConsumerExists is returned when subscribing a name twice.
	ErrConsumerExists = errors.New("arscan: consumer already subscribed")

	// ErrConsumerNotFound is returned when unsubscribing an unknown name.
	ErrConsumerNotFound = errors.New("arscan: consumer not found")

	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("arscan: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("arscan: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("arscan: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("arscan: invalid configuration")
)

// ConsumerError wraps a failure raised by a single consumer during dispatch.
type ConsumerError struct {
	Consumer string
	Err      error
}

func (e *ConsumerError) Error() string {
	return fmt.Sprintf("consumer %q: %v", e.Consumer, e.Err)
}

func (e *ConsumerError) Unwrap() error {
	return e.Err
}
