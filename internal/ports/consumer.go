package ports

import "github.com/bft-labs/arscan/internal/domain"

// FrameConsumer receives the packed frame once per dispatched tick.
// frame.Pix MUST NOT be retained past the call: it is overwritten next tick.
type FrameConsumer interface {
	OnFrame(frame domain.PackedFrame) error
}

// ConsumerFunc adapts a function to FrameConsumer.
type ConsumerFunc func(frame domain.PackedFrame) error

// OnFrame calls f(frame).
func (f ConsumerFunc) OnFrame(frame domain.PackedFrame) error {
	return f(frame)
}
