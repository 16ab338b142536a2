package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bft-labs/arscan/internal/domain"
	"github.com/bft-labs/arscan/internal/ports"
)

type namedConsumer struct {
	name     string
	consumer ports.FrameConsumer
}

// Dispatcher runs the per-tick pipeline: acquire a frame, pack it, resolve
// the display transform and fan the packed buffer out to consumers.
//
// A Dispatcher is not safe for concurrent use. The owning Runner serializes
// Tick, Subscribe and Unsubscribe.
type Dispatcher struct {
	source    ports.FrameSource
	display   ports.Display
	logger    ports.Logger
	converter *BufferConverter
	cache     *DisplayTransformCache
	buf       domain.PackedBuffer
	consumers []namedConsumer
	stats     domain.DispatchStats
	seq       uint64
}

// NewDispatcher creates a dispatcher with no consumers.
func NewDispatcher(source ports.FrameSource, display ports.Display, logger ports.Logger) *Dispatcher {
	return &Dispatcher{
		source:    source,
		display:   display,
		logger:    logger,
		converter: NewBufferConverter(),
		cache:     NewDisplayTransformCache(),
	}
}

// Subscribe appends a consumer. Consumers are invoked in subscription order.
func (d *Dispatcher) Subscribe(name string, c ports.FrameConsumer) error {
	for _, nc := range d.consumers {
		if nc.name == name {
			return fmt.Errorf("%w: %s", domain.ErrConsumerExists, name)
		}
	}
	d.consumers = append(d.consumers, namedConsumer{name: name, consumer: c})
	d.logger.Debug("consumer subscribed", ports.String("consumer", name))
	return nil
}

// Unsubscribe removes a consumer, keeping the order of the others.
func (d *Dispatcher) Unsubscribe(name string) error {
	for i, nc := range d.consumers {
		if nc.name == name {
			d.consumers = append(d.consumers[:i:i], d.consumers[i+1:]...)
			d.logger.Debug("consumer unsubscribed", ports.String("consumer", name))
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrConsumerNotFound, name)
}

// Consumers returns the subscribed names in invocation order.
func (d *Dispatcher) Consumers() []string {
	names := make([]string, len(d.consumers))
	for i, nc := range d.consumers {
		names[i] = nc.name
	}
	return names
}

// Tick runs one pipeline step.
//
// A missing frame is not an error. Conversion failures end the tick and are
// returned. Consumer failures are isolated: every consumer still runs and the
// failures are returned joined, each wrapped in a *domain.ConsumerError.
func (d *Dispatcher) Tick(ctx context.Context) error {
	d.stats.Ticks++

	frame, ok := d.source.Acquire(ctx)
	if !ok {
		d.stats.FramesUnavailable++
		return nil
	}
	defer frame.Release()
	d.stats.FramesAcquired++

	if len(d.consumers) == 0 {
		return nil
	}

	raw := frame.Frame()
	if err := d.converter.Convert(raw, &d.buf); err != nil {
		d.stats.ConvertErrors++
		d.logger.Warn("frame conversion failed",
			ports.Int("width", raw.Width),
			ports.Int("height", raw.Height),
			ports.Int("row_stride", raw.RowStride),
			ports.Err(err),
		)
		return fmt.Errorf("convert frame: %w", err)
	}

	uvs := d.displayUVs(raw.Width, raw.Height)

	d.seq++
	packed := domain.PackedFrame{
		Pix:        d.buf.Pix,
		Width:      d.buf.Width,
		Height:     d.buf.Height,
		DisplayUVs: uvs,
		Seq:        d.seq,
	}

	var errs []error
	for _, nc := range d.consumers {
		if err := invoke(nc, packed); err != nil {
			d.stats.ConsumerErrors++
			d.logger.Warn("consumer failed",
				ports.String("consumer", nc.name),
				ports.Uint64("seq", packed.Seq),
				ports.Err(err),
			)
			errs = append(errs, err)
		}
	}
	d.stats.FramesDispatched++

	return errors.Join(errs...)
}

func (d *Dispatcher) displayUVs(frameW, frameH int) domain.DisplayUvTransform {
	screenW, screenH := d.display.ScreenSize()
	key := CacheKey{
		Orientation:  d.display.Orientation(),
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
		FrameWidth:   frameW,
		FrameHeight:  frameH,
	}
	return d.cache.Get(key, func() domain.DisplayUvTransform {
		uvs := d.display.DisplayUVs(frameW, frameH)
		d.logger.Debug("display transform recomputed",
			ports.Stringer("orientation", key.Orientation),
			ports.Float64("screen_width", screenW),
			ports.Float64("screen_height", screenH),
			ports.Int("frame_width", frameW),
			ports.Int("frame_height", frameH),
		)
		return uvs
	})
}

// invoke calls one consumer, turning a panic into an error.
func invoke(nc namedConsumer, frame domain.PackedFrame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.ConsumerError{Consumer: nc.name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if cerr := nc.consumer.OnFrame(frame); cerr != nil {
		return &domain.ConsumerError{Consumer: nc.name, Err: cerr}
	}
	return nil
}

// Stats returns a snapshot of the dispatch counters.
func (d *Dispatcher) Stats() domain.DispatchStats {
	s := d.stats
	s.Reallocations = d.converter.Reallocations()
	s.UVRecomputes = d.cache.Recomputes()
	return s
}

// DisplayUVs returns the last cached display transform, or the identity
// mapping when nothing was dispatched yet.
func (d *Dispatcher) DisplayUVs() domain.DisplayUvTransform {
	if uvs, ok := d.cache.Value(); ok {
		return uvs
	}
	return domain.IdentityUVs
}
