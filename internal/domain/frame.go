package domain

import (
	"fmt"
	"math"
)

// RawFrame is a single-channel camera frame as handed out by the frame source.
// Rows are RowStride bytes apart; only the first Width bytes of each row are
// pixels. Data is borrowed: it is valid only until the acquiring scope
// releases the frame.
type RawFrame struct {
	// Width of the frame in pixels
	Width int

	// Height of the frame in pixels
	Height int

	// RowStride is the byte offset between the starts of consecutive rows.
	// Always >= Width.
	RowStride int

	// Data holds at least RowStride*Height bytes.
	Data []byte
}

// Validate reports whether the frame geometry is consistent with its data.
func (f RawFrame) Validate() error {
	if f.Width < 0 || f.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	if f.RowStride < f.Width {
		return fmt.Errorf("%w: row stride %d < width %d", ErrInvalidFrame, f.RowStride, f.Width)
	}
	// Width <= RowStride, so this also bounds PackedSize.
	if f.Height > 0 && f.RowStride > math.MaxInt/f.Height {
		return fmt.Errorf("%w: %dx%d with stride %d overflows", ErrInvalidFrame, f.Width, f.Height, f.RowStride)
	}
	if len(f.Data) < f.SourceSize() {
		return fmt.Errorf("%w: %d bytes, need %d", ErrInvalidFrame, len(f.Data), f.SourceSize())
	}
	return nil
}

// SourceSize is the number of bytes the frame spans in its source region.
func (f RawFrame) SourceSize() int {
	return f.RowStride * f.Height
}

// PackedSize is the number of bytes the frame occupies once packed.
func (f RawFrame) PackedSize() int {
	return f.Width * f.Height
}

// PackedBuffer is a pixel buffer whose stride equals its width.
// After a successful conversion len(Pix) == Width*Height.
type PackedBuffer struct {
	Pix    []byte
	Width  int
	Height int
}

// SameSize reports whether the buffer was last sized for a w x h frame.
func (b *PackedBuffer) SameSize(w, h int) bool {
	return b.Pix != nil && b.Width == w && b.Height == h
}

// PackedFrame is what consumers receive for one tick.
//
// Pix is owned by the dispatcher and overwritten in place on the next tick.
// Consumers MUST NOT retain it past OnFrame.
type PackedFrame struct {
	Pix    []byte
	Width  int
	Height int

	// DisplayUVs maps the frame onto the current display orientation and aspect.
	DisplayUVs DisplayUvTransform

	// Seq is assigned by the dispatcher, starting at 1, once per dispatched frame.
	Seq uint64
}

// At returns the pixel at (x, y).
func (f PackedFrame) At(x, y int) byte {
	return f.Pix[y*f.Width+x]
}
