package app

import (
	"fmt"

	"github.com/bft-labs/arscan/internal/domain"
)

// BufferConverter copies row-strided frames into packed buffers.
//
// Conversion is two-pass. The whole source region (RowStride*Height bytes) is
// first captured into a staging buffer, because the source is only valid
// inside the acquisition scope. The interior is then cropped from staging
// into the packed buffer.
//
// The outer 1-pixel border of the packed buffer is never written. Border
// pixels keep whatever the previous conversion left there, or zero right after
// a reallocation. Consumers that care about the border must ignore it.
//
// A BufferConverter is not safe for concurrent use.
type BufferConverter struct {
	staging []byte

	reallocations        uint64
	stagingReallocations uint64
}

// NewBufferConverter creates a converter with no staging memory.
func NewBufferConverter() *BufferConverter {
	return &BufferConverter{}
}

// Convert packs src into dst.
//
// If dst was last sized for different dimensions (or never), it is
// reallocated to exactly Width*Height bytes. Otherwise dst.Pix is reused; if
// it was shrunk below Width*Height by someone else, ErrBufferTooSmall is
// returned and dst is left untouched.
func (c *BufferConverter) Convert(src domain.RawFrame, dst *domain.PackedBuffer) error {
	if err := src.Validate(); err != nil {
		return err
	}

	size := src.PackedSize()
	if !dst.SameSize(src.Width, src.Height) {
		dst.Pix = make([]byte, size)
		dst.Width = src.Width
		dst.Height = src.Height
		c.reallocations++
	} else if len(dst.Pix) < size {
		return fmt.Errorf("%w: have %d bytes, need %d", domain.ErrBufferTooSmall, len(dst.Pix), size)
	}

	c.stage(src)
	CopyInterior(dst.Pix, c.staging, src.Width, src.Height, src.RowStride)
	return nil
}

// stage captures exactly RowStride*Height bytes of the source region.
func (c *BufferConverter) stage(src domain.RawFrame) {
	n := src.SourceSize()
	if len(c.staging) != n || c.staging == nil {
		c.staging = make([]byte, n)
		c.stagingReallocations++
	}
	copy(c.staging, src.Data[:n])
}

// Reallocations returns how many times a packed buffer was (re)allocated.
func (c *BufferConverter) Reallocations() uint64 {
	return c.reallocations
}

// StagingReallocations returns how many times the staging buffer was (re)allocated.
func (c *BufferConverter) StagingReallocations() uint64 {
	return c.stagingReallocations
}

// CopyInterior writes dst[j*w+i] = src[j*stride+i] for every interior pixel
// (1 <= i < w-1, 1 <= j < h-1). Border pixels of dst are left as they are.
// Frames narrower or shorter than 3 pixels have no interior.
func CopyInterior(dst, src []byte, w, h, stride int) {
	if w < 3 || h < 3 {
		return
	}
	for j := 1; j < h-1; j++ {
		row := j * w
		off := j * stride
		copy(dst[row+1:row+w-1], src[off+1:off+w-1])
	}
}
