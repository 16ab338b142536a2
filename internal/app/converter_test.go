package app

import (
	"errors"
	"math"
	"testing"

	"github.com/bft-labs/arscan/internal/domain"
)

// stridedFrame builds a w x h frame with row padding where
// pixel (i, j) = seed + j*16 + i and padding bytes are 0xEE.
func stridedFrame(w, h, stride int, seed byte) domain.RawFrame {
	data := make([]byte, stride*h)
	for j := 0; j < h; j++ {
		for i := 0; i < stride; i++ {
			if i < w {
				data[j*stride+i] = seed + byte(j*16+i)
			} else {
				data[j*stride+i] = 0xEE
			}
		}
	}
	return domain.RawFrame{Width: w, Height: h, RowStride: stride, Data: data}
}

func isBorder(i, j, w, h int) bool {
	return i == 0 || j == 0 || i == w-1 || j == h-1
}

func TestBufferConverter_PaddedFourByFour(t *testing.T) {
	src := domain.RawFrame{
		Width:     4,
		Height:    4,
		RowStride: 6,
		Data: []byte{
			10, 11, 12, 13, 14, 15,
			20, 21, 22, 23, 24, 25,
			30, 31, 32, 33, 34, 35,
			40, 41, 42, 43, 44, 45,
		},
	}
	var dst domain.PackedBuffer
	if err := NewBufferConverter().Convert(src, &dst); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(dst.Pix) != 16 {
		t.Fatalf("len(Pix) = %d, want 16", len(dst.Pix))
	}
	if dst.Pix[1*4+1] != 21 {
		t.Errorf("Pix(1,1) = %d, want 21", dst.Pix[1*4+1])
	}
	want := map[[2]int]byte{{1, 1}: 21, {2, 1}: 22, {1, 2}: 31, {2, 2}: 32}
	for pos, v := range want {
		if got := dst.Pix[pos[1]*4+pos[0]]; got != v {
			t.Errorf("Pix(%d,%d) = %d, want %d", pos[0], pos[1], got, v)
		}
	}
	// First allocation: border pixels are zero.
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			if isBorder(i, j, 4, 4) && dst.Pix[j*4+i] != 0 {
				t.Errorf("border Pix(%d,%d) = %d, want 0", i, j, dst.Pix[j*4+i])
			}
		}
	}
}

func TestBufferConverter_InteriorMatchesSource(t *testing.T) {
	tests := []struct {
		name         string
		w, h, stride int
	}{
		{"minimal", 3, 3, 3},
		{"no padding", 8, 5, 8},
		{"padded", 7, 9, 16},
		{"wide stride", 5, 4, 64},
		{"tall", 3, 40, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := stridedFrame(tt.w, tt.h, tt.stride, 3)
			var dst domain.PackedBuffer
			if err := NewBufferConverter().Convert(src, &dst); err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if len(dst.Pix) != tt.w*tt.h {
				t.Fatalf("len(Pix) = %d, want %d", len(dst.Pix), tt.w*tt.h)
			}
			for j := 1; j < tt.h-1; j++ {
				for i := 1; i < tt.w-1; i++ {
					if got, want := dst.Pix[j*tt.w+i], src.Data[j*tt.stride+i]; got != want {
						t.Fatalf("Pix(%d,%d) = %d, want %d", i, j, got, want)
					}
				}
			}
		})
	}
}

func TestBufferConverter_BorderKeepsPreviousValue(t *testing.T) {
	const w, h = 6, 5
	c := NewBufferConverter()
	var dst domain.PackedBuffer
	if err := c.Convert(stridedFrame(w, h, 8, 0), &dst); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	// Simulate values left over from an earlier tick.
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			if isBorder(i, j, w, h) {
				dst.Pix[j*w+i] = 0xAA
			}
		}
	}

	next := stridedFrame(w, h, 8, 100)
	if err := c.Convert(next, &dst); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			got := dst.Pix[j*w+i]
			if isBorder(i, j, w, h) {
				if got != 0xAA {
					t.Errorf("border Pix(%d,%d) = %#x, want carried-over 0xaa", i, j, got)
				}
			} else if want := next.Data[j*8+i]; got != want {
				t.Errorf("Pix(%d,%d) = %d, want %d", i, j, got, want)
			}
		}
	}
}

func TestBufferConverter_ReusesBufferWhenSizeUnchanged(t *testing.T) {
	c := NewBufferConverter()
	var dst domain.PackedBuffer
	src := stridedFrame(10, 6, 12, 7)

	if err := c.Convert(src, &dst); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	first := append([]byte(nil), dst.Pix...)
	ptr, capacity := &dst.Pix[0], cap(dst.Pix)

	if err := c.Convert(src, &dst); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if &dst.Pix[0] != ptr || cap(dst.Pix) != capacity {
		t.Error("second Convert() with unchanged size reallocated the buffer")
	}
	if string(dst.Pix) != string(first) {
		t.Error("identical input produced different output")
	}
	if c.Reallocations() != 1 {
		t.Errorf("Reallocations() = %d, want 1", c.Reallocations())
	}
	if c.StagingReallocations() != 1 {
		t.Errorf("StagingReallocations() = %d, want 1", c.StagingReallocations())
	}
}

func TestBufferConverter_ReallocatesOnDimensionChange(t *testing.T) {
	c := NewBufferConverter()
	var dst domain.PackedBuffer

	if err := c.Convert(stridedFrame(8, 8, 8, 0), &dst); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if err := c.Convert(stridedFrame(12, 6, 16, 0), &dst); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if c.Reallocations() != 2 {
		t.Errorf("Reallocations() = %d, want 2", c.Reallocations())
	}
	if len(dst.Pix) != 72 || dst.Width != 12 || dst.Height != 6 {
		t.Errorf("dst = %dx%d len %d, want 12x6 len 72", dst.Width, dst.Height, len(dst.Pix))
	}

	// Same pixel count, different shape: still a reallocation.
	if err := c.Convert(stridedFrame(6, 12, 6, 0), &dst); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if c.Reallocations() != 3 {
		t.Errorf("Reallocations() = %d, want 3", c.Reallocations())
	}
}

func TestBufferConverter_StagingFollowsSourceSize(t *testing.T) {
	c := NewBufferConverter()
	var dst domain.PackedBuffer

	// Same packed size, different stride: staging reallocates, packed does not.
	_ = c.Convert(stridedFrame(8, 4, 8, 0), &dst)
	_ = c.Convert(stridedFrame(8, 4, 16, 0), &dst)
	if c.StagingReallocations() != 2 {
		t.Errorf("StagingReallocations() = %d, want 2", c.StagingReallocations())
	}
	if c.Reallocations() != 1 {
		t.Errorf("Reallocations() = %d, want 1", c.Reallocations())
	}
}

func TestBufferConverter_BufferTooSmall(t *testing.T) {
	pix := []byte{1, 2, 3, 4}
	dst := domain.PackedBuffer{Pix: pix, Width: 4, Height: 4}

	err := NewBufferConverter().Convert(stridedFrame(4, 4, 6, 0), &dst)
	if !errors.Is(err, domain.ErrBufferTooSmall) {
		t.Fatalf("Convert() error = %v, want ErrBufferTooSmall", err)
	}
	if &dst.Pix[0] != &pix[0] || string(dst.Pix) != "\x01\x02\x03\x04" {
		t.Error("dst was modified on failure")
	}
}

func TestBufferConverter_InvalidFrame(t *testing.T) {
	tests := []struct {
		name  string
		frame domain.RawFrame
	}{
		{"stride below width", domain.RawFrame{Width: 4, Height: 2, RowStride: 3, Data: make([]byte, 8)}},
		{"short data", domain.RawFrame{Width: 4, Height: 4, RowStride: 6, Data: make([]byte, 23)}},
		{"negative height", domain.RawFrame{Width: 4, Height: -1, RowStride: 4}},
		{"size overflows", domain.RawFrame{Width: 4, Height: math.MaxInt/2 + 1, RowStride: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst domain.PackedBuffer
			err := NewBufferConverter().Convert(tt.frame, &dst)
			if !errors.Is(err, domain.ErrInvalidFrame) {
				t.Errorf("Convert() error = %v, want ErrInvalidFrame", err)
			}
			if dst.Pix != nil {
				t.Error("dst allocated for an invalid frame")
			}
		})
	}
}

func TestBufferConverter_ReadsOnlySourceRegion(t *testing.T) {
	// Data longer than RowStride*Height: the tail must not be captured.
	src := stridedFrame(5, 5, 7, 0)
	src.Data = append(src.Data, make([]byte, 100)...)

	c := NewBufferConverter()
	var dst domain.PackedBuffer
	if err := c.Convert(src, &dst); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(c.staging) != 35 {
		t.Errorf("len(staging) = %d, want 35", len(c.staging))
	}
}

func TestCopyInterior_TinyFrames(t *testing.T) {
	dst := []byte{9, 9, 9, 9}
	CopyInterior(dst, []byte{1, 2, 3, 4}, 2, 2, 2)
	if string(dst) != "\x09\x09\x09\x09" {
		t.Errorf("CopyInterior wrote into a frame with no interior: %v", dst)
	}
}

func BenchmarkBufferConverter_640x480(b *testing.B) {
	c := NewBufferConverter()
	src := stridedFrame(640, 480, 704, 0)
	var dst domain.PackedBuffer
	b.SetBytes(int64(src.SourceSize()))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = c.Convert(src, &dst)
	}
}
