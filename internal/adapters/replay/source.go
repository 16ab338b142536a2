package replay

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/bft-labs/arscan/internal/domain"
	"github.com/bft-labs/arscan/internal/ports"
)

// Source plays a recording back as a ports.FrameSource.
//
// Each acquired frame is copied into a single reusable region that stands in
// for device memory. Only one frame can be held at a time: Acquire reports no
// frame until the previous one is released.
type Source struct {
	mu      sync.Mutex
	records []Record
	loop    bool
	next    int
	held    bool
	region  []byte
}

// Open reads the recording at path. With loop set, playback wraps around
// instead of ending.
func Open(path string, loop bool) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	_, records, err := ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewSource(records, loop), nil
}

// NewSource plays the given records.
func NewSource(records []Record, loop bool) *Source {
	return &Source{records: records, loop: loop}
}

// Len returns the number of records.
func (s *Source) Len() int {
	return len(s.records)
}

// FrameSizes returns the distinct frame sizes of the recording in order of
// first appearance.
func (s *Source) FrameSizes() []image.Point {
	var sizes []image.Point
	seen := make(map[image.Point]bool)
	for _, rec := range s.records {
		p := image.Pt(rec.Width, rec.Height)
		if !seen[p] {
			seen[p] = true
			sizes = append(sizes, p)
		}
	}
	return sizes
}

// Acquire hands out the next frame.
func (s *Source) Acquire(ctx context.Context) (ports.AcquiredFrame, bool) {
	if ctx.Err() != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.held || len(s.records) == 0 {
		return nil, false
	}
	if s.next >= len(s.records) {
		if !s.loop {
			return nil, false
		}
		s.next = 0
	}

	rec := s.records[s.next]
	s.next++

	if cap(s.region) < len(rec.Data) {
		s.region = make([]byte, len(rec.Data))
	}
	region := s.region[:len(rec.Data)]
	copy(region, rec.Data)
	s.held = true

	raw := rec.Frame()
	raw.Data = region
	return &heldFrame{src: s, raw: raw}, true
}

// Exhausted reports whether a non-looping recording has been fully played
// and released.
func (s *Source) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop && len(s.records) > 0 {
		return false
	}
	return s.next >= len(s.records) && !s.held
}

func (s *Source) release() {
	s.mu.Lock()
	s.held = false
	s.mu.Unlock()
}

type heldFrame struct {
	src  *Source
	raw  domain.RawFrame
	once sync.Once
}

func (f *heldFrame) Frame() domain.RawFrame { return f.raw }

func (f *heldFrame) Release() {
	f.once.Do(f.src.release)
}
