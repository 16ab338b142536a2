// Package display models the host display: its orientation, its size and the
// mapping from the camera image to what is visible on screen.
package display

import (
	"sync"

	"github.com/bft-labs/arscan/internal/domain"
)

// Static is a ports.Display with a fixed (but replaceable) orientation and
// screen size.
type Static struct {
	mu          sync.RWMutex
	orientation domain.Orientation
	width       float64
	height      float64
}

// NewStatic creates a display of the given orientation and size in pixels.
func NewStatic(o domain.Orientation, width, height float64) *Static {
	return &Static{orientation: o, width: width, height: height}
}

// Orientation returns the display orientation.
func (s *Static) Orientation() domain.Orientation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orientation
}

// ScreenSize returns the screen size in pixels.
func (s *Static) ScreenSize() (float64, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// Rotate changes the orientation and screen size, as a device rotation does.
func (s *Static) Rotate(o domain.Orientation, width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orientation = o
	s.width = width
	s.height = height
}

// DisplayUVs computes the transform for the current display state.
func (s *Static) DisplayUVs(frameWidth, frameHeight int) domain.DisplayUvTransform {
	o := s.Orientation()
	w, h := s.ScreenSize()
	return ComputeDisplayUVs(o, w, h, frameWidth, frameHeight)
}
