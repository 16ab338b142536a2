package app

import (
	"math"

	"github.com/bft-labs/arscan/internal/domain"
)

// Epsilon is the screen size change (in pixels) below which the cached
// display transform is considered still valid.
const Epsilon = 0.01

// CacheKey is the input a display transform depends on.
type CacheKey struct {
	Orientation  domain.Orientation
	ScreenWidth  float64
	ScreenHeight float64
	FrameWidth   int
	FrameHeight  int
}

// DisplayTransformCache holds the last display UV transform and recomputes it
// only when its key materially changes.
//
// The transform is recomputed when the orientation changes, when the frame
// dimensions change, or when the screen width or height moves by more than
// Epsilon.
type DisplayTransformCache struct {
	key       CacheKey
	value     domain.DisplayUvTransform
	valid     bool
	recompute uint64
}

// NewDisplayTransformCache creates an empty cache. The first Get always
// calls the provider.
func NewDisplayTransformCache() *DisplayTransformCache {
	return &DisplayTransformCache{}
}

// Get returns the cached transform for key, calling provider at most once if
// the cached value is stale.
func (c *DisplayTransformCache) Get(key CacheKey, provider func() domain.DisplayUvTransform) domain.DisplayUvTransform {
	if c.valid && !c.stale(key) {
		return c.value
	}
	c.value = provider()
	c.key = key
	c.valid = true
	c.recompute++
	return c.value
}

func (c *DisplayTransformCache) stale(key CacheKey) bool {
	return key.Orientation != c.key.Orientation ||
		key.FrameWidth != c.key.FrameWidth ||
		key.FrameHeight != c.key.FrameHeight ||
		math.Abs(key.ScreenWidth-c.key.ScreenWidth) > Epsilon ||
		math.Abs(key.ScreenHeight-c.key.ScreenHeight) > Epsilon
}

// Value returns the cached transform and whether one is cached.
func (c *DisplayTransformCache) Value() (domain.DisplayUvTransform, bool) {
	return c.value, c.valid
}

// Invalidate drops the cached transform.
func (c *DisplayTransformCache) Invalidate() {
	c.valid = false
}

// Recomputes returns how many times the provider was called.
func (c *DisplayTransformCache) Recomputes() uint64 {
	return c.recompute
}
