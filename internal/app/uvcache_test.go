package app

import (
	"testing"

	"github.com/bft-labs/arscan/internal/domain"
)

type countingProvider struct {
	calls int
	next  domain.DisplayUvTransform
}

func (p *countingProvider) provide() domain.DisplayUvTransform {
	p.calls++
	return p.next
}

var baseKey = CacheKey{
	Orientation:  domain.OrientationPortrait,
	ScreenWidth:  1080,
	ScreenHeight: 1920,
	FrameWidth:   640,
	FrameHeight:  480,
}

func uvs(x float64) domain.DisplayUvTransform {
	return domain.DisplayUvTransform{
		TopLeft:     domain.Vec2{X: x, Y: 0},
		TopRight:    domain.Vec2{X: 1 - x, Y: 0},
		BottomLeft:  domain.Vec2{X: x, Y: 1},
		BottomRight: domain.Vec2{X: 1 - x, Y: 1},
	}
}

func TestDisplayTransformCache_FirstGetComputes(t *testing.T) {
	c := NewDisplayTransformCache()
	p := &countingProvider{next: uvs(0.1)}

	if _, ok := c.Value(); ok {
		t.Fatal("new cache reports a cached value")
	}
	got := c.Get(baseKey, p.provide)
	if p.calls != 1 || got != uvs(0.1) {
		t.Errorf("Get() = %v with %d calls, want %v with 1 call", got, p.calls, uvs(0.1))
	}
}

func TestDisplayTransformCache_StableKeyDoesNotRecompute(t *testing.T) {
	c := NewDisplayTransformCache()
	p := &countingProvider{next: uvs(0.1)}
	first := c.Get(baseKey, p.provide)

	p.next = uvs(0.4)
	jitter := baseKey
	for i := 0; i < 50; i++ {
		// Sub-epsilon jitter in screen size is not a material change.
		jitter.ScreenWidth = baseKey.ScreenWidth + 0.005
		jitter.ScreenHeight = baseKey.ScreenHeight - 0.009
		if got := c.Get(jitter, p.provide); got != first {
			t.Fatalf("Get() #%d = %v, want cached %v", i, got, first)
		}
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1", p.calls)
	}
	if c.Recomputes() != 1 {
		t.Errorf("Recomputes() = %d, want 1", c.Recomputes())
	}
}

func TestDisplayTransformCache_Invalidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(k *CacheKey)
	}{
		{"orientation", func(k *CacheKey) { k.Orientation = domain.OrientationLandscapeLeft }},
		{"frame width", func(k *CacheKey) { k.FrameWidth = 1280 }},
		{"frame height", func(k *CacheKey) { k.FrameHeight = 720 }},
		{"screen width", func(k *CacheKey) { k.ScreenWidth = 1920 }},
		{"screen height", func(k *CacheKey) { k.ScreenHeight = 1080 }},
		{"screen width just past epsilon", func(k *CacheKey) { k.ScreenWidth += 0.02 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewDisplayTransformCache()
			p := &countingProvider{next: uvs(0.1)}
			c.Get(baseKey, p.provide)

			changed := baseKey
			tt.mutate(&changed)
			p.next = uvs(0.3)

			if got := c.Get(changed, p.provide); got != uvs(0.3) {
				t.Errorf("Get() after change = %v, want %v", got, uvs(0.3))
			}
			if p.calls != 2 {
				t.Errorf("provider calls = %d, want 2", p.calls)
			}

			// The new key is now cached.
			if got := c.Get(changed, p.provide); got != uvs(0.3) || p.calls != 2 {
				t.Errorf("Get() repeated = %v with %d calls, want cached value and 2 calls", got, p.calls)
			}
		})
	}
}

func TestDisplayTransformCache_Invalidate(t *testing.T) {
	c := NewDisplayTransformCache()
	p := &countingProvider{next: uvs(0.1)}
	c.Get(baseKey, p.provide)
	c.Invalidate()
	c.Get(baseKey, p.provide)
	if p.calls != 2 {
		t.Errorf("provider calls = %d after Invalidate, want 2", p.calls)
	}
}
