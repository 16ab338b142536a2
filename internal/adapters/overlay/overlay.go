// Package overlay renders the packed camera frame the way it appears on the
// display, for debugging the display transform.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/bft-labs/arscan/internal/domain"
	"github.com/bft-labs/arscan/internal/ports"
)

// ErrDegenerateTransform is returned when the display transform collapses
// the image to a line or a point.
var ErrDegenerateTransform = errors.New("overlay: degenerate display transform")

// Config configures a Renderer.
type Config struct {
	// Width and Height are the output size in pixels.
	Width  int
	Height int

	// Every renders one frame out of Every. Values below 1 render every frame.
	Every int

	// Dir, when set, receives a PNG snapshot of every rendered frame.
	Dir string
}

// Renderer is a frame consumer that warps each frame into display space.
type Renderer struct {
	config  Config
	logger  ports.Logger
	enabled atomic.Bool

	mu       sync.Mutex
	dst      *image.Gray
	last     *image.Gray
	frames   uint64
	rendered uint64
}

// NewRenderer creates an enabled renderer.
func NewRenderer(config Config, logger ports.Logger) (*Renderer, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("%w: overlay size %dx%d", domain.ErrInvalidConfig, config.Width, config.Height)
	}
	if config.Every < 1 {
		config.Every = 1
	}
	if config.Dir != "" {
		if err := os.MkdirAll(config.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("overlay dir: %w", err)
		}
	}
	r := &Renderer{
		config: config,
		logger: logger.With(ports.String("component", "overlay")),
		dst:    image.NewGray(image.Rect(0, 0, config.Width, config.Height)),
	}
	r.enabled.Store(true)
	return r, nil
}

// SetEnabled turns rendering on or off. A disabled renderer ignores frames.
func (r *Renderer) SetEnabled(on bool) {
	r.enabled.Store(on)
}

// OnFrame renders the frame if it is due.
func (r *Renderer) OnFrame(frame domain.PackedFrame) error {
	if !r.enabled.Load() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames++
	if (r.frames-1)%uint64(r.config.Every) != 0 {
		return nil
	}

	src := &image.Gray{
		Pix:    frame.Pix,
		Stride: frame.Width,
		Rect:   image.Rect(0, 0, frame.Width, frame.Height),
	}
	if err := Warp(r.dst, src, frame.DisplayUVs); err != nil {
		return err
	}
	r.rendered++

	// Keep a copy: dst is reused on the next render.
	if r.last == nil || r.last.Rect != r.dst.Rect {
		r.last = image.NewGray(r.dst.Rect)
	}
	copy(r.last.Pix, r.dst.Pix)

	if r.config.Dir != "" {
		if err := r.snapshot(frame.Seq); err != nil {
			return err
		}
	}
	return nil
}

// Last returns a copy of the most recently rendered image, or nil.
func (r *Renderer) Last() *image.Gray {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil
	}
	img := image.NewGray(r.last.Rect)
	copy(img.Pix, r.last.Pix)
	return img
}

// Rendered returns the number of frames rendered.
func (r *Renderer) Rendered() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rendered
}

func (r *Renderer) snapshot(seq uint64) error {
	path := filepath.Join(r.config.Dir, fmt.Sprintf("frame-%06d.png", seq))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("overlay snapshot: %w", err)
	}
	if err := png.Encode(f, r.last); err != nil {
		f.Close()
		return fmt.Errorf("overlay snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("overlay snapshot: %w", err)
	}
	r.logger.Debug("snapshot written", ports.String("path", path))
	return nil
}

// Warp fills dst with src as seen through uvs. The TopLeft, TopRight and
// BottomLeft corners define the affine mapping; BottomRight is implied.
func Warp(dst *image.Gray, src *image.Gray, uvs domain.DisplayUvTransform) error {
	s2d, err := sourceToDisplay(uvs,
		float64(src.Rect.Dx()), float64(src.Rect.Dy()),
		float64(dst.Rect.Dx()), float64(dst.Rect.Dy()))
	if err != nil {
		return err
	}
	clear(dst.Pix)
	draw.BiLinear.Transform(dst, s2d, src, src.Bounds(), draw.Src, nil)
	return nil
}

// sourceToDisplay inverts the display-to-image mapping given by the UV
// corners into the source-to-destination matrix draw.Transform expects.
func sourceToDisplay(uvs domain.DisplayUvTransform, srcW, srcH, dstW, dstH float64) (f64.Aff3, error) {
	tl, tr, bl := uvs.TopLeft, uvs.TopRight, uvs.BottomLeft

	// Display pixel (X, Y) samples image pixel (a*X + b*Y + c, d*X + e*Y + f).
	a := srcW * (tr.X - tl.X) / dstW
	b := srcW * (bl.X - tl.X) / dstH
	c := srcW * tl.X
	d := srcH * (tr.Y - tl.Y) / dstW
	e := srcH * (bl.Y - tl.Y) / dstH
	f := srcH * tl.Y

	det := a*e - b*d
	if det == 0 {
		return f64.Aff3{}, ErrDegenerateTransform
	}
	return f64.Aff3{
		e / det, -b / det, (b*f - c*e) / det,
		-d / det, a / det, (c*d - a*f) / det,
	}, nil
}
