// Package barcode decodes QR codes from packed camera frames.
package barcode

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/zeebo/blake3"

	"github.com/bft-labs/arscan/internal/domain"
	"github.com/bft-labs/arscan/internal/ports"
)

// Decoder is a frame consumer that looks for a QR code in every frame.
//
// Frames are fingerprinted so an unchanged image is not decoded twice.
// Subscribers registered with OnText receive each newly decoded text once;
// repeated sightings of the same code are not re-announced.
type Decoder struct {
	logger ports.Logger
	reader gozxing.Reader
	hints  map[gozxing.DecodeHintType]interface{}

	mu       sync.Mutex
	subs     []func(text string)
	last     string
	lastSum  [32]byte
	haveSum  bool
	decodes  uint64
	skipped  uint64
	detected uint64
}

// NewDecoder creates a QR decoder for single-channel frames.
func NewDecoder(logger ports.Logger) *Decoder {
	return &Decoder{
		logger: logger.With(ports.String("component", "barcode")),
		reader: qrcode.NewQRCodeReader(),
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// OnText registers fn to receive newly decoded text. Callbacks run on the
// dispatching goroutine and must not block.
func (d *Decoder) OnText(fn func(text string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = append(d.subs, fn)
}

// OnFrame decodes the frame. A frame without a readable code is not an error.
func (d *Decoder) OnFrame(frame domain.PackedFrame) error {
	sum := blake3.Sum256(frame.Pix)

	d.mu.Lock()
	if d.haveSum && sum == d.lastSum {
		d.skipped++
		d.mu.Unlock()
		return nil
	}
	d.lastSum, d.haveSum = sum, true
	d.decodes++

	text, found, err := d.decode(frame)
	if err != nil || !found || text == d.last {
		d.mu.Unlock()
		return err
	}
	d.last = text
	d.detected++
	subs := append([]func(string){}, d.subs...)
	d.mu.Unlock()

	d.logger.Info("code decoded", ports.String("text", text), ports.Uint64("seq", frame.Seq))
	for _, fn := range subs {
		fn(text)
	}
	return nil
}

func (d *Decoder) decode(frame domain.PackedFrame) (string, bool, error) {
	img := &image.Gray{
		Pix:    frame.Pix,
		Stride: frame.Width,
		Rect:   image.Rect(0, 0, frame.Width, frame.Height),
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false, fmt.Errorf("barcode: bitmap: %w", err)
	}
	result, err := d.reader.Decode(bmp, d.hints)
	if err != nil {
		var re gozxing.ReaderException
		if errors.As(err, &re) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("barcode: decode: %w", err)
	}
	return result.GetText(), true, nil
}

// Last returns the most recently decoded text.
func (d *Decoder) Last() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Stats returns how many frames were decoded, how many were skipped as
// unchanged and how many new texts were detected.
func (d *Decoder) Stats() (decodes, skipped, detected uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.decodes, d.skipped, d.detected
}
