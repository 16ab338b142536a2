package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/bft-labs/arscan/internal/adapters/barcode"
	"github.com/bft-labs/arscan/internal/adapters/replay"
	"github.com/bft-labs/arscan/internal/cliconfig"
)

type synthOptions struct {
	Out       string
	Image     string
	Codes     []string
	Width     int
	Height    int
	Padding   int
	Frames    int
	FrameRate float64
}

func defaultSynthOptions() synthOptions {
	return synthOptions{
		Out:       "session.arsr",
		Width:     640,
		Height:    480,
		Padding:   64,
		Frames:    30,
		FrameRate: 30,
	}
}

func newSynthCommand() *cobra.Command {
	opts := defaultSynthOptions()

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write a synthetic recording from an image or QR payloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := synthesize(opts)
			if err != nil {
				return err
			}
			log := cliconfig.Logger()
			log.Info().Str("out", opts.Out).Int("frames", n).Msg("recording written")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Out, "out", "o", opts.Out, "output recording path")
	f.StringVar(&opts.Image, "image", opts.Image, "source image (PNG or JPEG)")
	f.StringArrayVar(&opts.Codes, "qr", opts.Codes, "QR payload; repeat for a sequence of codes")
	f.IntVar(&opts.Width, "width", opts.Width, "frame width in pixels")
	f.IntVar(&opts.Height, "height", opts.Height, "frame height in pixels")
	f.IntVar(&opts.Padding, "padding", opts.Padding, "bytes of row padding (row stride = width + padding)")
	f.IntVar(&opts.Frames, "frames", opts.Frames, "frames per image or per QR payload")
	f.Float64Var(&opts.FrameRate, "fps", opts.FrameRate, "frame rate used for timestamps")

	return cmd
}

// synthesize writes the recording described by opts and returns the number
// of frames written.
func synthesize(opts synthOptions) (int, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.Frames <= 0 || opts.Padding < 0 || opts.FrameRate <= 0 {
		return 0, fmt.Errorf("synth: invalid geometry %dx%d+%d, %d frames at %v fps",
			opts.Width, opts.Height, opts.Padding, opts.Frames, opts.FrameRate)
	}

	var scenes []*image.Gray
	if opts.Image != "" {
		img, err := loadGray(opts.Image, opts.Width, opts.Height)
		if err != nil {
			return 0, err
		}
		scenes = append(scenes, img)
	}
	for _, text := range opts.Codes {
		img, err := qrScene(text, opts.Width, opts.Height)
		if err != nil {
			return 0, err
		}
		scenes = append(scenes, img)
	}
	if len(scenes) == 0 {
		return 0, fmt.Errorf("synth: need --image or at least one --qr")
	}

	f, err := os.Create(opts.Out)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	total := len(scenes) * opts.Frames
	w, err := replay.NewWriter(f, total)
	if err != nil {
		return 0, err
	}

	period := time.Duration(float64(time.Second) / opts.FrameRate)
	i := 0
	for _, scene := range scenes {
		for k := 0; k < opts.Frames; k++ {
			rec := replay.RecordFromGray(scene, opts.Padding, int64(i)*period.Nanoseconds())
			if err := w.WriteFrame(rec); err != nil {
				return i, err
			}
			i++
		}
	}
	if err := w.Close(); err != nil {
		return i, err
	}
	return i, f.Close()
}

// loadGray decodes the image at path and scales it to width x height.
func loadGray(path string, width, height int) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// qrScene centers a QR code for text on a white width x height frame.
func qrScene(text string, width, height int) (*image.Gray, error) {
	size := min(width, height) * 3 / 4
	code, err := barcode.Encode(text, size)
	if err != nil {
		return nil, err
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	cb := code.Bounds()
	at := image.Pt((width-cb.Dx())/2, (height-cb.Dy())/2)
	draw.Draw(dst, cb.Sub(cb.Min).Add(at), code, cb.Min, draw.Src)
	return dst, nil
}
