// Package pipeline assembles the scanner and its adapters from CLI
// configuration.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bft-labs/arscan/internal/adapters/barcode"
	"github.com/bft-labs/arscan/internal/adapters/display"
	"github.com/bft-labs/arscan/internal/adapters/fs"
	"github.com/bft-labs/arscan/internal/adapters/overlay"
	"github.com/bft-labs/arscan/internal/adapters/replay"
	"github.com/bft-labs/arscan/internal/adapters/status"
	"github.com/bft-labs/arscan/internal/adapters/ws"
	"github.com/bft-labs/arscan/internal/cliconfig"
	"github.com/bft-labs/arscan/internal/domain"
	"github.com/bft-labs/arscan/internal/ports"
	"github.com/bft-labs/arscan/pkg/arscan"
	"github.com/bft-labs/arscan/pkg/log"
)

// Consumer names, in dispatch order.
const (
	ConsumerOverlay = "overlay"
	ConsumerDecoder = "decoder"
)

// Pipeline is a scanner wired to a recording and the configured consumers.
type Pipeline struct {
	Scanner   *arscan.Scanner
	Source    *replay.Source
	Overlay   *overlay.Renderer
	Decoder   *barcode.Decoder
	Publisher *ws.Publisher

	logger  ports.Logger
	watcher *status.FileWatcher

	mu        sync.Mutex
	terminate context.CancelFunc
}

// New builds the pipeline. cfg must already be validated.
func New(cfg cliconfig.Config, zl zerolog.Logger) (*Pipeline, error) {
	logger := log.NewZerologAdapterWithLogger(zl)
	p := &Pipeline{logger: logger}

	src, err := replay.Open(cfg.Recording, cfg.Loop)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	p.Source = src
	logger.Info("recording loaded",
		ports.String("path", cfg.Recording),
		ports.Int("frames", src.Len()),
		ports.Bool("loop", cfg.Loop),
	)

	p.selectCamera(&cfg)

	orientation, err := domain.ParseOrientation(cfg.Orientation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	disp := display.NewStatic(orientation, cfg.ScreenWidth, cfg.ScreenHeight)

	var statusSource ports.StatusSource = status.NewStatic(domain.SessionValid)
	if cfg.StatusFile != "" {
		p.watcher = status.NewFileWatcher(cfg.StatusFile, 0, logger)
		statusSource = p.watcher
	}

	opts := []arscan.Option{
		arscan.WithLogger(logger),
		arscan.WithFrameSource(src),
		arscan.WithStatusSource(statusSource),
		arscan.WithDisplay(disp),
		arscan.WithNotifier(p),
		arscan.WithTickRate(cfg.TickRate),
		arscan.WithQuitDelay(cfg.QuitDelay),
	}
	if cfg.StatsDir != "" {
		opts = append(opts, arscan.WithStatsRepository(fs.NewStatsFileRepository(cfg.StatsDir)))
	}

	if cfg.Overlay {
		r, err := overlay.NewRenderer(overlay.Config{
			Width:  int(cfg.ScreenWidth),
			Height: int(cfg.ScreenHeight),
			Every:  cfg.OverlayEvery,
			Dir:    cfg.OverlayDir,
		}, logger)
		if err != nil {
			return nil, err
		}
		p.Overlay = r
		opts = append(opts, arscan.WithConsumer(ConsumerOverlay, r))
	}

	if cfg.Decode {
		p.Decoder = barcode.NewDecoder(logger)
		p.Decoder.OnText(func(text string) {
			logger.Info("code detected", ports.String("text", text))
		})
		if cfg.PublishURL != "" {
			p.Publisher = ws.NewPublisher(ws.Config{URL: cfg.PublishURL}, logger)
			p.Decoder.OnText(func(text string) {
				p.Publisher.Publish(text)
			})
		}
		opts = append(opts, arscan.WithConsumer(ConsumerDecoder, p.Decoder))
	}

	s, err := arscan.New(opts...)
	if err != nil {
		return nil, err
	}
	p.Scanner = s
	return p, nil
}

// selectCamera offers the recording's frame sizes as camera configurations
// and logs the one chosen, along with the focus mode.
func (p *Pipeline) selectCamera(cfg *cliconfig.Config) {
	var configs []cliconfig.CameraConfig
	for _, size := range p.Source.FrameSizes() {
		configs = append(configs, cliconfig.CameraConfig{Width: size.X, Height: size.Y, FPS: int(cfg.TickRate)})
	}
	i := cfg.SelectCameraConfig(configs)
	if i < 0 {
		p.logger.Warn("recording offers no camera configuration")
		return
	}
	p.logger.Info("camera configured",
		ports.Stringer("config", configs[i]),
		ports.Int("index", i),
		ports.Int("offered", len(configs)),
		ports.String("focus", cfg.FocusMode),
	)
}

// Run starts the adapters and the scanner and blocks until the recording
// ends, the session terminates or ctx is canceled.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.mu.Lock()
	p.terminate = cancel
	p.mu.Unlock()

	if p.watcher != nil {
		if err := p.watcher.Start(ctx); err != nil {
			return err
		}
		defer p.watcher.Close()
	}
	if p.Publisher != nil {
		if err := p.Publisher.Start(ctx); err != nil {
			return err
		}
		defer p.Publisher.Close()
	}

	if err := p.Scanner.Start(ctx); err != nil {
		return fmt.Errorf("start scanner: %w", err)
	}
	<-p.Scanner.Done()

	stats := p.Scanner.Stats()
	p.logger.Info("scanner stopped",
		ports.Uint64("ticks", stats.Ticks),
		ports.Uint64("frames_dispatched", stats.FramesDispatched),
		ports.Uint64("frames_unavailable", stats.FramesUnavailable),
		ports.Uint64("consumer_errors", stats.ConsumerErrors),
		ports.Uint64("session_skips", stats.SessionSkips),
	)
	if p.Decoder != nil {
		decodes, skipped, detected := p.Decoder.Stats()
		p.logger.Info("decoder summary",
			ports.Uint64("decodes", decodes),
			ports.Uint64("skipped", skipped),
			ports.Uint64("detected", detected),
			ports.String("last", p.Decoder.Last()),
		)
	}
	if p.Scanner.Status() == arscan.StateCrashed {
		return errors.New("scanner crashed")
	}
	return nil
}

// Notify shows the watchdog message. On a device this is a toast.
func (p *Pipeline) Notify(message string) {
	p.logger.Warn(message)
}

// Terminate ends Run.
func (p *Pipeline) Terminate() {
	p.logger.Info("terminating after fatal session status")
	p.mu.Lock()
	cancel := p.terminate
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Run builds the pipeline from cfg and runs it.
func Run(ctx context.Context, cfg cliconfig.Config, zl zerolog.Logger) error {
	p, err := New(cfg, zl)
	if err != nil {
		return err
	}
	return p.Run(ctx)
}
