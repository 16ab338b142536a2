package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/arscan/internal/cliconfig"
	"github.com/bft-labs/arscan/internal/pipeline"
)

const longHelp = `Replay a recorded AR camera session through the frame pipeline.

Every tick the current camera image is packed into a tight buffer and handed,
together with the display UV transform, to the overlay renderer and the QR
decoder. Decoded codes are logged and can be published to a websocket server.
A fatal session status (see --status-file) shows a message and quits.`

var exampleUsage = strings.TrimSpace(`
  arscan synth --qr "aisle-7" --qr "aisle-8" --out demo.arsr
  arscan run --recording demo.arsr --overlay-dir /tmp/overlay
  arscan run --config $HOME/.arscan/config.toml --publish-url ws://localhost:8080/codes
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	root := &cobra.Command{
		Use:           "arscan",
		Short:         "Replay AR camera sessions through the frame pipeline",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand(), newSynthCommand())

	if err := root.Execute(); err != nil {
		log := cliconfig.Logger()
		log.Error().Err(err).Msg("arscan")
		os.Exit(1)
	}
}

func newRunCommand() *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline over a recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.arscan/config.toml), then apply overrides
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment (ARSCAN_*) overrides the file, flags override both
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cliconfig.SetLogLevel(cfg.LogLevel); err != nil {
				return err
			}

			log := cliconfig.Logger()
			log.Info().Interface("config", cfg).Msg("configuration")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return pipeline.Run(ctx, cfg, log)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.arscan/config.toml)")
	f.StringVar(&cfg.Recording, "recording", cfg.Recording, "recording to replay (.arsr)")
	f.BoolVar(&cfg.Loop, "loop", cfg.Loop, "restart the recording when it ends")
	f.StringVar(&cfg.StatusFile, "status-file", cfg.StatusFile, "file holding the AR session status word (valid, permission_denied, fatal_error)")

	f.Float64Var(&cfg.TickRate, "tick-rate", cfg.TickRate, "ticks per second")
	f.DurationVar(&cfg.QuitDelay, "quit-delay", cfg.QuitDelay, "delay between the fatal message and termination")

	f.StringVar(&cfg.Orientation, "orientation", cfg.Orientation, "display orientation (portrait, portrait_upside_down, landscape_left, landscape_right)")
	f.Float64Var(&cfg.ScreenWidth, "screen-width", cfg.ScreenWidth, "display width in pixels")
	f.Float64Var(&cfg.ScreenHeight, "screen-height", cfg.ScreenHeight, "display height in pixels")

	f.StringVar(&cfg.FocusMode, "focus-mode", cfg.FocusMode, "camera focus mode (auto, fixed)")
	f.IntVar(&cfg.CameraConfigIndex, "camera-config", cfg.CameraConfigIndex, "index of the camera configuration to select")

	f.BoolVar(&cfg.Decode, "decode", cfg.Decode, "decode QR codes")
	f.StringVar(&cfg.PublishURL, "publish-url", cfg.PublishURL, "websocket URL receiving decoded codes")

	f.BoolVar(&cfg.Overlay, "overlay", cfg.Overlay, "render frames into display space")
	f.StringVar(&cfg.OverlayDir, "overlay-dir", cfg.OverlayDir, "write overlay PNG snapshots to this directory (implies --overlay)")
	f.IntVar(&cfg.OverlayEvery, "overlay-every", cfg.OverlayEvery, "render one frame out of N")

	f.StringVar(&cfg.StatsDir, "stats-dir", cfg.StatsDir, "directory for stats.json (default: $HOME/.arscan)")
	if err := f.MarkHidden("stats-dir"); err != nil {
		log := cliconfig.Logger()
		log.Info().Err(err).Msg("failed to hide stats-dir flag")
	}
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	return cmd
}
