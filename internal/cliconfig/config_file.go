package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Recording         string  `toml:"recording"`
	Loop              *bool   `toml:"loop"`
	StatusFile        string  `toml:"status_file"`
	TickRate          float64 `toml:"tick_rate"`
	QuitDelay         string  `toml:"quit_delay"`
	Orientation       string  `toml:"orientation"`
	ScreenWidth       float64 `toml:"screen_width"`
	ScreenHeight      float64 `toml:"screen_height"`
	FocusMode         string  `toml:"focus_mode"`
	CameraConfigIndex int     `toml:"camera_config"`
	Decode            *bool   `toml:"decode"`
	PublishURL        string  `toml:"publish_url"`
	Overlay           *bool   `toml:"overlay"`
	OverlayDir        string  `toml:"overlay_dir"`
	OverlayEvery      int     `toml:"overlay_every"`
	StatsDir          string  `toml:"stats_dir"`
	LogLevel          string  `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.arscan/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".arscan", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("recording", fc.Recording, &cfg.Recording)
	s.setString("status-file", fc.StatusFile, &cfg.StatusFile)
	s.setString("orientation", fc.Orientation, &cfg.Orientation)
	s.setString("focus-mode", fc.FocusMode, &cfg.FocusMode)
	s.setString("publish-url", fc.PublishURL, &cfg.PublishURL)
	s.setString("overlay-dir", fc.OverlayDir, &cfg.OverlayDir)
	s.setString("stats-dir", fc.StatsDir, &cfg.StatsDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("quit-delay", fc.QuitDelay, &cfg.QuitDelay); err != nil {
		return err
	}

	s.setFloat("tick-rate", fc.TickRate, &cfg.TickRate)
	s.setFloat("screen-width", fc.ScreenWidth, &cfg.ScreenWidth)
	s.setFloat("screen-height", fc.ScreenHeight, &cfg.ScreenHeight)

	s.setInt("camera-config", fc.CameraConfigIndex, &cfg.CameraConfigIndex)
	s.setInt("overlay-every", fc.OverlayEvery, &cfg.OverlayEvery)

	s.setBool("loop", fc.Loop, &cfg.Loop)
	s.setBool("decode", fc.Decode, &cfg.Decode)
	s.setBool("overlay", fc.Overlay, &cfg.Overlay)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
