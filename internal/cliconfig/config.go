package cliconfig

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/arscan/internal/domain"
)

// Focus modes.
const (
	FocusAuto  = "auto"
	FocusFixed = "fixed"
)

// Config holds CLI configuration for arscan.
type Config struct {
	Recording  string
	Loop       bool
	StatusFile string

	TickRate  float64
	QuitDelay time.Duration

	Orientation  string
	ScreenWidth  float64
	ScreenHeight float64

	FocusMode         string
	CameraConfigIndex int

	Decode     bool
	PublishURL string

	Overlay      bool
	OverlayDir   string
	OverlayEvery int

	StatsDir string
	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		TickRate:     30,
		QuitDelay:    500 * time.Millisecond,
		Orientation:  "portrait",
		ScreenWidth:  1080,
		ScreenHeight: 1920,
		FocusMode:    FocusAuto,
		Decode:       true,
		OverlayEvery: 30,
		StatsDir:     "", // Derived from the home directory during Validate
		LogLevel:     "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Recording == "" {
		return fmt.Errorf("%w: recording is required", domain.ErrInvalidConfig)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate must be positive", domain.ErrInvalidConfig)
	}
	if c.QuitDelay <= 0 {
		return fmt.Errorf("%w: quit delay must be positive", domain.ErrInvalidConfig)
	}
	if _, err := domain.ParseOrientation(c.Orientation); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("%w: screen size must be positive", domain.ErrInvalidConfig)
	}
	if c.FocusMode != FocusAuto && c.FocusMode != FocusFixed {
		return fmt.Errorf("%w: focus mode %q (want %s or %s)", domain.ErrInvalidConfig, c.FocusMode, FocusAuto, FocusFixed)
	}
	if c.CameraConfigIndex < 0 {
		return fmt.Errorf("%w: camera config index must not be negative", domain.ErrInvalidConfig)
	}
	if c.OverlayEvery < 1 {
		c.OverlayEvery = 1
	}
	if c.OverlayDir != "" {
		c.Overlay = true
	}
	if c.PublishURL != "" {
		u, err := url.Parse(c.PublishURL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			return fmt.Errorf("%w: publish url %q must be ws:// or wss://", domain.ErrInvalidConfig, c.PublishURL)
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level: %v", domain.ErrInvalidConfig, err)
	}

	if c.StatsDir == "" {
		if h, err := os.UserHomeDir(); err == nil {
			c.StatsDir = filepath.Join(h, ".arscan")
		}
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return nil
	}
	*dst = i
	return nil
}

// setFloatFromString parses a string to float64 and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
