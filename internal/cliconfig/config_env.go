package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (ARSCAN_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("recording", os.Getenv("ARSCAN_RECORDING"), &cfg.Recording)
	s.setString("status-file", os.Getenv("ARSCAN_STATUS_FILE"), &cfg.StatusFile)
	s.setString("orientation", os.Getenv("ARSCAN_ORIENTATION"), &cfg.Orientation)
	s.setString("focus-mode", os.Getenv("ARSCAN_FOCUS_MODE"), &cfg.FocusMode)
	s.setString("publish-url", os.Getenv("ARSCAN_PUBLISH_URL"), &cfg.PublishURL)
	s.setString("overlay-dir", os.Getenv("ARSCAN_OVERLAY_DIR"), &cfg.OverlayDir)
	s.setString("stats-dir", os.Getenv("ARSCAN_STATS_DIR"), &cfg.StatsDir)
	s.setString("log-level", os.Getenv("ARSCAN_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("quit-delay", os.Getenv("ARSCAN_QUIT_DELAY"), &cfg.QuitDelay); err != nil {
		return err
	}

	if err := s.setFloatFromString("tick-rate", os.Getenv("ARSCAN_TICK_RATE"), &cfg.TickRate); err != nil {
		return err
	}
	if err := s.setFloatFromString("screen-width", os.Getenv("ARSCAN_SCREEN_WIDTH"), &cfg.ScreenWidth); err != nil {
		return err
	}
	if err := s.setFloatFromString("screen-height", os.Getenv("ARSCAN_SCREEN_HEIGHT"), &cfg.ScreenHeight); err != nil {
		return err
	}

	if err := s.setIntFromString("camera-config", os.Getenv("ARSCAN_CAMERA_CONFIG"), &cfg.CameraConfigIndex); err != nil {
		return err
	}
	if err := s.setIntFromString("overlay-every", os.Getenv("ARSCAN_OVERLAY_EVERY"), &cfg.OverlayEvery); err != nil {
		return err
	}

	s.setBoolFromString("loop", os.Getenv("ARSCAN_LOOP"), &cfg.Loop)
	s.setBoolFromString("decode", os.Getenv("ARSCAN_DECODE"), &cfg.Decode)
	s.setBoolFromString("overlay", os.Getenv("ARSCAN_OVERLAY"), &cfg.Overlay)

	return nil
}
