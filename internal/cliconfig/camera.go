package cliconfig

import "fmt"

// CameraConfig is one capture configuration offered by the camera.
type CameraConfig struct {
	Width  int
	Height int
	FPS    int
}

func (c CameraConfig) String() string {
	return fmt.Sprintf("%dx%d@%d", c.Width, c.Height, c.FPS)
}

// SelectCameraConfig returns the index of the configuration to use: the
// configured index clamped to the offered range, or -1 if none is offered.
func (c *Config) SelectCameraConfig(configs []CameraConfig) int {
	if len(configs) == 0 {
		return -1
	}
	i := c.CameraConfigIndex
	if i < 0 {
		return 0
	}
	if i >= len(configs) {
		return len(configs) - 1
	}
	return i
}
