package domain

import (
	"fmt"
	"strings"
)

// Vec2 is a 2D texture coordinate.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DisplayUvTransform holds the UV coordinates of the camera image that land on
// each corner of the display. Used to crop and rotate the packed frame so it
// matches the display aspect and orientation.
type DisplayUvTransform struct {
	TopLeft     Vec2 `json:"top_left"`
	TopRight    Vec2 `json:"top_right"`
	BottomLeft  Vec2 `json:"bottom_left"`
	BottomRight Vec2 `json:"bottom_right"`
}

// IdentityUVs maps the full image onto the display without rotation.
var IdentityUVs = DisplayUvTransform{
	TopLeft:     Vec2{0, 0},
	TopRight:    Vec2{1, 0},
	BottomLeft:  Vec2{0, 1},
	BottomRight: Vec2{1, 1},
}

// Orientation is the display orientation reported by the host.
type Orientation int

const (
	OrientationUnknown Orientation = iota
	OrientationPortrait
	OrientationPortraitUpsideDown
	OrientationLandscapeLeft
	OrientationLandscapeRight
)

// String returns a human-readable representation of the orientation.
func (o Orientation) String() string {
	switch o {
	case OrientationPortrait:
		return "portrait"
	case OrientationPortraitUpsideDown:
		return "portrait_upside_down"
	case OrientationLandscapeLeft:
		return "landscape_left"
	case OrientationLandscapeRight:
		return "landscape_right"
	default:
		return "unknown"
	}
}

// ParseOrientation parses the names produced by Orientation.String.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portrait":
		return OrientationPortrait, nil
	case "portrait_upside_down":
		return OrientationPortraitUpsideDown, nil
	case "landscape_left", "landscape":
		return OrientationLandscapeLeft, nil
	case "landscape_right":
		return OrientationLandscapeRight, nil
	case "unknown", "":
		return OrientationUnknown, nil
	}
	return OrientationUnknown, fmt.Errorf("unknown orientation %q", s)
}
