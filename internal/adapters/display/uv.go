package display

import "github.com/bft-labs/arscan/internal/domain"

// ComputeDisplayUVs returns the image UV coordinates of the four display
// corners.
//
// The camera image is scaled to fill the screen and center-cropped to the
// screen aspect ratio. LandscapeLeft is the sensor's natural orientation;
// portrait orientations see the image rotated by a quarter turn. Degenerate
// sizes yield the identity mapping.
func ComputeDisplayUVs(o domain.Orientation, screenW, screenH float64, frameW, frameH int) domain.DisplayUvTransform {
	if screenW <= 0 || screenH <= 0 || frameW <= 0 || frameH <= 0 {
		return domain.IdentityUVs
	}

	imageAspect := float64(frameW) / float64(frameH)
	if rotated(o) {
		imageAspect = 1 / imageAspect
	}
	screenAspect := screenW / screenH

	// Visible window in display-aligned image coordinates.
	x0, x1, y0, y1 := 0.0, 1.0, 0.0, 1.0
	if imageAspect > screenAspect {
		f := screenAspect / imageAspect
		x0, x1 = (1-f)/2, (1+f)/2
	} else if imageAspect < screenAspect {
		f := imageAspect / screenAspect
		y0, y1 = (1-f)/2, (1+f)/2
	}

	return domain.DisplayUvTransform{
		TopLeft:     toImage(o, x0, y0),
		TopRight:    toImage(o, x1, y0),
		BottomLeft:  toImage(o, x0, y1),
		BottomRight: toImage(o, x1, y1),
	}
}

func rotated(o domain.Orientation) bool {
	return o == domain.OrientationPortrait || o == domain.OrientationPortraitUpsideDown
}

// toImage maps a display-aligned point to sensor UV space.
func toImage(o domain.Orientation, x, y float64) domain.Vec2 {
	switch o {
	case domain.OrientationPortrait:
		return domain.Vec2{X: y, Y: 1 - x}
	case domain.OrientationPortraitUpsideDown:
		return domain.Vec2{X: 1 - y, Y: x}
	case domain.OrientationLandscapeRight:
		return domain.Vec2{X: 1 - x, Y: 1 - y}
	default:
		return domain.Vec2{X: x, Y: y}
	}
}
