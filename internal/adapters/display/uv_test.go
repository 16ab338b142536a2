package display

import (
	"math"
	"testing"

	"github.com/bft-labs/arscan/internal/domain"
)

func near(a, b domain.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func nearUVs(a, b domain.DisplayUvTransform) bool {
	return near(a.TopLeft, b.TopLeft) && near(a.TopRight, b.TopRight) &&
		near(a.BottomLeft, b.BottomLeft) && near(a.BottomRight, b.BottomRight)
}

func TestComputeDisplayUVs(t *testing.T) {
	tests := []struct {
		name             string
		o                domain.Orientation
		screenW, screenH float64
		frameW, frameH   int
		want             domain.DisplayUvTransform
	}{
		{
			name: "landscape same aspect",
			o:    domain.OrientationLandscapeLeft, screenW: 1280, screenH: 960, frameW: 640, frameH: 480,
			want: domain.IdentityUVs,
		},
		{
			name: "landscape wide screen crops rows",
			o:    domain.OrientationLandscapeLeft, screenW: 1920, screenH: 1080, frameW: 640, frameH: 480,
			want: domain.DisplayUvTransform{
				TopLeft: domain.Vec2{X: 0, Y: 0.125}, TopRight: domain.Vec2{X: 1, Y: 0.125},
				BottomLeft: domain.Vec2{X: 0, Y: 0.875}, BottomRight: domain.Vec2{X: 1, Y: 0.875},
			},
		},
		{
			name: "landscape right flips",
			o:    domain.OrientationLandscapeRight, screenW: 1280, screenH: 960, frameW: 640, frameH: 480,
			want: domain.DisplayUvTransform{
				TopLeft: domain.Vec2{X: 1, Y: 1}, TopRight: domain.Vec2{X: 0, Y: 1},
				BottomLeft: domain.Vec2{X: 1, Y: 0}, BottomRight: domain.Vec2{X: 0, Y: 0},
			},
		},
		{
			name: "portrait tall screen crops columns and rotates",
			o:    domain.OrientationPortrait, screenW: 1080, screenH: 1920, frameW: 640, frameH: 480,
			want: domain.DisplayUvTransform{
				TopLeft: domain.Vec2{X: 0, Y: 0.875}, TopRight: domain.Vec2{X: 0, Y: 0.125},
				BottomLeft: domain.Vec2{X: 1, Y: 0.875}, BottomRight: domain.Vec2{X: 1, Y: 0.125},
			},
		},
		{
			name: "portrait upside down",
			o:    domain.OrientationPortraitUpsideDown, screenW: 480, screenH: 640, frameW: 640, frameH: 480,
			want: domain.DisplayUvTransform{
				TopLeft: domain.Vec2{X: 1, Y: 0}, TopRight: domain.Vec2{X: 1, Y: 1},
				BottomLeft: domain.Vec2{X: 0, Y: 0}, BottomRight: domain.Vec2{X: 0, Y: 1},
			},
		},
		{
			name: "zero screen",
			o:    domain.OrientationPortrait, screenW: 0, screenH: 1920, frameW: 640, frameH: 480,
			want: domain.IdentityUVs,
		},
		{
			name: "zero frame",
			o:    domain.OrientationLandscapeLeft, screenW: 1920, screenH: 1080, frameW: 0, frameH: 0,
			want: domain.IdentityUVs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDisplayUVs(tt.o, tt.screenW, tt.screenH, tt.frameW, tt.frameH)
			if !nearUVs(got, tt.want) {
				t.Errorf("ComputeDisplayUVs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStatic(t *testing.T) {
	d := NewStatic(domain.OrientationLandscapeLeft, 1920, 1080)
	if d.Orientation() != domain.OrientationLandscapeLeft {
		t.Errorf("Orientation() = %v", d.Orientation())
	}

	d.Rotate(domain.OrientationPortrait, 1080, 1920)
	w, h := d.ScreenSize()
	if w != 1080 || h != 1920 || d.Orientation() != domain.OrientationPortrait {
		t.Errorf("after Rotate: %v %vx%v", d.Orientation(), w, h)
	}

	want := ComputeDisplayUVs(domain.OrientationPortrait, 1080, 1920, 640, 480)
	if got := d.DisplayUVs(640, 480); got != want {
		t.Errorf("DisplayUVs() = %+v, want %+v", got, want)
	}
}
