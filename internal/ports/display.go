package ports

import "github.com/bft-labs/arscan/internal/domain"

// Display reports the host display state and the runtime's image-to-display
// UV mapping for a frame of the given size.
type Display interface {
	Orientation() domain.Orientation
	ScreenSize() (width, height float64)
	DisplayUVs(frameWidth, frameHeight int) domain.DisplayUvTransform
}
