package models

// Box is a detected high-activation region expressed as a bounding box
// in original-image pixel coordinates.
type Box struct {
	// X1, Y1 is the top-left corner of the box (inclusive)
	X1, Y1 int

	// X2, Y2 is the bottom-right corner of the box
	X2, Y2 int

	// Confidence is the mean activation inside the connected component
	// that produced this box, in the 0-1 range
	Confidence float64
}

// Width returns the box width in pixels.
func (b Box) Width() int {
	return b.X2 - b.X1
}

// Height returns the box height in pixels.
func (b Box) Height() int {
	return b.Y2 - b.Y1
}

// Center returns the center pixel of the box.
func (b Box) Center() (x, y int) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// AreaPercentage returns the box area as a percentage of the full image area.
func (b Box) AreaPercentage(imgWidth, imgHeight int) float64 {
	if imgWidth <= 0 || imgHeight <= 0 {
		return 0
	}
	return float64(b.Width()*b.Height()) / float64(imgWidth*imgHeight) * 100
}

// AspectRatio returns width/height, or 1.0 for a degenerate height.
func (b Box) AspectRatio() float64 {
	if b.Height() <= 0 {
		return 1.0
	}
	return float64(b.Width()) / float64(b.Height())
}
