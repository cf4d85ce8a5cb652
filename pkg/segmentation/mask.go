// Package segmentation derives a tissue/background mask from raw pixel
// intensity so that downstream processing can ignore the empty film area
// around the imaged tissue.
package segmentation

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// DefaultThreshold is the intensity (0-255 scale) above which a pixel is
// considered tissue rather than background.
const DefaultThreshold = 15.0

// Mask is a boolean tissue map with the same resolution as the image it
// was computed from. True marks tissue, false marks background.
type Mask struct {
	// Bits holds the mask in row-major order (y*Width + x)
	Bits []bool

	// Width and Height are the mask dimensions in pixels
	Width  int
	Height int
}

// NewMask creates an all-background mask with the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		Bits:   make([]bool, width*height),
		Width:  width,
		Height: height,
	}
}

// FromImage computes a tissue mask from an image. Multi-channel pixels are
// reduced to grayscale by channel mean; a pixel is tissue when its intensity
// exceeds the threshold on a 0-255 scale. An all-background image yields an
// all-false mask.
func FromImage(img image.Image, threshold float64) *Mask {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	mask := NewMask(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Channel mean on a 0-255 scale (RGBA returns 16-bit values)
			gray := (float64(r) + float64(g) + float64(b)) / 3.0 / 257.0
			mask.Bits[y*width+x] = gray > threshold
		}
	}

	return mask
}

// At reports whether pixel (x, y) is tissue. Out-of-bounds coordinates
// report background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Set marks pixel (x, y) as tissue or background.
func (m *Mask) Set(x, y int, tissue bool) {
	m.Bits[y*m.Width+x] = tissue
}

// Resize scales the mask to the given dimensions using nearest-neighbor
// sampling, so the result stays strictly binary.
func (m *Mask) Resize(width, height int) *Mask {
	if width == m.Width && height == m.Height {
		out := NewMask(width, height)
		copy(out.Bits, m.Bits)
		return out
	}

	src := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Bits[y*m.Width+x] {
				src.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := NewMask(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Bits[y*width+x] = dst.GrayAt(x, y).Y > 127
		}
	}
	return out
}

// Coverage returns the fraction of tissue pixels inside the rectangle
// [x1, x2) x [y1, y2), clamped to the mask bounds. An empty rectangle
// reports zero coverage.
func (m *Mask) Coverage(x1, y1, x2, y2 int) float64 {
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > m.Width {
		x2 = m.Width
	}
	if y2 > m.Height {
		y2 = m.Height
	}
	if x2 <= x1 || y2 <= y1 {
		return 0
	}

	tissue := 0
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			if m.Bits[y*m.Width+x] {
				tissue++
			}
		}
	}
	return float64(tissue) / float64((x2-x1)*(y2-y1))
}
