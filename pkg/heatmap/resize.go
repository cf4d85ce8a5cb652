package heatmap

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Resize scales the grid to the given dimensions using bilinear
// interpolation. Values are expected to be in the 0-1 range; they are
// carried through a 16-bit grayscale image to reuse the scaler.
func (g *Grid) Resize(width, height int) *Grid {
	if width == g.Width && height == g.Height {
		return g.Clone()
	}

	src := image.NewGray16(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			v := g.Data[y*g.Width+x]
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			src.SetGray16(x, y, color.Gray16{Y: uint16(v * 65535.0)})
		}
	}

	dst := image.NewGray16(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := NewGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Data[y*width+x] = float64(dst.Gray16At(x, y).Y) / 65535.0
		}
	}
	return out
}

// GrayFromImage reduces an image to a float grid by channel mean,
// keeping the 0-255 intensity scale.
func GrayFromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := NewGrid(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Data[y*width+x] = (float64(r) + float64(g) + float64(b)) / 3.0 / 257.0
		}
	}
	return out
}
