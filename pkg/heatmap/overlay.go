package heatmap

import (
	"image"
	"image/color"

	"mammocad/pkg/segmentation"
)

// Colorize renders the grid through the jet colormap into an RGB image of
// the same dimensions as the grid.
func (g *Grid) Colorize() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			out.SetRGBA(x, y, JetColor(g.Data[y*g.Width+x]))
		}
	}
	return out
}

// Overlay alpha-blends the colorized heatmap onto the original image inside
// tissue pixels only; background pixels pass the original image through
// unchanged. The grid and mask must match the image dimensions.
func Overlay(img image.Image, heat *Grid, mask *segmentation.Mask, alpha float64) *image.RGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			or := float64(r) / 257.0
			og := float64(g) / 257.0
			ob := float64(b) / 257.0

			if mask.At(x, y) {
				hc := JetColor(heat.At(x, y))
				or = (1-alpha)*or + alpha*float64(hc.R)
				og = (1-alpha)*og + alpha*float64(hc.G)
				ob = (1-alpha)*ob + alpha*float64(hc.B)
			}

			out.SetRGBA(x, y, color.RGBA{
				R: clamp8(or),
				G: clamp8(og),
				B: clamp8(ob),
				A: 255,
			})
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
