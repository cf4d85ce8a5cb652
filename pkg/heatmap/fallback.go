package heatmap

import (
	"image"
	"math"
)

// DegenerateRange is the value span below which a heatmap is considered
// uninformative: the classifier produced an essentially flat activation map.
const DegenerateRange = 0.01

// IsDegenerate reports whether the grid carries no meaningful variation.
func (g *Grid) IsDegenerate() bool {
	min, max := g.Range()
	return max-min < DegenerateRange
}

// IntensityFallback builds a replacement heatmap from the image itself when
// the classifier's activation map is degenerate. Bright tissue regions are
// emphasized: the grayscale image is resized to the heatmap resolution,
// normalized, smoothed with a Gaussian, gamma-corrected to lift bright
// areas, and re-normalized.
func IntensityFallback(img image.Image, width, height int, sigma, gamma float64) *Grid {
	gray := GrayFromImage(img)
	gray.Normalize()

	small := gray.Resize(width, height)
	small.Normalize()

	blurred := small.GaussianBlur(sigma)
	blurred.ApplyGamma(gamma)
	blurred.Normalize()

	return blurred
}

// GaussianBlur smooths the grid with a separable Gaussian kernel. The kernel
// radius is int(4*sigma + 0.5); borders are handled by reflection.
func (g *Grid) GaussianBlur(sigma float64) *Grid {
	if sigma <= 0 {
		return g.Clone()
	}

	radius := int(4*sigma + 0.5)
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	reflect := func(i, n int) int {
		for i < 0 || i >= n {
			if i < 0 {
				i = -i - 1
			}
			if i >= n {
				i = 2*n - 1 - i
			}
		}
		return i
	}

	// Horizontal pass
	tmp := NewGrid(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				acc += kernel[k+radius] * g.Data[y*g.Width+reflect(x+k, g.Width)]
			}
			tmp.Data[y*g.Width+x] = acc
		}
	}

	// Vertical pass
	out := NewGrid(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				acc += kernel[k+radius] * tmp.Data[reflect(y+k, g.Height)*g.Width+x]
			}
			out.Data[y*g.Width+x] = acc
		}
	}

	return out
}
