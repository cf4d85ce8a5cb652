package heatmap

import (
	"image"

	"mammocad/pkg/segmentation"
)

// Processor normalizes raw activation maps and renders tissue-aware
// visualizations. It is a pure transform: the same inputs always produce
// the same outputs.
type Processor struct {
	// Alpha is the overlay blend factor for the heatmap layer
	Alpha float64

	// Gamma is the exponent applied after min-max normalization on the
	// normal path, for perceptual contrast
	Gamma float64

	// FallbackSigma is the Gaussian smoothing parameter used when building
	// the intensity-based fallback heatmap
	FallbackSigma float64

	// FallbackGamma is the exponent used by the fallback path to emphasize
	// bright regions
	FallbackGamma float64
}

// NewProcessor returns a processor with the default parameters.
func NewProcessor() *Processor {
	return &Processor{
		Alpha:         0.5,
		Gamma:         0.5,
		FallbackSigma: 3.0,
		FallbackGamma: 0.7,
	}
}

// Result carries the processed heatmap and its rendered forms.
type Result struct {
	// Normalized is the heatmap used by downstream region detection,
	// at the original heatmap resolution with values in 0-1
	Normalized *Grid

	// Overlay is the original image with the colorized heatmap blended
	// over tissue pixels
	Overlay *image.RGBA

	// Colorized is the standalone jet-colored heatmap at the original
	// image resolution
	Colorized *image.RGBA

	// UsedFallback reports whether the raw heatmap was degenerate and the
	// intensity-based fallback was substituted
	UsedFallback bool
}

// Process normalizes the raw heatmap (substituting the intensity-based
// fallback when the raw map is degenerate) and renders the tissue-aware
// overlay and the standalone colorized heatmap. The mask must match the
// image resolution.
func (p *Processor) Process(img image.Image, raw *Grid, mask *segmentation.Mask) *Result {
	bounds := img.Bounds()
	imgWidth := bounds.Dx()
	imgHeight := bounds.Dy()

	var normalized *Grid
	usedFallback := false

	if raw.IsDegenerate() {
		normalized = IntensityFallback(img, raw.Width, raw.Height, p.FallbackSigma, p.FallbackGamma)
		usedFallback = true
	} else {
		normalized = raw.Clone()
		normalized.Normalize()
		normalized.ApplyGamma(p.Gamma)
	}

	// Full-resolution copy for rendering, restricted to tissue
	full := normalized.Resize(imgWidth, imgHeight)
	for y := 0; y < imgHeight; y++ {
		for x := 0; x < imgWidth; x++ {
			if !mask.At(x, y) {
				full.Set(x, y, 0)
			}
		}
	}

	return &Result{
		Normalized:   normalized,
		Overlay:      Overlay(img, full, mask, p.Alpha),
		Colorized:    full.Colorize(),
		UsedFallback: usedFallback,
	}
}
