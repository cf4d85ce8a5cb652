// Package characterization computes per-region intensity statistics and
// morphological descriptors: density pattern, severity, shape and
// anatomical location.
package characterization

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"mammocad/internal/models"
	"mammocad/pkg/heatmap"
)

// Characteristics summarizes the activation distribution inside one region.
type Characteristics struct {
	// MeanIntensity is the average activation inside the region
	MeanIntensity float64 `json:"mean_intensity"`

	// MaxIntensity is the peak activation inside the region
	MaxIntensity float64 `json:"max_intensity"`

	// StdIntensity is the population standard deviation of the activation
	StdIntensity float64 `json:"std_intensity"`

	// Pattern classifies the intensity distribution: homogeneous,
	// slightly heterogeneous or heterogeneous
	Pattern string `json:"pattern"`

	// Severity grades the peak activation: low, medium or high
	Severity string `json:"severity"`
}

// Analyze crops the heatmap sub-region corresponding to the box (converted
// back to heatmap coordinates) and derives its intensity statistics. A box
// that maps to an empty heatmap crop yields zero-valued characteristics
// with the lowest pattern and severity grades.
func Analyze(heat *heatmap.Grid, box models.Box, scaleX, scaleY float64) Characteristics {
	hx1 := int(float64(box.X1) / scaleX)
	hy1 := int(float64(box.Y1) / scaleY)
	hx2 := int(float64(box.X2) / scaleX)
	hy2 := int(float64(box.Y2) / scaleY)

	if hx1 < 0 {
		hx1 = 0
	}
	if hy1 < 0 {
		hy1 = 0
	}
	if hx2 > heat.Width {
		hx2 = heat.Width
	}
	if hy2 > heat.Height {
		hy2 = heat.Height
	}

	var values []float64
	for y := hy1; y < hy2; y++ {
		for x := hx1; x < hx2; x++ {
			values = append(values, heat.At(x, y))
		}
	}

	c := Characteristics{}
	if len(values) > 0 {
		c.MeanIntensity = stat.Mean(values, nil)
		c.StdIntensity = stat.PopStdDev(values, nil)
		for _, v := range values {
			if v > c.MaxIntensity {
				c.MaxIntensity = v
			}
		}
	}

	switch {
	case c.StdIntensity < 0.1:
		c.Pattern = "homogeneous"
	case c.StdIntensity < 0.2:
		c.Pattern = "slightly heterogeneous"
	default:
		c.Pattern = "heterogeneous"
	}

	switch {
	case c.MaxIntensity > 0.9:
		c.Severity = "high"
	case c.MaxIntensity > 0.7:
		c.Severity = "medium"
	default:
		c.Severity = "low"
	}

	return c
}

// ShapeOf classifies a region's silhouette from its aspect ratio.
func ShapeOf(widthPx, heightPx int) string {
	ratio := 1.0
	if heightPx > 0 {
		ratio = float64(widthPx) / float64(heightPx)
	}
	switch {
	case ratio >= 0.8 && ratio <= 1.2:
		return "roughly circular"
	case ratio > 1.2:
		return "horizontally elongated"
	default:
		return "vertically elongated"
	}
}

// Location describes where a region sits within the image.
type Location struct {
	// Position combines the vertical and horizontal thirds,
	// e.g. "upper-lateral"
	Position string `json:"position"`

	// Quadrant is the named midpoint quadrant, e.g. "upper-outer quadrant"
	Quadrant string `json:"quadrant"`

	// Description is a human-readable form of position and quadrant
	Description string `json:"description"`
}

// Locate determines the anatomical location descriptors for a box:
// horizontal thirds map to lateral/central/medial, vertical thirds to
// upper/mid/lower, and the midpoint split names the quadrant.
func Locate(box models.Box, imgWidth, imgHeight int) Location {
	cx := float64(box.X1+box.X2) / 2
	cy := float64(box.Y1+box.Y2) / 2
	w := float64(imgWidth)
	h := float64(imgHeight)

	var hPos string
	switch {
	case cx < w*0.33:
		hPos = "lateral"
	case cx > w*0.67:
		hPos = "medial"
	default:
		hPos = "central"
	}

	var vPos string
	switch {
	case cy < h*0.33:
		vPos = "upper"
	case cy > h*0.67:
		vPos = "lower"
	default:
		vPos = "mid"
	}

	var quadrant string
	switch {
	case cx < w*0.5 && cy < h*0.5:
		quadrant = "upper-outer quadrant"
	case cx >= w*0.5 && cy < h*0.5:
		quadrant = "upper-inner quadrant"
	case cx < w*0.5 && cy >= h*0.5:
		quadrant = "lower-outer quadrant"
	default:
		quadrant = "lower-inner quadrant"
	}

	return Location{
		Position:    fmt.Sprintf("%s-%s", vPos, hPos),
		Quadrant:    quadrant,
		Description: fmt.Sprintf("%s %s region (%s)", vPos, hPos, quadrant),
	}
}
