// Package detection extracts candidate lesion regions from a normalized
// activation heatmap by thresholding, connected-component labeling and
// tissue-aware filtering.
package detection

import (
	"sort"

	"mammocad/internal/models"
	"mammocad/pkg/heatmap"
	"mammocad/pkg/segmentation"
)

// Config controls region extraction.
type Config struct {
	// Threshold is the activation level above which a heatmap cell is
	// considered part of a candidate region
	Threshold float64

	// MinArea is the minimum region area in original-image pixels
	MinArea float64

	// MinTissueOccupancy is the minimum fraction of tissue pixels a box
	// must cover in original-image coordinates to be retained
	MinTissueOccupancy float64

	// MaxRegions caps how many regions are retained after the
	// confidence sort
	MaxRegions int
}

// DefaultConfig returns the standard detection parameters.
func DefaultConfig() Config {
	return Config{
		Threshold:          0.5,
		MinArea:            50,
		MinTissueOccupancy: 0.4,
		MaxRegions:         10,
	}
}

// Detector finds high-activation regions in heatmap space and reports them
// as bounding boxes in original-image coordinates.
type Detector struct {
	cfg Config
}

// NewDetector creates a detector with the given configuration.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Detect thresholds the heatmap, labels connected components, converts
// component extents to original-image coordinates and filters the result:
// components below the minimum area are discarded, as are boxes whose
// center falls outside tissue or whose tissue occupancy is below the
// configured minimum. The surviving boxes are sorted by descending
// confidence and capped at MaxRegions.
func (d *Detector) Detect(heat *heatmap.Grid, imgWidth, imgHeight int, mask *segmentation.Mask) []models.Box {
	scaleX := float64(imgWidth) / float64(heat.Width)
	scaleY := float64(imgHeight) / float64(heat.Height)

	// Restrict detection to tissue: zero out heatmap cells whose
	// nearest-neighbor mask sample is background
	work := heat.Clone()
	smallMask := mask.Resize(heat.Width, heat.Height)
	for y := 0; y < work.Height; y++ {
		for x := 0; x < work.Width; x++ {
			if !smallMask.At(x, y) {
				work.Set(x, y, 0)
			}
		}
	}

	components := labelComponents(work, d.cfg.Threshold)

	minCells := d.cfg.MinArea / (scaleX * scaleY)
	var boxes []models.Box
	for _, comp := range components {
		if float64(len(comp.cells)) < minCells {
			continue
		}

		box := models.Box{
			X1:         int(float64(comp.minX) * scaleX),
			Y1:         int(float64(comp.minY) * scaleY),
			X2:         int(float64(comp.maxX) * scaleX),
			Y2:         int(float64(comp.maxY) * scaleY),
			Confidence: comp.sum / float64(len(comp.cells)),
		}

		if !d.keep(box, imgWidth, imgHeight, mask) {
			continue
		}
		boxes = append(boxes, box)
	}

	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].Confidence > boxes[j].Confidence
	})
	if len(boxes) > d.cfg.MaxRegions {
		boxes = boxes[:d.cfg.MaxRegions]
	}
	return boxes
}

// keep applies the original-image-coordinate filters: in-bounds nonzero
// extent, center on tissue, and minimum tissue occupancy inside the box.
func (d *Detector) keep(box models.Box, imgWidth, imgHeight int, mask *segmentation.Mask) bool {
	x1, y1 := box.X1, box.Y1
	x2, y2 := box.X2, box.Y2
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > imgWidth-1 {
		x2 = imgWidth - 1
	}
	if y2 > imgHeight-1 {
		y2 = imgHeight - 1
	}
	if x2 <= x1 || y2 <= y1 {
		return false
	}

	cx, cy := (x1+x2)/2, (y1+y2)/2
	if !mask.At(cx, cy) {
		return false
	}

	return mask.Coverage(x1, y1, x2, y2) >= d.cfg.MinTissueOccupancy
}

// component accumulates the cells of one connected region in heatmap space.
type component struct {
	cells                  []int
	minX, minY, maxX, maxY int
	sum                    float64
}

// labelComponents runs 4-connectivity connected-component labeling over the
// cells strictly above the threshold.
func labelComponents(g *heatmap.Grid, threshold float64) []*component {
	width, height := g.Width, g.Height
	visited := make([]bool, width*height)
	var components []*component

	for start := 0; start < width*height; start++ {
		if visited[start] || g.Data[start] <= threshold {
			continue
		}

		comp := &component{
			minX: start % width, maxX: start % width,
			minY: start / width, maxY: start / width,
		}
		stack := []int{start}
		visited[start] = true

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			x, y := idx%width, idx/width
			comp.cells = append(comp.cells, idx)
			comp.sum += g.Data[idx]
			if x < comp.minX {
				comp.minX = x
			}
			if x > comp.maxX {
				comp.maxX = x
			}
			if y < comp.minY {
				comp.minY = y
			}
			if y > comp.maxY {
				comp.maxY = y
			}

			for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
				nx, ny := n[0], n[1]
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				nidx := ny*width + nx
				if !visited[nidx] && g.Data[nidx] > threshold {
					visited[nidx] = true
					stack = append(stack, nidx)
				}
			}
		}

		components = append(components, comp)
	}

	return components
}
