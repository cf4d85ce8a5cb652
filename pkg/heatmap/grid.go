// Package heatmap processes 2D activation maps produced by an image
// classifier: normalization, degenerate-map recovery, resizing, colorization
// and tissue-aware overlay rendering.
package heatmap

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Grid is a 2D float activation map stored in row-major order.
// Values are conceptually in the 0-1 range once normalized.
type Grid struct {
	// Data holds the cell values in row-major order (y*Width + x)
	Data []float64

	// Width and Height are the grid dimensions in cells
	Width  int
	Height int
}

// NewGrid creates a zero-valued grid with the given dimensions.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Data:   make([]float64, width*height),
		Width:  width,
		Height: height,
	}
}

// At returns the value at cell (x, y).
func (g *Grid) At(x, y int) float64 {
	return g.Data[y*g.Width+x]
}

// Set stores a value at cell (x, y).
func (g *Grid) Set(x, y int, v float64) {
	g.Data[y*g.Width+x] = v
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.Width, g.Height)
	copy(out.Data, g.Data)
	return out
}

// Range returns the minimum and maximum cell values.
// An empty grid reports (0, 0).
func (g *Grid) Range() (min, max float64) {
	if len(g.Data) == 0 {
		return 0, 0
	}
	min, max = g.Data[0], g.Data[0]
	for _, v := range g.Data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Mean returns the average cell value.
func (g *Grid) Mean() float64 {
	if len(g.Data) == 0 {
		return 0
	}
	return stat.Mean(g.Data, nil)
}

// Std returns the population standard deviation of the cell values.
func (g *Grid) Std() float64 {
	if len(g.Data) == 0 {
		return 0
	}
	return stat.PopStdDev(g.Data, nil)
}

// Max returns the maximum cell value.
func (g *Grid) Max() float64 {
	_, max := g.Range()
	return max
}

// FractionAbove returns the fraction of cells strictly above the threshold.
func (g *Grid) FractionAbove(threshold float64) float64 {
	if len(g.Data) == 0 {
		return 0
	}
	count := 0
	for _, v := range g.Data {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(g.Data))
}

// Normalize rescales the grid values to the 0-1 range in place using
// min-max normalization. A flat grid is left unchanged.
func (g *Grid) Normalize() {
	min, max := g.Range()
	if max <= min {
		return
	}
	span := max - min
	for i, v := range g.Data {
		g.Data[i] = (v - min) / span
	}
}

// ApplyGamma raises every cell value to the given exponent in place.
// Values are expected to already be in the 0-1 range.
func (g *Grid) ApplyGamma(gamma float64) {
	for i, v := range g.Data {
		g.Data[i] = math.Pow(v, gamma)
	}
}
