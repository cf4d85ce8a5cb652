package heatmap

import (
	"math"
	"testing"
)

// TestNormalize verifies min-max normalization rescales values to 0-1
func TestNormalize(t *testing.T) {
	g := NewGrid(4, 4)
	for i := range g.Data {
		g.Data[i] = float64(i) * 2.0
	}

	g.Normalize()

	min, max := g.Range()
	if math.Abs(min) > 1e-9 {
		t.Errorf("Expected minimum 0 after normalization, got %f", min)
	}
	if math.Abs(max-1.0) > 1e-9 {
		t.Errorf("Expected maximum 1 after normalization, got %f", max)
	}

	// Relative ordering must be preserved
	for i := 1; i < len(g.Data); i++ {
		if g.Data[i] <= g.Data[i-1] {
			t.Errorf("Normalization broke value ordering at index %d", i)
		}
	}
}

// TestNormalizeFlatGrid verifies that a constant grid is left unchanged
func TestNormalizeFlatGrid(t *testing.T) {
	g := NewGrid(3, 3)
	for i := range g.Data {
		g.Data[i] = 0.5
	}

	g.Normalize()

	for i, v := range g.Data {
		if v != 0.5 {
			t.Errorf("Flat grid value changed at index %d: got %f", i, v)
		}
	}
}

// TestApplyGamma verifies the gamma transform lifts mid-range values
func TestApplyGamma(t *testing.T) {
	g := NewGrid(2, 1)
	g.Data[0] = 0.25
	g.Data[1] = 1.0

	g.ApplyGamma(0.5)

	if math.Abs(g.Data[0]-0.5) > 1e-9 {
		t.Errorf("Expected 0.25^0.5 = 0.5, got %f", g.Data[0])
	}
	if math.Abs(g.Data[1]-1.0) > 1e-9 {
		t.Errorf("Expected 1.0 to stay fixed under gamma, got %f", g.Data[1])
	}
}

// TestGridStatistics verifies the mean, std, max and threshold fraction
func TestGridStatistics(t *testing.T) {
	g := NewGrid(2, 2)
	copy(g.Data, []float64{0.0, 0.2, 0.6, 0.8})

	if math.Abs(g.Mean()-0.4) > 1e-9 {
		t.Errorf("Expected mean 0.4, got %f", g.Mean())
	}
	if math.Abs(g.Max()-0.8) > 1e-9 {
		t.Errorf("Expected max 0.8, got %f", g.Max())
	}

	// Population std of {0, 0.2, 0.6, 0.8} around 0.4
	expectedStd := math.Sqrt((0.16 + 0.04 + 0.04 + 0.16) / 4)
	if math.Abs(g.Std()-expectedStd) > 1e-9 {
		t.Errorf("Expected std %f, got %f", expectedStd, g.Std())
	}

	// Two of four cells exceed 0.5
	if math.Abs(g.FractionAbove(0.5)-0.5) > 1e-9 {
		t.Errorf("Expected fraction above 0.5 to be 0.5, got %f", g.FractionAbove(0.5))
	}
}

// TestIsDegenerate verifies the flat-map detection threshold
func TestIsDegenerate(t *testing.T) {
	g := NewGrid(2, 2)
	for i := range g.Data {
		g.Data[i] = 0.5
	}
	if !g.IsDegenerate() {
		t.Error("Constant grid should be degenerate")
	}

	// Variation just under the cutoff still counts as degenerate
	g.Data[0] = 0.5 + 0.009
	if !g.IsDegenerate() {
		t.Error("Near-constant grid should be degenerate")
	}

	// Variation above the cutoff does not
	g.Data[0] = 0.6
	if g.IsDegenerate() {
		t.Error("Grid with 0.1 range should not be degenerate")
	}
}

// TestGaussianBlurSmoothing verifies that blurring reduces variance while
// approximately preserving the mean
func TestGaussianBlurSmoothing(t *testing.T) {
	g := NewGrid(16, 16)
	// Single impulse in the middle
	g.Set(8, 8, 1.0)

	blurred := g.GaussianBlur(2.0)

	if blurred.Std() >= g.Std() {
		t.Errorf("Blur should reduce variance: %f -> %f", g.Std(), blurred.Std())
	}
	if math.Abs(blurred.Mean()-g.Mean()) > 1e-4 {
		t.Errorf("Blur should preserve the mean: %f -> %f", g.Mean(), blurred.Mean())
	}

	// The impulse must spread to its neighbors
	if blurred.At(7, 8) <= 0 || blurred.At(8, 7) <= 0 {
		t.Error("Blur did not spread the impulse to neighboring cells")
	}
}

// TestGaussianBlurZeroSigma verifies that non-positive sigma is a no-op copy
func TestGaussianBlurZeroSigma(t *testing.T) {
	g := NewGrid(4, 4)
	g.Set(1, 1, 0.7)

	out := g.GaussianBlur(0)
	for i := range g.Data {
		if out.Data[i] != g.Data[i] {
			t.Errorf("Zero-sigma blur changed value at index %d", i)
		}
	}

	// Result is a copy, not the same backing array
	out.Data[0] = 9
	if g.Data[0] == 9 {
		t.Error("Zero-sigma blur returned the original grid instead of a copy")
	}
}

// TestResize verifies dimension changes and the same-size fast path
func TestResize(t *testing.T) {
	g := NewGrid(4, 4)
	for i := range g.Data {
		g.Data[i] = float64(i) / 15.0
	}

	up := g.Resize(8, 8)
	if up.Width != 8 || up.Height != 8 {
		t.Errorf("Expected 8x8, got %dx%d", up.Width, up.Height)
	}
	// Interpolated values stay in the input range
	min, max := up.Range()
	if min < 0 || max > 1 {
		t.Errorf("Resized values out of range: [%f, %f]", min, max)
	}

	same := g.Resize(4, 4)
	for i := range g.Data {
		if math.Abs(same.Data[i]-g.Data[i]) > 1e-9 {
			t.Errorf("Same-size resize changed value at index %d", i)
		}
	}
}

// TestJetColormap verifies the endpoints and midpoint of the jet ramp
func TestJetColormap(t *testing.T) {
	low := JetColor(0.0)
	if low.B <= low.R || low.B <= low.G {
		t.Errorf("Low activation should be blue-dominant, got R=%d G=%d B=%d", low.R, low.G, low.B)
	}

	high := JetColor(1.0)
	if high.R <= high.B || high.R <= high.G {
		t.Errorf("High activation should be red-dominant, got R=%d G=%d B=%d", high.R, high.G, high.B)
	}

	mid := JetColor(0.5)
	if mid.G != 255 {
		t.Errorf("Mid activation should saturate green, got G=%d", mid.G)
	}

	// Out-of-range values clamp to the endpoints
	if JetColor(-1) != low {
		t.Error("Negative value should clamp to the low endpoint")
	}
	if JetColor(2) != high {
		t.Error("Value above 1 should clamp to the high endpoint")
	}
}
