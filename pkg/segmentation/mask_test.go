package segmentation

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// TestFromImage verifies the intensity threshold splits tissue from background
func TestFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 1))
	img.SetGray(0, 0, color.Gray{Y: 0})
	img.SetGray(1, 0, color.Gray{Y: 15})
	img.SetGray(2, 0, color.Gray{Y: 16})
	img.SetGray(3, 0, color.Gray{Y: 200})

	mask := FromImage(img, DefaultThreshold)

	// The threshold is strict: intensity 15 is still background
	expected := []bool{false, false, true, true}
	for x, want := range expected {
		if mask.At(x, 0) != want {
			t.Errorf("Pixel %d: expected tissue=%v, got %v", x, want, mask.At(x, 0))
		}
	}
}

// TestFromImageAllBackground verifies a dark image yields an empty mask
func TestFromImageAllBackground(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))

	mask := FromImage(img, DefaultThreshold)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if mask.At(x, y) {
				t.Fatalf("Expected all-background mask, but (%d, %d) is tissue", x, y)
			}
		}
	}
}

// TestAtOutOfBounds verifies out-of-bounds lookups report background
func TestAtOutOfBounds(t *testing.T) {
	mask := NewMask(4, 4)
	mask.Set(0, 0, true)

	outOfBounds := [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {100, 100}}
	for _, p := range outOfBounds {
		if mask.At(p[0], p[1]) {
			t.Errorf("Out-of-bounds lookup (%d, %d) should report background", p[0], p[1])
		}
	}
}

// TestResize verifies nearest-neighbor scaling keeps the mask binary and
// preserves the tissue region shape
func TestResize(t *testing.T) {
	// Tissue in the right half
	mask := NewMask(8, 8)
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			mask.Set(x, y, true)
		}
	}

	resized := mask.Resize(16, 16)
	if resized.Width != 16 || resized.Height != 16 {
		t.Fatalf("Expected 16x16 mask, got %dx%d", resized.Width, resized.Height)
	}

	// The half split must survive the upscale
	if resized.At(2, 8) {
		t.Error("Left half should remain background after resize")
	}
	if !resized.At(13, 8) {
		t.Error("Right half should remain tissue after resize")
	}

	// Same-size resize is a copy
	same := mask.Resize(8, 8)
	same.Set(0, 0, true)
	if mask.At(0, 0) {
		t.Error("Same-size resize returned the original mask instead of a copy")
	}
}

// TestCoverage verifies the tissue fraction calculation with clamping
func TestCoverage(t *testing.T) {
	// Tissue in the top-left 4x4 corner of an 8x8 mask
	mask := NewMask(8, 8)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			mask.Set(x, y, true)
		}
	}

	testCases := []struct {
		name           string
		x1, y1, x2, y2 int
		expected       float64
	}{
		{"FullTissue", 0, 0, 4, 4, 1.0},
		{"NoTissue", 4, 4, 8, 8, 0.0},
		{"HalfTissue", 0, 0, 8, 4, 0.5},
		{"ClampedOutOfBounds", -4, 0, 4, 4, 1.0},
		{"EmptyRectangle", 2, 2, 2, 2, 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := mask.Coverage(tc.x1, tc.y1, tc.x2, tc.y2)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Expected coverage %.2f, got %.2f", tc.expected, got)
			}
		})
	}
}
