package annotate

import (
	"image"
	"image/color"
	"testing"

	"mammocad/pkg/findings"
)

// TestDrawNumberedRegions verifies box rendering and source preservation
func TestDrawNumberedRegions(t *testing.T) {
	img := testBackground(200, 200)
	regions := []findings.Region{{
		ID:         1,
		Confidence: 87.5,
		BBox:       findings.BBox{X1: 50, Y1: 60, X2: 150, Y2: 160},
	}}

	out := DrawNumberedRegions(img, regions)

	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 200 {
		t.Fatalf("Output dimensions changed: %v", out.Bounds())
	}

	// Box corners carry the default red
	for _, p := range [][2]int{{50, 60}, {150, 60}, {50, 160}, {150, 160}} {
		c := out.RGBAAt(p[0], p[1])
		if c != colorDefault {
			t.Errorf("Corner (%d, %d): expected box color, got %v", p[0], p[1], c)
		}
	}

	// Pixels well inside the box stay untouched
	center := out.RGBAAt(100, 110)
	if center.R != 40 || center.G != 40 || center.B != 40 {
		t.Errorf("Box interior was painted over: %v", center)
	}

	// The source image must not be modified
	if img.GrayAt(50, 60).Y != 40 {
		t.Error("Drawing modified the source image")
	}
}

// TestDrawTypedRegions verifies the severity palette
func TestDrawTypedRegions(t *testing.T) {
	img := testBackground(300, 300)
	regions := []findings.Region{
		{ID: 1, Confidence: 90, Severity: "high", LesionType: "Mass",
			BBox: findings.BBox{X1: 20, Y1: 40, X2: 80, Y2: 100}},
		{ID: 2, Confidence: 70, Severity: "medium", LesionType: "Calcifications",
			BBox: findings.BBox{X1: 120, Y1: 40, X2: 180, Y2: 100}},
		{ID: 3, Confidence: 40, Severity: "low", LesionType: "Breast tissue",
			BBox: findings.BBox{X1: 220, Y1: 40, X2: 280, Y2: 100}},
	}

	out := DrawTypedRegions(img, regions)

	if c := out.RGBAAt(20, 40); c != colorHigh {
		t.Errorf("High severity box: expected %v, got %v", colorHigh, c)
	}
	if c := out.RGBAAt(120, 40); c != colorMedium {
		t.Errorf("Medium severity box: expected %v, got %v", colorMedium, c)
	}
	if c := out.RGBAAt(220, 40); c != colorLow {
		t.Errorf("Low severity box: expected %v, got %v", colorLow, c)
	}
}

// TestLabelPlacement verifies labels go above the box when space allows
// and inside otherwise
func TestLabelPlacement(t *testing.T) {
	t.Run("AboveBox", func(t *testing.T) {
		img := testBackground(200, 200)
		regions := []findings.Region{{
			ID: 1, Confidence: 80,
			BBox: findings.BBox{X1: 40, Y1: 100, X2: 160, Y2: 180},
		}}

		out := DrawNumberedRegions(img, regions)

		// The label background sits in the band above the box
		found := false
		for y := 60; y < 94 && !found; y++ {
			for x := 40; x < 160; x++ {
				if out.RGBAAt(x, y) == colorDefault {
					found = true
					break
				}
			}
		}
		if !found {
			t.Error("Expected the label background above the box")
		}
	})

	t.Run("InsideBox", func(t *testing.T) {
		img := testBackground(200, 200)
		regions := []findings.Region{{
			ID: 1, Confidence: 80,
			BBox: findings.BBox{X1: 40, Y1: 2, X2: 160, Y2: 120},
		}}

		out := DrawNumberedRegions(img, regions)

		// No room above: the rows above the box keep the background
		for y := 0; y < 2; y++ {
			for x := 0; x < 40; x++ {
				c := out.RGBAAt(x, y)
				if c.R != 40 || c.G != 40 || c.B != 40 {
					t.Fatalf("Pixel (%d, %d) outside the box was painted: %v", x, y, c)
				}
			}
		}

		// The label background fills rows just under the top edge
		c := out.RGBAAt(50, 2+5+10)
		if c != colorDefault {
			t.Errorf("Expected the label background inside the box, got %v", c)
		}
	})
}

// TestSeverityColorFallback verifies unknown severities use the default
func TestSeverityColorFallback(t *testing.T) {
	if severityColor("") != colorDefault {
		t.Error("Empty severity should map to the default color")
	}
	if severityColor("moderate") != colorMedium {
		t.Error("Moderate should map to the medium color")
	}
}

// Helper functions for tests

// testBackground builds a uniform dark gray image
func testBackground(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: 40})
		}
	}
	return img
}
