package heatmap

import (
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"mammocad/pkg/segmentation"
)

// TestProcessNormalPath verifies that an informative heatmap is normalized
// and gamma-corrected without triggering the fallback
func TestProcessNormalPath(t *testing.T) {
	img := createTestImage(64, 64)
	mask := segmentation.FromImage(img, segmentation.DefaultThreshold)

	raw := NewGrid(16, 16)
	for i := range raw.Data {
		raw.Data[i] = float64(i) / float64(len(raw.Data)-1)
	}

	result := NewProcessor().Process(img, raw, mask)

	if result.UsedFallback {
		t.Error("Informative heatmap should not trigger the fallback")
	}
	if math.Abs(result.Normalized.Max()-1.0) > 1e-9 {
		t.Errorf("Expected normalized maximum 1.0, got %f", result.Normalized.Max())
	}
	min, _ := result.Normalized.Range()
	if math.Abs(min) > 1e-9 {
		t.Errorf("Expected normalized minimum 0.0, got %f", min)
	}

	// The input grid must not be mutated
	if math.Abs(raw.Data[1]-1.0/255.0) > 1e-9 {
		t.Error("Processing mutated the raw heatmap")
	}
}

// TestProcessDegenerateFallback verifies that a flat heatmap is replaced by
// the intensity-based fallback and that the substitute carries variation
func TestProcessDegenerateFallback(t *testing.T) {
	img := createTestImage(64, 64)
	mask := segmentation.FromImage(img, segmentation.DefaultThreshold)

	raw := NewGrid(16, 16)
	for i := range raw.Data {
		raw.Data[i] = 0.5
	}

	result := NewProcessor().Process(img, raw, mask)

	if !result.UsedFallback {
		t.Fatal("Flat heatmap should trigger the intensity-based fallback")
	}
	if result.Normalized.IsDegenerate() {
		t.Error("Fallback heatmap should carry meaningful variation")
	}
	if result.Normalized.Width != raw.Width || result.Normalized.Height != raw.Height {
		t.Errorf("Fallback heatmap has wrong dimensions: %dx%d",
			result.Normalized.Width, result.Normalized.Height)
	}
}

// TestOverlayBackgroundPassThrough verifies that background pixels are not
// blended and keep the original image content
func TestOverlayBackgroundPassThrough(t *testing.T) {
	img := createTestImage(64, 64)
	mask := segmentation.FromImage(img, segmentation.DefaultThreshold)

	heat := NewGrid(64, 64)
	for i := range heat.Data {
		heat.Data[i] = 1.0
	}

	out := Overlay(img, heat, mask, 0.5)

	// The left columns of the test image are pure background (intensity 0)
	for y := 0; y < 64; y++ {
		c := out.RGBAAt(0, y)
		if c.R != 0 || c.G != 0 || c.B != 0 {
			t.Fatalf("Background pixel (0, %d) was blended: got %v", y, c)
		}
	}

	// Tissue pixels must pick up heatmap color: full activation is
	// red-dominant under the jet map
	c := out.RGBAAt(63, 0)
	orig := color.GrayModel.Convert(img.At(63, 0)).(color.Gray)
	if c.R == orig.Y && c.G == orig.Y && c.B == orig.Y {
		t.Error("Tissue pixel was not blended with the heatmap")
	}
}

// TestColorizeDimensions verifies the standalone heatmap rendering
func TestColorizeDimensions(t *testing.T) {
	g := NewGrid(8, 6)
	g.Set(3, 2, 1.0)

	out := g.Colorize()
	if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 6 {
		t.Errorf("Expected 8x6 image, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}

	// The hot cell renders red-dominant, the cold cells blue-dominant
	hot := out.RGBAAt(3, 2)
	if hot.R <= hot.B {
		t.Errorf("Hot cell should be red-dominant, got %v", hot)
	}
	cold := out.RGBAAt(0, 0)
	if cold.B <= cold.R {
		t.Errorf("Cold cell should be blue-dominant, got %v", cold)
	}
}

// TestLoadCSV verifies heatmap parsing from CSV files
func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()

	t.Run("ValidFile", func(t *testing.T) {
		path := filepath.Join(dir, "valid.csv")
		content := "0.1,0.2,0.3\n0.4,0.5,0.6\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}

		g, err := LoadCSV(path)
		if err != nil {
			t.Fatalf("LoadCSV failed: %v", err)
		}
		if g.Width != 3 || g.Height != 2 {
			t.Errorf("Expected 3x2 grid, got %dx%d", g.Width, g.Height)
		}
		if math.Abs(g.At(2, 1)-0.6) > 1e-9 {
			t.Errorf("Expected cell (2,1) = 0.6, got %f", g.At(2, 1))
		}
	})

	t.Run("InconsistentRows", func(t *testing.T) {
		path := filepath.Join(dir, "ragged.csv")
		content := "0.1,0.2\n0.3\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}

		if _, err := LoadCSV(path); err == nil {
			t.Error("Expected error for inconsistent row lengths")
		}
	})

	t.Run("InvalidValue", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.csv")
		content := "0.1,abc\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}

		if _, err := LoadCSV(path); err == nil {
			t.Error("Expected error for non-numeric cell")
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := LoadCSV(filepath.Join(dir, "missing.csv")); err == nil {
			t.Error("Expected error for missing file")
		}
	})
}

// Helper functions for tests

// createTestImage builds a grayscale gradient image: intensity grows from
// left (0, background) to right (tissue).
func createTestImage(width, height int) image.Image {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x * 255 / (width - 1))
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}
