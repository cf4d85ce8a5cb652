package view

import (
	"strings"
	"testing"
)

// TestDetectViewFromFilename verifies view and laterality token parsing
func TestDetectViewFromFilename(t *testing.T) {
	testCases := []struct {
		filename   string
		viewCode   string
		laterality string
		viewType   string
	}{
		{"patient_LMLO_2023.jpg", "L-MLO", "Left", "MLO (Medio-Lateral Oblique)"},
		{"R-MLO.png", "R-MLO", "Right", "MLO (Medio-Lateral Oblique)"},
		{"scan lcc final.jpg", "LCC", "Left", "CC (Cranio-Caudal)"},
		{"RCC_001.jpg", "RCC", "Right", "CC (Cranio-Caudal)"},
		{"study_MLO.jpg", "MLO", "Right", "MLO (Medio-Lateral Oblique)"},
		{"mammo_cc.png", "CC", "Right", "CC (Cranio-Caudal)"},
		{"image001.jpg", "N/A", "Right", "CC (Cranio-Caudal)"},
		{"", "N/A", "Right", "CC (Cranio-Caudal)"},
	}

	for _, tc := range testCases {
		a := Detect(tc.filename, 0.3, nil)
		if a.ViewCode != tc.viewCode {
			t.Errorf("%q: expected view code %q, got %q", tc.filename, tc.viewCode, a.ViewCode)
		}
		if a.Laterality != tc.laterality {
			t.Errorf("%q: expected laterality %q, got %q", tc.filename, tc.laterality, a.Laterality)
		}
		if a.ViewType != tc.viewType {
			t.Errorf("%q: expected view type %q, got %q", tc.filename, tc.viewType, a.ViewType)
		}
	}
}

// TestDetectSuspicionLevels verifies the confidence and abnormality-count
// grading
func TestDetectSuspicionLevels(t *testing.T) {
	testCases := []struct {
		name        string
		confidence  float64
		lesionTypes []string
		suspicion   string
		birads      string
	}{
		{"HighByConfidence", 0.8, nil, "High", "BI-RADS 4C/5 - Highly suspicious"},
		{"HighByCount", 0.2, []string{"Mass", "Mass", "Calcifications"}, "High", "BI-RADS 4C/5 - Highly suspicious"},
		{"IntermediateByConfidence", 0.6, nil, "Intermediate", "BI-RADS 4A/4B - Suspicious abnormality"},
		{"IntermediateByCount", 0.2, []string{"Mass"}, "Intermediate", "BI-RADS 4A/4B - Suspicious abnormality"},
		{"Low", 0.2, nil, "Low", "BI-RADS 1/2 - Negative/Benign"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := Detect("scan.jpg", tc.confidence, tc.lesionTypes)
			if a.SuspicionLevel != tc.suspicion {
				t.Errorf("Expected suspicion %q, got %q", tc.suspicion, a.SuspicionLevel)
			}
			if a.BiradsCategory != tc.birads {
				t.Errorf("Expected category %q, got %q", tc.birads, a.BiradsCategory)
			}
		})
	}
}

// TestDetectMassCount verifies the mass summary line
func TestDetectMassCount(t *testing.T) {
	a := Detect("scan.jpg", 0.5, []string{"Mass", "Calcifications", "Mass"})
	if a.Masses != "2 mass(es) detected" {
		t.Errorf("Expected mass count summary, got %q", a.Masses)
	}

	a = Detect("scan.jpg", 0.2, nil)
	if a.Masses != "No masses identified" {
		t.Errorf("Expected no-mass summary, got %q", a.Masses)
	}
}

// TestDetectConfidenceScore verifies the formatted confidence field
func TestDetectConfidenceScore(t *testing.T) {
	a := Detect("scan.jpg", 0.735, nil)
	if a.ConfidenceScore != "73.5%" {
		t.Errorf("Expected confidence score 73.5%%, got %q", a.ConfidenceScore)
	}
	if !strings.Contains(a.BreastDensity, "ACR Category B") {
		t.Errorf("Expected default density category, got %q", a.BreastDensity)
	}
}
