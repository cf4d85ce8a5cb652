// Package view detects the mammographic view (CC or MLO) and laterality
// from the uploaded filename and summarizes the per-view impression.
package view

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Analysis is the per-view assessment attached to a findings record.
type Analysis struct {
	ViewType                 string `json:"view_type"`
	ViewCode                 string `json:"view_code"`
	Laterality               string `json:"laterality"`
	LateralityCode           string `json:"laterality_code"`
	ImageQuality             string `json:"image_quality"`
	QualityScore             int    `json:"quality_score"`
	BreastDensity            string `json:"breast_density"`
	Masses                   string `json:"masses"`
	Calcifications           string `json:"calcifications"`
	ArchitecturalDistortion  string `json:"architectural_distortion"`
	Asymmetry                string `json:"asymmetry"`
	SkinNippleChanges        string `json:"skin_nipple_changes"`
	AxillaryFindings         string `json:"axillary_findings"`
	PectoralMuscleVisibility string `json:"pectoral_muscle_visibility"`
	Impression               string `json:"impression"`
	BiradsCategory           string `json:"birads_category"`
	SuspicionLevel           string `json:"suspicion_level"`
	ConfidenceScore          string `json:"confidence_score"`
}

// Detect builds the view analysis from the filename, the model confidence
// and the lesion types of the detected regions. The filename is optional;
// without a recognizable view token the view code is reported as N/A with
// the default laterality.
func Detect(filename string, confidence float64, lesionTypes []string) *Analysis {
	viewType := "cc"
	viewCode := "N/A"
	laterality := "Right"
	lateralityCode := "R"

	if filename != "" {
		name := strings.ToUpper(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
		name = strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)

		switch {
		case strings.Contains(name, "LMLO"):
			viewCode, laterality, lateralityCode, viewType = "L-MLO", "Left", "L", "mlo"
		case strings.Contains(name, "RMLO"):
			viewCode, laterality, lateralityCode, viewType = "R-MLO", "Right", "R", "mlo"
		case strings.Contains(name, "LCC"):
			viewCode, laterality, lateralityCode, viewType = "LCC", "Left", "L", "cc"
		case strings.Contains(name, "RCC"):
			viewCode, laterality, lateralityCode, viewType = "RCC", "Right", "R", "cc"
		case strings.Contains(name, "MLO"):
			viewCode, viewType = "MLO", "mlo"
		case strings.Contains(name, "CC"):
			viewCode, viewType = "CC", "cc"
		}
	}

	abnormalities := len(lesionTypes)
	var suspicion, impression, birads string
	switch {
	case confidence >= 0.75 || abnormalities >= 3:
		suspicion = "High"
		impression = "Multiple suspicious findings requiring immediate workup"
		birads = "BI-RADS 4C/5 - Highly suspicious"
	case confidence >= 0.5 || abnormalities >= 1:
		suspicion = "Intermediate"
		impression = "Findings present that warrant further evaluation"
		birads = "BI-RADS 4A/4B - Suspicious abnormality"
	default:
		suspicion = "Low"
		impression = "No suspicious abnormality detected"
		birads = "BI-RADS 1/2 - Negative/Benign"
	}

	masses := "No masses identified"
	massCount := 0
	for _, t := range lesionTypes {
		if strings.Contains(t, "Mass") {
			massCount++
		}
	}
	if massCount > 0 {
		masses = fmt.Sprintf("%d mass(es) detected", massCount)
	}

	viewName := "CC (Cranio-Caudal)"
	if viewType == "mlo" {
		viewName = "MLO (Medio-Lateral Oblique)"
	}

	return &Analysis{
		ViewType:                 viewName,
		ViewCode:                 viewCode,
		Laterality:               laterality,
		LateralityCode:           lateralityCode,
		ImageQuality:             "Acceptable - Adequate for interpretation",
		QualityScore:             70,
		BreastDensity:            "ACR Category B - Scattered fibroglandular densities",
		Masses:                   masses,
		Calcifications:           "No suspicious calcifications",
		ArchitecturalDistortion:  "No architectural distortion identified",
		Asymmetry:                "No significant asymmetry",
		SkinNippleChanges:        "No skin or nipple abnormalities",
		AxillaryFindings:         "No suspicious axillary lymphadenopathy",
		PectoralMuscleVisibility: "Adequately visualized",
		Impression:               impression,
		BiradsCategory:           birads,
		SuspicionLevel:           suspicion,
		ConfidenceScore:          fmt.Sprintf("%.1f%%", confidence*100),
	}
}
