package classification

import (
	"fmt"
	"strings"
)

// Margin describes the inferred lesion margin and its risk grade.
type Margin struct {
	// Type is the margin morphology: Spiculated, Irregular/Indistinct
	// or Circumscribed
	Type string `json:"type"`

	// RiskLevel grades the margin suspicion: High, Moderate or Low
	RiskLevel string `json:"risk_level"`

	// Description is the report sentence for this margin
	Description string `json:"description"`
}

// MarginFor derives the margin type from the adjusted confidence.
func MarginFor(adjustedConfidence float64) Margin {
	var marginType, risk string
	switch {
	case adjustedConfidence > 80:
		marginType, risk = "Spiculated", "High"
	case adjustedConfidence > 60:
		marginType, risk = "Irregular/Indistinct", "Moderate"
	default:
		marginType, risk = "Circumscribed", "Low"
	}
	return Margin{
		Type:        marginType,
		RiskLevel:   risk,
		Description: fmt.Sprintf("%s margins suggest %s suspicion", marginType, strings.ToLower(risk)),
	}
}

// BiradsFor maps adjusted confidence plus the severity/margin-risk
// combination to a BI-RADS code. The code is monotonically non-decreasing
// in confidence for a fixed severity and margin risk.
func BiradsFor(adjustedConfidence float64, severity, marginRisk string) string {
	switch {
	case adjustedConfidence >= 90 || (severity == "high" && marginRisk == "High"):
		return "5"
	case adjustedConfidence >= 75 || (severity == "high" && (marginRisk == "High" || marginRisk == "Moderate")):
		return "4C"
	case adjustedConfidence >= 60 || (severity == "medium" && marginRisk == "Moderate"):
		return "4B"
	case adjustedConfidence >= 45 || (severity == "medium" && marginRisk == "Low"):
		return "4A"
	case adjustedConfidence >= 30 || severity == "low":
		return "3"
	default:
		return "2"
	}
}

// ClinicalSignificanceFor returns the fixed report text for a BI-RADS code.
func ClinicalSignificanceFor(birads string) string {
	switch birads {
	case "5":
		return "Highly suspicious for malignancy - immediate intervention required"
	case "4C":
		return "High suspicion for malignancy - strong recommendation for biopsy"
	case "4B":
		return "Intermediate suspicion - malignancy possible, tissue diagnosis indicated"
	case "4A":
		return "Low suspicion for malignancy - biopsy should be considered"
	case "3":
		return "Probably benign finding - short interval follow-up suggested"
	default:
		return "Benign finding - routine screening recommended"
	}
}

// RecommendedActionFor returns the fixed action text for a BI-RADS code,
// refined by lesion size and type for the intermediate categories.
func RecommendedActionFor(birads string, areaPercentage float64, primaryType string) string {
	switch birads {
	case "5":
		return "Urgent biopsy (core needle or surgical) and oncology referral"
	case "4C":
		return "Tissue diagnosis via core needle biopsy within 1-2 weeks"
	case "4B":
		if areaPercentage > 2 {
			return "Core needle biopsy recommended - larger lesion requires sampling"
		}
		return "Core needle biopsy or short-interval (3-6 month) follow-up"
	case "4A":
		if strings.Contains(strings.ToLower(primaryType), "calcification") {
			return "Consider stereotactic biopsy for calcifications"
		}
		return "Biopsy consideration or 6-month short-interval follow-up"
	case "3":
		return "Short-interval follow-up mammogram in 6 months"
	default:
		return "Continue routine annual screening"
	}
}

// MorphologyShapeFor maps the silhouette class to a morphology label.
func MorphologyShapeFor(shape string) string {
	switch {
	case shape == "roughly circular":
		return "Round/Oval"
	case strings.Contains(shape, "elongated"):
		return "Irregular"
	default:
		return "Lobular"
	}
}

// DensityLevelFor grades the region density from its mean activation.
func DensityLevelFor(meanIntensity float64) string {
	switch {
	case meanIntensity > 0.8:
		return "High density"
	case meanIntensity > 0.5:
		return "Equal density"
	default:
		return "Low density"
	}
}

// VascularityFor derives the vascularity assessment from the intensity
// pattern, with its report significance text.
func VascularityFor(pattern string) (assessment, significance string) {
	switch pattern {
	case "heterogeneous":
		assessment = "Increased"
	case "slightly heterogeneous":
		assessment = "Moderate"
	default:
		assessment = "Normal"
	}
	if assessment == "Increased" {
		significance = "May indicate active lesion"
	} else {
		significance = "Normal perfusion pattern"
	}
	return assessment, significance
}

// TissueCompositionFor infers the tissue type from the lesion category
// and region size.
func TissueCompositionFor(primaryType string, areaPercentage float64) string {
	switch {
	case strings.Contains(strings.ToLower(primaryType), "calcification"):
		return "Calcified"
	case areaPercentage > 2:
		return "Fibroglandular"
	default:
		return "Mixed density"
	}
}
