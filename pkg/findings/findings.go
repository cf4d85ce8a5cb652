// Package findings assembles per-region classification results and
// whole-image aggregate descriptors into one structured findings record.
package findings

import (
	"mammocad/pkg/characterization"
	"mammocad/pkg/classification"
	"mammocad/pkg/view"
)

// BBox is a region bounding box in original-image pixel coordinates.
type BBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Size holds the region size metrics.
type Size struct {
	WidthPx        int     `json:"width_px"`
	HeightPx       int     `json:"height_px"`
	AreaPercentage float64 `json:"area_percentage"`
}

// Morphology describes the lesion silhouette.
type Morphology struct {
	Shape       string `json:"shape"`
	Description string `json:"description"`
}

// Density relates the region density to the surrounding tissue.
type Density struct {
	Level            string `json:"level"`
	RelativeToTissue string `json:"relative_to_tissue"`
}

// Vascularity is the inferred perfusion assessment.
type Vascularity struct {
	Assessment   string `json:"assessment"`
	Significance string `json:"significance"`
}

// TissueComposition describes the inferred tissue type of the region.
type TissueComposition struct {
	Type          string `json:"type"`
	Heterogeneity string `json:"heterogeneity"`
}

// Region is one localized suspicious finding.
type Region struct {
	// ID is 1-based, assigned after the confidence sort
	ID int `json:"id"`

	// Confidence is the adjusted confidence in percent
	Confidence float64 `json:"confidence"`

	Location        characterization.Location        `json:"location"`
	Size            Size                             `json:"size"`
	Shape           string                           `json:"shape"`
	Characteristics characterization.Characteristics `json:"characteristics"`

	LesionType     string   `json:"lesion_type"`
	LesionSubtypes []string `json:"lesion_subtypes"`
	Technique      string   `json:"technique"`
	Severity       string   `json:"severity"`

	Birads               string `json:"birads"`
	ClinicalSignificance string `json:"clinical_significance"`
	RecommendedAction    string `json:"recommended_action"`

	BBox              BBox                  `json:"bbox"`
	Morphology        Morphology            `json:"morphology"`
	Margin            classification.Margin `json:"margin"`
	Density           Density               `json:"density"`
	Vascularity       Vascularity           `json:"vascularity"`
	TissueComposition TissueComposition     `json:"tissue_composition"`
}

// Findings is the full per-request analysis record.
type Findings struct {
	NumRegions              int            `json:"num_regions"`
	OverallActivation       float64        `json:"overall_activation"`
	MaxActivation           float64        `json:"max_activation"`
	HighAttentionPercentage float64        `json:"high_attention_percentage"`
	Regions                 []Region       `json:"regions"`
	Summary                 string         `json:"summary"`
	ComprehensiveAnalysis   *Comprehensive `json:"comprehensive_analysis"`
	ViewAnalysis            *view.Analysis `json:"view_analysis,omitempty"`
}

// BreastDensity is the ACR-style whole-image density assessment.
type BreastDensity struct {
	Category          string `json:"category"`
	DensityPercentage int    `json:"density_percentage"`
	Sensitivity       string `json:"sensitivity"`
	MaskingRisk       string `json:"masking_risk"`
	Description       string `json:"description"`
	Detail            string `json:"detail"`
	Recommendation    string `json:"recommendation"`
}

// TissueTexture summarizes the parenchymal texture.
type TissueTexture struct {
	Pattern                string `json:"pattern"`
	PatternDetail          string `json:"pattern_detail"`
	UniformityScore        int    `json:"uniformity_score"`
	CoefficientOfVariation int    `json:"coefficient_of_variation"`
	Distribution           string `json:"distribution"`
	ClinicalNote           string `json:"clinical_note"`
}

// Symmetry is the whole-image symmetry assessment.
type Symmetry struct {
	Assessment            string `json:"assessment"`
	Detail                string `json:"detail"`
	SymmetryScore         int    `json:"symmetry_score"`
	AsymmetricAreaPercent int    `json:"asymmetric_area_percentage"`
	ClinicalSignificance  string `json:"clinical_significance"`
	Recommendation        string `json:"recommendation"`
}

// SkinNipple covers surface-level observations.
type SkinNipple struct {
	SkinStatus         string `json:"skin_status"`
	SkinThicknessScore int    `json:"skin_thickness_score"`
	SkinConcernLevel   string `json:"skin_concern_level"`
	NippleRetraction   string `json:"nipple_retraction"`
	Recommendation     string `json:"recommendation"`
}

// VascularPatterns summarizes vessel prominence.
type VascularPatterns struct {
	Pattern                string `json:"pattern"`
	VascularScore          int    `json:"vascular_score"`
	ProminentVesselPercent int    `json:"prominent_vessel_percentage"`
	Detail                 string `json:"detail"`
	ClinicalNote           string `json:"clinical_note"`
}

// PectoralMuscle grades positioning quality.
type PectoralMuscle struct {
	Visibility          string `json:"visibility"`
	VisibilityScore     int    `json:"visibility_score"`
	Quality             string `json:"quality"`
	PositioningAdequate bool   `json:"positioning_adequate"`
	Detail              string `json:"detail"`
	Recommendation      string `json:"recommendation"`
}

// ImageQuality is the technical adequacy score.
type ImageQuality struct {
	OverallScore      int    `json:"overall_score"`
	Positioning       string `json:"positioning"`
	TechnicalAdequacy string `json:"technical_adequacy"`
}

// CalcificationAnalysis summarizes detected calcifications.
type CalcificationAnalysis struct {
	Detected             bool   `json:"detected"`
	Count                int    `json:"count"`
	Distribution         string `json:"distribution"`
	DistributionDetail   string `json:"distribution_detail"`
	Morphology           string `json:"morphology"`
	MorphologyDetail     string `json:"morphology_detail"`
	BiradsCategory       string `json:"birads_category"`
	ClinicalSignificance string `json:"clinical_significance"`
	Recommendation       string `json:"recommendation"`
}

// Comprehensive is the whole-image aggregate analysis record.
type Comprehensive struct {
	BreastDensity         BreastDensity         `json:"breast_density"`
	TissueTexture         TissueTexture         `json:"tissue_texture"`
	Symmetry              Symmetry              `json:"symmetry"`
	SkinNipple            SkinNipple            `json:"skin_nipple"`
	VascularPatterns      VascularPatterns      `json:"vascular_patterns"`
	PectoralMuscle        PectoralMuscle        `json:"pectoral_muscle"`
	ImageQuality          ImageQuality          `json:"image_quality"`
	CalcificationAnalysis CalcificationAnalysis `json:"calcification_analysis"`
}
