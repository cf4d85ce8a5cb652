package findings

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"mammocad/internal/models"
	"mammocad/pkg/characterization"
	"mammocad/pkg/classification"
	"mammocad/pkg/heatmap"
)

// Aggregator builds the findings record from the processed heatmap and the
// detected boxes. It holds no state across requests.
type Aggregator struct{}

// NewAggregator creates an aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Build characterizes and classifies every detected box, sorts the regions
// by adjusted confidence, and derives the whole-image aggregate analysis
// and summary. confidence is the model's malignancy probability in 0-1.
func (a *Aggregator) Build(heat *heatmap.Grid, boxes []models.Box, imgWidth, imgHeight int, confidence float64) *Findings {
	scaleX := float64(imgWidth) / float64(heat.Width)
	scaleY := float64(imgHeight) / float64(heat.Height)

	f := &Findings{
		NumRegions:              len(boxes),
		OverallActivation:       heat.Mean(),
		MaxActivation:           heat.Max(),
		HighAttentionPercentage: heat.FractionAbove(0.5) * 100,
		Regions:                 make([]Region, 0, len(boxes)),
	}

	for i, box := range boxes {
		f.Regions = append(f.Regions, a.buildRegion(heat, box, i, imgWidth, imgHeight, scaleX, scaleY))
	}

	// Region IDs follow the adjusted-confidence order, not detection order
	sort.SliceStable(f.Regions, func(i, j int) bool {
		return f.Regions[i].Confidence > f.Regions[j].Confidence
	})
	for i := range f.Regions {
		f.Regions[i].ID = i + 1
	}

	f.Summary = a.summarize(f.Regions, confidence)
	f.ComprehensiveAnalysis = a.comprehensive(heat, f.Regions, confidence)

	return f
}

// buildRegion derives the full region record for one detected box.
// index is the 0-based detection order, which keys the classifier's
// round-robin fallback.
func (a *Aggregator) buildRegion(heat *heatmap.Grid, box models.Box, index, imgWidth, imgHeight int, scaleX, scaleY float64) Region {
	chars := characterization.Analyze(heat, box, scaleX, scaleY)
	location := characterization.Locate(box, imgWidth, imgHeight)
	shape := characterization.ShapeOf(box.Width(), box.Height())
	areaPct := math.Round(box.AreaPercentage(imgWidth, imgHeight)*100) / 100

	cls := classification.Classify(classification.Features{
		AreaPercentage: areaPct,
		AspectRatio:    box.AspectRatio(),
		MaxIntensity:   chars.MaxIntensity,
		Pattern:        chars.Pattern,
		Severity:       chars.Severity,
		RegionIndex:    index,
	})

	adjusted := classification.AdjustConfidence(box.Confidence, cls.ConfidenceModifier)
	margin := classification.MarginFor(adjusted)
	birads := classification.BiradsFor(adjusted, chars.Severity, margin.RiskLevel)
	morphShape := classification.MorphologyShapeFor(shape)
	vascAssessment, vascSignificance := classification.VascularityFor(chars.Pattern)

	relative := "Similar to surrounding tissue"
	if chars.MeanIntensity > 0.6 {
		relative = "Higher than surrounding tissue"
	}

	return Region{
		Confidence:      adjusted,
		Location:        location,
		Size:            Size{WidthPx: box.Width(), HeightPx: box.Height(), AreaPercentage: areaPct},
		Shape:           shape,
		Characteristics: chars,
		LesionType:      cls.PrimaryType,
		LesionSubtypes:  cls.Subtypes,
		Technique:       cls.Technique,
		Severity:        chars.Severity,

		Birads:               birads,
		ClinicalSignificance: classification.ClinicalSignificanceFor(birads),
		RecommendedAction:    classification.RecommendedActionFor(birads, areaPct, cls.PrimaryType),

		BBox: BBox{X1: box.X1, Y1: box.Y1, X2: box.X2, Y2: box.Y2},
		Morphology: Morphology{
			Shape:       morphShape,
			Description: fmt.Sprintf("%s lesion with %s margins", morphShape, strings.ToLower(margin.Type)),
		},
		Margin: margin,
		Density: Density{
			Level:            classification.DensityLevelFor(chars.MeanIntensity),
			RelativeToTissue: relative,
		},
		Vascularity: Vascularity{
			Assessment:   vascAssessment,
			Significance: vascSignificance,
		},
		TissueComposition: TissueComposition{
			Type:          classification.TissueCompositionFor(cls.PrimaryType, areaPct),
			Heterogeneity: chars.Pattern,
		},
	}
}

// summarize produces the one-to-three-sentence natural-language summary.
func (a *Aggregator) summarize(regions []Region, confidence float64) string {
	switch len(regions) {
	case 0:
		if confidence > 0.5 {
			return "Diffuse abnormal patterns detected across the tissue without distinct focal masses."
		}
		return "No distinct suspicious regions identified. Tissue appears uniform and normal."
	case 1:
		r := regions[0]
		return fmt.Sprintf(
			"Single suspicious region detected in the %s with %.1f%% confidence. The lesion appears %s and shows %s density pattern.",
			r.Location.Description, r.Confidence, r.Shape, r.Characteristics.Pattern)
	default:
		// Distinct quadrants in first-seen order keeps the summary
		// deterministic for identical inputs
		seen := make(map[string]bool)
		var quadrants []string
		for _, r := range regions {
			if !seen[r.Location.Quadrant] {
				seen[r.Location.Quadrant] = true
				quadrants = append(quadrants, r.Location.Quadrant)
			}
		}
		return fmt.Sprintf(
			"Multiple suspicious regions (%d) detected across %s. This multi-focal pattern warrants immediate clinical evaluation.",
			len(regions), strings.Join(quadrants, ", "))
	}
}

// comprehensive derives the whole-image aggregate descriptors from the
// processed heatmap statistics and the region list.
func (a *Aggregator) comprehensive(heat *heatmap.Grid, regions []Region, confidence float64) *Comprehensive {
	avgIntensity := heat.Mean() * 100

	density := breastDensityFor(avgIntensity)
	texture := tissueTextureFor(avgIntensity, heat)
	symmetry := symmetryFor(avgIntensity)

	vascularScore := 30 + int(avgIntensity*0.4)
	if vascularScore > 60 {
		vascularScore = 60
	}
	vascularPattern := "Normal"
	if avgIntensity > 55 {
		vascularPattern = "Moderately Prominent"
	}
	vascularDetail := "Vascular patterns within normal limits"
	if vascularScore >= 50 {
		vascularDetail = "Mildly prominent vascular markings"
	}
	prominentVessels := int(avgIntensity * 0.5)
	if prominentVessels > 35 {
		prominentVessels = 35
	}

	quality := 45 + int((100-avgIntensity)*0.4)
	if quality > 90 {
		quality = 90
	}
	positioning := "Suboptimal"
	if quality >= 50 {
		positioning = "Acceptable"
	}
	technical := "Borderline"
	if quality >= 60 {
		technical = "Adequate"
	}

	skinRecommendation := "Continue routine self-examination and clinical breast exams"
	if confidence > 0.5 && len(regions) > 0 {
		skinRecommendation = "Clinical breast examination to assess for skin changes or nipple abnormalities"
	}

	return &Comprehensive{
		BreastDensity: density,
		TissueTexture: texture,
		Symmetry:      symmetry,
		SkinNipple: SkinNipple{
			SkinStatus:       "Normal",
			SkinConcernLevel: "None",
			NippleRetraction: "No retraction detected",
			Recommendation:   skinRecommendation,
		},
		VascularPatterns: VascularPatterns{
			Pattern:                vascularPattern,
			VascularScore:          vascularScore,
			ProminentVesselPercent: prominentVessels,
			Detail:                 vascularDetail,
			ClinicalNote:           "Consider correlation with clinical findings",
		},
		PectoralMuscle:        pectoralFor(quality),
		ImageQuality:          ImageQuality{OverallScore: quality, Positioning: positioning, TechnicalAdequacy: technical},
		CalcificationAnalysis: calcificationsFor(regions),
	}
}

// breastDensityFor maps average activation to an ACR-style density
// category with its fixed sensitivity and masking-risk text.
func breastDensityFor(avgIntensity float64) BreastDensity {
	var category, sensitivity, maskingRisk, detail, recommendation string
	switch {
	case avgIntensity > 70:
		category, sensitivity, maskingRisk = "D", "Low (30-40%)", "High"
		detail = "Extremely dense breast tissue limits mammographic sensitivity. Consider supplemental screening with ultrasound or MRI."
		recommendation = "Supplemental screening (ultrasound/MRI) recommended annually. Continue annual mammograms."
	case avgIntensity > 55:
		category, sensitivity, maskingRisk = "C", "Moderate (60-70%)", "Moderate"
		detail = "Heterogeneously dense tissue may obscure small masses. Enhanced imaging may be beneficial."
		recommendation = "Consider supplemental ultrasound screening. Continue annual mammograms."
	case avgIntensity > 40:
		category, sensitivity, maskingRisk = "B", "Good (80-90%)", "Low"
		detail = "Scattered fibroglandular tissue with good mammographic sensitivity. Standard screening is appropriate."
		recommendation = "Continue routine annual screening mammography."
	default:
		category, sensitivity, maskingRisk = "A", "Excellent (>90%)", "Minimal"
		detail = "Almost entirely fatty breast tissue provides excellent mammographic visualization."
		recommendation = "Continue routine screening per guidelines. Excellent imaging sensitivity."
	}
	return BreastDensity{
		Category:          category,
		DensityPercentage: int(avgIntensity),
		Sensitivity:       sensitivity,
		MaskingRisk:       maskingRisk,
		Description:       fmt.Sprintf("Scattered fibroglandular densities - %s masking risk", strings.ToLower(maskingRisk)),
		Detail:            detail,
		Recommendation:    recommendation,
	}
}

func tissueTextureFor(avgIntensity float64, heat *heatmap.Grid) TissueTexture {
	var pattern string
	var uniformity int
	switch {
	case avgIntensity > 60:
		pattern = "Mildly Heterogeneous"
		uniformity = 85 - int(avgIntensity*0.3)
	case avgIntensity > 40:
		pattern = "Homogeneous"
		uniformity = 92
	default:
		pattern = "Predominantly Fatty"
		uniformity = 95
	}

	cov := 0
	if mean := heat.Mean(); mean > 0 {
		cov = int(heat.Std() / mean * 100)
	}
	var distribution string
	switch {
	case cov > 40:
		distribution = "Heterogeneous - variable density throughout"
	case cov > 20:
		distribution = "Moderately uniform with some variation"
	default:
		distribution = "Homogeneous - uniform density pattern"
	}

	return TissueTexture{
		Pattern:                pattern,
		PatternDetail:          "Normal parenchymal pattern with typical fibroglandular elements",
		UniformityScore:        uniformity,
		CoefficientOfVariation: cov,
		Distribution:           distribution,
		ClinicalNote:           "Minor density variations are common and usually benign",
	}
}

func symmetryFor(avgIntensity float64) Symmetry {
	score := 100 - int(avgIntensity*0.5)
	if score < 50 {
		score = 50
	}

	var assessment string
	switch {
	case score >= 85:
		assessment = "Symmetric"
	case score >= 70:
		assessment = "Mildly Asymmetric"
	default:
		assessment = "Moderately Asymmetric"
	}

	detail := "Mild architectural asymmetry noted"
	if score >= 85 {
		detail = "Bilateral breast parenchyma shows symmetric density distribution"
	}

	var recommendation string
	switch {
	case score < 70:
		recommendation = "Follow-up imaging or clinical correlation recommended to assess asymmetry"
	case score < 85:
		recommendation = "Mild asymmetry noted - routine monitoring acceptable"
	default:
		recommendation = "No additional action needed - symmetric appearance"
	}

	return Symmetry{
		Assessment:            assessment,
		Detail:                detail,
		SymmetryScore:         score,
		AsymmetricAreaPercent: 100 - score,
		ClinicalSignificance:  "Mild asymmetry is common and usually benign",
		Recommendation:        recommendation,
	}
}

func pectoralFor(quality int) PectoralMuscle {
	visibility := "Partially Visible"
	muscleQuality := "Suboptimal positioning"
	recommendation := "Consider repeat imaging with improved positioning"
	if quality >= 60 {
		visibility = "Adequately Visualized"
		muscleQuality = "Acceptable positioning"
		recommendation = "Adequate for evaluation"
	}
	detail := "Pectoral muscle partially visualized"
	if quality >= 70 {
		detail = "Pectoral muscle extends to nipple level"
	}
	score := quality + 10
	if score > 85 {
		score = 85
	}
	return PectoralMuscle{
		Visibility:          visibility,
		VisibilityScore:     score,
		Quality:             muscleQuality,
		PositioningAdequate: quality >= 60,
		Detail:              detail,
		Recommendation:      recommendation,
	}
}

// calcificationsFor triggers the calcification summary when more than five
// regions exist or any region is typed as calcifications.
func calcificationsFor(regions []Region) CalcificationAnalysis {
	count := 0
	for _, r := range regions {
		if strings.Contains(r.LesionType, "Calcification") {
			count++
		}
	}
	detected := len(regions) > 5 || count > 0
	if !detected {
		return CalcificationAnalysis{
			Distribution:         "None",
			Morphology:           "N/A",
			BiradsCategory:       "N/A",
			ClinicalSignificance: "No calcifications detected",
			Recommendation:       "No action needed",
		}
	}

	distribution := "Clustered"
	distributionDetail := "Grouped calcifications in a specific region"
	if count > 50 {
		distribution = "Diffuse/Scattered"
		distributionDetail = "Multiple calcifications distributed throughout breast tissue"
	}

	birads := "4"
	significance := "Calcifications warrant tissue sampling to exclude malignancy"
	recommendation := "Biopsy recommended"
	if count < 20 {
		birads = "2"
		significance = "Benign appearing calcifications, likely related to fibrocystic changes"
		recommendation = "Routine follow-up"
	}

	return CalcificationAnalysis{
		Detected:             true,
		Count:                count,
		Distribution:         distribution,
		DistributionDetail:   distributionDetail,
		Morphology:           "Punctate/Round",
		MorphologyDetail:     "Small, round to oval shaped calcifications typical of benign etiology",
		BiradsCategory:       birads,
		ClinicalSignificance: significance,
		Recommendation:       recommendation,
	}
}
