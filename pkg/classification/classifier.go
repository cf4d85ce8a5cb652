// Package classification maps a region's size, intensity, shape and pattern
// descriptors to a lesion category through a priority-ordered rule cascade,
// and derives the dependent clinical descriptors: adjusted confidence,
// margin, BI-RADS code and recommendation texts.
package classification

// Features are the region descriptors the cascade operates on.
type Features struct {
	// AreaPercentage is the region area as a percentage of the image area
	AreaPercentage float64

	// AspectRatio is the bounding-box width/height ratio
	AspectRatio float64

	// MaxIntensity is the peak activation inside the region (0-1)
	MaxIntensity float64

	// Pattern is the intensity-distribution class from characterization
	Pattern string

	// Severity is the peak-activation grade from characterization
	Severity string

	// RegionIndex is the 0-based detection index, used only by the
	// round-robin fallback rule
	RegionIndex int
}

// Classification is the cascade outcome for one region.
type Classification struct {
	// PrimaryType is the lesion category
	PrimaryType string `json:"primary_type"`

	// Subtypes lists the more specific lesion subtypes
	Subtypes []string `json:"subtypes"`

	// ConfidenceModifier scales the raw detection confidence
	ConfidenceModifier float64 `json:"confidence_modifier"`

	// Technique names the detection method for report display
	Technique string `json:"technique"`
}

// predicates are the derived buckets the rules match against.
type predicates struct {
	verySmall, small, medium, large bool
	veryHigh, high, moderate        bool
	round, irregular                bool
	heterogeneous, homogeneous      bool
	severity                        string
	maxIntensity                    float64
	regionIndex                     int
}

func derive(f Features) predicates {
	return predicates{
		verySmall: f.AreaPercentage < 0.3,
		small:     f.AreaPercentage >= 0.3 && f.AreaPercentage < 0.8,
		medium:    f.AreaPercentage >= 0.8 && f.AreaPercentage < 2.5,
		large:     f.AreaPercentage >= 2.5,

		veryHigh: f.MaxIntensity > 0.9,
		high:     f.MaxIntensity > 0.75 && f.MaxIntensity <= 0.9,
		moderate: f.MaxIntensity > 0.5 && f.MaxIntensity <= 0.75,

		round:     f.AspectRatio >= 0.85 && f.AspectRatio <= 1.15,
		irregular: f.AspectRatio < 0.6 || f.AspectRatio > 1.4,

		heterogeneous: f.Pattern == "heterogeneous" || f.Pattern == "slightly heterogeneous",
		homogeneous:   f.Pattern == "homogeneous",

		severity:     f.Severity,
		maxIntensity: f.MaxIntensity,
		regionIndex:  f.RegionIndex,
	}
}

// rule pairs a match predicate with its classification result. The cascade
// is an ordered list; the first matching rule wins.
type rule struct {
	matches func(p predicates) bool
	result  Classification
}

// cascade is the priority-ordered decision table. The branch order is
// load-bearing: several predicate combinations satisfy more than one rule,
// and earlier rules deliberately shadow later ones.
var cascade = []rule{
	{
		// Microcalcifications: tiny, very intense foci
		matches: func(p predicates) bool { return p.verySmall && p.veryHigh },
		result:  classification("Calcifications", "Microcalcifications", 1.15),
	},
	{
		// Clustered calcifications: small with high or very high intensity
		matches: func(p predicates) bool { return p.small && (p.veryHigh || p.high) },
		result:  classification("Calcifications", "Clustered Calcifications", 1.12),
	},
	{
		// Suspicious mass: sizeable, intense and round
		matches: func(p predicates) bool { return (p.medium || p.large) && (p.high || p.veryHigh) && p.round },
		result:  classification("Mass", "Suspicious Mass", 1.2),
	},
	{
		// Irregular mass: sizeable, irregular silhouette, at least moderate
		matches: func(p predicates) bool { return (p.medium || p.large) && p.irregular && (p.high || p.moderate) },
		result:  classification("Mass", "Irregular Mass", 1.18),
	},
	{
		// Tissue distortion: irregular heterogeneous region of some severity
		matches: func(p predicates) bool {
			return p.irregular && p.heterogeneous && (p.severity == "medium" || p.severity == "high")
		},
		result: classification("Architectural distortion", "Tissue Distortion", 1.1),
	},
	{
		// Asymmetric density: medium, moderate, not round
		matches: func(p predicates) bool { return p.medium && p.moderate && !p.round },
		result:  classification("Focal/breast asymmetry", "Asymmetric Density", 1.05),
	},
	{
		// Surface changes: large but weakly activated
		matches: func(p predicates) bool { return p.large && p.maxIntensity < 0.6 },
		result:  classification("Skin thickening", "Surface Changes", 1.0),
	},
	{
		// General tissue abnormality
		matches: func(p predicates) bool { return p.medium && p.severity == "medium" },
		result:  classification("Breast tissue", "Tissue Abnormality", 1.02),
	},
}

// fallbackTypes distribute otherwise-unclassified regions deterministically
// by detection index.
var fallbackTypes = []Classification{
	classification("Mass", "Focal Lesion", 1.08),
	classification("Calcifications", "Scattered Calcifications", 1.05),
	classification("Focal/breast asymmetry", "Density Asymmetry", 1.03),
	classification("Breast tissue", "Abnormal Tissue", 1.0),
}

func classification(primary, subtype string, modifier float64) Classification {
	return Classification{
		PrimaryType:        primary,
		Subtypes:           []string{subtype},
		ConfidenceModifier: modifier,
		Technique:          "CNN-based Detection",
	}
}

// Classify runs the cascade over the region features. Every input matches
// exactly one branch: the round-robin fallback catches everything the
// ordered rules do not.
func Classify(f Features) Classification {
	p := derive(f)
	for _, r := range cascade {
		if r.matches(p) {
			return r.result
		}
	}
	return fallbackTypes[p.regionIndex%len(fallbackTypes)]
}

// AdjustConfidence converts a raw 0-1 detection confidence into a percent
// scaled by the classification modifier, clamped to [1.0, 99.9].
func AdjustConfidence(raw, modifier float64) float64 {
	adjusted := raw * 100 * modifier
	if adjusted > 99.9 {
		adjusted = 99.9
	}
	if adjusted < 1.0 {
		adjusted = 1.0
	}
	return adjusted
}
