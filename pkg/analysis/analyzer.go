// Package analysis orchestrates the full post-hoc analysis pipeline: tissue
// segmentation, heatmap processing, region detection, characterization,
// classification, findings aggregation and annotated rendering.
//
// The pipeline is a pure, synchronous, single-request computation: every
// intermediate array is local to one Analyze call and nothing is retained
// across requests. Concurrent requests simply run independent Analyze calls.
package analysis

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"mammocad/pkg/annotate"
	"mammocad/pkg/config"
	"mammocad/pkg/detection"
	"mammocad/pkg/findings"
	"mammocad/pkg/heatmap"
	"mammocad/pkg/segmentation"
	"mammocad/pkg/view"
)

// Source is the collaborator that computes activation heatmaps. The core
// assumes nothing about the model runtime behind it; a nil grid or an error
// signals upstream failure.
type Source interface {
	// ComputeHeatmap produces the activation map for the given class.
	ComputeHeatmap(img image.Image, classIndex int) (*heatmap.Grid, error)
}

// Params holds the analysis parameters.
type Params struct {
	// TissueThreshold is the background/tissue intensity cutoff (0-255)
	TissueThreshold float64

	// Detection configures region extraction
	Detection detection.Config

	// Alpha, Gamma, FallbackSigma and FallbackGamma configure heatmap
	// rendering and degenerate-map recovery
	Alpha         float64
	Gamma         float64
	FallbackSigma float64
	FallbackGamma float64

	// SaveIntermediaryResults determines whether to save intermediary
	// processing results. When enabled, the pipeline saves images at the
	// main processing stages.
	SaveIntermediaryResults bool

	// IntermediaryDir is the directory where intermediary results are
	// saved. Only used when SaveIntermediaryResults is true.
	IntermediaryDir string
}

// ParamsFromConfig maps a loaded configuration onto analysis parameters.
func ParamsFromConfig(cfg *config.Config) *Params {
	return &Params{
		TissueThreshold: cfg.Tissue.Threshold,
		Detection: detection.Config{
			Threshold:          cfg.Detection.Threshold,
			MinArea:            cfg.Detection.MinArea,
			MinTissueOccupancy: cfg.Detection.MinTissueOccupancy,
			MaxRegions:         cfg.Detection.MaxRegions,
		},
		Alpha:                   cfg.Overlay.Alpha,
		Gamma:                   cfg.Overlay.Gamma,
		FallbackSigma:           cfg.Overlay.FallbackSigma,
		FallbackGamma:           cfg.Overlay.FallbackGamma,
		SaveIntermediaryResults: cfg.Output.SaveIntermediaryResults,
	}
}

// DefaultParams returns analysis parameters with the standard values.
func DefaultParams() *Params {
	return ParamsFromConfig(config.DefaultConfig())
}

// Result carries everything one analysis produces: the findings record,
// the processed heatmap, and the four rendered image variants.
type Result struct {
	// Findings is the structured findings record
	Findings *findings.Findings

	// Heatmap is the normalized activation map used for detection
	Heatmap *heatmap.Grid

	// Overlay is the tissue-aware heatmap blend over the original image
	Overlay image.Image

	// Colorized is the standalone jet-colored heatmap
	Colorized image.Image

	// RegionImage shows plain numbered boxes
	RegionImage image.Image

	// LesionImage shows severity-colored boxes with lesion-type labels
	LesionImage image.Image

	// UsedFallback reports that the raw heatmap was degenerate and the
	// intensity-based fallback was substituted
	UsedFallback bool
}

// Analyzer runs the analysis pipeline. It is stateless between requests;
// one instance may serve concurrent Analyze calls.
type Analyzer struct {
	params *Params
	log    zerolog.Logger
}

// NewAnalyzer creates an analyzer with the provided parameters and logger.
func NewAnalyzer(params *Params, log zerolog.Logger) *Analyzer {
	return &Analyzer{params: params, log: log}
}

// Analyze runs the full pipeline over one (image, heatmap, confidence)
// triple. filename is optional and only feeds the view analysis.
//
// A nil heatmap is the one upstream failure surface: it returns a nil
// result with a single descriptive error, which callers should treat as a
// degraded outcome rather than a fatal one. Every condition inside the
// pipeline is recovered locally and represented as data.
func (a *Analyzer) Analyze(img image.Image, raw *heatmap.Grid, confidence float64, filename string) (*Result, error) {
	if raw == nil || len(raw.Data) == 0 {
		return nil, fmt.Errorf("heatmap generation failed: no activation data available")
	}

	bounds := img.Bounds()
	imgWidth := bounds.Dx()
	imgHeight := bounds.Dy()

	// Stage 1: tissue segmentation
	mask := segmentation.FromImage(img, a.params.TissueThreshold)
	a.saveIntermediary("01_tissue_mask", maskToImage(mask))

	// Stage 2: heatmap normalization and rendering
	processor := &heatmap.Processor{
		Alpha:         a.params.Alpha,
		Gamma:         a.params.Gamma,
		FallbackSigma: a.params.FallbackSigma,
		FallbackGamma: a.params.FallbackGamma,
	}
	processed := processor.Process(img, raw, mask)
	if processed.UsedFallback {
		a.log.Debug().
			Str("component", "heatmap").
			Msg("activation map has no variation, using intensity-based fallback")
	}
	a.saveIntermediary("02_overlay", processed.Overlay)
	a.saveIntermediary("03_colorized_heatmap", processed.Colorized)

	// Stage 3: region detection
	detector := detection.NewDetector(a.params.Detection)
	boxes := detector.Detect(processed.Normalized, imgWidth, imgHeight, mask)
	a.log.Debug().
		Str("component", "detection").
		Int("regions", len(boxes)).
		Msg("connected-component detection complete")

	// Stages 4-6: characterization, classification and aggregation
	result := findings.NewAggregator().Build(processed.Normalized, boxes, imgWidth, imgHeight, confidence)

	lesionTypes := make([]string, 0, len(result.Regions))
	for _, r := range result.Regions {
		lesionTypes = append(lesionTypes, r.LesionType)
	}
	result.ViewAnalysis = view.Detect(filename, confidence, lesionTypes)

	// Stage 7: annotated rendering, both variants from the same region list
	regionImage := annotate.DrawNumberedRegions(img, result.Regions)
	lesionImage := annotate.DrawTypedRegions(img, result.Regions)
	a.saveIntermediary("04_numbered_regions", regionImage)
	a.saveIntermediary("05_typed_regions", lesionImage)

	a.log.Info().
		Str("component", "analysis").
		Int("regions", result.NumRegions).
		Float64("maxActivation", result.MaxActivation).
		Msg(result.Summary)

	return &Result{
		Findings:     result,
		Heatmap:      processed.Normalized,
		Overlay:      processed.Overlay,
		Colorized:    processed.Colorized,
		RegionImage:  regionImage,
		LesionImage:  lesionImage,
		UsedFallback: processed.UsedFallback,
	}, nil
}

// AnalyzeFromSource obtains the heatmap from the collaborator and runs the
// pipeline. A source failure is reported as the single upstream error.
func (a *Analyzer) AnalyzeFromSource(src Source, img image.Image, classIndex int, confidence float64, filename string) (*Result, error) {
	raw, err := src.ComputeHeatmap(img, classIndex)
	if err != nil {
		return nil, fmt.Errorf("heatmap generation failed: %v", err)
	}
	return a.Analyze(img, raw, confidence, filename)
}

// saveIntermediary saves an intermediary stage image. This helps visualize
// the steps of the pipeline and debug the analysis process.
func (a *Analyzer) saveIntermediary(stage string, img image.Image) {
	if !a.params.SaveIntermediaryResults || img == nil {
		return
	}

	stageDir := a.params.IntermediaryDir
	if err := os.MkdirAll(stageDir, 0755); err != nil {
		a.log.Warn().Str("stage", stage).Err(err).Msg("failed to create intermediary directory")
		return
	}

	filename := filepath.Join(stageDir, stage+".jpg")
	file, err := os.Create(filename)
	if err != nil {
		a.log.Warn().Str("stage", stage).Err(err).Msg("failed to create intermediary file")
		return
	}
	defer file.Close()

	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: 90}); err != nil {
		a.log.Warn().Str("stage", stage).Err(err).Msg("failed to encode intermediary image")
	}
}

// maskToImage renders a tissue mask as a binary grayscale image.
func maskToImage(mask *segmentation.Mask) image.Image {
	img := image.NewGray(image.Rect(0, 0, mask.Width, mask.Height))
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.At(x, y) {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}
	return img
}
