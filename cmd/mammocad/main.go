package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"mammocad/pkg/analysis"
	"mammocad/pkg/config"
	"mammocad/pkg/heatmap"
)

func main() {
	// Parse command line arguments
	imagePath := flag.String("image", "", "Path to the mammogram image (JPEG or PNG)")
	heatmapPath := flag.String("heatmap", "", "Path to the activation heatmap CSV")
	confidence := flag.Float64("confidence", 0.5, "Classifier confidence score in [0, 1]")
	configPath := flag.String("config", "", "Path to a YAML configuration file (optional)")
	outputDir := flag.String("output", "analysis_output", "Directory for generated images and findings")
	saveIntermediary := flag.Bool("save-intermediary", false, "Save intermediary results during processing")
	intermediaryDir := flag.String("intermediary-dir", "intermediary_results", "Directory to save intermediary results")
	verbose := flag.Bool("verbose", true, "Enable debug logging")
	flag.Parse()

	// Validate inputs
	if *imagePath == "" || *heatmapPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	fmt.Println("================================")
	fmt.Println("MAMMOGRAM ACTIVATION MAP ANALYSIS")
	fmt.Println("Post-hoc findings from classifier attention")
	fmt.Println("================================")

	// Load configuration
	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		cfg = loaded
	}

	params := analysis.ParamsFromConfig(cfg)
	params.SaveIntermediaryResults = params.SaveIntermediaryResults || *saveIntermediary
	params.IntermediaryDir = *intermediaryDir

	// Load inputs
	img, err := loadImage(*imagePath)
	if err != nil {
		log.Fatalf("Failed to load image: %v", err)
	}
	raw, err := heatmap.LoadCSV(*heatmapPath)
	if err != nil {
		log.Fatalf("Failed to load heatmap: %v", err)
	}

	// Run the analysis pipeline
	fmt.Println("Starting activation map analysis...")
	startTime := time.Now()

	analyzer := analysis.NewAnalyzer(params, logger)
	result, err := analyzer.Analyze(img, raw, *confidence, filepath.Base(*imagePath))
	if err != nil {
		// Upstream failure is degraded output, not a crash: report it and
		// exit without findings.
		logger.Error().Err(err).Msg("analysis produced no findings")
		fmt.Println("\nAnalysis could not be completed:", err)
		os.Exit(1)
	}
	processingTime := time.Since(startTime)

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Save the annotated image variants and the findings record
	outputs := []struct {
		name string
		img  image.Image
	}{
		{"overlay.jpg", result.Overlay},
		{"heatmap.jpg", result.Colorized},
		{"regions.jpg", result.RegionImage},
		{"lesions.jpg", result.LesionImage},
	}
	for _, out := range outputs {
		path := filepath.Join(*outputDir, out.name)
		if err := saveJPEG(path, out.img); err != nil {
			log.Fatalf("Failed to save %s: %v", out.name, err)
		}
	}

	findingsPath := filepath.Join(*outputDir, "findings.json")
	data, err := json.MarshalIndent(result.Findings, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode findings: %v", err)
	}
	if err := os.WriteFile(findingsPath, data, 0644); err != nil {
		log.Fatalf("Failed to save findings: %v", err)
	}

	fmt.Printf("\nAnalysis completed successfully in %.2f seconds!\n", processingTime.Seconds())
	fmt.Printf("Findings saved to: %s\n\n", findingsPath)

	fmt.Printf("Summary of findings:\n")
	fmt.Printf("====================\n")
	fmt.Printf("Regions detected: %d\n", result.Findings.NumRegions)
	fmt.Printf("Overall activation: %.3f\n", result.Findings.OverallActivation)
	fmt.Printf("Maximum activation: %.3f\n", result.Findings.MaxActivation)
	fmt.Printf("High attention area: %.1f%%\n", result.Findings.HighAttentionPercentage)
	if result.UsedFallback {
		fmt.Println("Note: activation map was uniform, intensity-based fallback was used")
	}
	fmt.Printf("\n%s\n", result.Findings.Summary)

	for _, region := range result.Findings.Regions {
		fmt.Printf("\nRegion %d: %s (%.1f%% confidence)\n", region.ID, region.LesionType, region.Confidence)
		fmt.Printf("- Location: %s\n", region.Location.Description)
		fmt.Printf("- BI-RADS: %s\n", region.Birads)
		fmt.Printf("- Recommended action: %s\n", region.RecommendedAction)
	}

	// Print information about intermediary results if saved
	if params.SaveIntermediaryResults {
		fmt.Println("\nIntermediary results saved to:")
		fmt.Printf("%s\n", *intermediaryDir)
		fmt.Println("The following stages were saved:")
		fmt.Println("- 01_tissue_mask: Binary tissue segmentation")
		fmt.Println("- 02_overlay: Heatmap blended over the original image")
		fmt.Println("- 03_colorized_heatmap: Standalone jet-colored heatmap")
		fmt.Println("- 04_numbered_regions: Detected regions with numbered boxes")
		fmt.Println("- 05_typed_regions: Detected regions with lesion-type labels")
	}
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}
	return img, nil
}

func saveJPEG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %v", err)
	}
	defer file.Close()

	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("failed to encode image: %v", err)
	}
	return nil
}
