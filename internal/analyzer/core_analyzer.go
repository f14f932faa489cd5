package analyzer

import (
	"fmt"

	"go-print-advisor/pkg/models"
)

// coreAnalyzer implements ImageAnalyzer by running the geometry, metric,
// flaw and color analyses and assembling their outputs into one report.
type coreAnalyzer struct {
	opts Options
}

// NewImageAnalyzer creates an analyzer with the default thresholds.
func NewImageAnalyzer() ImageAnalyzer {
	return &coreAnalyzer{opts: DefaultOptions()}
}

// NewImageAnalyzerWithOptions creates an analyzer with custom thresholds.
func NewImageAnalyzerWithOptions(opts Options) ImageAnalyzer {
	return &coreAnalyzer{opts: opts}
}

// Analyze runs the pipeline with the analyzer's configured options.
func (ca *coreAnalyzer) Analyze(pb *PixelBuffer, filename string) models.AnalysisReport {
	return ca.AnalyzeWithOptions(pb, filename, ca.opts)
}

// AnalyzeWithOptions runs the full pipeline. It is a pure function of the
// pixel buffer, filename and options: no shared state, no side effects, and
// repeated invocations yield identical reports.
func (ca *coreAnalyzer) AnalyzeWithOptions(pb *PixelBuffer, filename string, opts Options) models.AnalysisReport {
	// Geometry
	aspectRatio := AspectRatio(pb.Width, pb.Height)
	aspectSimple := "Undefined"
	if simplified, ok := SimplifyRatio(pb.Width, pb.Height, opts.MaxRatioDenominator); ok {
		aspectSimple = simplified.String()
	}
	printSize := MaxPrintSize(pb.Width, pb.Height, opts.DPI)
	closest := ClosestCommonRatio(aspectRatio)
	cropW, cropH := CropFit(pb.Width, pb.Height, closest)

	// Quality metrics
	raw := computeMetrics(pb)
	scored := scoredMetrics{
		blurVariance: scoreMetric(raw.sharpness, opts.SharpnessRange),
		noiseLevel:   scoreMetric(raw.noiseLevel, opts.NoiseRange),
		brightness:   scoreMetric(raw.brightness, opts.BrightnessRange),
		contrast:     scoreMetric(raw.contrast, opts.ContrastRange),
	}

	// Flaw detection and color analysis
	flaws := detectFlaws(pb, scored, opts)
	dominant := dominantColor(pb, opts)
	profile := colorProfile(pb)

	return assembleReport(reportParts{
		filename:     filename,
		pb:           pb,
		aspectRatio:  aspectRatio,
		aspectSimple: aspectSimple,
		printSize:    printSize,
		closest:      closest,
		cropW:        cropW,
		cropH:        cropH,
		metrics:      scored,
		flaws:        flaws,
		dominant:     dominant,
		profile:      profile,
		opts:         opts,
	})
}

// reportParts gathers every component output feeding the assembler.
type reportParts struct {
	filename     string
	pb           *PixelBuffer
	aspectRatio  float64
	aspectSimple string
	printSize    models.MaxPrintSize
	closest      Ratio
	cropW, cropH int
	metrics      scoredMetrics
	flaws        []string
	dominant     string
	profile      string
	opts         Options
}

// assembleReport is pure aggregation: it composes the computed parts with the
// static remedy mapping and explanation text. No further computation happens
// here beyond the crop print-size conversion and prompt formatting.
func assembleReport(p reportParts) models.AnalysisReport {
	cropPrint := models.PrintSize{
		Width:  round2(float64(p.cropW) / float64(p.opts.DPI)),
		Height: round2(float64(p.cropH) / float64(p.opts.DPI)),
		DPI:    p.opts.DPI,
	}

	return models.AnalysisReport{
		Filename: p.filename,
		WidthPx:  p.pb.Width,
		HeightPx: p.pb.Height,

		AspectRatioDecimal: round4(p.aspectRatio),
		AspectRatioSimple:  p.aspectSimple,
		MaxPrintSizeInch:   p.printSize,

		BlurVariance: p.metrics.blurVariance,
		NoiseLevel:   p.metrics.noiseLevel,
		Brightness:   p.metrics.brightness,
		Contrast:     p.metrics.contrast,

		DominantColor: p.dominant,
		ColorProfile:  p.profile,

		ClosestCommonAspectRatio: p.closest.String(),
		CropSuggestion: models.CropSuggestion{
			RecommendedCropSizePx: models.PixelSize{Width: p.cropW, Height: p.cropH},
			MaxPrintSizeInch:      cropPrint,
			Prompt:                fmt.Sprintf("Would you like to crop to %s?", p.closest),
		},

		FlawsDetected:         p.flaws,
		SuggestedImprovements: p.opts.Remedies,
		Explanation:           p.opts.Explanation,
		Message:               "Analysis complete",
	}
}
