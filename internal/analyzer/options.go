package analyzer

import "go-print-advisor/pkg/models"

// Options carries every tunable constant of the analysis pipeline so tests
// can override thresholds without touching algorithm code.
type Options struct {
	// Print geometry
	DPI                 int
	MaxRatioDenominator int

	// Ideal ranges for metric scoring, as [low, high] pairs
	SharpnessRange  [2]float64
	NoiseRange      [2]float64
	BrightnessRange [2]float64
	ContrastRange   [2]float64

	// Dust-spot heuristic: a pixel counts as an outlier when it differs from
	// its median-filtered value by more than DustDiffThreshold; the flaw fires
	// when more than DustSpotCount pixels qualify.
	DustMedianKernel  int
	DustDiffThreshold int
	DustSpotCount     int

	// Noise-pattern heuristic: mean of per-pixel standard deviations over
	// NoiseWindow-sized neighborhoods, compared against NoisePatternThreshold.
	// Fires only together with a High noise status.
	NoiseWindow           int
	NoisePatternThreshold float64

	// Dominant-color approximation
	DominantColorGrid int
	DominantMaxColors int

	// Static report text
	Remedies    models.Remedies
	Explanation string
}

// DefaultOptions returns the reference thresholds and report text.
func DefaultOptions() Options {
	return Options{
		DPI:                 300,
		MaxRatioDenominator: 1000000,

		SharpnessRange:  [2]float64{1000, 6000},
		NoiseRange:      [2]float64{0, 50},
		BrightnessRange: [2]float64{100, 180},
		ContrastRange:   [2]float64{30, 80},

		DustMedianKernel:  5,
		DustDiffThreshold: 20,
		DustSpotCount:     10,

		NoiseWindow:           7,
		NoisePatternThreshold: 20,

		DominantColorGrid: 50,
		DominantMaxColors: 2500,

		Remedies: models.Remedies{
			Blur: "Use sharpening filters (Photoshop: Filter > Sharpen > Unsharp Mask). " +
				"In Lightroom, increase Clarity and Sharpening sliders.",
			Noise: "Apply noise reduction (Photoshop: Filter > Noise > Reduce Noise). " +
				"In Lightroom, use the Detail panel's Noise Reduction sliders.",
			Brightness: "Adjust exposure or brightness (Photoshop: Image > Adjustments > Brightness/Contrast). " +
				"In Lightroom, adjust Exposure slider.",
			Contrast: "Use contrast adjustment (Photoshop: Image > Adjustments > Brightness/Contrast or Curves). " +
				"In Lightroom, use Contrast and Tone Curve adjustments.",
			DustSpots: "Use Spot Healing Brush (Photoshop) or Spot Removal tool (Lightroom) to remove dust spots.",
		},
		Explanation: "Blur variance (edges/sharpness): higher is better. " +
			"Noise level (grain): lower is better. " +
			"Brightness (0-255): ideal range is 100–180. " +
			"Contrast: under 30 may appear flat, over 80 may clip details. " +
			"Dominant color impacts overall mood. " +
			"You can optionally crop to a common aspect ratio for better print formats.",
	}
}

// WithDPI returns options using a different print resolution.
func (o Options) WithDPI(dpi int) Options {
	o.DPI = dpi
	return o
}

// WithScoreRanges overrides all four metric ranges at once.
func (o Options) WithScoreRanges(sharpness, noise, brightness, contrast [2]float64) Options {
	o.SharpnessRange = sharpness
	o.NoiseRange = noise
	o.BrightnessRange = brightness
	o.ContrastRange = contrast
	return o
}

// WithDustThresholds overrides the dust-spot heuristic constants.
func (o Options) WithDustThresholds(diff, count int) Options {
	o.DustDiffThreshold = diff
	o.DustSpotCount = count
	return o
}
