package analyzer

import (
	"math"
	"sort"

	"go-print-advisor/pkg/models"
)

// Flaw description strings, in detection-rule order.
const (
	flawBlurry       = "Image appears blurry or out of focus."
	flawNoisy        = "Image has high noise/grain, which may affect print quality."
	flawUnderexposed = "Image appears underexposed or too dark."
	flawOverexposed  = "Image appears overexposed or too bright."
	flawLowContrast  = "Image has low contrast and may appear flat."
	flawHighContrast = "Image has very high contrast; some details may be clipped."
	flawDustSpots    = "Possible dust spots detected on the image."
	flawNoisePattern = "Noise pattern detected; image may have grainy or patterned noise."
)

// scoredMetrics groups the four classified metrics feeding the flaw rules.
type scoredMetrics struct {
	blurVariance models.MetricResult
	noiseLevel   models.MetricResult
	brightness   models.MetricResult
	contrast     models.MetricResult
}

// detectFlaws evaluates every flaw rule independently and returns the
// descriptions of those that fired, in rule order. An empty list means no
// flaws were found.
func detectFlaws(pb *PixelBuffer, m scoredMetrics, opts Options) []string {
	flaws := []string{}

	if m.blurVariance.Status == models.StatusLow {
		flaws = append(flaws, flawBlurry)
	}
	if m.noiseLevel.Status == models.StatusHigh {
		flaws = append(flaws, flawNoisy)
	}
	if m.brightness.Status == models.StatusLow {
		flaws = append(flaws, flawUnderexposed)
	}
	if m.brightness.Status == models.StatusHigh {
		flaws = append(flaws, flawOverexposed)
	}
	if m.contrast.Status == models.StatusLow {
		flaws = append(flaws, flawLowContrast)
	}
	if m.contrast.Status == models.StatusHigh {
		flaws = append(flaws, flawHighContrast)
	}

	if dustSpotCount(pb, opts.DustMedianKernel, opts.DustDiffThreshold) > opts.DustSpotCount {
		flaws = append(flaws, flawDustSpots)
	}

	// The noise-pattern rule deliberately couples the global contrast-based
	// noise proxy with a spatial local-variance measurement.
	if m.noiseLevel.Status == models.StatusHigh &&
		meanLocalStdDev(pb, opts.NoiseWindow) > opts.NoisePatternThreshold {
		flaws = append(flaws, flawNoisePattern)
	}

	return flaws
}

// dustSpotCount median-filters the grayscale plane and counts pixels whose
// absolute difference from the filtered value exceeds diffThreshold. Isolated
// outliers survive the subtraction; smooth regions cancel out.
func dustSpotCount(pb *PixelBuffer, kernel, diffThreshold int) int {
	if pb.Width == 0 || pb.Height == 0 {
		return 0
	}

	radius := kernel / 2
	window := make([]uint8, 0, kernel*kernel)
	count := 0

	for y := 0; y < pb.Height; y++ {
		for x := 0; x < pb.Width; x++ {
			window = window[:0]
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					window = append(window, pb.grayAt(x+dx, y+dy))
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			median := int(window[len(window)/2])

			diff := int(pb.Gray[y*pb.Width+x]) - median
			if diff < 0 {
				diff = -diff
			}
			if diff > diffThreshold {
				count++
			}
		}
	}

	return count
}

// meanLocalStdDev computes the standard deviation of every pixel's
// window-sized neighborhood (edge-replicated) and returns the mean of those
// local deviations.
func meanLocalStdDev(pb *PixelBuffer, window int) float64 {
	if pb.Width == 0 || pb.Height == 0 {
		return 0
	}

	radius := window / 2
	size := float64(window * window)
	var total float64

	for y := 0; y < pb.Height; y++ {
		for x := 0; x < pb.Width; x++ {
			var sum, sumSq float64
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					v := float64(pb.grayAt(x+dx, y+dy))
					sum += v
					sumSq += v * v
				}
			}
			mean := sum / size
			variance := sumSq/size - mean*mean
			if variance < 0 {
				variance = 0
			}
			total += math.Sqrt(variance)
		}
	}

	return total / float64(pb.Width*pb.Height)
}
