package analyzer

import (
	"testing"
)

// withAnomalies places isolated bright pixels on a uniform background so the
// median filter removes them and each one counts as a single outlier.
func withAnomalies(width, height int, background, anomaly uint8, count int) *PixelBuffer {
	positions := make(map[[2]int]bool, count)
	for i := 0; i < count; i++ {
		positions[[2]int{10 + (i%10)*10, 10 + (i/10)*10}] = true
	}
	return newGrayBufferFunc(width, height, func(x, y int) uint8 {
		if positions[[2]int{x, y}] {
			return anomaly
		}
		return background
	})
}

func TestDustSpotCount(t *testing.T) {
	opts := DefaultOptions()

	testCases := []struct {
		name      string
		anomalies int
	}{
		{"NoAnomalies", 0},
		{"TenAnomalies", 10},
		{"ElevenAnomalies", 11},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pb := withAnomalies(120, 120, 100, 160, tc.anomalies)
			got := dustSpotCount(pb, opts.DustMedianKernel, opts.DustDiffThreshold)
			if got != tc.anomalies {
				t.Errorf("Expected %d outlier pixels, got %d", tc.anomalies, got)
			}
		})
	}
}

func TestDetectFlaws_DustSpotBoundary(t *testing.T) {
	opts := DefaultOptions()
	good := scoreMetric(140, opts.BrightnessRange)
	metrics := scoredMetrics{
		blurVariance: scoreMetric(2000, opts.SharpnessRange),
		noiseLevel:   scoreMetric(10, opts.NoiseRange),
		brightness:   good,
		contrast:     scoreMetric(50, opts.ContrastRange),
	}

	// Exactly 11 outliers exceeds the count threshold of 10; exactly 10 does not.
	flagged := detectFlaws(withAnomalies(120, 120, 100, 160, 11), metrics, opts)
	if !containsFlaw(flagged, flawDustSpots) {
		t.Errorf("Expected dust spot flaw with 11 anomalies, got %v", flagged)
	}

	clean := detectFlaws(withAnomalies(120, 120, 100, 160, 10), metrics, opts)
	if containsFlaw(clean, flawDustSpots) {
		t.Errorf("Expected no dust spot flaw with 10 anomalies, got %v", clean)
	}
}

func TestMeanLocalStdDev(t *testing.T) {
	uniform := newGrayBuffer(50, 50, 128)
	if got := meanLocalStdDev(uniform, 7); got != 0 {
		t.Errorf("Expected zero local deviation for uniform image, got %v", got)
	}

	checkerboard := newGrayBufferFunc(50, 50, func(x, y int) uint8 {
		if (x+y)%2 == 0 {
			return 0
		}
		return 255
	})
	if got := meanLocalStdDev(checkerboard, 7); got <= 100 {
		t.Errorf("Expected high local deviation for checkerboard, got %v", got)
	}
}

func TestDetectFlaws_NoisePatternNeedsBothConditions(t *testing.T) {
	opts := DefaultOptions()
	checkerboard := newGrayBufferFunc(60, 60, func(x, y int) uint8 {
		if (x+y)%2 == 0 {
			return 0
		}
		return 255
	})

	base := scoredMetrics{
		blurVariance: scoreMetric(2000, opts.SharpnessRange),
		brightness:   scoreMetric(140, opts.BrightnessRange),
		contrast:     scoreMetric(50, opts.ContrastRange),
	}

	// High noise status plus a noisy spatial pattern fires the rule.
	noisy := base
	noisy.noiseLevel = scoreMetric(90, opts.NoiseRange)
	if flaws := detectFlaws(checkerboard, noisy, opts); !containsFlaw(flaws, flawNoisePattern) {
		t.Errorf("Expected noise pattern flaw, got %v", flaws)
	}

	// The same spatial pattern without a High noise status stays silent.
	quiet := base
	quiet.noiseLevel = scoreMetric(10, opts.NoiseRange)
	if flaws := detectFlaws(checkerboard, quiet, opts); containsFlaw(flaws, flawNoisePattern) {
		t.Errorf("Expected no noise pattern flaw, got %v", flaws)
	}
}

func TestDetectFlaws_MetricRules(t *testing.T) {
	opts := DefaultOptions()
	pb := newGrayBuffer(40, 40, 128) // no spatial flaws

	testCases := []struct {
		name     string
		metrics  scoredMetrics
		expected []string
	}{
		{
			name: "AllGood",
			metrics: scoredMetrics{
				blurVariance: scoreMetric(2000, opts.SharpnessRange),
				noiseLevel:   scoreMetric(10, opts.NoiseRange),
				brightness:   scoreMetric(140, opts.BrightnessRange),
				contrast:     scoreMetric(50, opts.ContrastRange),
			},
			expected: []string{},
		},
		{
			name: "BlurryAndDark",
			metrics: scoredMetrics{
				blurVariance: scoreMetric(500, opts.SharpnessRange),
				noiseLevel:   scoreMetric(10, opts.NoiseRange),
				brightness:   scoreMetric(60, opts.BrightnessRange),
				contrast:     scoreMetric(50, opts.ContrastRange),
			},
			expected: []string{flawBlurry, flawUnderexposed},
		},
		{
			name: "OverexposedHighContrast",
			metrics: scoredMetrics{
				blurVariance: scoreMetric(2000, opts.SharpnessRange),
				noiseLevel:   scoreMetric(10, opts.NoiseRange),
				brightness:   scoreMetric(200, opts.BrightnessRange),
				contrast:     scoreMetric(90, opts.ContrastRange),
			},
			expected: []string{flawOverexposed, flawHighContrast},
		},
		{
			name: "FlatAndNoisy",
			metrics: scoredMetrics{
				blurVariance: scoreMetric(2000, opts.SharpnessRange),
				noiseLevel:   scoreMetric(60, opts.NoiseRange),
				brightness:   scoreMetric(140, opts.BrightnessRange),
				contrast:     scoreMetric(20, opts.ContrastRange),
			},
			expected: []string{flawNoisy, flawLowContrast},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := detectFlaws(pb, tc.metrics, opts)
			if len(got) != len(tc.expected) {
				t.Fatalf("Expected flaws %v, got %v", tc.expected, got)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("Expected flaw %d to be %q, got %q", i, tc.expected[i], got[i])
				}
			}
		})
	}
}

func containsFlaw(flaws []string, flaw string) bool {
	for _, f := range flaws {
		if f == flaw {
			return true
		}
	}
	return false
}
