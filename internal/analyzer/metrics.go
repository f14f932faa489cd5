package analyzer

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"go-print-advisor/pkg/models"
)

// metricSet holds the raw scalar metrics computed from the grayscale plane,
// each rounded to 2 decimals.
type metricSet struct {
	sharpness  float64
	brightness float64
	contrast   float64
	noiseLevel float64
}

// computeMetrics derives the scalar quality metrics from a pixel buffer.
// Sharpness is the variance of an edge-intensity plane, brightness the mean
// intensity, contrast the standard deviation; noise reuses contrast as a
// proxy and is not a spatial-noise measurement.
func computeMetrics(pb *PixelBuffer) metricSet {
	if pb.Width == 0 || pb.Height == 0 {
		return metricSet{}
	}

	plane := make([]float64, len(pb.Gray))
	for i, v := range pb.Gray {
		plane[i] = float64(v)
	}

	contrast := round2(stat.PopStdDev(plane, nil))
	return metricSet{
		sharpness:  round2(edgeVariance(pb)),
		brightness: round2(stat.Mean(plane, nil)),
		contrast:   contrast,
		noiseLevel: contrast,
	}
}

// edgeVariance convolves the interior of the grayscale plane with the
// 8-neighbor edge kernel [-1 -1 -1; -1 8 -1; -1 -1 -1], clamps the responses
// to [0, 255] and returns their population variance. Higher means sharper.
func edgeVariance(pb *PixelBuffer) float64 {
	width, height := pb.Width, pb.Height
	if width < 3 || height < 3 {
		return 0
	}

	edges := make([]float64, 0, (width-2)*(height-2))
	for y := 1; y < height-1; y++ {
		row := y * width
		for x := 1; x < width-1; x++ {
			center := int(pb.Gray[row+x])
			sum := 8 * center
			sum -= int(pb.Gray[row-width+x-1]) + int(pb.Gray[row-width+x]) + int(pb.Gray[row-width+x+1])
			sum -= int(pb.Gray[row+x-1]) + int(pb.Gray[row+x+1])
			sum -= int(pb.Gray[row+width+x-1]) + int(pb.Gray[row+width+x]) + int(pb.Gray[row+width+x+1])

			if sum < 0 {
				sum = 0
			} else if sum > 255 {
				sum = 255
			}
			edges = append(edges, float64(sum))
		}
	}

	return stat.PopVariance(edges, nil)
}

// scoreMetric classifies a value against its ideal range. Boundary values
// are Good: only strictly below low is Low, strictly above high is High.
func scoreMetric(value float64, rng [2]float64) models.MetricResult {
	status := models.StatusGood
	switch {
	case value < rng[0]:
		status = models.StatusLow
	case value > rng[1]:
		status = models.StatusHigh
	}
	return models.MetricResult{
		Value:   value,
		Range:   rng,
		Status:  status,
		Message: fmt.Sprintf("%v / Ideal: %v–%v (%s)", value, rng[0], rng[1], status),
	}
}
