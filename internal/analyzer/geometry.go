package analyzer

import (
	"fmt"
	"math"

	"go-print-advisor/pkg/models"
)

// Ratio is a width:height aspect ratio as a pair of positive integers.
type Ratio struct {
	Num int
	Den int
}

// String renders the ratio in the "N:D" form used throughout the report.
func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.Num, r.Den)
}

// Value returns the ratio as a decimal.
func (r Ratio) Value() float64 {
	return float64(r.Num) / float64(r.Den)
}

// commonRatios is the fixed catalog of print-friendly aspect ratios,
// in lookup order. Ties go to the earlier entry.
var commonRatios = []Ratio{
	{1, 1}, {3, 2}, {4, 3}, {5, 4}, {16, 9},
	{7, 5}, {5, 3}, {3, 1}, {2, 1},
}

// AspectRatio returns width/height, or 0 for a zero height. It never fails.
func AspectRatio(width, height int) float64 {
	if height == 0 {
		return 0
	}
	return float64(width) / float64(height)
}

// SimplifyRatio finds the best rational approximation to width/height with a
// denominator no greater than maxDen, using continued-fraction convergents and
// a final semiconvergent comparison. ok is false when height is zero, in which
// case the ratio is undefined.
func SimplifyRatio(width, height, maxDen int) (Ratio, bool) {
	if height == 0 {
		return Ratio{}, false
	}
	if maxDen < 1 {
		maxDen = 1
	}

	// Walk the continued-fraction expansion of width/height, accumulating
	// convergents p/q until the denominator would exceed maxDen.
	p0, q0, p1, q1 := 0, 1, 1, 0
	n, d := width, height
	for d != 0 {
		a := n / d
		q2 := q0 + a*q1
		if q2 > maxDen {
			break
		}
		p0, q0, p1, q1 = p1, q1, p0+a*p1, q2
		n, d = d, n-a*d
	}
	if d == 0 {
		// Expansion terminated: p1/q1 is the exact reduced fraction.
		return Ratio{p1, q1}, true
	}

	// The last convergent competes with the largest in-bounds semiconvergent.
	k := (maxDen - q0) / q1
	target := float64(width) / float64(height)
	semi := Ratio{p0 + k*p1, q0 + k*q1}
	conv := Ratio{p1, q1}
	if math.Abs(conv.Value()-target) <= math.Abs(semi.Value()-target) {
		return conv, true
	}
	return semi, true
}

// MaxPrintSize converts pixel dimensions to print inches at the given DPI,
// returning both the 2-decimal precise size and its floor-rounded form.
func MaxPrintSize(width, height, dpi int) models.MaxPrintSize {
	w := round2(float64(width) / float64(dpi))
	h := round2(float64(height) / float64(dpi))
	return models.MaxPrintSize{
		Precise: models.PrintSize{Width: w, Height: h, DPI: dpi},
		RoundedDown: models.PrintSizeRounded{
			Width:  int(math.Floor(w)),
			Height: int(math.Floor(h)),
			DPI:    dpi,
		},
	}
}

// ClosestCommonRatio picks the catalog ratio nearest to the decimal aspect
// ratio. The first minimal match wins.
func ClosestCommonRatio(aspectRatio float64) Ratio {
	best := commonRatios[0]
	bestDiff := math.Abs(best.Value() - aspectRatio)
	for _, r := range commonRatios[1:] {
		diff := math.Abs(r.Value() - aspectRatio)
		if diff < bestDiff {
			best = r
			bestDiff = diff
		}
	}
	return best
}

// CropFit computes the largest crop of (width, height) matching ratio. The
// result never exceeds the source on either axis and always keeps one axis
// unchanged.
func CropFit(width, height int, ratio Ratio) (int, int) {
	targetWidth := float64(height) * float64(ratio.Num) / float64(ratio.Den)
	if targetWidth <= float64(width) {
		return int(targetWidth), height
	}
	targetHeight := float64(width) * float64(ratio.Den) / float64(ratio.Num)
	return width, int(targetHeight)
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round4 rounds to 4 decimal places.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
