package analyzer

import (
	"fmt"

	"github.com/disintegration/imaging"

	"go-print-advisor/internal/icc"
)

const (
	colorUnavailable = "Unavailable"
	profileAbsent    = "No embedded ICC profile (likely sRGB)"
	profileUnknown   = "Unknown or unsupported ICC profile"
)

// dominantColor approximates the image's dominant color by downsampling to a
// fixed grid and picking the most frequent color from a capped histogram.
// Any failure degrades to "Unavailable"; it never propagates.
func dominantColor(pb *PixelBuffer, opts Options) string {
	if pb.rgba == nil || pb.Width == 0 || pb.Height == 0 {
		return colorUnavailable
	}

	grid := opts.DominantColorGrid
	small := imaging.Resize(pb.rgba, grid, grid, imaging.NearestNeighbor)

	type rgb [3]uint8
	counts := make(map[rgb]int, grid*grid)
	order := make([]rgb, 0, grid*grid)

	n := grid * grid
	for i := 0; i < n; i++ {
		src := i * 4
		c := rgb{small.Pix[src], small.Pix[src+1], small.Pix[src+2]}
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}

	if len(counts) == 0 || len(counts) > opts.DominantMaxColors {
		return colorUnavailable
	}

	// First-seen color wins ties, keeping the output deterministic.
	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}

	return fmt.Sprintf("RGB(%d, %d, %d)", best[0], best[1], best[2])
}

// colorProfile describes the embedded ICC profile. All three outcomes
// (named profile, no profile, unparseable profile) are non-fatal.
func colorProfile(pb *PixelBuffer) string {
	if len(pb.ICCProfile) == 0 {
		return profileAbsent
	}
	name, err := icc.ProfileDescription(pb.ICCProfile)
	if err != nil || name == "" {
		return profileUnknown
	}
	return name
}
