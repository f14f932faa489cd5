package analyzer

import (
	"image"

	"github.com/disintegration/imaging"
)

// PixelBuffer is the decoded input to the analysis pipeline. It carries the
// image dimensions, a grayscale sample plane, the RGB sample plane and the
// embedded ICC profile bytes (if any). A buffer is immutable once built and
// lives for exactly one analysis request.
type PixelBuffer struct {
	Width  int
	Height int

	// Gray holds one intensity byte per pixel, row-major, len = Width*Height.
	Gray []uint8

	// RGB holds packed R,G,B triples, row-major, len = 3*Width*Height.
	RGB []uint8

	// ICCProfile is the raw embedded color-profile blob, nil when absent.
	ICCProfile []byte

	rgba *image.NRGBA
}

// NewPixelBuffer converts a decoded image into the pipeline's pixel planes.
// Grayscale uses the ITU-R 601-2 luma transform (299r + 587g + 114b) / 1000.
func NewPixelBuffer(img image.Image, iccProfile []byte) *PixelBuffer {
	rgba := imaging.Clone(img)
	width := rgba.Rect.Dx()
	height := rgba.Rect.Dy()

	n := width * height
	gray := make([]uint8, n)
	rgb := make([]uint8, 3*n)

	for i := 0; i < n; i++ {
		src := i * 4
		r := int(rgba.Pix[src])
		g := int(rgba.Pix[src+1])
		b := int(rgba.Pix[src+2])

		rgb[i*3] = uint8(r)
		rgb[i*3+1] = uint8(g)
		rgb[i*3+2] = uint8(b)
		gray[i] = uint8((299*r + 587*g + 114*b) / 1000)
	}

	return &PixelBuffer{
		Width:      width,
		Height:     height,
		Gray:       gray,
		RGB:        rgb,
		ICCProfile: iccProfile,
		rgba:       rgba,
	}
}

// grayAt returns the intensity at (x, y) with edge replication, so sliding
// windows can read past the borders consistently.
func (pb *PixelBuffer) grayAt(x, y int) uint8 {
	if x < 0 {
		x = 0
	} else if x >= pb.Width {
		x = pb.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= pb.Height {
		y = pb.Height - 1
	}
	return pb.Gray[y*pb.Width+x]
}
