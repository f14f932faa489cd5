package storage

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// maxICCProfileSize caps decompressed PNG profile data.
const maxICCProfileSize = 16 << 20

// DecodedImage is a decoded pixel raster plus the container-level metadata
// the analysis pipeline needs.
type DecodedImage struct {
	Image      image.Image
	Format     string
	ICCProfile []byte
}

// DecodeImage decodes raw image bytes and pulls the embedded ICC profile out
// of the container where the format supports one. A missing or unreadable
// profile is not an error; only an undecodable raster is.
func DecodeImage(data []byte) (*DecodedImage, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var profile []byte
	switch format {
	case "jpeg":
		profile = jpegICCProfile(data)
	case "png":
		profile = pngICCProfile(data)
	}

	return &DecodedImage{Image: img, Format: format, ICCProfile: profile}, nil
}

// jpegICCProfile concatenates the ICC_PROFILE APP2 segments of a JPEG stream.
// Writers emit the chunks in sequence order, so encounter order is kept.
func jpegICCProfile(data []byte) []byte {
	const header = "ICC_PROFILE\x00"

	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil
	}

	var profile []byte
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			break
		}
		marker := data[pos+1]
		// Standalone markers and entropy-coded data end the segment walk.
		if marker == 0xD9 || marker == 0xDA {
			break
		}
		length := int(binary.BigEndian.Uint16(data[pos+2:]))
		if length < 2 || pos+2+length > len(data) {
			break
		}
		segment := data[pos+4 : pos+2+length]

		// APP2 segments carry the profile split into numbered chunks, each
		// prefixed with the header, a sequence byte and a total-count byte.
		if marker == 0xE2 && len(segment) > len(header)+2 &&
			string(segment[:len(header)]) == header {
			profile = append(profile, segment[len(header)+2:]...)
		}
		pos += 2 + length
	}

	if len(profile) == 0 {
		return nil
	}
	return profile
}

// pngICCProfile extracts and inflates the iCCP chunk of a PNG stream.
func pngICCProfile(data []byte) []byte {
	signature := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	if len(data) < len(signature) || !bytes.Equal(data[:len(signature)], signature) {
		return nil
	}

	pos := len(signature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos:]))
		chunkType := string(data[pos+4 : pos+8])
		if length < 0 || pos+8+length+4 > len(data) {
			return nil
		}
		if chunkType == "IDAT" || chunkType == "IEND" {
			return nil
		}
		if chunkType == "iCCP" {
			return inflateICCChunk(data[pos+8 : pos+8+length])
		}
		pos += 8 + length + 4
	}
	return nil
}

// inflateICCChunk parses an iCCP chunk body: profile name, NUL, compression
// method (0 = zlib), compressed profile bytes.
func inflateICCChunk(chunk []byte) []byte {
	sep := bytes.IndexByte(chunk, 0)
	if sep < 0 || sep+2 > len(chunk) || chunk[sep+1] != 0 {
		return nil
	}
	r, err := zlib.NewReader(bytes.NewReader(chunk[sep+2:]))
	if err != nil {
		return nil
	}
	defer r.Close()

	profile, err := io.ReadAll(io.LimitReader(r, maxICCProfileSize))
	if err != nil || len(profile) == 0 {
		return nil
	}
	return profile
}
