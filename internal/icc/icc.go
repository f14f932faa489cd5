// Package icc extracts display metadata from embedded ICC color profiles.
// It parses just enough of the profile structure to read the description
// tag; it performs no color management.
package icc

import (
	"encoding/binary"
	"errors"
	"strings"
	"unicode/utf16"
)

const (
	headerSize   = 128
	tagEntrySize = 12

	sigDesc = "desc" // textDescriptionType (ICC v2)
	sigMluc = "mluc" // multiLocalizedUnicodeType (ICC v4)
)

var (
	// ErrMalformed indicates the blob is not a structurally valid ICC profile.
	ErrMalformed = errors.New("icc: malformed profile")

	// ErrNoDescription indicates a valid profile without a description tag.
	ErrNoDescription = errors.New("icc: profile has no description tag")
)

// ProfileDescription returns the profile's display name from its 'desc' tag,
// handling both the v2 textDescription and v4 multiLocalizedUnicode layouts.
func ProfileDescription(profile []byte) (string, error) {
	if len(profile) < headerSize+4 {
		return "", ErrMalformed
	}

	tagCount := int(binary.BigEndian.Uint32(profile[headerSize:]))
	if tagCount < 0 || tagCount > 1024 {
		return "", ErrMalformed
	}

	tableEnd := headerSize + 4 + tagCount*tagEntrySize
	if len(profile) < tableEnd {
		return "", ErrMalformed
	}

	for i := 0; i < tagCount; i++ {
		entry := profile[headerSize+4+i*tagEntrySize:]
		if string(entry[:4]) != sigDesc {
			continue
		}
		offset := int(binary.BigEndian.Uint32(entry[4:]))
		size := int(binary.BigEndian.Uint32(entry[8:]))
		if offset < 0 || size < 8 || offset+size > len(profile) {
			return "", ErrMalformed
		}
		return parseDescriptionTag(profile[offset : offset+size])
	}

	return "", ErrNoDescription
}

func parseDescriptionTag(tag []byte) (string, error) {
	switch string(tag[:4]) {
	case sigDesc:
		return parseTextDescription(tag)
	case sigMluc:
		return parseMultiLocalized(tag)
	default:
		return "", ErrMalformed
	}
}

// parseTextDescription reads the ASCII invariant string of a v2
// textDescriptionType tag: a 4-byte count at offset 8 followed by a
// NUL-terminated string.
func parseTextDescription(tag []byte) (string, error) {
	if len(tag) < 12 {
		return "", ErrMalformed
	}
	count := int(binary.BigEndian.Uint32(tag[8:]))
	if count <= 0 || 12+count > len(tag) {
		return "", ErrMalformed
	}
	name := string(tag[12 : 12+count])
	return strings.TrimRight(name, "\x00"), nil
}

// parseMultiLocalized reads the first record of a v4
// multiLocalizedUnicodeType tag, a UTF-16BE string addressed relative to the
// start of the tag.
func parseMultiLocalized(tag []byte) (string, error) {
	if len(tag) < 28 {
		return "", ErrMalformed
	}
	records := int(binary.BigEndian.Uint32(tag[8:]))
	recordSize := int(binary.BigEndian.Uint32(tag[12:]))
	if records < 1 || recordSize < 12 {
		return "", ErrMalformed
	}

	length := int(binary.BigEndian.Uint32(tag[20:]))
	offset := int(binary.BigEndian.Uint32(tag[24:]))
	if length <= 0 || length%2 != 0 || offset < 0 || offset+length > len(tag) {
		return "", ErrMalformed
	}

	codeUnits := make([]uint16, length/2)
	for i := range codeUnits {
		codeUnits[i] = binary.BigEndian.Uint16(tag[offset+2*i:])
	}
	return strings.TrimRight(string(utf16.Decode(codeUnits)), "\x00"), nil
}
