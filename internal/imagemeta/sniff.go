package imagemeta

import (
	"encoding/binary"
	"errors"
)

// jpegScanBound caps how far the SOF scan walks into a JPEG payload. Large
// embedded metadata (EXIF/ICC) ahead of the SOF marker can push the frame
// header past this bound, in which case dimensions stay unknown.
const jpegScanBound = 100_000

var (
	// ErrUnknownFormat reports bytes that match none of the supported signatures.
	ErrUnknownFormat = errors.New("imagemeta: unknown image format")
	// ErrTruncated reports a recognized signature with too few bytes to carry dimensions.
	ErrTruncated = errors.New("imagemeta: truncated header")
	// ErrNoFrameHeader reports a JPEG with no SOF marker within the scan bound.
	ErrNoFrameHeader = errors.New("imagemeta: no JPEG frame header within scan bound")
)

// Dimensions is a sniffed width/height pair in pixels.
type Dimensions struct {
	Width  int64
	Height int64
}

// TotalPx returns the combined pixel count.
func (d Dimensions) TotalPx() int64 {
	return d.Width * d.Height
}

// Sniff recovers image dimensions from raw header bytes without decoding the
// payload. Supported encodings: JPEG, PNG, GIF. Failures carry a typed error
// so tests can inspect the reason; callers that only care about presence
// should use SniffDimensions.
func Sniff(data []byte) (Dimensions, error) {
	switch {
	case isJPEG(data):
		return sniffJPEG(data)
	case isPNG(data):
		return sniffPNG(data)
	case isGIF(data):
		return sniffGIF(data)
	default:
		return Dimensions{}, ErrUnknownFormat
	}
}

// SniffDimensions collapses Sniff to an optional result: any parse failure
// yields nil, never a panic. Callers must treat nil as "dimensions unknown",
// not as a validation failure.
func SniffDimensions(data []byte) *Dimensions {
	dims, err := Sniff(data)
	if err != nil {
		return nil
	}
	return &dims
}

func isJPEG(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF
}

func isPNG(data []byte) bool {
	return len(data) >= 4 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47
}

func isGIF(data []byte) bool {
	return len(data) >= 3 && data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46
}

// sniffJPEG walks marker bytes one at a time looking for a baseline or
// extended-sequential start-of-frame (FF C0 / FF C1). The byte-by-byte scan
// does not skip non-SOF segments by their declared length; that matches the
// historic behavior this sniffer preserves.
func sniffJPEG(data []byte) (Dimensions, error) {
	bound := len(data)
	if bound > jpegScanBound {
		bound = jpegScanBound
	}
	for i := 2; i < bound; i++ {
		if data[i] != 0xFF {
			continue
		}
		if i+1 >= len(data) || (data[i+1] != 0xC0 && data[i+1] != 0xC1) {
			continue
		}
		if i+8 >= len(data) {
			return Dimensions{}, ErrTruncated
		}
		// SOF payload: length(2) precision(1) height(2) width(2).
		height := int64(binary.BigEndian.Uint16(data[i+5 : i+7]))
		width := int64(binary.BigEndian.Uint16(data[i+7 : i+9]))
		return Dimensions{Width: width, Height: height}, nil
	}
	return Dimensions{}, ErrNoFrameHeader
}

// sniffPNG reads the IHDR width/height, which sit at fixed offsets right
// after the 8-byte signature and the chunk length/type.
func sniffPNG(data []byte) (Dimensions, error) {
	if len(data) < 24 {
		return Dimensions{}, ErrTruncated
	}
	width := int64(binary.BigEndian.Uint32(data[16:20]))
	height := int64(binary.BigEndian.Uint32(data[20:24]))
	return Dimensions{Width: width, Height: height}, nil
}

// sniffGIF reads the logical screen descriptor, little-endian 16-bit each.
func sniffGIF(data []byte) (Dimensions, error) {
	if len(data) < 10 {
		return Dimensions{}, ErrTruncated
	}
	width := int64(binary.LittleEndian.Uint16(data[6:8]))
	height := int64(binary.LittleEndian.Uint16(data[8:10]))
	return Dimensions{Width: width, Height: height}, nil
}
