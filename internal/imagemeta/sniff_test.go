package imagemeta_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/ohanalens/go-gallery/internal/imagemeta"
)

func minimalPNG(width, height uint32) []byte {
	buf := make([]byte, 24)
	copy(buf, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	binary.BigEndian.PutUint32(buf[8:12], 13) // IHDR length
	copy(buf[12:16], []byte("IHDR"))
	binary.BigEndian.PutUint32(buf[16:20], width)
	binary.BigEndian.PutUint32(buf[20:24], height)
	return buf
}

func minimalGIF(width, height uint16) []byte {
	buf := make([]byte, 13)
	copy(buf, []byte("GIF89a"))
	binary.LittleEndian.PutUint16(buf[6:8], width)
	binary.LittleEndian.PutUint16(buf[8:10], height)
	return buf
}

func minimalJPEG(width, height uint16) []byte {
	buf := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x04, 0x00, 0x00}
	sof := make([]byte, 9)
	sof[0] = 0xFF
	sof[1] = 0xC0
	binary.BigEndian.PutUint16(sof[2:4], 11) // segment length
	sof[4] = 8                               // precision
	binary.BigEndian.PutUint16(sof[5:7], height)
	binary.BigEndian.PutUint16(sof[7:9], width)
	return append(buf, sof...)
}

func TestSniffSyntheticHeaders(t *testing.T) {
	cases := []struct {
		name          string
		data          []byte
		width, height int64
	}{
		{"png", minimalPNG(640, 480), 640, 480},
		{"gif", minimalGIF(320, 200), 320, 200},
		{"jpeg", minimalJPEG(1920, 1080), 1920, 1080},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dims := imagemeta.SniffDimensions(tc.data)
			if dims == nil {
				t.Fatalf("expected dimensions, got nil")
			}
			if dims.Width != tc.width || dims.Height != tc.height {
				t.Fatalf("expected %dx%d got %dx%d", tc.width, tc.height, dims.Width, dims.Height)
			}
		})
	}
}

func TestSniffRealEncoders(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 37, 53))

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	for name, data := range map[string][]byte{"png": pngBuf.Bytes(), "jpeg": jpegBuf.Bytes()} {
		dims := imagemeta.SniffDimensions(data)
		if dims == nil {
			t.Fatalf("%s: expected dimensions, got nil", name)
		}
		if dims.Width != 37 || dims.Height != 53 {
			t.Fatalf("%s: expected 37x53 got %dx%d", name, dims.Width, dims.Height)
		}
	}
}

func TestSniffRejectsNonImageBytes(t *testing.T) {
	if dims := imagemeta.SniffDimensions([]byte("definitely not an image payload")); dims != nil {
		t.Fatalf("expected nil for non-image bytes, got %+v", dims)
	}
	if dims := imagemeta.SniffDimensions(nil); dims != nil {
		t.Fatalf("expected nil for empty input, got %+v", dims)
	}

	_, err := imagemeta.Sniff([]byte{0x00, 0x01, 0x02, 0x03})
	if !errors.Is(err, imagemeta.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestSniffJPEGWithoutFrameHeader(t *testing.T) {
	// Valid JPEG signature but no SOF marker anywhere in the payload.
	data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x00}, 64)...)
	_, err := imagemeta.Sniff(data)
	if !errors.Is(err, imagemeta.ErrNoFrameHeader) {
		t.Fatalf("expected ErrNoFrameHeader, got %v", err)
	}
	if dims := imagemeta.SniffDimensions(data); dims != nil {
		t.Fatalf("expected nil at the boundary, got %+v", dims)
	}
}

func TestSniffTruncatedPNG(t *testing.T) {
	_, err := imagemeta.Sniff([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A})
	if !errors.Is(err, imagemeta.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
