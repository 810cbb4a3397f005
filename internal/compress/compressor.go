package compress

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif"

	_ "golang.org/x/image/webp"

	"github.com/ohanalens/go-gallery/internal/logging"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

const (
	startQuality = 85
	qualityStep  = 15
	qualityFloor = 20
	pngFloor     = 70
	maxAttempts  = 5
)

// Result reports a best-effort compression outcome. Data is always usable:
// when every attempt fails it carries the original bytes with Ratio 1 and
// Format "unknown".
type Result struct {
	Data           []byte  `json:"-"`
	OriginalSize   int     `json:"originalSize"`
	CompressedSize int     `json:"compressedSize"`
	Ratio          float64 `json:"compressionRatio"`
	Format         string  `json:"format"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	Attempts       int     `json:"-"`
}

// Compressor shrinks oversized images toward a byte budget.
type Compressor interface {
	// Compress re-encodes data aiming below targetBytes. It never fails:
	// callers must still re-validate the achieved size, since the quality
	// ladder is bounded and convergence is not guaranteed.
	Compress(ctx context.Context, data []byte, targetBytes int) Result
}

// Option customises the compressor.
type Option func(*compressor)

// WithLogger attaches a logger for per-attempt diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *compressor) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type compressor struct {
	logger interfaces.Logger
}

// New constructs the default pure-Go compressor.
func New(opts ...Option) Compressor {
	c := &compressor{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *compressor) Compress(ctx context.Context, data []byte, targetBytes int) Result {
	original := len(data)
	unchanged := Result{
		Data:           data,
		OriginalSize:   original,
		CompressedSize: original,
		Ratio:          1,
		Format:         "unknown",
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		c.logger.Warn("compress.decode_failed", "error", err, "size", original)
		return unchanged
	}
	bounds := img.Bounds()
	unchanged.Format = format
	unchanged.Width = bounds.Dx()
	unchanged.Height = bounds.Dy()

	if targetBytes <= 0 || original <= targetBytes {
		return unchanged
	}

	best := data
	bestSize := original
	quality := startQuality
	// PNG holds a higher floor than the lossy formats.
	floor := qualityFloor
	if format == "png" {
		floor = pngFloor
	}

	attempts := 0
	for attempts < maxAttempts {
		if err := ctx.Err(); err != nil {
			break
		}
		attempts++

		encoded, err := encodeAt(img, format, quality)
		if err != nil {
			// No improvement this round; keep walking the ladder.
			c.logger.Warn("compress.encode_failed", "format", format, "quality", quality, "error", err)
		} else if len(encoded) < bestSize {
			best = encoded
			bestSize = len(encoded)
		}

		if bestSize <= targetBytes {
			break
		}
		quality -= qualityStep
		if quality < floor {
			quality = floor
		}
	}

	result := Result{
		Data:           best,
		OriginalSize:   original,
		CompressedSize: bestSize,
		Ratio:          float64(original) / float64(bestSize),
		Format:         format,
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
		Attempts:       attempts,
	}
	c.logger.Info("compress.done",
		"format", format,
		"original_bytes", original,
		"compressed_bytes", bestSize,
		"attempts", attempts,
		"target_bytes", targetBytes,
	)
	return result
}

// encodeAt applies the per-format strategy for one ladder step. JPEG and GIF
// inputs re-encode as JPEG; PNG stays PNG at best compression with its
// quality clamped to a higher floor; WebP decodes fine but has no pure-Go
// encoder, so it falls back to JPEG along with every unrecognized format.
func encodeAt(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		// Compression level is the PNG encoder's only lever; the quality
		// ladder still bounds how many rounds PNG inputs get.
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
