package admission

import (
	"context"
	"fmt"

	"github.com/ohanalens/go-gallery/internal/imagemeta"
	"github.com/ohanalens/go-gallery/internal/limits"
	"github.com/ohanalens/go-gallery/internal/logging"
	"github.com/ohanalens/go-gallery/media"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

// rateFloor is the minimum remaining request quota below which every upload
// is throttled, regardless of file content.
const rateFloor = 10

var allowedMimeTypes = map[string]media.Type{
	"image/jpeg":      media.TypeImage,
	"image/png":       media.TypeImage,
	"image/gif":       media.TypeImage,
	"video/mp4":       media.TypeVideo,
	"video/quicktime": media.TypeVideo,
	"video/webm":      media.TypeVideo,
}

// Validator applies the cached provider limits to a candidate file.
type Validator interface {
	// Validate never returns an error: failures, including unexpected ones,
	// come back as structured outcomes so a batch can report mixed results
	// without aborting remaining files.
	Validate(ctx context.Context, file CandidateFile, kind media.Type) Outcome
}

// ValidatorOption customises the validator.
type ValidatorOption func(*validator)

// ValidatorWithLogger attaches a logger for sniff failures and throttling events.
func ValidatorWithLogger(logger interfaces.Logger) ValidatorOption {
	return func(v *validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

type validator struct {
	limits limits.Service
	logger interfaces.Logger
}

// NewValidator constructs a validator backed by the given limits cache.
func NewValidator(limitsService limits.Service, opts ...ValidatorOption) Validator {
	v := &validator{
		limits: limitsService,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the admission checks in order, short-circuiting on the first
// failure. Size is checked before dimensions because it is the cheap,
// always-available signal; dimension sniffing stays best-effort.
func (v *validator) Validate(ctx context.Context, file CandidateFile, kind media.Type) Outcome {
	current := v.limits.Current(ctx)

	if _, ok := allowedMimeTypes[file.MimeType]; !ok {
		return Outcome{
			Code:       CodeUnsupportedType,
			Message:    "Unsupported file type",
			Suggestion: "Supported types: JPEG, PNG, GIF (images) or MP4, MOV, WebM (videos)",
		}
	}

	if current.RateLimitRemaining < rateFloor {
		v.logger.Warn("admission.rate_throttled",
			"remaining", current.RateLimitRemaining,
			"floor", rateFloor,
		)
		return Outcome{
			Code:       CodeRateLimitExceeded,
			Message:    "Rate limit nearly exceeded",
			Suggestion: "Try again in a few minutes",
		}
	}

	size := file.SizeBytes()
	switch kind {
	case media.TypeImage:
		if size > current.ImageMaxSizeBytes {
			return Outcome{
				Code: CodeFileTooLarge,
				Message: fmt.Sprintf("Image too large (max %dMB, got %.2fMB)",
					current.ImageMaxSizeBytes/(1024*1024), float64(size)/(1024*1024)),
				ShouldCompress: true,
				Suggestion: fmt.Sprintf("Image will be automatically compressed to under %dMB",
					current.ImageMaxSizeBytes/(1024*1024)),
			}
		}
		if outcome, rejected := v.checkDimensions(file, current); rejected {
			return outcome
		}
	case media.TypeVideo:
		if size > current.VideoMaxSizeBytes {
			return Outcome{
				Code: CodeFileTooLarge,
				Message: fmt.Sprintf("Video too large (max %dMB, got %.2fMB)",
					current.VideoMaxSizeBytes/(1024*1024), float64(size)/(1024*1024)),
				Suggestion: "Consider compressing the video or reducing resolution",
			}
		}
	default:
		return Outcome{
			Code:    CodeValidationError,
			Message: fmt.Sprintf("Unknown media kind %q", kind),
		}
	}

	return Outcome{Valid: true}
}

// checkDimensions sniffs the payload and applies the pixel caps. A sniff
// failure is non-fatal: dimensions are treated as unconstrained.
func (v *validator) checkDimensions(file CandidateFile, current limits.MediaLimits) (Outcome, bool) {
	dims := imagemeta.SniffDimensions(file.Data)
	if dims == nil {
		v.logger.Warn("admission.dimensions_unknown", "file", file.Name)
		return Outcome{}, false
	}

	if dims.Width > current.ImageMaxPx {
		return Outcome{
			Code: CodeInvalidDimensions,
			Message: fmt.Sprintf("Image width exceeds limit (%dpx > %dpx)",
				dims.Width, current.ImageMaxPx),
		}, true
	}
	if dims.Height > current.ImageMaxPx {
		return Outcome{
			Code: CodeInvalidDimensions,
			Message: fmt.Sprintf("Image height exceeds limit (%dpx > %dpx)",
				dims.Height, current.ImageMaxPx),
		}, true
	}
	if total := dims.TotalPx(); total > current.AssetMaxTotalPx {
		return Outcome{
			Code: CodeInvalidDimensions,
			Message: fmt.Sprintf("Image total pixels exceed limit (%dpx > %dpx)",
				total, current.AssetMaxTotalPx),
			Suggestion: "Consider uploading at lower resolution",
		}, true
	}
	return Outcome{}, false
}
