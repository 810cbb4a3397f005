package admission

import (
	"github.com/google/uuid"
	"github.com/ohanalens/go-gallery/media"
)

// Code is the machine-readable reason a file was rejected.
type Code string

const (
	// CodeUnsupportedType rejects MIME types outside the allow-list.
	CodeUnsupportedType Code = "UNSUPPORTED_TYPE"
	// CodeRateLimitExceeded is a blanket throttle when the account's
	// remaining request quota sits below the safety floor.
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"
	// CodeFileTooLarge rejects payloads over the cached ceiling. For images
	// the outcome also carries ShouldCompress; for videos it is terminal.
	CodeFileTooLarge Code = "FILE_TOO_LARGE"
	// CodeInvalidDimensions rejects images whose sniffed dimensions exceed
	// the per-axis or combined pixel caps.
	CodeInvalidDimensions Code = "INVALID_DIMENSIONS"
	// CodeUploadError marks a remote store failure after validation passed.
	CodeUploadError Code = "UPLOAD_ERROR"
	// CodeValidationError is the catch-all for unexpected validation failures.
	CodeValidationError Code = "VALIDATION_ERROR"
)

// CandidateFile is one upload candidate. It is never mutated: every stage
// produces a new buffer or record.
type CandidateFile struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

// SizeBytes returns the declared size, falling back to the payload length.
func (f CandidateFile) SizeBytes() int64 {
	if f.Size > 0 {
		return f.Size
	}
	return int64(len(f.Data))
}

// Outcome is the validator's verdict on a single candidate. Pure value.
type Outcome struct {
	Valid          bool   `json:"valid"`
	Code           Code   `json:"code,omitempty"`
	Message        string `json:"error,omitempty"`
	Suggestion     string `json:"suggestion,omitempty"`
	ShouldCompress bool   `json:"shouldCompress,omitempty"`
}

// UploadedMedia is the caller-facing pointer to a persisted asset.
type UploadedMedia struct {
	ID   uuid.UUID  `json:"id"`
	URL  string     `json:"url"`
	Type media.Type `json:"type"`
}

// FileResult records one file's terminal outcome within a batch.
type FileResult struct {
	FileName         string         `json:"fileName"`
	Success          bool           `json:"success"`
	Error            string         `json:"error,omitempty"`
	Code             Code           `json:"code,omitempty"`
	Suggestion       string         `json:"suggestion,omitempty"`
	Compressed       bool           `json:"compressed,omitempty"`
	OriginalSize     int            `json:"originalSize,omitempty"`
	CompressedSize   int            `json:"compressedSize,omitempty"`
	CompressionRatio float64        `json:"compressionRatio,omitempty"`
	Media            *UploadedMedia `json:"media,omitempty"`
}

// BatchResult aggregates per-file outcomes. BytesAdded sums only the byte
// contributions of files that actually succeeded, so the owning folder's
// storage counter stays accurate.
type BatchResult struct {
	Results    []FileResult `json:"results"`
	Succeeded  int          `json:"succeeded"`
	Total      int          `json:"total"`
	BytesAdded int64        `json:"-"`
}
