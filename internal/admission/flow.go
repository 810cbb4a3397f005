package admission

import (
	"context"

	"github.com/google/uuid"
	"github.com/ohanalens/go-gallery/internal/compress"
	"github.com/ohanalens/go-gallery/internal/limits"
	"github.com/ohanalens/go-gallery/internal/logging"
	"github.com/ohanalens/go-gallery/media"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

// defaultTargetFraction derives the recompression target from the image
// ceiling, leaving margin so a converged result re-validates cleanly.
const defaultTargetFraction = 0.8

// Upload carries everything the recorder needs to persist one stored asset.
type Upload struct {
	FolderID uuid.UUID
	FileName string
	MimeType string
	Kind     media.Type
	Size     int64
	Stored   *interfaces.StoredObject
}

// Recorder persists a successfully stored object as a media row.
type Recorder interface {
	RecordUpload(ctx context.Context, upload Upload) (*media.Media, error)
}

// Flow orchestrates admission per file in a batch: validate, optionally
// compress, hand off to the store, and record the row. Files are processed
// sequentially and independently; no file's outcome depends on another's.
type Flow struct {
	validator  Validator
	limits     limits.Service
	store      interfaces.MediaStorage
	recorder   Recorder
	compressor compress.Compressor
	logger     interfaces.Logger

	compressEnabled bool
	targetFraction  float64
}

// FlowOption customises the admission flow.
type FlowOption func(*Flow)

// FlowWithCompression enables the image recompression rescue path.
func FlowWithCompression(compressor compress.Compressor, enabled bool) FlowOption {
	return func(f *Flow) {
		f.compressor = compressor
		f.compressEnabled = enabled && compressor != nil
	}
}

// FlowWithTargetFraction overrides the fraction of the image ceiling used as
// the recompression byte budget.
func FlowWithTargetFraction(fraction float64) FlowOption {
	return func(f *Flow) {
		if fraction > 0 && fraction <= 1 {
			f.targetFraction = fraction
		}
	}
}

// FlowWithLogger attaches a logger for per-file progress.
func FlowWithLogger(logger interfaces.Logger) FlowOption {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFlow wires the admission pipeline around its collaborators.
func NewFlow(validator Validator, limitsService limits.Service, store interfaces.MediaStorage, recorder Recorder, opts ...FlowOption) *Flow {
	f := &Flow{
		validator:      validator,
		limits:         limitsService,
		store:          store,
		recorder:       recorder,
		logger:         logging.NoOp(),
		targetFraction: defaultTargetFraction,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Process runs the batch. Files not yet started when the caller's context is
// cancelled are skipped; per-file work already issued runs to completion.
func (f *Flow) Process(ctx context.Context, folderID uuid.UUID, files []CandidateFile) BatchResult {
	batch := BatchResult{Total: len(files)}
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		result := f.processOne(ctx, folderID, file)
		if result.Success {
			batch.Succeeded++
			if result.Compressed {
				batch.BytesAdded += int64(result.CompressedSize)
			} else {
				batch.BytesAdded += file.SizeBytes()
			}
		}
		batch.Results = append(batch.Results, result)
	}
	return batch
}

func (f *Flow) processOne(ctx context.Context, folderID uuid.UUID, file CandidateFile) FileResult {
	kind := media.KindFromMime(file.MimeType)
	outcome := f.validator.Validate(ctx, file, kind)

	if outcome.Valid {
		return f.uploadAndRecord(ctx, folderID, file, kind, file.Data, nil)
	}

	if outcome.ShouldCompress && f.compressEnabled && kind == media.TypeImage {
		target := int(float64(f.limits.Current(ctx).ImageMaxSizeBytes) * f.targetFraction)
		f.logger.Info("admission.compressing",
			"file", file.Name,
			"size", file.SizeBytes(),
			"target", target,
		)
		compressed := f.compressor.Compress(ctx, file.Data, target)
		if int64(compressed.CompressedSize) < file.SizeBytes() {
			return f.uploadAndRecord(ctx, folderID, file, kind, compressed.Data, &compressed)
		}
		// Compression made no progress; surface the original verdict.
	}

	return FileResult{
		FileName:   file.Name,
		Error:      outcome.Message,
		Code:       outcome.Code,
		Suggestion: outcome.Suggestion,
	}
}

// uploadAndRecord hands the payload to the remote store and persists the
// media row. A failure after compression is terminal for the file.
func (f *Flow) uploadAndRecord(ctx context.Context, folderID uuid.UUID, file CandidateFile, kind media.Type, payload []byte, compressed *compress.Result) FileResult {
	resourceKind := interfaces.ResourceKindImage
	if kind == media.TypeVideo {
		resourceKind = interfaces.ResourceKindVideo
	}

	stored, err := f.store.Upload(ctx, interfaces.UploadRequest{
		Data:     payload,
		Path:     "folder-" + folderID.String(),
		FileName: file.Name,
		Kind:     resourceKind,
	})
	if err != nil {
		f.logger.Error("admission.upload_failed", "file", file.Name, "error", err)
		message := "Upload failed"
		if compressed != nil {
			message = "Upload failed after compression"
		}
		return FileResult{FileName: file.Name, Error: message, Code: CodeUploadError}
	}

	record, err := f.recorder.RecordUpload(ctx, Upload{
		FolderID: folderID,
		FileName: file.Name,
		MimeType: file.MimeType,
		Kind:     kind,
		Size:     int64(len(payload)),
		Stored:   stored,
	})
	if err != nil {
		f.logger.Error("admission.record_failed", "file", file.Name, "error", err)
		return FileResult{FileName: file.Name, Error: "Upload failed", Code: CodeUploadError}
	}

	result := FileResult{
		FileName: file.Name,
		Success:  true,
		Media:    &UploadedMedia{ID: record.ID, URL: record.StorageURL, Type: kind},
	}
	if compressed != nil {
		result.Compressed = true
		result.OriginalSize = compressed.OriginalSize
		result.CompressedSize = compressed.CompressedSize
		result.CompressionRatio = compressed.Ratio
	}
	return result
}
