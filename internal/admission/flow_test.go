package admission_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ohanalens/go-gallery/internal/admission"
	"github.com/ohanalens/go-gallery/internal/compress"
	"github.com/ohanalens/go-gallery/media"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

type stubStore struct {
	uploads   []interfaces.UploadRequest
	failNames map[string]bool
}

func (s *stubStore) Upload(_ context.Context, req interfaces.UploadRequest) (*interfaces.StoredObject, error) {
	if s.failNames[req.FileName] {
		return nil, errors.New("store unavailable")
	}
	s.uploads = append(s.uploads, req)
	return &interfaces.StoredObject{
		PublicID: "asset-" + req.FileName,
		URL:      "https://cdn.local/" + req.FileName,
		Size:     int64(len(req.Data)),
	}, nil
}

func (s *stubStore) Delete(context.Context, string) error { return nil }

func (s *stubStore) DeletePrefix(context.Context, string) (int, error) { return 0, nil }

func (s *stubStore) Exists(context.Context, string) (bool, error) { return true, nil }

type stubRecorder struct {
	records []admission.Upload
}

func (r *stubRecorder) RecordUpload(_ context.Context, upload admission.Upload) (*media.Media, error) {
	r.records = append(r.records, upload)
	return &media.Media{
		ID:         uuid.New(),
		FolderID:   upload.FolderID,
		FileName:   upload.FileName,
		StorageURL: upload.Stored.URL,
		MediaType:  upload.Kind,
		FileSize:   upload.Size,
		MimeType:   upload.MimeType,
	}, nil
}

type stubCompressor struct {
	lastTarget int
	output     compress.Result
}

func (c *stubCompressor) Compress(_ context.Context, data []byte, targetBytes int) compress.Result {
	c.lastTarget = targetBytes
	out := c.output
	if out.Data == nil {
		out.Data = data
	}
	if out.OriginalSize == 0 {
		out.OriginalSize = len(data)
	}
	return out
}

func newFlow(store *stubStore, recorder *stubRecorder, compressor compress.Compressor, enabled bool) *admission.Flow {
	limitsStub := freeTierLimits()
	validator := admission.NewValidator(limitsStub)
	return admission.NewFlow(validator, limitsStub, store, recorder,
		admission.FlowWithCompression(compressor, enabled),
	)
}

func TestProcessUploadsValidFiles(t *testing.T) {
	store := &stubStore{}
	recorder := &stubRecorder{}
	flow := newFlow(store, recorder, nil, false)
	folderID := uuid.New()

	files := []admission.CandidateFile{
		{Name: "a.png", MimeType: "image/png", Data: pngHeader(100, 100), Size: 2048},
		{Name: "b.mp4", MimeType: "video/mp4", Size: 4096},
	}
	batch := flow.Process(context.Background(), folderID, files)

	if batch.Total != 2 || batch.Succeeded != 2 {
		t.Fatalf("expected 2/2 succeeded, got %d/%d", batch.Succeeded, batch.Total)
	}
	if batch.BytesAdded != 2048+4096 {
		t.Fatalf("expected byte sum 6144, got %d", batch.BytesAdded)
	}
	if len(store.uploads) != 2 || len(recorder.records) != 2 {
		t.Fatalf("expected both files stored and recorded")
	}
	if store.uploads[0].Path != "folder-"+folderID.String() {
		t.Fatalf("unexpected destination path %q", store.uploads[0].Path)
	}
	for _, result := range batch.Results {
		if result.Media == nil || result.Media.URL == "" {
			t.Fatalf("expected media pointer on success, got %+v", result)
		}
	}
}

func TestProcessCompressesOversizedImage(t *testing.T) {
	store := &stubStore{}
	recorder := &stubRecorder{}
	compressor := &stubCompressor{
		output: compress.Result{
			Data:           []byte("compressed-bytes"),
			OriginalSize:   12 * 1024 * 1024,
			CompressedSize: 7 * 1024 * 1024,
			Ratio:          12.0 / 7.0,
			Format:         "jpeg",
		},
	}
	flow := newFlow(store, recorder, compressor, true)

	batch := flow.Process(context.Background(), uuid.New(), []admission.CandidateFile{
		{Name: "big.jpg", MimeType: "image/jpeg", Size: 12 * 1024 * 1024},
	})

	// Target is 80% of the 10MB free-tier image ceiling.
	if compressor.lastTarget != 8*1024*1024 {
		t.Fatalf("expected 8MB target, got %d", compressor.lastTarget)
	}
	result := batch.Results[0]
	if !result.Success || !result.Compressed {
		t.Fatalf("expected compressed success, got %+v", result)
	}
	if result.CompressedSize != 7*1024*1024 || result.OriginalSize != 12*1024*1024 {
		t.Fatalf("unexpected compression metadata %+v", result)
	}
	if batch.BytesAdded != 7*1024*1024 {
		t.Fatalf("expected byte sum to use the compressed size, got %d", batch.BytesAdded)
	}
}

func TestProcessOversizedVideoIsTerminal(t *testing.T) {
	store := &stubStore{}
	recorder := &stubRecorder{}
	compressor := &stubCompressor{}
	flow := newFlow(store, recorder, compressor, true)

	batch := flow.Process(context.Background(), uuid.New(), []admission.CandidateFile{
		{Name: "long.mp4", MimeType: "video/mp4", Size: 150 * 1024 * 1024},
	})

	result := batch.Results[0]
	if result.Success || result.Code != admission.CodeFileTooLarge {
		t.Fatalf("expected terminal FILE_TOO_LARGE, got %+v", result)
	}
	if compressor.lastTarget != 0 {
		t.Fatal("videos must not reach the compressor")
	}
	if batch.Succeeded != 0 || batch.BytesAdded != 0 {
		t.Fatalf("expected empty success accounting, got %+v", batch)
	}
}

func TestProcessUploadFailureAfterCompressionIsTerminal(t *testing.T) {
	store := &stubStore{failNames: map[string]bool{"big.jpg": true}}
	recorder := &stubRecorder{}
	compressor := &stubCompressor{
		output: compress.Result{
			Data:           []byte("compressed"),
			OriginalSize:   12 * 1024 * 1024,
			CompressedSize: 7 * 1024 * 1024,
			Ratio:          12.0 / 7.0,
		},
	}
	flow := newFlow(store, recorder, compressor, true)

	batch := flow.Process(context.Background(), uuid.New(), []admission.CandidateFile{
		{Name: "big.jpg", MimeType: "image/jpeg", Size: 12 * 1024 * 1024},
	})

	result := batch.Results[0]
	if result.Success || result.Code != admission.CodeUploadError {
		t.Fatalf("expected UPLOAD_ERROR, got %+v", result)
	}
	if result.Error != "Upload failed after compression" {
		t.Fatalf("unexpected message %q", result.Error)
	}
	if len(recorder.records) != 0 {
		t.Fatal("no media row should be recorded on upload failure")
	}
}

func TestProcessCompressionDisabledSurfacesValidatorVerdict(t *testing.T) {
	store := &stubStore{}
	recorder := &stubRecorder{}
	flow := newFlow(store, recorder, nil, false)

	batch := flow.Process(context.Background(), uuid.New(), []admission.CandidateFile{
		{Name: "big.jpg", MimeType: "image/jpeg", Size: 12 * 1024 * 1024},
	})

	result := batch.Results[0]
	if result.Success || result.Code != admission.CodeFileTooLarge {
		t.Fatalf("expected FILE_TOO_LARGE fallthrough, got %+v", result)
	}
	if len(store.uploads) != 0 {
		t.Fatal("nothing should be uploaded when compression is disabled")
	}
}

func TestProcessMixedBatchKeepsPerFileIndependence(t *testing.T) {
	store := &stubStore{failNames: map[string]bool{"flaky.png": true}}
	recorder := &stubRecorder{}
	flow := newFlow(store, recorder, nil, false)

	batch := flow.Process(context.Background(), uuid.New(), []admission.CandidateFile{
		{Name: "ok.png", MimeType: "image/png", Data: pngHeader(10, 10), Size: 100},
		{Name: "flaky.png", MimeType: "image/png", Data: pngHeader(10, 10), Size: 200},
		{Name: "doc.txt", MimeType: "text/plain", Size: 10},
	})

	if len(batch.Results) != 3 {
		t.Fatalf("expected one entry per submitted file, got %d", len(batch.Results))
	}
	if batch.Succeeded != 1 || batch.BytesAdded != 100 {
		t.Fatalf("expected only the succeeded file counted, got %+v", batch)
	}
	if batch.Results[1].Code != admission.CodeUploadError {
		t.Fatalf("expected UPLOAD_ERROR for flaky file, got %+v", batch.Results[1])
	}
	if batch.Results[2].Code != admission.CodeUnsupportedType {
		t.Fatalf("expected UNSUPPORTED_TYPE for text file, got %+v", batch.Results[2])
	}
}
