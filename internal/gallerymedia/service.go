package gallerymedia

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ohanalens/go-gallery/internal/admission"
	"github.com/ohanalens/go-gallery/internal/logging"
	galmedia "github.com/ohanalens/go-gallery/media"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

// ByteAccountant adjusts a folder's stored byte counter. The folder service
// implements it; the indirection avoids a dependency cycle between the two.
type ByteAccountant interface {
	AddBytes(ctx context.Context, folderID uuid.UUID, delta int64) error
}

// Service describes media row management on top of the remote store.
type Service interface {
	// RecordUpload persists a stored object as a media row. It satisfies the
	// admission flow's recorder contract.
	RecordUpload(ctx context.Context, upload admission.Upload) (*galmedia.Media, error)
	Get(ctx context.Context, id uuid.UUID) (*galmedia.Media, error)
	ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*galmedia.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// PurgeFolder removes every stored object and row owned by the folder,
	// reporting how many rows were removed.
	PurgeFolder(ctx context.Context, folderID uuid.UUID) (int, error)
	// RemoveOrphans deletes rows whose stored object has disappeared from
	// the remote store. With dryRun set it only reports what would go.
	RemoveOrphans(ctx context.Context, dryRun bool) (int, error)

	CountByFolder(ctx context.Context, folderID uuid.UUID) (int, error)
	CountsByFolder(ctx context.Context) (map[uuid.UUID]int, error)
}

// ServiceOption configures media service behaviour.
type ServiceOption func(*service)

// WithClock overrides the internal time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the record ID source.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.newID = generator
		}
	}
}

// WithLogger attaches a logger provider to the service.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		s.logger = logging.MediaLogger(provider)
	}
}

// WithByteAccountant wires folder byte-counter adjustments for deletions.
func WithByteAccountant(accountant ByteAccountant) ServiceOption {
	return func(s *service) {
		s.accountant = accountant
	}
}

type service struct {
	repo       Repository
	store      interfaces.MediaStorage
	accountant ByteAccountant
	now        func() time.Time
	newID      func() uuid.UUID
	logger     interfaces.Logger
}

// NewService constructs the media service.
func NewService(repo Repository, store interfaces.MediaStorage, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		store:  store,
		now:    time.Now,
		newID:  uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) RecordUpload(ctx context.Context, upload admission.Upload) (*galmedia.Media, error) {
	if upload.Stored == nil {
		return nil, errors.New("gallerymedia: upload has no stored object")
	}

	record := &galmedia.Media{
		ID:              s.newID(),
		FolderID:        upload.FolderID,
		FileName:        upload.FileName,
		StorageURL:      upload.Stored.URL,
		StoragePublicID: upload.Stored.PublicID,
		MediaType:       upload.Kind,
		FileSize:        upload.Size,
		MimeType:        upload.MimeType,
		CreatedAt:       s.now(),
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("record upload: %w", err)
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*galmedia.Media, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*galmedia.Media, error) {
	return s.repo.ListByFolder(ctx, folderID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, record.StoragePublicID); err != nil {
		return fmt.Errorf("delete stored object: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete media row: %w", err)
	}
	s.adjustBytes(ctx, record.FolderID, -record.FileSize)

	s.logger.Info("media deleted", "media_id", id, "file_name", record.FileName)
	return nil
}

func (s *service) PurgeFolder(ctx context.Context, folderID uuid.UUID) (int, error) {
	if _, err := s.store.DeletePrefix(ctx, "folder-"+folderID.String()); err != nil {
		return 0, fmt.Errorf("delete stored folder objects: %w", err)
	}

	removed, err := s.repo.DeleteByFolder(ctx, folderID)
	if err != nil {
		return 0, fmt.Errorf("delete media rows: %w", err)
	}
	return removed, nil
}

func (s *service) RemoveOrphans(ctx context.Context, dryRun bool) (int, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list media rows: %w", err)
	}

	removed := 0
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		present, err := s.store.Exists(ctx, record.StoragePublicID)
		if err != nil {
			s.logger.Warn("orphan check failed", "media_id", record.ID, "error", err)
			continue
		}
		if present {
			continue
		}

		if dryRun {
			removed++
			continue
		}

		if err := s.repo.Delete(ctx, record.ID); err != nil {
			s.logger.Error("orphan row delete failed", "media_id", record.ID, "error", err)
			continue
		}
		s.adjustBytes(ctx, record.FolderID, -record.FileSize)
		removed++
	}

	s.logger.Info("orphan sweep finished", "removed", removed, "dry_run", dryRun)
	return removed, nil
}

func (s *service) CountByFolder(ctx context.Context, folderID uuid.UUID) (int, error) {
	return s.repo.CountByFolder(ctx, folderID)
}

func (s *service) CountsByFolder(ctx context.Context) (map[uuid.UUID]int, error) {
	return s.repo.CountsByFolder(ctx)
}

func (s *service) adjustBytes(ctx context.Context, folderID uuid.UUID, delta int64) {
	if s.accountant == nil {
		return
	}
	if err := s.accountant.AddBytes(ctx, folderID, delta); err != nil {
		s.logger.Warn("folder byte counter adjustment failed", "folder_id", folderID, "error", err)
	}
}
