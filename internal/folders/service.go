package folders

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"
	galfolders "github.com/ohanalens/go-gallery/folders"
	"github.com/ohanalens/go-gallery/internal/identity"
	"github.com/ohanalens/go-gallery/internal/logging"
	"github.com/ohanalens/go-gallery/internal/markdown"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost      = 12
	passwordLength  = 8
	folderKeyLength = 10
	keyAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// MediaCounter reports how many media rows each folder owns.
type MediaCounter interface {
	CountByFolder(ctx context.Context, folderID uuid.UUID) (int, error)
	CountsByFolder(ctx context.Context) (map[uuid.UUID]int, error)
}

// MediaPurger removes every media asset owned by a folder, both the stored
// objects and their rows. Delete calls it before removing the folder record.
type MediaPurger interface {
	PurgeFolder(ctx context.Context, folderID uuid.UUID) (int, error)
}

// Service describes folder management capabilities.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)
	Get(ctx context.Context, id uuid.UUID) (*galfolders.Folder, error)
	GetByKey(ctx context.Context, folderKey string) (*galfolders.Folder, error)
	List(ctx context.Context) ([]*galfolders.Folder, error)
	Update(ctx context.Context, input UpdateInput) (*galfolders.Folder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddBytes(ctx context.Context, id uuid.UUID, delta int64) error
	VerifyPassword(ctx context.Context, folderKey, password string) (*galfolders.Folder, error)
	Metadata(ctx context.Context, id uuid.UUID) (*galfolders.Metadata, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// CreateInput captures the information required to open a new share folder.
type CreateInput struct {
	Name        string
	Description *string
}

// Validate enforces the folder creation constraints.
func (i CreateInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, 120)),
	)
}

// CreateResult carries the created record plus the generated member password.
// The plaintext password exists only here; the record stores the hash.
type CreateResult struct {
	Folder   *galfolders.Folder `json:"folder"`
	Password string             `json:"password"`
}

// UpdateInput captures a partial folder update.
type UpdateInput struct {
	ID          uuid.UUID
	Name        *string
	Description *string
}

// ServiceOption configures folder service behaviour.
type ServiceOption func(*service)

// WithClock overrides the internal time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger attaches a logger provider to the service.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		s.logger = logging.FoldersLogger(provider)
	}
}

// WithMediaCounter wires the media-count source used for listings.
func WithMediaCounter(counter MediaCounter) ServiceOption {
	return func(s *service) {
		s.counter = counter
	}
}

// WithMediaPurger wires the cascade used when a folder is deleted.
func WithMediaPurger(purger MediaPurger) ServiceOption {
	return func(s *service) {
		s.purger = purger
	}
}

// WithKeyGenerator overrides share key generation.
func WithKeyGenerator(generator func() string) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.newKey = generator
		}
	}
}

// WithPasswordGenerator overrides member password generation.
func WithPasswordGenerator(generator func() string) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.newPassword = generator
		}
	}
}

type service struct {
	repo        Repository
	counter     MediaCounter
	purger      MediaPurger
	renderer    *markdown.Renderer
	now         func() time.Time
	newKey      func() string
	newPassword func() string
	logger      interfaces.Logger
}

// NewService constructs the folder service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:        repo,
		renderer:    markdown.NewRenderer(),
		now:         time.Now,
		newKey:      func() string { return randomToken(folderKeyLength) },
		newPassword: func() string { return randomToken(passwordLength) },
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	folderKey := s.newKey()
	password := s.newPassword()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash folder password: %w", err)
	}

	normalized, err := slug.Normalize(input.Name)
	if err != nil {
		return nil, fmt.Errorf("normalize folder slug: %w", err)
	}

	now := s.now()
	record := &galfolders.Folder{
		ID:           identity.FolderUUID(folderKey),
		Name:         input.Name,
		Slug:         normalized,
		Description:  input.Description,
		FolderKey:    folderKey,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	s.logger.Info("folder created", "folder_key", created.FolderKey, "name", created.Name)
	return &CreateResult{Folder: created, Password: password}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*galfolders.Folder, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachCount(ctx, record)
	return record, nil
}

func (s *service) GetByKey(ctx context.Context, folderKey string) (*galfolders.Folder, error) {
	record, err := s.repo.GetByKey(ctx, folderKey)
	if err != nil {
		return nil, err
	}
	s.attachCount(ctx, record)
	return record, nil
}

func (s *service) List(ctx context.Context) ([]*galfolders.Folder, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.counter == nil {
		return records, nil
	}

	counts, err := s.counter.CountsByFolder(ctx)
	if err != nil {
		s.logger.Warn("media counts unavailable", "error", err)
		return records, nil
	}
	for _, record := range records {
		record.MediaCount = counts[record.ID]
	}
	return records, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*galfolders.Folder, error) {
	record, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		record.Name = *input.Name
		normalized, err := slug.Normalize(record.Name)
		if err != nil {
			return nil, fmt.Errorf("normalize folder slug: %w", err)
		}
		record.Slug = normalized
	}
	if input.Description != nil {
		record.Description = input.Description
	}
	record.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("update folder: %w", err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if s.purger != nil {
		purged, err := s.purger.PurgeFolder(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("purge folder media: %w", err)
		}
		s.logger.Info("folder media purged", "folder_key", record.FolderKey, "purged", purged)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	s.logger.Info("folder deleted", "folder_key", record.FolderKey)
	return nil
}

func (s *service) AddBytes(ctx context.Context, id uuid.UUID, delta int64) error {
	if delta == 0 {
		return nil
	}
	return s.repo.AddBytes(ctx, id, delta)
}

func (s *service) VerifyPassword(ctx context.Context, folderKey, password string) (*galfolders.Folder, error) {
	record, err := s.repo.GetByKey(ctx, folderKey)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("folder password rejected", "folder_key", folderKey)
		return nil, galfolders.ErrPasswordMismatch
	}
	return record, nil
}

func (s *service) Metadata(ctx context.Context, id uuid.UUID) (*galfolders.Metadata, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachCount(ctx, record)

	meta := &galfolders.Metadata{
		ID:          record.ID,
		Name:        record.Name,
		Slug:        record.Slug,
		FolderKey:   record.FolderKey,
		SizeInBytes: record.SizeInBytes,
		MediaCount:  record.MediaCount,
		CreatedAt:   record.CreatedAt,
	}

	if record.Description != nil && *record.Description != "" {
		meta.Description = *record.Description
		rendered, err := s.renderer.Render([]byte(*record.Description))
		if err != nil {
			return nil, fmt.Errorf("render folder description: %w", err)
		}
		meta.DescriptionHTML = string(rendered)
	}
	return meta, nil
}

func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) attachCount(ctx context.Context, record *galfolders.Folder) {
	if s.counter == nil || record == nil {
		return
	}
	count, err := s.counter.CountByFolder(ctx, record.ID)
	if err != nil {
		s.logger.Warn("media count unavailable", "folder_key", record.FolderKey, "error", err)
		return
	}
	record.MediaCount = count
}

// randomToken draws length characters from the lowercase alphanumeric
// alphabet using crypto/rand. It panics only if the system entropy source is
// unreadable.
func randomToken(length int) string {
	out := make([]byte, length)
	max := big.NewInt(int64(len(keyAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("folders: entropy source unavailable: %v", err))
		}
		out[i] = keyAlphabet[n.Int64()]
	}
	return string(out)
}

// IsNotFound reports whether err is a folder NotFoundError.
func IsNotFound(err error) bool {
	var notFound *galfolders.NotFoundError
	return errors.As(err, &notFound)
}
