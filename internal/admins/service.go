package admins

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	galadmins "github.com/ohanalens/go-gallery/admins"
	"github.com/ohanalens/go-gallery/internal/logging"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor used for stored credentials.
const bcryptCost = 12

// Service describes admin account management capabilities.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*galadmins.AdminUser, error)
	Login(ctx context.Context, username, password string) (*galadmins.AdminUser, error)
	Get(ctx context.Context, id uuid.UUID) (*galadmins.AdminUser, error)
	List(ctx context.Context) ([]*galadmins.AdminUser, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*galadmins.AdminUser, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)
}

// SignupInput captures the information required to register an admin account.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// Validate enforces the account registration constraints.
func (i SignupInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Username, validation.Required, validation.Length(3, 64)),
		validation.Field(&i.Email, validation.Required, validation.Length(3, 254)),
		validation.Field(&i.Password, validation.Required, validation.Length(8, 72)),
	)
}

// ServiceOption configures admin service behaviour.
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
		s.logger = logging.AdminsLogger(provider)
	}
}

type service struct {
	repo   Repository
	now    func() time.Time
	newID  func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs the admin account service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		newID:  uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*galadmins.AdminUser, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByUsername(ctx, input.Username); err == nil {
		return nil, galadmins.ErrUsernameTaken
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("admin lookup failed: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	record := &galadmins.AdminUser{
		ID:           s.newID(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("admin account created", "username", created.Username)
	return created, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*galadmins.AdminUser, error) {
	record, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			// Burn a comparison so missing accounts cost the same as bad passwords.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$12$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"), []byte(password))
			return nil, galadmins.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("admin lookup failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("admin login rejected", "username", username)
		return nil, galadmins.ErrInvalidCredentials
	}

	if !record.IsActive {
		return nil, galadmins.ErrAccountDisabled
	}

	return record, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*galadmins.AdminUser, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*galadmins.AdminUser, error) {
	return s.repo.List(ctx)
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*galadmins.AdminUser, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.IsActive = active
	record.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("update admin: %w", err)
	}

	s.logger.Info("admin account updated", "username", updated.Username, "active", active)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	s.logger.Info("admin account deleted", "username", record.Username)
	return nil
}

func (s *service) IsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return record.IsActive, nil
}

func isNotFound(err error) bool {
	var notFound *galadmins.NotFoundError
	return errors.As(err, &notFound)
}
