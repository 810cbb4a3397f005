package accesslog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	galaccess "github.com/ohanalens/go-gallery/accesslogs"
	"github.com/ohanalens/go-gallery/internal/logging"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

// Entry captures one audit event before it is assigned an ID and timestamp.
type Entry struct {
	AdminID   *uuid.UUID
	FolderID  *uuid.UUID
	Action    galaccess.Action
	IPAddress string
	UserAgent string
}

// Service records and lists audit events. Recording is best-effort from the
// caller's point of view: handlers log failures but do not fail requests over
// a missed audit row.
type Service interface {
	Record(ctx context.Context, entry Entry) (*galaccess.AccessLog, error)
	List(ctx context.Context, filter Filter) ([]*galaccess.AccessLog, error)
	// TrimOlderThan removes records past the retention window.
	TrimOlderThan(ctx context.Context, retention time.Duration) (int, error)
}

// ServiceOption configures audit service behaviour.
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
		s.logger = logging.ModuleLogger(provider, "gallery.accesslog")
	}
}

type service struct {
	repo   Repository
	now    func() time.Time
	newID  func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs the audit service.
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

func (s *service) Record(ctx context.Context, entry Entry) (*galaccess.AccessLog, error) {
	if entry.Action == "" {
		return nil, fmt.Errorf("accesslog: action is required")
	}

	record := &galaccess.AccessLog{
		ID:        s.newID(),
		AdminID:   entry.AdminID,
		FolderID:  entry.FolderID,
		Action:    entry.Action,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		CreatedAt: s.now(),
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("record access log: %w", err)
	}
	return created, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*galaccess.AccessLog, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) TrimOlderThan(ctx context.Context, retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("accesslog: retention must be positive")
	}

	cutoff := s.now().Add(-retention)
	removed, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("trim access logs: %w", err)
	}

	s.logger.Info("access logs trimmed", "removed", removed, "cutoff", cutoff)
	return removed, nil
}
