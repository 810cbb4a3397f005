package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ohanalens/go-gallery/admins"
	"github.com/ohanalens/go-gallery/internal/logging"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

// DefaultTokenTTL matches the share-link lifetime members expect.
const DefaultTokenTTL = 7 * 24 * time.Hour

const (
	kindAdmin  = "admin"
	kindFolder = "folder"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// wrong token kind, or a subject that no longer exists.
var ErrInvalidToken = errors.New("auth: invalid token")

// galleryClaims binds a token to either an admin account or a folder share.
type galleryClaims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// Config captures token issuing parameters.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// AdminDirectory lets verification confirm the admin still exists and is active.
type AdminDirectory interface {
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)
}

// FolderDirectory lets verification confirm the folder still exists.
type FolderDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service issues and verifies the two token audiences: admin sessions and
// member folder access.
type Service interface {
	IssueAdminToken(adminID uuid.UUID) (string, error)
	IssueFolderToken(folderID uuid.UUID) (string, error)
	VerifyAdminToken(ctx context.Context, token string) (uuid.UUID, error)
	VerifyFolderToken(ctx context.Context, token string) (uuid.UUID, error)
}

// ServiceOption customises the auth service.
type ServiceOption func(*service)

// WithLogger attaches a logger for verification failures.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock injects the time source used for issued-at/expiry claims.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	cfg     Config
	admins  AdminDirectory
	folders FolderDirectory
	logger  interfaces.Logger
	now     func() time.Time
}

// NewService constructs the token service. Directories may be nil, in which
// case existence checks are skipped (useful for stateless verification).
func NewService(cfg Config, adminDir AdminDirectory, folderDir FolderDirectory, opts ...ServiceOption) Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	s := &service{
		cfg:     cfg,
		admins:  adminDir,
		folders: folderDir,
		logger:  logging.NoOp(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) IssueAdminToken(adminID uuid.UUID) (string, error) {
	return s.issue(kindAdmin, adminID)
}

func (s *service) IssueFolderToken(folderID uuid.UUID) (string, error) {
	return s.issue(kindFolder, folderID)
}

func (s *service) issue(kind string, subject uuid.UUID) (string, error) {
	now := s.now()
	claims := galleryClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *service) VerifyAdminToken(ctx context.Context, token string) (uuid.UUID, error) {
	subject, err := s.verify(token, kindAdmin)
	if err != nil {
		return uuid.Nil, err
	}
	if s.admins != nil {
		active, err := s.admins.IsActive(ctx, subject)
		if err != nil {
			s.logger.Warn("auth.admin_lookup_failed", "error", err)
			return uuid.Nil, ErrInvalidToken
		}
		if !active {
			return uuid.Nil, admins.ErrAccountDisabled
		}
	}
	return subject, nil
}

func (s *service) VerifyFolderToken(ctx context.Context, token string) (uuid.UUID, error) {
	subject, err := s.verify(token, kindFolder)
	if err != nil {
		return uuid.Nil, err
	}
	if s.folders != nil {
		exists, err := s.folders.Exists(ctx, subject)
		if err != nil {
			s.logger.Warn("auth.folder_lookup_failed", "error", err)
			return uuid.Nil, ErrInvalidToken
		}
		if !exists {
			return uuid.Nil, ErrInvalidToken
		}
	}
	return subject, nil
}

func (s *service) verify(token, wantKind string) (uuid.UUID, error) {
	claims := &galleryClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	if claims.Kind != wantKind {
		return uuid.Nil, ErrInvalidToken
	}
	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return subject, nil
}
