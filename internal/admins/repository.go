package admins

import (
	"context"

	"github.com/google/uuid"
	repository "github.com/goliatone/go-repository-bun"
	galadmins "github.com/ohanalens/go-gallery/admins"
	"github.com/uptrace/bun"
)

// Repository is the persistence contract for admin accounts.
type Repository interface {
	Create(ctx context.Context, record *galadmins.AdminUser) (*galadmins.AdminUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*galadmins.AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*galadmins.AdminUser, error)
	List(ctx context.Context) ([]*galadmins.AdminUser, error)
	Update(ctx context.Context, record *galadmins.AdminUser) (*galadmins.AdminUser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewAdminUserRepository builds the generic bun-backed repository for admin rows.
func NewAdminUserRepository(db *bun.DB) repository.Repository[*galadmins.AdminUser] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*galadmins.AdminUser]{
		NewRecord: func() *galadmins.AdminUser { return &galadmins.AdminUser{} },
		GetID: func(a *galadmins.AdminUser) uuid.UUID {
			return a.ID
		},
		SetID: func(a *galadmins.AdminUser, id uuid.UUID) {
			a.ID = id
		},
		GetIdentifier: func() string {
			return "username"
		},
		GetIdentifierValue: func(a *galadmins.AdminUser) string {
			return a.Username
		},
	})
}
