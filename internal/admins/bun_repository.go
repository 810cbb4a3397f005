package admins

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	galadmins "github.com/ohanalens/go-gallery/admins"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository with optional caching.
type BunRepository struct {
	repo repository.Repository[*galadmins.AdminUser]
}

// NewBunRepository creates an admin repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates an admin repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewAdminUserRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Create(ctx context.Context, record *galadmins.AdminUser) (*galadmins.AdminUser, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*galadmins.AdminUser, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "admin", id.String())
	}
	return record, nil
}

func (r *BunRepository) GetByUsername(ctx context.Context, username string) (*galadmins.AdminUser, error) {
	record, err := r.repo.GetByIdentifier(ctx, username)
	if err != nil {
		return nil, mapRepositoryError(err, "admin", username)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*galadmins.AdminUser, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunRepository) Update(ctx context.Context, record *galadmins.AdminUser) (*galadmins.AdminUser, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &galadmins.AdminUser{ID: id})
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &galadmins.NotFoundError{Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
