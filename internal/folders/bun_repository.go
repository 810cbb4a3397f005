package folders

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	galfolders "github.com/ohanalens/go-gallery/folders"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository with optional caching. Counter
// adjustments bypass the cache so concurrent uploads never clobber each
// other's increments.
type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*galfolders.Folder]
}

// NewBunRepository creates a folder repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a folder repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewFolderRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{db: db, repo: base}
}

func (r *BunRepository) Create(ctx context.Context, record *galfolders.Folder) (*galfolders.Folder, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*galfolders.Folder, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) GetByKey(ctx context.Context, folderKey string) (*galfolders.Folder, error) {
	record, err := r.repo.GetByIdentifier(ctx, folderKey)
	if err != nil {
		return nil, mapRepositoryError(err, folderKey)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*galfolders.Folder, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunRepository) Update(ctx context.Context, record *galfolders.Folder) (*galfolders.Folder, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &galfolders.Folder{ID: id})
}

func (r *BunRepository) AddBytes(ctx context.Context, id uuid.UUID, delta int64) error {
	res, err := r.db.NewUpdate().
		Model((*galfolders.Folder)(nil)).
		Set("size_in_bytes = size_in_bytes + ?", delta).
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folder repository error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return &galfolders.NotFoundError{Key: id.String()}
	}
	return nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &galfolders.NotFoundError{Key: key}
	}
	return fmt.Errorf("folder repository error: %w", err)
}
