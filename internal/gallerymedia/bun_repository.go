package gallerymedia

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	galmedia "github.com/ohanalens/go-gallery/media"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository with optional caching. Folder-scoped
// listings and counts run against the database directly because the generic
// repository has no grouped-aggregate surface.
type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*galmedia.Media]
}

// NewBunRepository creates a media repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a media repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewMediaRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{db: db, repo: base}
}

func (r *BunRepository) Create(ctx context.Context, record *galmedia.Media) (*galmedia.Media, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*galmedia.Media, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*galmedia.Media, error) {
	var records []*galmedia.Media
	err := r.db.NewSelect().
		Model(&records).
		Where("folder_id = ?", folderID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("media repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) ListAll(ctx context.Context) ([]*galmedia.Media, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &galmedia.Media{ID: id})
}

func (r *BunRepository) DeleteByFolder(ctx context.Context, folderID uuid.UUID) (int, error) {
	res, err := r.db.NewDelete().
		Model((*galmedia.Media)(nil)).
		Where("folder_id = ?", folderID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("media repository error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

func (r *BunRepository) CountByFolder(ctx context.Context, folderID uuid.UUID) (int, error) {
	count, err := r.db.NewSelect().
		Model((*galmedia.Media)(nil)).
		Where("folder_id = ?", folderID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("media repository error: %w", err)
	}
	return count, nil
}

func (r *BunRepository) CountsByFolder(ctx context.Context) (map[uuid.UUID]int, error) {
	var rows []struct {
		FolderID uuid.UUID `bun:"folder_id"`
		Total    int       `bun:"total"`
	}
	err := r.db.NewSelect().
		Model((*galmedia.Media)(nil)).
		Column("folder_id").
		ColumnExpr("count(*) AS total").
		Group("folder_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("media repository error: %w", err)
	}

	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.FolderID] = row.Total
	}
	return counts, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &galmedia.NotFoundError{Key: key}
	}
	return fmt.Errorf("media repository error: %w", err)
}
