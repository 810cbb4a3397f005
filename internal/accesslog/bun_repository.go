package accesslog

import (
	"context"
	"fmt"
	"time"

	galaccess "github.com/ohanalens/go-gallery/accesslogs"
	"github.com/uptrace/bun"
)

// BunRepository persists audit records through bun. Audit rows are written
// once and never updated, so no caching layer is wrapped around this one.
type BunRepository struct {
	db *bun.DB
}

// NewBunRepository creates an audit record repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) Create(ctx context.Context, record *galaccess.AccessLog) (*galaccess.AccessLog, error) {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, fmt.Errorf("access log repository error: %w", err)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context, filter Filter) ([]*galaccess.AccessLog, error) {
	var records []*galaccess.AccessLog

	query := r.db.NewSelect().
		Model(&records).
		Order("created_at DESC")

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.AdminID != nil {
		query = query.Where("admin_id = ?", *filter.AdminID)
	}
	if filter.FolderID != nil {
		query = query.Where("folder_id = ?", *filter.FolderID)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("access log repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.NewDelete().
		Model((*galaccess.AccessLog)(nil)).
		Where("created_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("access log repository error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}
