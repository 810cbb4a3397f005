package gallerymedia

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	galmedia "github.com/ohanalens/go-gallery/media"
	"github.com/uptrace/bun"
)

// Repository is the persistence contract for media rows.
type Repository interface {
	Create(ctx context.Context, record *galmedia.Media) (*galmedia.Media, error)
	GetByID(ctx context.Context, id uuid.UUID) (*galmedia.Media, error)
	ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*galmedia.Media, error)
	ListAll(ctx context.Context) ([]*galmedia.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByFolder removes every row owned by the folder and reports how
	// many rows were removed.
	DeleteByFolder(ctx context.Context, folderID uuid.UUID) (int, error)
	CountByFolder(ctx context.Context, folderID uuid.UUID) (int, error)
	CountsByFolder(ctx context.Context) (map[uuid.UUID]int, error)
}

// NewMediaRepository builds the generic bun-backed repository for media rows.
func NewMediaRepository(db *bun.DB) repository.Repository[*galmedia.Media] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*galmedia.Media]{
		NewRecord: func() *galmedia.Media { return &galmedia.Media{} },
		GetID: func(m *galmedia.Media) uuid.UUID {
			return m.ID
		},
		SetID: func(m *galmedia.Media, id uuid.UUID) {
			m.ID = id
		},
		GetIdentifier: func() string {
			return "storage_public_id"
		},
		GetIdentifierValue: func(m *galmedia.Media) string {
			return m.StoragePublicID
		},
	})
}
