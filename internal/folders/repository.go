package folders

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	galfolders "github.com/ohanalens/go-gallery/folders"
	"github.com/uptrace/bun"
)

// Repository is the persistence contract for folder records.
type Repository interface {
	Create(ctx context.Context, record *galfolders.Folder) (*galfolders.Folder, error)
	GetByID(ctx context.Context, id uuid.UUID) (*galfolders.Folder, error)
	GetByKey(ctx context.Context, folderKey string) (*galfolders.Folder, error)
	List(ctx context.Context) ([]*galfolders.Folder, error)
	Update(ctx context.Context, record *galfolders.Folder) (*galfolders.Folder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// AddBytes adjusts the folder's stored byte counter by delta, which may
	// be negative when media is removed.
	AddBytes(ctx context.Context, id uuid.UUID, delta int64) error
}

// NewFolderRepository builds the generic bun-backed repository for folder rows.
func NewFolderRepository(db *bun.DB) repository.Repository[*galfolders.Folder] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*galfolders.Folder]{
		NewRecord: func() *galfolders.Folder { return &galfolders.Folder{} },
		GetID: func(f *galfolders.Folder) uuid.UUID {
			return f.ID
		},
		SetID: func(f *galfolders.Folder, id uuid.UUID) {
			f.ID = id
		},
		GetIdentifier: func() string {
			return "folder_key"
		},
		GetIdentifierValue: func(f *galfolders.Folder) string {
			return f.FolderKey
		},
	})
}
