package gallery

import (
	"context"
	"fmt"

	"github.com/ohanalens/go-gallery/accesslogs"
	"github.com/ohanalens/go-gallery/admins"
	"github.com/ohanalens/go-gallery/folders"
	"github.com/ohanalens/go-gallery/media"
	"github.com/uptrace/bun"
)

// BootstrapSchema creates the gallery tables when they do not exist yet.
// It is idempotent and safe to call on every startup.
func BootstrapSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("gallery: database handle is required")
	}
	models := []any{
		(*admins.AdminUser)(nil),
		(*folders.Folder)(nil),
		(*media.Media)(nil),
		(*accesslogs.AccessLog)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("gallery: create table for %T: %w", model, err)
		}
	}
	return nil
}
