package accesslog

import (
	"context"
	"time"

	"github.com/google/uuid"
	galaccess "github.com/ohanalens/go-gallery/accesslogs"
)

// Filter narrows an audit listing. Zero values mean "no constraint".
type Filter struct {
	Action   galaccess.Action
	AdminID  *uuid.UUID
	FolderID *uuid.UUID
	Since    time.Time
	Limit    int
}

// Repository is the persistence contract for audit records.
type Repository interface {
	Create(ctx context.Context, record *galaccess.AccessLog) (*galaccess.AccessLog, error)
	List(ctx context.Context, filter Filter) ([]*galaccess.AccessLog, error)
	// DeleteOlderThan trims records created before the cutoff and reports how
	// many rows were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
