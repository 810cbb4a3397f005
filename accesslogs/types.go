package accesslogs

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Action enumerates the audited events.
type Action string

const (
	ActionAdminLogin   Action = "ADMIN_LOGIN"
	ActionFolderAccess Action = "FOLDER_ACCESS"
	ActionFolderCreate Action = "FOLDER_CREATE"
	ActionFolderDelete Action = "FOLDER_DELETE"
	ActionMediaUpload  Action = "MEDIA_UPLOAD"
	ActionMediaDelete  Action = "MEDIA_DELETE"
)

// AccessLog is an append-only audit record of admin and member activity.
type AccessLog struct {
	bun.BaseModel `bun:"table:access_logs,alias:al"`

	ID        uuid.UUID  `bun:",pk,type:uuid"            json:"id"`
	AdminID   *uuid.UUID `bun:"admin_id,type:uuid"       json:"admin_id,omitempty"`
	FolderID  *uuid.UUID `bun:"folder_id,type:uuid"      json:"folder_id,omitempty"`
	Action    Action     `bun:"action,notnull"           json:"action"`
	IPAddress string     `bun:"ip_address,notnull"       json:"ip_address"`
	UserAgent string     `bun:"user_agent,notnull"       json:"user_agent"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
