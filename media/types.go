package media

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Type distinguishes how an asset is validated and stored.
type Type string

const (
	TypeImage Type = "image"
	TypeVideo Type = "video"
)

// Media is a single uploaded asset belonging to a folder. The payload itself
// lives in the remote store; this row carries the pointer and bookkeeping.
type Media struct {
	bun.BaseModel `bun:"table:media,alias:m"`

	ID              uuid.UUID `bun:",pk,type:uuid"                json:"id"`
	FolderID        uuid.UUID `bun:"folder_id,notnull,type:uuid"  json:"folder_id"`
	FileName        string    `bun:"file_name,notnull"            json:"file_name"`
	StorageURL      string    `bun:"storage_url,notnull"          json:"url"`
	StoragePublicID string    `bun:"storage_public_id,notnull"    json:"-"`
	MediaType       Type      `bun:"media_type,notnull"           json:"media_type"`
	FileSize        int64     `bun:"file_size,notnull"            json:"file_size"`
	MimeType        string    `bun:"mime_type,notnull"            json:"mime_type"`
	CreatedAt       time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// KindFromMime derives the media type from a declared MIME type prefix.
// Anything that is not an image is treated as video, mirroring how batch
// uploads classify files before validation.
func KindFromMime(mime string) Type {
	if len(mime) >= 6 && mime[:6] == "image/" {
		return TypeImage
	}
	return TypeVideo
}
