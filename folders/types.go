package folders

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Folder is a password-protected share containing uploaded media.
type Folder struct {
	bun.BaseModel `bun:"table:folders,alias:f"`

	ID           uuid.UUID `bun:",pk,type:uuid"                    json:"id"`
	Name         string    `bun:"name,notnull"                     json:"name"`
	Slug         string    `bun:"slug,notnull"                     json:"slug"`
	Description  *string   `bun:"description"                      json:"description,omitempty"`
	FolderKey    string    `bun:"folder_key,notnull,unique"        json:"folder_key"`
	PasswordHash string    `bun:"password_hash,notnull"            json:"-"`
	SizeInBytes  int64     `bun:"size_in_bytes,notnull,default:0"  json:"size_in_bytes"`
	MediaCount   int       `bun:"-"                                json:"media_count"`
	CreatedAt    time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Metadata is the member-facing view of a folder: no password hash, and the
// markdown description rendered to HTML.
type Metadata struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description,omitempty"`
	DescriptionHTML string    `json:"description_html,omitempty"`
	FolderKey       string    `json:"folder_key"`
	SizeInBytes     int64     `json:"size_in_bytes"`
	MediaCount      int       `json:"media_count"`
	CreatedAt       time.Time `json:"created_at"`
}
