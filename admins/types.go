package admins

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AdminUser is an operator account that can manage folders and uploads.
type AdminUser struct {
	bun.BaseModel `bun:"table:admin_users,alias:au"`

	ID           uuid.UUID `bun:",pk,type:uuid"                    json:"id"`
	Username     string    `bun:"username,notnull,unique"          json:"username"`
	Email        string    `bun:"email,notnull,unique"             json:"email"`
	PasswordHash string    `bun:"password_hash,notnull"            json:"-"`
	IsActive     bool      `bun:"is_active,notnull,default:true"   json:"is_active"`
	CreatedAt    time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
