package model

import (
	"time"

	"github.com/google/uuid"
)

// RoleAdmin is the only role allowed into the admin panel.
const RoleAdmin = "admin"

// User is an account that can sign in to the admin panel
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Email     string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text" json:"-"`
	Role      string    `gorm:"type:text;not null;default:'admin'" json:"role"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:CURRENT_TIMESTAMP" json:"created_at"`
}
