package model

import (
	"time"

	"github.com/google/uuid"
)

// SettingsRowID is the primary key of the single settings row.
const SettingsRowID = 1

// Setting holds admin-editable runtime settings
type Setting struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	WebhookURL *string    `gorm:"type:text" json:"webhook_url"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt  time.Time  `gorm:"type:timestamptz;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"type:timestamptz" json:"updated_at"`
}
