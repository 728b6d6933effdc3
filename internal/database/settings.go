package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// WebhookURL returns the webhook target stored in settings, or "" when unset.
func (d *DBinstanceStruct) WebhookURL(ctx context.Context) (string, error) {
	q, cancel := d.query(ctx)
	defer cancel()

	var s model.Setting
	err := q.First(&s, model.SettingsRowID).Error
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return "", nil
		}
		return "", translate(err)
	}
	if s.WebhookURL == nil {
		return "", nil
	}
	return *s.WebhookURL, nil
}

// SetWebhookURL stores the webhook target. An empty url clears it.
func (d *DBinstanceStruct) SetWebhookURL(ctx context.Context, url string, by *uuid.UUID) error {
	q, cancel := d.query(ctx)
	defer cancel()

	s := model.Setting{ID: model.SettingsRowID, CreatedBy: by}
	if url = strings.TrimSpace(url); url != "" {
		s.WebhookURL = &url
	}
	err := q.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"webhook_url", "updated_at"}),
	}).Create(&s).Error
	return translate(err)
}
