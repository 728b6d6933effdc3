package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// InsertApplication stores a new job application.
func (d *DBinstanceStruct) InsertApplication(ctx context.Context, app *model.Application) error {
	q, cancel := d.query(ctx)
	defer cancel()

	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	return translate(q.Create(app).Error)
}

// InsertGeneralProfile stores a profile-only submission.
func (d *DBinstanceStruct) InsertGeneralProfile(ctx context.Context, p *model.GeneralProfile) error {
	q, cancel := d.query(ctx)
	defer cancel()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return translate(q.Create(p).Error)
}

// ApplicationsByJobIDs returns the applications of the given jobs, newest first.
func (d *DBinstanceStruct) ApplicationsByJobIDs(ctx context.Context, ids []uuid.UUID) ([]model.Application, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q, cancel := d.query(ctx)
	defer cancel()

	var apps []model.Application
	err := q.Where("job_id IN ?", ids).Order("created_at DESC").Find(&apps).Error
	return apps, translate(err)
}

// GeneralProfiles returns every profile-only submission, newest first.
func (d *DBinstanceStruct) GeneralProfiles(ctx context.Context) ([]model.GeneralProfile, error) {
	q, cancel := d.query(ctx)
	defer cancel()

	var profiles []model.GeneralProfile
	err := q.Order("created_at DESC").Find(&profiles).Error
	return profiles, translate(err)
}

// SetApplicationProcessed updates the processed flag of one application.
func (d *DBinstanceStruct) SetApplicationProcessed(ctx context.Context, id uuid.UUID, processed bool) error {
	q, cancel := d.query(ctx)
	defer cancel()

	res := q.Model(&model.Application{}).Where("id = ?", id).Update("processed", processed)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetProfileProcessed updates the processed flag of one general profile.
func (d *DBinstanceStruct) SetProfileProcessed(ctx context.Context, id uuid.UUID, processed bool) error {
	q, cancel := d.query(ctx)
	defer cancel()

	res := q.Model(&model.GeneralProfile{}).Where("id = ?", id).Update("processed", processed)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResumeURLs returns every resume URL referenced by applications or profiles.
func (d *DBinstanceStruct) ResumeURLs(ctx context.Context) (map[string]struct{}, error) {
	q, cancel := d.query(ctx)
	defer cancel()

	var urls []string
	if err := q.Model(&model.Application{}).Pluck("resume_url", &urls).Error; err != nil {
		return nil, translate(err)
	}
	var profileURLs []string
	if err := q.Model(&model.GeneralProfile{}).Pluck("resume_url", &profileURLs).Error; err != nil {
		return nil, translate(err)
	}

	set := make(map[string]struct{}, len(urls)+len(profileURLs))
	for _, u := range append(urls, profileURLs...) {
		set[u] = struct{}{}
	}
	return set, nil
}
