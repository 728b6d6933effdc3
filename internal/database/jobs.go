package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// editable job columns overwritten by an upsert, posted_at and created_by are kept
var jobUpsertColumns = []string{
	"job_ref", "title",
	"location_city", "location_state",
	"experience_id", "experience_label", "experience_min_years", "experience_max_years",
	"industry_name", "department", "key_skills", "description", "responsibilities",
	"salary_id", "salary_label", "salary_min", "salary_max",
	"ctc", "gender", "status",
}

// PublishedJobs returns every job with status Published, newest first.
func (d *DBinstanceStruct) PublishedJobs(ctx context.Context) ([]model.Job, error) {
	q, cancel := d.query(ctx)
	defer cancel()

	var jobs []model.Job
	err := q.Where("status = ?", model.StatusPublished).Order("posted_at DESC").Find(&jobs).Error
	return jobs, translate(err)
}

// ListJobs returns all jobs regardless of status ordered by posting date descending.
func (d *DBinstanceStruct) ListJobs(ctx context.Context) ([]model.Job, error) {
	q, cancel := d.query(ctx)
	defer cancel()

	var jobs []model.Job
	err := q.Order("posted_at DESC").Find(&jobs).Error
	return jobs, translate(err)
}

// JobByRef finds a job by its public reference.
func (d *DBinstanceStruct) JobByRef(ctx context.Context, ref string) (model.Job, error) {
	q, cancel := d.query(ctx)
	defer cancel()

	var job model.Job
	err := q.Where("job_ref = ?", ref).First(&job).Error
	return job, translate(err)
}

// JobByID finds a job by its durable identifier.
func (d *DBinstanceStruct) JobByID(ctx context.Context, id uuid.UUID) (model.Job, error) {
	q, cancel := d.query(ctx)
	defer cancel()

	var job model.Job
	err := q.First(&job, "id = ?", id).Error
	return job, translate(err)
}

// ResolveJobRef maps a public job reference to the job's durable identifier.
func (d *DBinstanceStruct) ResolveJobRef(ctx context.Context, ref string) (uuid.UUID, error) {
	q, cancel := d.query(ctx)
	defer cancel()

	var job model.Job
	err := q.Select("id").Where("job_ref = ?", ref).First(&job).Error
	if err != nil {
		return uuid.Nil, translate(err)
	}
	return job.ID, nil
}

// UpsertJob inserts the job or, when a job with the same id exists, overwrites
// its editable columns. A zero id is replaced with a fresh one.
func (d *DBinstanceStruct) UpsertJob(ctx context.Context, job *model.Job) error {
	q, cancel := d.query(ctx)
	defer cancel()

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.PostedAt.IsZero() {
		job.PostedAt = time.Now()
	}

	err := q.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(jobUpsertColumns),
	}).Create(job).Error
	return translate(err)
}

// SetJobStatus updates the status column of a single job.
func (d *DBinstanceStruct) SetJobStatus(ctx context.Context, id uuid.UUID, status string) error {
	q, cancel := d.query(ctx)
	defer cancel()

	res := q.Model(&model.Job{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteJob removes a job. Applications that referenced it keep a null job id.
func (d *DBinstanceStruct) DeleteJob(ctx context.Context, id uuid.UUID) error {
	q, cancel := d.query(ctx)
	defer cancel()

	res := q.Delete(&model.Job{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
