// Package admin implements the session-gated job and application management
// used by the admin panel.
package admin

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ahscorp/hiring-hive-platform/internal/auth"
	"github.com/ahscorp/hiring-hive-platform/internal/catalog"
	"github.com/ahscorp/hiring-hive-platform/internal/database"
	"github.com/ahscorp/hiring-hive-platform/internal/logging"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// Store is the data store the admin operations run against.
type Store interface {
	ListJobs(ctx context.Context) ([]model.Job, error)
	JobByID(ctx context.Context, id uuid.UUID) (model.Job, error)
	UpsertJob(ctx context.Context, job *model.Job) error
	SetJobStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteJob(ctx context.Context, id uuid.UUID) error
	ApplicationsByJobIDs(ctx context.Context, ids []uuid.UUID) ([]model.Application, error)
	SetApplicationProcessed(ctx context.Context, id uuid.UUID, processed bool) error
	GeneralProfiles(ctx context.Context) ([]model.GeneralProfile, error)
	SetProfileProcessed(ctx context.Context, id uuid.UUID, processed bool) error
	EnsureLocation(ctx context.Context, city, state string) error
	EnsureIndustry(ctx context.Context, name string) error
	WebhookURL(ctx context.Context) (string, error)
	SetWebhookURL(ctx context.Context, url string, by *uuid.UUID) error
}

// Board is the admin view of all jobs, newest first, each carrying its applications.
type Board struct {
	Jobs []model.Job `json:"jobs"`
}

// Service runs admin operations. Every operation requires a live session.
type Service struct {
	store    Store
	catalog  *catalog.Holder
	validate *validator.Validate
	onChange func()
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithOnChange registers fn to run after every successful job mutation.
func WithOnChange(fn func()) Option {
	return func(s *Service) { s.onChange = fn }
}

// NewService creates a Service.
func NewService(store Store, cat *catalog.Holder, opts ...Option) *Service {
	s := &Service{
		store:    store,
		catalog:  cat,
		validate: newValidator(),
		onChange: func() {},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) authorize(session *auth.Session) error {
	if err := session.Check(s.now()); err != nil {
		return errors.Join(ErrUnauthenticated, err)
	}
	return nil
}

func storeError(op string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return errors.Join(ErrNotFound, err)
	}
	return &PersistenceError{Op: op, Err: err}
}

// List returns all jobs ordered by posting date descending with their
// applications attached. Applications are fetched in a second query keyed by
// the job ids of the first.
func (s *Service) List(ctx context.Context, session *auth.Session) (Board, error) {
	if err := s.authorize(session); err != nil {
		return Board{}, err
	}

	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return Board{}, storeError("load jobs", err)
	}
	ids := make([]uuid.UUID, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	apps, err := s.store.ApplicationsByJobIDs(ctx, ids)
	if err != nil {
		return Board{}, storeError("load applications", err)
	}

	byJob := make(map[uuid.UUID][]model.Application, len(jobs))
	for _, a := range apps {
		if a.JobID != nil {
			byJob[*a.JobID] = append(byJob[*a.JobID], a)
		}
	}
	for i := range jobs {
		jobs[i].Applications = byJob[jobs[i].ID]
	}
	return Board{Jobs: jobs}, nil
}

// Job returns a single job.
func (s *Service) Job(ctx context.Context, session *auth.Session, id uuid.UUID) (model.Job, error) {
	if err := s.authorize(session); err != nil {
		return model.Job{}, err
	}
	job, err := s.store.JobByID(ctx, id)
	if err != nil {
		return model.Job{}, storeError("load job", err)
	}
	return job, nil
}

// Create validates in and stores a new job.
func (s *Service) Create(ctx context.Context, session *auth.Session, in JobInput) (model.Job, error) {
	if err := s.authorize(session); err != nil {
		return model.Job{}, err
	}
	info, err := in.toJobInfo(s.validate, s.catalog.Get())
	if err != nil {
		return model.Job{}, err
	}

	by := session.UserID
	job := model.Job{EditableJobInfo: info, CreatedBy: &by}
	return s.save(ctx, &job)
}

// Update validates in and replaces the editable part of job id. Posting date
// and author are kept.
func (s *Service) Update(ctx context.Context, session *auth.Session, id uuid.UUID, in JobInput) (model.Job, error) {
	if err := s.authorize(session); err != nil {
		return model.Job{}, err
	}
	info, err := in.toJobInfo(s.validate, s.catalog.Get())
	if err != nil {
		return model.Job{}, err
	}

	job, err := s.store.JobByID(ctx, id)
	if err != nil {
		return model.Job{}, storeError("load job", err)
	}
	job.EditableJobInfo = info
	job.Applications = nil
	return s.save(ctx, &job)
}

func (s *Service) save(ctx context.Context, job *model.Job) (model.Job, error) {
	if err := s.store.UpsertJob(ctx, job); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return model.Job{}, &ValidationError{Fields: map[string]string{"job_ref": "Job ID already exists."}}
		}
		return model.Job{}, storeError("save job", err)
	}
	s.ensureLookups(ctx, *job)
	s.onChange()
	return *job, nil
}

// ensureLookups adds the job's location and industry to the lookup tables.
// Existing rows count as success and other failures are only logged.
func (s *Service) ensureLookups(ctx context.Context, job model.Job) {
	logger := logging.For("admin")
	if err := s.store.EnsureLocation(ctx, job.Location.City, job.Location.State); err != nil {
		logger.WithError(err).WithField("location", job.Location).Warn("Failed to add location lookup")
	}
	if err := s.store.EnsureIndustry(ctx, job.Industry.Name); err != nil {
		logger.WithError(err).WithField("industry", job.Industry.Name).Warn("Failed to add industry lookup")
	}
}

// SetStatus sets the status of job id.
func (s *Service) SetStatus(ctx context.Context, session *auth.Session, id uuid.UUID, status string) error {
	if err := s.authorize(session); err != nil {
		return err
	}
	if !model.ValidStatus(status) {
		return &ValidationError{Fields: map[string]string{"status": "Status must be Published or Draft."}}
	}
	if err := s.store.SetJobStatus(ctx, id, status); err != nil {
		return storeError("update job status", err)
	}
	s.onChange()
	return nil
}

// ToggleStatus flips job id between Published and Draft and returns the new status.
func (s *Service) ToggleStatus(ctx context.Context, session *auth.Session, id uuid.UUID) (string, error) {
	job, err := s.Job(ctx, session, id)
	if err != nil {
		return "", err
	}
	next := job.ToggledStatus()
	if err := s.SetStatus(ctx, session, id, next); err != nil {
		return "", err
	}
	return next, nil
}

// Delete removes job id. Its applications are kept with no job.
func (s *Service) Delete(ctx context.Context, session *auth.Session, id uuid.UUID) error {
	if err := s.authorize(session); err != nil {
		return err
	}
	if err := s.store.DeleteJob(ctx, id); err != nil {
		return storeError("delete job", err)
	}
	s.onChange()
	return nil
}

// SetApplicationProcessed sets the processed flag of application id.
func (s *Service) SetApplicationProcessed(ctx context.Context, session *auth.Session, id uuid.UUID, processed bool) error {
	if err := s.authorize(session); err != nil {
		return err
	}
	if err := s.store.SetApplicationProcessed(ctx, id, processed); err != nil {
		return storeError("update application", err)
	}
	return nil
}

// Profiles returns the general profile submissions, newest first.
func (s *Service) Profiles(ctx context.Context, session *auth.Session) ([]model.GeneralProfile, error) {
	if err := s.authorize(session); err != nil {
		return nil, err
	}
	profiles, err := s.store.GeneralProfiles(ctx)
	if err != nil {
		return nil, storeError("load profiles", err)
	}
	return profiles, nil
}

// SetProfileProcessed sets the processed flag of general profile id.
func (s *Service) SetProfileProcessed(ctx context.Context, session *auth.Session, id uuid.UUID, processed bool) error {
	if err := s.authorize(session); err != nil {
		return err
	}
	if err := s.store.SetProfileProcessed(ctx, id, processed); err != nil {
		return storeError("update profile", err)
	}
	return nil
}

// WebhookURL returns the stored webhook URL, empty when unset.
func (s *Service) WebhookURL(ctx context.Context, session *auth.Session) (string, error) {
	if err := s.authorize(session); err != nil {
		return "", err
	}
	url, err := s.store.WebhookURL(ctx)
	if err != nil {
		return "", storeError("load settings", err)
	}
	return url, nil
}

// SetWebhookURL stores the webhook URL. An empty URL falls back to the configured one.
func (s *Service) SetWebhookURL(ctx context.Context, session *auth.Session, url string) error {
	if err := s.authorize(session); err != nil {
		return err
	}
	in := webhookInput{URL: url}
	if err := s.validate.Struct(in); err != nil {
		return validationFrom(err)
	}
	by := session.UserID
	if err := s.store.SetWebhookURL(ctx, url, &by); err != nil {
		return storeError("save settings", err)
	}
	return nil
}

// ReloadCatalog re-reads the range catalog file.
func (s *Service) ReloadCatalog(session *auth.Session) (*catalog.Catalog, error) {
	if err := s.authorize(session); err != nil {
		return nil, err
	}
	return s.catalog.Reload()
}
