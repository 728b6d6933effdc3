// Package submission implements the application workflow: validate the
// draft, upload the resume, notify, then persist an application or a
// profile-only submission.
package submission

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ahscorp/hiring-hive-platform/internal/database"
	"github.com/ahscorp/hiring-hive-platform/internal/logging"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
	"github.com/ahscorp/hiring-hive-platform/internal/notify"
)

// DefaultGenericJobRef marks a profile-only submission.
const DefaultGenericJobRef = "AHS000"

// Form names reported to notification sinks.
const (
	FormNameProfile     = "General Profile Submission"
	FormNameApplication = "Job Application Form"
)

// Uploader stores a resume and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, file ResumeFile, targetID, fullName string) (string, error)
}

// Notifier dispatches a payload without waiting for delivery.
type Notifier interface {
	Notify(ctx context.Context, p notify.Payload)
}

// Store persists submissions.
type Store interface {
	ResolveJobRef(ctx context.Context, ref string) (uuid.UUID, error)
	InsertApplication(ctx context.Context, app *model.Application) error
	InsertGeneralProfile(ctx context.Context, p *model.GeneralProfile) error
}

// Config tunes a Workflow.
type Config struct {
	GenericJobRef  string
	UploadTimeout  time.Duration
	PersistTimeout time.Duration
	// PageURL is reported to notification sinks as the form's location.
	PageURL string
	// Location is the time zone of the Date and Time notification fields.
	Location *time.Location
	Now      func() time.Time
}

// Kind tells what a successful submission created.
type Kind string

// Submission kinds.
const (
	KindApplication Kind = "application"
	KindProfile     Kind = "profile"
)

// Result describes a successful submission.
type Result struct {
	Kind      Kind      `json:"kind"`
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id,omitempty"`
	ResumeURL string    `json:"resume_url"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
}

// Workflow drives drafts through the submission states. It is safe for
// concurrent use by independent drafts.
type Workflow struct {
	uploader Uploader
	notifier Notifier
	store    Store
	cfg      Config
	log      *log.Entry
}

// NewWorkflow wires a workflow. A nil notifier disables notifications.
func NewWorkflow(u Uploader, n Notifier, s Store, cfg Config) *Workflow {
	if cfg.GenericJobRef == "" {
		cfg.GenericJobRef = DefaultGenericJobRef
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Workflow{
		uploader: u,
		notifier: n,
		store:    s,
		cfg:      cfg,
		log:      logging.For("submission"),
	}
}

// IsGeneric reports whether t is a profile-only target.
func (w *Workflow) IsGeneric(t Target) bool {
	ref := strings.TrimSpace(t.JobRef)
	return ref == "" || ref == w.cfg.GenericJobRef
}

// Submit runs the workflow for d. On failure d returns to Editing with its
// fields and resume untouched and the error recorded in d.LastError. On
// success d is cleared and left in Submitted.
func (w *Workflow) Submit(ctx context.Context, d *Draft) (Result, error) {
	if d.state != Editing {
		return Result{}, ErrNotEditing
	}

	var (
		resumeURL string
		result    Result
		err       error
	)
	entry := w.log.WithField("job_ref", d.Target.JobRef)

	state, effect := Next(d.state, EventSubmit)
	for effect != EffectNone {
		d.state = state
		var ev Event

		switch effect {
		case EffectValidate:
			if err = d.Validate(); err != nil {
				ev = EventInvalid
			} else {
				ev = EventValid
			}

		case EffectUpload:
			resumeURL, err = w.upload(ctx, d)
			if err != nil {
				ev = EventUploadFailed
			} else {
				ev = EventUploaded
			}

		case EffectNotifyAndPersist:
			w.notify(ctx, d, resumeURL)
			result, err = w.persist(ctx, d, resumeURL)
			if err != nil {
				ev = EventPersistFailed
			} else {
				ev = EventPersisted
			}

		case EffectReportError:
			d.LastError = err
			entry.WithError(err).Warn("Submission failed")
			return Result{}, err

		case EffectConfirm:
			entry.WithFields(log.Fields{"kind": result.Kind, "id": result.ID}).Info("Submission stored")
			d.reset()
			d.state = Submitted
			return result, nil
		}

		state, effect = Next(state, ev)
	}

	// unreachable with a well formed transition table
	d.state = Editing
	return Result{}, errors.New("submission stalled in state " + state.String())
}

// Reopen moves a submitted draft back to Editing for another submission.
func (d *Draft) Reopen() {
	d.state, _ = Next(d.state, EventReset)
}

func (w *Workflow) upload(ctx context.Context, d *Draft) (string, error) {
	if w.cfg.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.UploadTimeout)
		defer cancel()
	}

	target := strings.TrimSpace(d.Target.JobRef)
	if target == "" {
		target = "default"
	}
	url, err := w.uploader.Upload(ctx, *d.Resume, target, d.Form.FullName)
	if err != nil {
		var ue *UploadError
		if errors.As(err, &ue) {
			return "", ue
		}
		return "", &UploadError{Err: err}
	}
	if url == "" {
		return "", &UploadError{Reason: "Failed to upload resume. Please try again."}
	}
	return url, nil
}

func (w *Workflow) notify(ctx context.Context, d *Draft, resumeURL string) {
	if w.notifier == nil {
		return
	}
	w.notifier.Notify(ctx, w.Payload(d, resumeURL))
}

func (w *Workflow) persist(ctx context.Context, d *Draft, resumeURL string) (Result, error) {
	if w.cfg.PersistTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.PersistTimeout)
		defer cancel()
	}

	applicant := d.Form.Applicant(resumeURL)

	if w.IsGeneric(d.Target) {
		p := &model.GeneralProfile{Applicant: applicant}
		if err := w.store.InsertGeneralProfile(ctx, p); err != nil {
			return Result{}, &PersistenceError{Err: err}
		}
		return Result{
			Kind:      KindProfile,
			ID:        p.ID,
			ResumeURL: resumeURL,
			Title:     "Profile Submitted!",
			Message:   "Thank you for submitting your profile. We'll contact you when suitable opportunities arise.",
		}, nil
	}

	ref := strings.TrimSpace(d.Target.JobRef)
	jobID, err := w.store.ResolveJobRef(ctx, ref)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return Result{}, &InvalidReferenceError{JobRef: ref, Err: err}
		}
		return Result{}, &PersistenceError{Err: err}
	}

	app := &model.Application{JobID: &jobID, Applicant: applicant}
	if err := w.store.InsertApplication(ctx, app); err != nil {
		// the job was deleted between resolve and insert
		if errors.Is(err, database.ErrForeignKey) {
			return Result{}, &InvalidReferenceError{JobRef: ref, Err: err}
		}
		return Result{}, &PersistenceError{Err: err}
	}
	return Result{
		Kind:      KindApplication,
		ID:        app.ID,
		JobID:     jobID,
		ResumeURL: resumeURL,
		Title:     "Application Submitted!",
		Message:   "Thank you for your application. We'll be in touch soon.",
	}, nil
}
