package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job status values. Only StatusPublished jobs are visible on the public board.
const (
	StatusPublished = "Published"
	StatusDraft     = "Draft"
)

// Gender preferences a job can carry. An empty value behaves like GenderAny.
const (
	GenderAny    = "any"
	GenderMale   = "male"
	GenderFemale = "female"
)

// JobLocation is the city/state pair a job is located at.
type JobLocation struct {
	City  string `gorm:"type:text" json:"city"`
	State string `gorm:"type:text" json:"state"`
}

// JobExperience is the experience band required by a job.
type JobExperience struct {
	ID       string `gorm:"type:text" json:"id"`
	Label    string `gorm:"type:text" json:"range"`
	MinYears int    `json:"min_years"`
	MaxYears *int   `json:"max_years"`
}

// JobIndustry is the industry label of a job.
type JobIndustry struct {
	Name string `gorm:"type:text" json:"name"`
}

// JobSalary is the optional salary band of a job. A zero ID means the job has no salary band.
type JobSalary struct {
	ID    string `gorm:"type:text" json:"id"`
	Label string `gorm:"type:text" json:"range"`
	Min   int64  `json:"min"`
	Max   *int64 `json:"max"`
}

// Present reports whether the job carries a salary band.
func (s JobSalary) Present() bool {
	return s.ID != ""
}

// EditableJobInfo is part of a job that an admin can edit
type EditableJobInfo struct {
	JobRef           string         `gorm:"type:text;uniqueIndex;not null" json:"job_ref"`
	Title            string         `gorm:"type:text;not null" json:"title"`
	Location         JobLocation    `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Experience       JobExperience  `gorm:"embedded;embeddedPrefix:experience_" json:"experience"`
	Industry         JobIndustry    `gorm:"embedded;embeddedPrefix:industry_" json:"industry"`
	Department       string         `gorm:"type:text" json:"department"`
	KeySkills        pq.StringArray `gorm:"type:text[]" json:"key_skills"`
	Description      string         `gorm:"type:text" json:"description"`
	Responsibilities pq.StringArray `gorm:"type:text[]" json:"responsibilities"`
	Salary           JobSalary      `gorm:"embedded;embeddedPrefix:salary_" json:"salary_range"`
	CTC              *string        `gorm:"type:text" json:"ctc,omitempty"`
	Gender           string         `gorm:"type:text" json:"gender,omitempty"`
	Status           string         `gorm:"type:text;not null;default:'Draft';index;check:chk_jobs_status,status IN ('Published','Draft')" json:"status"`
}

// Job is gorm model for store job posting data in DB
type Job struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	EditableJobInfo
	PostedAt  time.Time  `gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP;index" json:"posted_at"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`

	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:SET NULL" json:"applications,omitempty"`
}

// IsPublished reports whether the job is visible on the public board.
func (j *Job) IsPublished() bool {
	return j.Status == StatusPublished
}

// ToggledStatus returns the status the job would have after a publish toggle.
func (j *Job) ToggledStatus() string {
	if j.Status == StatusPublished {
		return StatusDraft
	}
	return StatusPublished
}

// ValidStatus reports whether s is one of the accepted job statuses.
func ValidStatus(s string) bool {
	return s == StatusPublished || s == StatusDraft
}

// NormalizeGender lower-cases a gender preference and maps blanks to "".
func NormalizeGender(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}
