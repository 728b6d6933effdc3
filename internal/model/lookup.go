package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Location is a lookup row for the locations a job can be posted at.
type Location struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	City      string    `gorm:"type:text;not null;uniqueIndex:idx_location_city_state" json:"city"`
	State     string    `gorm:"type:text;not null;uniqueIndex:idx_location_city_state" json:"state"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Label renders the location the way the board displays it.
func (l Location) Label() string {
	return fmt.Sprintf("%s, %s", l.City, l.State)
}

// Matches reports whether a job location refers to this lookup row, ignoring case.
func (l Location) Matches(jl JobLocation) bool {
	return strings.EqualFold(strings.TrimSpace(l.City), strings.TrimSpace(jl.City)) &&
		strings.EqualFold(strings.TrimSpace(l.State), strings.TrimSpace(jl.State))
}

// Industry is a lookup row for job industries.
type Industry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name      string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ExperienceRange is an entry of the experience catalog.
type ExperienceRange struct {
	ID       string `yaml:"id" json:"id"`
	Label    string `yaml:"range" json:"range"`
	MinYears int    `yaml:"min_years" json:"min_years"`
	MaxYears *int   `yaml:"max_years" json:"max_years"`
}

// ToJob converts a catalog entry into the value stored on a job.
func (e ExperienceRange) ToJob() JobExperience {
	return JobExperience{ID: e.ID, Label: e.Label, MinYears: e.MinYears, MaxYears: e.MaxYears}
}

// SalaryRange is an entry of the salary catalog.
type SalaryRange struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"range" json:"range"`
	Min   int64  `yaml:"min" json:"min"`
	Max   *int64 `yaml:"max" json:"max"`
}

// ToJob converts a catalog entry into the value stored on a job.
func (s SalaryRange) ToJob() JobSalary {
	return JobSalary{ID: s.ID, Label: s.Label, Min: s.Min, Max: s.Max}
}
