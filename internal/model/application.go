package model

import (
	"time"

	"github.com/google/uuid"
)

// DepartmentOther is the department choice that requires a free-text override.
const DepartmentOther = "Other"

// Departments is the list of departments an applicant can choose from.
var Departments = []string{
	"Human Resources",
	"Account & Finance",
	"Sales & Marketing",
	"Information Technology",
	"Operations",
	"Customer Service",
	"Production",
	"Supply Chain",
	"Quality",
	"Administration",
	DepartmentOther,
}

// Applicant holds the candidate fields shared by applications and general profiles.
type Applicant struct {
	FullName           string  `gorm:"column:fullname;type:text;not null" json:"full_name"`
	Email              string  `gorm:"type:text;not null" json:"email"`
	Phone              string  `gorm:"type:text;not null" json:"phone"`
	YearsOfExperience  string  `gorm:"column:yearsofexperience;type:text;not null" json:"years_of_experience"`
	CurrentCompany     string  `gorm:"column:currentcompany;type:text;not null" json:"current_company"`
	CurrentDesignation string  `gorm:"column:currentdesignation;type:text" json:"current_designation"`
	CurrentCTC         string  `gorm:"column:currentctc;type:text" json:"current_ctc"`
	CurrentTakeHome    string  `gorm:"column:currenttakehome;type:text" json:"current_take_home"`
	ExpectedCTC        string  `gorm:"column:expectedctc;type:text;not null" json:"expected_ctc"`
	NoticePeriod       string  `gorm:"column:noticeperiod;type:text" json:"notice_period"`
	Location           string  `gorm:"type:text;not null" json:"location"`
	Department         string  `gorm:"type:text;not null" json:"department"`
	OtherDepartment    *string `gorm:"column:otherdepartment;type:text" json:"other_department"`
	ResumeURL          string  `gorm:"type:text;not null" json:"resume_url"`
}

// Application represents a candidate's application to a specific job
type Application struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	JobID     *uuid.UUID `gorm:"type:uuid;index" json:"job_id"`
	Applicant `gorm:"embedded"`
	Processed bool      `gorm:"not null;default:false" json:"processed"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// GeneralProfile is a profile-only submission that is not tied to any job
type GeneralProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Applicant `gorm:"embedded"`
	Processed bool      `gorm:"not null;default:false" json:"processed"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz" json:"updated_at"`
}
