package submission

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// MaxResumeBytes is the default resume size limit.
const MaxResumeBytes = 3 * 1024 * 1024

// Accepted resume content types.
const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AllowedResumeTypes lists the accepted resume content types.
var AllowedResumeTypes = []string{MimePDF, MimeDOC, MimeDOCX}

var extensionTypes = map[string]string{
	".pdf":  MimePDF,
	".doc":  MimeDOC,
	".docx": MimeDOCX,
}

// DetectContentType prefers the declared part type and falls back to the
// file extension when the type is missing or generic.
func DetectContentType(declared, fileName string) string {
	ct := strings.TrimSpace(declared)
	if ct == "" || strings.HasPrefix(ct, "application/octet-stream") {
		if t, ok := extensionTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
			return t
		}
	}
	return ct
}

// ResumeFile is a selected resume held in memory.
type ResumeFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file size in bytes.
func (f ResumeFile) Size() int64 { return int64(len(f.Data)) }

// Reader returns a fresh reader over the file content.
func (f ResumeFile) Reader() io.Reader { return bytes.NewReader(f.Data) }

// CheckResume applies the type and size constraints to a file.
func CheckResume(contentType string, size, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = MaxResumeBytes
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	allowed := false
	for _, t := range AllowedResumeTypes {
		if ct == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return &ValidationError{Field: "resume", Err: ErrUnsupportedFileType}
	}
	if size > maxBytes {
		return &ValidationError{Field: "resume", Err: ErrFileTooLarge}
	}
	return nil
}

// Form holds the applicant's answers.
type Form struct {
	FullName           string `form:"fullName" json:"full_name"`
	Email              string `form:"email" json:"email"`
	Phone              string `form:"phone" json:"phone"`
	YearsOfExperience  string `form:"yearsOfExperience" json:"years_of_experience"`
	CurrentCompany     string `form:"currentCompany" json:"current_company"`
	CurrentDesignation string `form:"currentDesignation" json:"current_designation"`
	CurrentCTC         string `form:"currentCTC" json:"current_ctc"`
	CurrentTakeHome    string `form:"currentTakeHome" json:"current_take_home"`
	ExpectedCTC        string `form:"expectedCTC" json:"expected_ctc"`
	NoticePeriod       string `form:"noticePeriod" json:"notice_period"`
	Location           string `form:"location" json:"location"`
	Department         string `form:"department" json:"department"`
	OtherDepartment    string `form:"otherDepartment" json:"other_department"`
}

// required returns the mandatory fields in the order they are checked.
func (f Form) required() []struct{ name, value string } {
	return []struct{ name, value string }{
		{"fullName", f.FullName},
		{"email", f.Email},
		{"phone", f.Phone},
		{"yearsOfExperience", f.YearsOfExperience},
		{"currentCompany", f.CurrentCompany},
		{"currentDesignation", f.CurrentDesignation},
		{"currentCTC", f.CurrentCTC},
		{"currentTakeHome", f.CurrentTakeHome},
		{"expectedCTC", f.ExpectedCTC},
		{"noticePeriod", f.NoticePeriod},
		{"location", f.Location},
		{"department", f.Department},
	}
}

// Applicant converts the form to the stored applicant shape.
func (f Form) Applicant(resumeURL string) model.Applicant {
	a := model.Applicant{
		FullName:           strings.TrimSpace(f.FullName),
		Email:              strings.TrimSpace(f.Email),
		Phone:              strings.TrimSpace(f.Phone),
		YearsOfExperience:  strings.TrimSpace(f.YearsOfExperience),
		CurrentCompany:     strings.TrimSpace(f.CurrentCompany),
		CurrentDesignation: strings.TrimSpace(f.CurrentDesignation),
		CurrentCTC:         strings.TrimSpace(f.CurrentCTC),
		CurrentTakeHome:    strings.TrimSpace(f.CurrentTakeHome),
		ExpectedCTC:        strings.TrimSpace(f.ExpectedCTC),
		NoticePeriod:       strings.TrimSpace(f.NoticePeriod),
		Location:           strings.TrimSpace(f.Location),
		Department:         strings.TrimSpace(f.Department),
		ResumeURL:          resumeURL,
	}
	if a.Department == model.DepartmentOther {
		other := strings.TrimSpace(f.OtherDepartment)
		a.OtherDepartment = &other
	}
	return a
}

// Target is the job a draft applies to. An empty JobRef, or the generic
// reference, makes the draft a profile-only submission.
type Target struct {
	JobRef   string
	JobTitle string
}

// Draft is one applicant's in-progress submission. A Draft is not safe for
// concurrent use.
type Draft struct {
	Target Target
	Form   Form
	Resume *ResumeFile
	// FileError is the inline error of the last rejected resume selection.
	FileError error
	// LastError is the error of the last failed submit.
	LastError error

	state State
}

// NewDraft returns an empty draft in the Editing state.
func NewDraft(t Target) *Draft {
	return &Draft{Target: t, state: Editing}
}

// State returns the draft's workflow state.
func (d *Draft) State() State { return d.state }

// SelectResume attaches a file if it passes the type and size checks. A
// rejected file leaves the previous selection in place.
func (d *Draft) SelectResume(f ResumeFile, maxBytes int64) error {
	if err := CheckResume(f.ContentType, f.Size(), maxBytes); err != nil {
		d.FileError = err
		return err
	}
	d.Resume = &f
	d.FileError = nil
	return nil
}

// ClearResume removes the attached file.
func (d *Draft) ClearResume() {
	d.Resume = nil
	d.FileError = nil
}

// Validate checks the mandatory fields, the department override and the
// resume. Any gap yields the same missing-information error.
func (d *Draft) Validate() error {
	for _, f := range d.Form.required() {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Err: ErrMissingInformation}
		}
	}
	if strings.TrimSpace(d.Form.Department) == model.DepartmentOther && strings.TrimSpace(d.Form.OtherDepartment) == "" {
		return &ValidationError{Field: "otherDepartment", Err: ErrMissingInformation}
	}
	if d.Resume == nil {
		return &ValidationError{Field: "resume", Err: ErrMissingInformation}
	}
	return nil
}

// reset clears everything but the target.
func (d *Draft) reset() {
	*d = Draft{Target: d.Target, state: Editing}
}
