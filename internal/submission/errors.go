package submission

import (
	"errors"
	"fmt"
)

// Messages shown to the applicant.
var (
	ErrMissingInformation  = errors.New("Missing Information")
	ErrUnsupportedFileType = errors.New("Please upload a PDF or Word document")
	ErrFileTooLarge        = errors.New("File size should be less than 3MB")
	// ErrNotEditing is returned when Submit is called on a draft that is already in flight.
	ErrNotEditing = errors.New("submission already in progress")
)

// ValidationError is a missing or invalid field. It is shown inline and
// nothing is submitted.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// UploadError is a failed resume upload. Reason is the upload service's own
// explanation when it gave one.
type UploadError struct {
	Reason string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Reason != "" {
		return "Upload Error: " + e.Reason
	}
	return fmt.Sprintf("Upload Error: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// InvalidReferenceError means the job reference does not resolve to a stored job.
type InvalidReferenceError struct {
	JobRef string
	Err    error
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("Invalid Job ID: %q is not valid or could not be found", e.JobRef)
}

func (e *InvalidReferenceError) Unwrap() error { return e.Err }

// PersistenceError is a failed insert.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("Database Error: %v", e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }
