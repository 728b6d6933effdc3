// Package application provides the HTTP handler applicants submit through.
package application

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/ahscorp/hiring-hive-platform/internal/controller"
	"github.com/ahscorp/hiring-hive-platform/internal/logging"
	"github.com/ahscorp/hiring-hive-platform/internal/submission"
	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

// ApplicationController handles job application and general profile submissions
type ApplicationController struct {
	Workflow       *submission.Workflow
	MaxResumeBytes int64
}

// NewApplicationController creates a new instance of ApplicationController.
func NewApplicationController(w *submission.Workflow, maxResumeBytes int64) *ApplicationController {
	if maxResumeBytes <= 0 {
		maxResumeBytes = submission.MaxResumeBytes
	}
	return &ApplicationController{
		Workflow:       w,
		MaxResumeBytes: maxResumeBytes,
	}
}

// ApplicationHandler runs one submission through the workflow.
// @Summary Submit a job application or a general profile
// @Description Without jobId, or with the generic reference, the submission is stored as a general profile.
// @Description The resume is uploaded first; nothing is stored when the upload fails.
// @Tags Application
// @Accept mpfd
// @Produce json
// @Param jobId formData string false "Job reference" example(J1001)
// @Param jobTitle formData string false "Job title shown in notifications"
// @Param fullName formData string true "Full name"
// @Param email formData string true "Email"
// @Param phone formData string true "Phone"
// @Param yearsOfExperience formData string true "Years of experience"
// @Param currentCompany formData string true "Current company"
// @Param currentDesignation formData string true "Current designation"
// @Param currentCTC formData string true "Current CTC"
// @Param currentTakeHome formData string true "Current monthly take home"
// @Param expectedCTC formData string true "Expected CTC"
// @Param noticePeriod formData string true "Notice period"
// @Param location formData string true "Current location"
// @Param department formData string true "Department"
// @Param otherDepartment formData string false "Required when department is Other"
// @Param resume formData file true "PDF or Word resume"
// @Success 201 {object} submission.Result "Submission stored"
// @Failure 400 {object} controller.ValidationResponse "Missing information"
// @Failure 404 {object} utilities.ErrorResponse "Job reference not found"
// @Failure 413 {object} controller.ValidationResponse "Resume too large"
// @Failure 415 {object} controller.ValidationResponse "Resume is not a PDF or Word document"
// @Failure 429 {object} utilities.ErrorResponse "Too many requests"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Failure 502 {object} utilities.ErrorResponse "Resume upload failed"
// @Router /applications [post]
func (ac *ApplicationController) ApplicationHandler(c *gin.Context) {
	var form submission.Form
	if err := c.ShouldBindWith(&form, binding.FormMultipart); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			controller.RespondError(c, &submission.ValidationError{Field: "resume", Err: submission.ErrFileTooLarge}, "")
			return
		}
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid form: " + err.Error()})
		return
	}

	d := submission.NewDraft(submission.Target{
		JobRef:   c.PostForm("jobId"),
		JobTitle: c.PostForm("jobTitle"),
	})
	d.Form = form

	resume, err := ac.readResume(c)
	if err != nil {
		controller.RespondError(c, err, "")
		return
	}
	if resume != nil {
		if err := d.SelectResume(*resume, ac.MaxResumeBytes); err != nil {
			controller.RespondError(c, err, "")
			return
		}
	}

	result, err := ac.Workflow.Submit(c.Request.Context(), d)
	if err != nil {
		controller.RespondError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// readResume returns nil without error when no file was attached, leaving the
// missing resume to the draft's validation.
func (ac *ApplicationController) readResume(c *gin.Context) (*submission.ResumeFile, error) {
	header, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &submission.ValidationError{Field: "resume", Err: submission.ErrMissingInformation}
	}
	f, err := header.Open()
	if err != nil {
		return nil, &submission.ValidationError{Field: "resume", Err: submission.ErrMissingInformation}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.For("application").WithError(err).Warn("Failed to close resume")
		}
	}()

	data, err := io.ReadAll(io.LimitReader(f, ac.MaxResumeBytes+1))
	if err != nil {
		return nil, &submission.ValidationError{Field: "resume", Err: submission.ErrMissingInformation}
	}
	return &submission.ResumeFile{
		Name:        header.Filename,
		ContentType: submission.DetectContentType(header.Header.Get("Content-Type"), header.Filename),
		Data:        data,
	}, nil
}
