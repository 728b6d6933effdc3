package upload

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahscorp/hiring-hive-platform/internal/logging"
	"github.com/ahscorp/hiring-hive-platform/internal/submission"
	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

// Upload endpoint messages.
const (
	msgNoFile     = "No file uploaded or upload error"
	msgMoveFailed = "Failed to move uploaded file"
)

// Response is the upload endpoint's success body.
type Response struct {
	Success   bool   `json:"success"`
	ResumeURL string `json:"resume_url"`
}

// Controller serves the resume upload endpoint.
type Controller struct {
	Storage  StorageClient
	MaxBytes int64
	now      func() time.Time
}

// NewController creates an upload controller writing to storage.
func NewController(storage StorageClient, maxBytes int64) *Controller {
	if maxBytes <= 0 {
		maxBytes = submission.MaxResumeBytes
	}
	return &Controller{Storage: storage, MaxBytes: maxBytes, now: time.Now}
}

// UploadResume stores a resume file.
// @Summary Upload a resume
// @Description Accepts PDF or Word documents up to the configured size. Returns the URL of the stored file.
// @Tags Upload
// @Accept mpfd
// @Produce json
// @Param resume formData file true "Resume file"
// @Param jobId formData string false "Job reference the resume belongs to"
// @Param fullName formData string true "Applicant full name"
// @Success 200 {object} Response "Resume stored"
// @Failure 400 {object} utilities.ErrorResponse "No file uploaded or upload error"
// @Failure 413 {object} utilities.ErrorResponse "File too large"
// @Failure 415 {object} utilities.ErrorResponse "Unsupported file type"
// @Failure 500 {object} utilities.ErrorResponse "Failed to move uploaded file"
// @Router /upload [post]
func (uc *Controller) UploadResume(c *gin.Context) {
	logger := logging.For("upload")

	rawFile, err := c.FormFile("resume")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{Error: submission.ErrFileTooLarge.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: msgNoFile})
		return
	}

	ct := submission.DetectContentType(rawFile.Header.Get("Content-Type"), rawFile.Filename)
	if err := submission.CheckResume(ct, rawFile.Size, uc.MaxBytes); err != nil {
		status := http.StatusUnsupportedMediaType
		if errors.Is(err, submission.ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: msgNoFile})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close uploaded file")
		}
	}()

	objectName := ResumeObjectName(c.PostForm("jobId"), c.PostForm("fullName"), rawFile.Filename, uc.now())
	url, err := uc.Storage.UploadFile(c.Request.Context(), objectName, ct, f)
	if err != nil {
		logger.WithError(err).WithField("object", objectName).Error("Failed to store resume")
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: msgMoveFailed})
		return
	}

	logger.WithField("object", objectName).Info("Resume stored")
	c.JSON(http.StatusOK, Response{Success: true, ResumeURL: url})
}
