// Package controller holds what the HTTP handler packages share: turning
// domain errors into status codes and response bodies.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahscorp/hiring-hive-platform/internal/admin"
	"github.com/ahscorp/hiring-hive-platform/internal/database"
	"github.com/ahscorp/hiring-hive-platform/internal/logging"
	"github.com/ahscorp/hiring-hive-platform/internal/submission"
	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

// ValidationResponse is returned when one or more input fields are rejected.
type ValidationResponse struct {
	Error  string            `json:"error"`
	Field  string            `json:"field,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Status returns the HTTP status for an error raised by the submission
// workflow or the admin service.
func Status(err error) int {
	var (
		subValidation *submission.ValidationError
		upload        *submission.UploadError
		invalidRef    *submission.InvalidReferenceError
		subPersist    *submission.PersistenceError
		admValidation *admin.ValidationError
		admPersist    *admin.PersistenceError
	)

	switch {
	case errors.As(err, &subValidation):
		switch {
		case errors.Is(err, submission.ErrFileTooLarge):
			return http.StatusRequestEntityTooLarge
		case errors.Is(err, submission.ErrUnsupportedFileType):
			return http.StatusUnsupportedMediaType
		}
		return http.StatusBadRequest
	case errors.Is(err, submission.ErrNotEditing):
		return http.StatusConflict
	case errors.As(err, &upload):
		return http.StatusBadGateway
	case errors.As(err, &invalidRef):
		if errors.Is(err, database.ErrNotFound) {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case errors.As(err, &subPersist):
		return http.StatusInternalServerError
	case errors.Is(err, admin.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &admValidation):
		return http.StatusBadRequest
	case errors.Is(err, admin.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &admPersist):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// RespondError writes err with the status Status picks. Unauthenticated
// responses carry loginURL so the client can redirect.
func RespondError(c *gin.Context, err error, loginURL string) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		logging.For("http").WithError(err).WithField("path", c.FullPath()).Error("Request failed")
	}

	var (
		subValidation *submission.ValidationError
		admValidation *admin.ValidationError
	)
	switch {
	case status == http.StatusUnauthorized:
		c.JSON(status, utilities.UnauthorizedResponse{Error: admin.ErrUnauthenticated.Error(), LoginURL: loginURL})
	case errors.As(err, &subValidation):
		resp := ValidationResponse{Error: subValidation.Error(), Field: subValidation.Field}
		// missing information is reported without naming the field
		if errors.Is(subValidation, submission.ErrMissingInformation) {
			resp.Field = ""
		}
		c.JSON(status, resp)
	case errors.As(err, &admValidation):
		c.JSON(status, ValidationResponse{Error: admValidation.Error(), Fields: admValidation.Fields})
	default:
		c.JSON(status, utilities.ErrorResponse{Error: err.Error()})
	}
}
