// Package admin provides the HTTP handlers of the admin panel.
package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	adminsvc "github.com/ahscorp/hiring-hive-platform/internal/admin"
	"github.com/ahscorp/hiring-hive-platform/internal/auth"
	"github.com/ahscorp/hiring-hive-platform/internal/controller"
	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

// AdminController serves the session-gated admin endpoints.
type AdminController struct {
	Service  *adminsvc.Service
	LoginURL string
}

// NewAdminController creates an AdminController. loginURL is returned with
// every 401 so the panel can send the user back to the login page.
func NewAdminController(svc *adminsvc.Service, loginURL string) *AdminController {
	return &AdminController{
		Service:  svc,
		LoginURL: loginURL,
	}
}

// StatusRequest sets a job status. An empty status toggles it.
type StatusRequest struct {
	Status string `json:"status"`
}

// StatusResponse reports a job's status after a change.
type StatusResponse struct {
	Status string `json:"status"`
}

// ProcessedRequest sets the processed flag of an application or profile.
type ProcessedRequest struct {
	Processed *bool `json:"processed" binding:"required"`
}

// WebhookSetting is the stored webhook URL.
type WebhookSetting struct {
	WebhookURL string `json:"webhook_url"`
}

func (ac *AdminController) fail(c *gin.Context, err error) {
	controller.RespondError(c, err, ac.LoginURL)
}

func session(c *gin.Context) *auth.Session {
	s, err := auth.FromContext(c)
	if err != nil {
		return nil
	}
	return s
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid id: " + c.Param("id")})
		return uuid.Nil, false
	}
	return id, true
}

// GetJobs returns every job with its applications.
// @Summary Get all jobs for the admin panel
// @Description Jobs are ordered by posting date, newest first, and include drafts and their applications
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} adminsvc.Board
// @Failure 401 {object} utilities.UnauthorizedResponse "Not authenticated"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/jobs [get]
func (ac *AdminController) GetJobs(c *gin.Context) {
	board, err := ac.Service.List(c.Request.Context(), session(c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GetJob returns one job.
// @Summary Get a job by id
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job id"
// @Success 200 {object} model.Job
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.UnauthorizedResponse "Not authenticated"
// @Failure 404 {object} utilities.ErrorResponse "Record not found"
// @Router /admin/jobs/{id} [get]
func (ac *AdminController) GetJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	job, err := ac.Service.Job(c.Request.Context(), session(c), id)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CreateJob stores a new job.
// @Summary Create a job
// @Description Location is a "City, State" label, key skills and responsibilities are one per line
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job body adminsvc.JobInput true "Job information"
// @Success 201 {object} model.Job
// @Failure 400 {object} controller.ValidationResponse "Invalid job"
// @Failure 401 {object} utilities.UnauthorizedResponse "Not authenticated"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/jobs [post]
func (ac *AdminController) CreateJob(c *gin.Context) {
	var in adminsvc.JobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	job, err := ac.Service.Create(c.Request.Context(), session(c), in)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJob replaces a job's editable fields.
// @Summary Update a job
// @Description Posting date and author are kept
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job id"
// @Param job body adminsvc.JobInput true "Job information"
// @Success 200 {object} model.Job
// @Failure 400 {object} controller.ValidationResponse "Invalid job"
// @Failure 401 {object} utilities.UnauthorizedResponse "Not authenticated"
// @Failure 404 {object} utilities.ErrorResponse "Record not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/jobs/{id} [put]
func (ac *AdminController) UpdateJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in adminsvc.JobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	job, err := ac.Service.Update(c.Request.Context(), session(c), id, in)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DeleteJob removes a job. Its applications stay, detached from any job.
// @Summary Delete a job
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job id"
// @Success 200 {object} utilities.MessageResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.UnauthorizedResponse "Not authenticated"
// @Failure 404 {object} utilities.ErrorResponse "Record not found"
// @Router /admin/jobs/{id} [delete]
func (ac *AdminController) DeleteJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ac.Service.Delete(c.Request.Context(), session(c), id); err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job deleted"})
}

// SetJobStatus publishes or unpublishes a job.
// @Summary Set or toggle a job's status
// @Description Without a body, or with an empty status, Published and Draft are swapped
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job id"
// @Param status body StatusRequest false "Published or Draft"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} controller.ValidationResponse "Invalid status"
// @Failure 401 {object} utilities.UnauthorizedResponse "Not authenticated"
// @Failure 404 {object} utilities.ErrorResponse "Record not found"
// @Router /admin/jobs/{id}/status [patch]
func (ac *AdminController) SetJobStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req StatusRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body: " + err.Error()})
			return
		}
	}

	if req.Status == "" {
		next, err := ac.Service.ToggleStatus(c.Request.Context(), session(c), id)
		if err != nil {
			ac.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, StatusResponse{Status: next})
		return
	}
	if err := ac.Service.SetStatus(c.Request.Context(), session(c), id, req.Status); err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: req.Status})
}

// SetApplicationProcessed marks an application processed or not.
// @Summary Set an application's processed flag
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Application id"
// @Param processed body ProcessedRequest true "New flag"
// @Success 200 {object} ProcessedRequest
// @Failure 400 {object} utilities.ErrorResponse "Invalid id or body"
// @Failure 401 {object} utilities.UnauthorizedResponse "Not authenticated"
// @Failure 404 {object} utilities.ErrorResponse "Record not found"
// @Router /admin/applications/{id}/processed [patch]
func (ac *AdminController) SetApplicationProcessed(c *gin.Context) {
	ac.setProcessed(c, ac.Service.SetApplicationProcessed)
}

// SetProfileProcessed marks a general profile processed or not.
// @Summary Set a general profile's processed flag
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Profile id"
// @Param processed body ProcessedRequest true "New flag"
// @Success 200 {object} ProcessedRequest
// @Failure 400 {object} utilities.ErrorResponse "Invalid id or body"
// @Failure 401 {object} utilities.UnauthorizedResponse "Not authenticated"
// @Failure 404 {object} utilities.ErrorResponse "Record not found"
// @Router /admin/profiles/{id}/processed [patch]
func (ac *AdminController) SetProfileProcessed(c *gin.Context) {
	ac.setProcessed(c, ac.Service.SetProfileProcessed)
}

type processedSetter func(ctx context.Context, s *auth.Session, id uuid.UUID, processed bool) error

func (ac *AdminController) setProcessed(c *gin.Context, set processedSetter) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ProcessedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if err := set(c.Request.Context(), session(c), id, *req.Processed); err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// GetProfiles returns the general profile submissions.
// @Summary Get general profiles
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.GeneralProfile
// @Failure 401 {object} utilities.UnauthorizedResponse "Not authenticated"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/profiles [get]
func (ac *AdminController) GetProfiles(c *gin.Context) {
	profiles, err := ac.Service.Profiles(c.Request.Context(), session(c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// GetWebhook returns the stored webhook URL.
// @Summary Get the notification webhook URL
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} WebhookSetting
// @Failure 401 {object} utilities.UnauthorizedResponse "Not authenticated"
// @Router /admin/settings/webhook [get]
func (ac *AdminController) GetWebhook(c *gin.Context) {
	url, err := ac.Service.WebhookURL(c.Request.Context(), session(c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, WebhookSetting{WebhookURL: url})
}

// PutWebhook replaces the stored webhook URL.
// @Summary Set the notification webhook URL
// @Description An empty URL falls back to the configured webhook
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param setting body WebhookSetting true "Webhook URL"
// @Success 200 {object} WebhookSetting
// @Failure 400 {object} controller.ValidationResponse "Invalid URL"
// @Failure 401 {object} utilities.UnauthorizedResponse "Not authenticated"
// @Router /admin/settings/webhook [put]
func (ac *AdminController) PutWebhook(c *gin.Context) {
	var req WebhookSetting
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if err := ac.Service.SetWebhookURL(c.Request.Context(), session(c), req.WebhookURL); err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ReloadCatalog re-reads the experience and salary catalog.
// @Summary Reload the range catalog
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} catalog.Catalog
// @Failure 401 {object} utilities.UnauthorizedResponse "Not authenticated"
// @Failure 500 {object} utilities.ErrorResponse "Catalog file unreadable"
// @Router /admin/catalog/reload [post]
func (ac *AdminController) ReloadCatalog(c *gin.Context) {
	cat, err := ac.Service.ReloadCatalog(session(c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}
