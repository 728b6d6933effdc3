// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	// Init swagger doc
	_ "github.com/ahscorp/hiring-hive-platform/docs"

	"github.com/ahscorp/hiring-hive-platform/internal/auth"
	"github.com/ahscorp/hiring-hive-platform/internal/controller/admin"
	"github.com/ahscorp/hiring-hive-platform/internal/controller/application"
	"github.com/ahscorp/hiring-hive-platform/internal/controller/jobpost"
	"github.com/ahscorp/hiring-hive-platform/internal/middleware"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
	"github.com/ahscorp/hiring-hive-platform/internal/upload"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	loginURL := s.cfg.Server.LoginURL
	maxResume := s.cfg.Submission.MaxResumeBytes

	jobs := jobpost.NewJobPostController(s.Listing, s.Catalog)
	apply := application.NewApplicationController(s.Workflow, maxResume)
	adm := admin.NewAdminController(s.Admin, loginURL)
	files := upload.NewController(s.Storage, maxResume)
	authHandler := auth.NewHandler(s.DB, s.Tokens, s.Blacklist, s.Attempts)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader())

	limit := middleware.RateLimiterMiddleware(s.cfg.Server.RateLimit)
	requireAuth := middleware.RequireAuth(s.DB, s.Tokens, loginURL)
	notRevoked := middleware.JwtBlacklistCheck(s.Blacklist, loginURL)

	r.GET("/health", s.healthHandler)
	r.POST("/upload", limit, middleware.SizeLimit(maxResume), files.UploadResume)
	if strings.EqualFold(s.cfg.Storage.Driver, upload.DriverDisk) || s.cfg.Storage.Driver == "" {
		r.Static("/"+upload.DiskURLPrefix, s.diskDir())
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/jobs", jobs.GetPosts)
		v1.GET("/jobs/:ref", jobs.GetPostByRef)
		v1.GET("/lookups", jobs.GetLookups)
		v1.POST("/applications", limit, middleware.SizeLimit(maxResume), apply.ApplicationHandler)

		authRoute := v1.Group("/auth")
		{
			authRoute.POST("/login", limit, authHandler.LoginHandler)
			authRoute.POST("/logout", requireAuth, notRevoked, authHandler.LogoutHandler)
			authRoute.GET("/session", requireAuth, notRevoked, authHandler.SessionHandler)
		}

		adminRoute := v1.Group("/admin")
		{
			adminRoute.Use(requireAuth, notRevoked, middleware.CheckRole(model.RoleAdmin))
			adminRoute.GET("/jobs", adm.GetJobs)
			adminRoute.POST("/jobs", adm.CreateJob)
			adminRoute.GET("/jobs/:id", adm.GetJob)
			adminRoute.PUT("/jobs/:id", adm.UpdateJob)
			adminRoute.DELETE("/jobs/:id", adm.DeleteJob)
			adminRoute.PATCH("/jobs/:id/status", adm.SetJobStatus)
			adminRoute.PATCH("/applications/:id/processed", adm.SetApplicationProcessed)
			adminRoute.GET("/profiles", adm.GetProfiles)
			adminRoute.PATCH("/profiles/:id/processed", adm.SetProfileProcessed)
			adminRoute.GET("/settings/webhook", adm.GetWebhook)
			adminRoute.PUT("/settings/webhook", adm.PutWebhook)
			adminRoute.POST("/catalog/reload", adm.ReloadCatalog)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (s *Server) diskDir() string {
	if s.cfg.Storage.Dir != "" {
		return s.cfg.Storage.Dir
	}
	return upload.DiskURLPrefix
}

// HealthResponse reports the database and job list status.
type HealthResponse struct {
	Database map[string]string `json:"database"`
	Listing  string            `json:"listing"`
}

// healthHandler reports the database statistics and the job list state.
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse "Database unreachable"
// @Router /health [get]
func (s *Server) healthHandler(c *gin.Context) {
	resp := HealthResponse{
		Database: s.DB.Health(),
		Listing:  s.Listing.State().String(),
	}
	if resp.Database["status"] != "up" {
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
