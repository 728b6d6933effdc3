package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ahscorp/hiring-hive-platform/internal/admin"
	"github.com/ahscorp/hiring-hive-platform/internal/auth"
	"github.com/ahscorp/hiring-hive-platform/internal/catalog"
	"github.com/ahscorp/hiring-hive-platform/internal/config"
	"github.com/ahscorp/hiring-hive-platform/internal/database"
	"github.com/ahscorp/hiring-hive-platform/internal/listing"
	"github.com/ahscorp/hiring-hive-platform/internal/logging"
	"github.com/ahscorp/hiring-hive-platform/internal/notify"
	"github.com/ahscorp/hiring-hive-platform/internal/submission"
	"github.com/ahscorp/hiring-hive-platform/internal/upload"
)

// blacklist entries expire with their token, sweep them hourly
const blacklistSweep = time.Hour

// refreshTimeout bounds the job list reload that follows an admin change.
const refreshTimeout = 30 * time.Second

// Server holds the components the routes are served from.
type Server struct {
	cfg *config.Config
	log *log.Entry

	DB        *database.DBinstanceStruct
	Tokens    *auth.TokenIssuer
	Blacklist *auth.InMemoryBlacklistStore
	Attempts  *auth.AttemptLogger
	Catalog   *catalog.Holder
	Listing   *listing.Controller
	Storage   upload.StorageClient
	Notifier  *notify.Fanout
	Workflow  *submission.Workflow
	Admin     *admin.Service
}

// New wires every component against db. ctx bounds the initial loads and the
// lifetime of background work.
func New(ctx context.Context, cfg *config.Config, db *database.DBinstanceStruct) (*Server, error) {
	s := &Server{cfg: cfg, DB: db, log: logging.For("server")}

	tokens, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		return nil, err
	}
	s.Tokens = tokens

	s.Attempts, err = auth.NewAttemptLogger(cfg.Auth.LogAttempts, auth.AuthLogPath)
	if err != nil {
		return nil, fmt.Errorf("open auth log: %w", err)
	}
	s.Blacklist = auth.NewInMemoryBlacklistStore()
	s.Blacklist.StartCleanup(ctx, blacklistSweep)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	if err := cat.Seed(ctx, db); err != nil {
		s.log.WithError(err).Warn("Failed to seed lookups")
	}
	s.Catalog = catalog.NewHolder(cfg.Catalog.Path, cat)

	s.Storage, err = upload.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("create storage: %w", err)
	}

	s.Notifier = notify.NewFanout(cfg.Webhook.Timeout, s.sinks()...)

	s.Listing = listing.New(db, db, listing.WithPageSize(cfg.Listing.PageSize))
	s.refreshListing(ctx)

	s.Workflow = submission.NewWorkflow(s.uploader(), s.Notifier, db, submission.Config{
		GenericJobRef: cfg.Submission.GenericJobRef,
		UploadTimeout: cfg.Upload.Timeout,
		PageURL:       cfg.Submission.PageURL,
	})

	s.Admin = admin.NewService(db, s.Catalog, admin.WithOnChange(func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()
			s.refreshListing(ctx)
		}()
	}))
	return s, nil
}

func (s *Server) sinks() []notify.Sink {
	client := &http.Client{Timeout: s.cfg.Webhook.Timeout}
	sinks := []notify.Sink{
		notify.NewWebhook(client, notify.FirstURL(s.DB.WebhookURL, notify.StaticURL(s.cfg.Webhook.URL))),
	}
	if s.cfg.Notion.Token != "" && s.cfg.Notion.DatabaseID != "" {
		sinks = append(sinks, notify.NewNotion(s.cfg.Notion.Token, s.cfg.Notion.DatabaseID))
	}
	return sinks
}

// uploader posts to the upload endpoint when one is configured and writes to
// storage directly otherwise.
func (s *Server) uploader() submission.Uploader {
	if endpoint := strings.TrimSpace(s.cfg.Upload.Endpoint); endpoint != "" {
		return upload.NewClient(&http.Client{Timeout: s.cfg.Upload.Timeout}, endpoint, s.cfg.Server.PublicBaseURL)
	}
	return upload.NewDirect(s.Storage, s.cfg.Server.PublicBaseURL)
}

// refreshListing reloads the published jobs and the lookups. Failures are
// kept in the listing state and logged.
func (s *Server) refreshListing(ctx context.Context) {
	_ = s.Listing.Reload(ctx)
	_ = s.Listing.LoadLookups(ctx)
}

// HTTPServer returns the http.Server serving the routes.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Close waits for in-flight notifications and releases files and clients.
func (s *Server) Close() error {
	s.Notifier.Wait()
	if c, ok := s.Storage.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.log.WithError(err).Warn("Failed to close storage")
		}
	}
	return s.Attempts.Close()
}
