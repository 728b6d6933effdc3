// @title Hiring Hive API
// @version 1.0
// @description Public job board, application intake and admin panel backend.
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ahscorp/hiring-hive-platform/internal/config"
	"github.com/ahscorp/hiring-hive-platform/internal/database"
	"github.com/ahscorp/hiring-hive-platform/internal/logging"
	"github.com/ahscorp/hiring-hive-platform/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	logger := logging.For("main")

	db, err := database.GetMainDB(cfg.DB)
	if err != nil {
		logger.WithError(err).Fatal("Database failed to initialize")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := server.New(ctx, cfg, db)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create server")
	}

	httpServer := s.HTTPServer()
	go func() {
		logger.Infof("Listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Forced shutdown")
	}
	if err := s.Close(); err != nil {
		logger.WithError(err).Warn("Failed to release server resources")
	}
	if err := db.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close database")
	}
}
