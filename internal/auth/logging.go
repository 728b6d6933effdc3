package auth

import (
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/ahscorp/hiring-hive-platform/internal/logging"
)

// AuthLogPath is where authentication attempts are recorded.
const AuthLogPath = "log/auth.log"

// Attempt outcomes.
const (
	StatusSuccess = "Success"
	StatusFail    = "Fail"
)

// AttemptLogger records authentication attempts to a dedicated log.
// A nil *AttemptLogger drops everything.
type AttemptLogger struct {
	logger *log.Logger
	closer io.Closer
}

// NewAttemptLogger opens the auth log at path. When enabled is false it
// returns nil and records nothing.
func NewAttemptLogger(enabled bool, path string) (*AttemptLogger, error) {
	if !enabled {
		return nil, nil
	}
	l, c, err := logging.NewFileLogger(path)
	if err != nil {
		return nil, err
	}
	return &AttemptLogger{logger: l, closer: c}, nil
}

// LogAttempt records one attempt. authType is e.g. "Local", status is
// StatusSuccess or StatusFail, identifier and message are optional.
func (a *AttemptLogger) LogAttempt(level log.Level, authType, status, identifier, message string) {
	if a == nil {
		return
	}
	fields := log.Fields{"auth_type": authType, "status": status}
	if identifier != "" {
		fields["identifier"] = identifier
	}
	a.logger.WithFields(fields).Log(level, message)
}

// Close closes the underlying file.
func (a *AttemptLogger) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
