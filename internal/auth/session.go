// Package auth implements admin sign-in, JWT sessions and sign-out.
package auth

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

// ErrSessionExpired is returned for a session past its expiry.
var ErrSessionExpired = errors.New("Session expired")

// Session is an authenticated admin session.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether s is non-nil and not expired at now.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.UserID != uuid.Nil && now.Before(s.ExpiresAt)
}

// Check returns utilities.ErrNoSession for a nil session and
// ErrSessionExpired for an expired one.
func (s *Session) Check(now time.Time) error {
	if s == nil || s.UserID == uuid.Nil {
		return utilities.ErrNoSession
	}
	if !now.Before(s.ExpiresAt) {
		return ErrSessionExpired
	}
	return nil
}

// FromContext returns the session RequireAuth stored in the gin context.
func FromContext(c *gin.Context) (*Session, error) {
	return utilities.ExtractValue[*Session](c, utilities.SessionKey)
}
