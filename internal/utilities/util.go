// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// ErrorResponse type for swagger docs
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// UnauthorizedResponse is returned by admin endpoints when the session is missing or expired
type UnauthorizedResponse struct {
	Error    string `json:"error"`
	LoginURL string `json:"login_url"`
}

// Gin context keys set by the auth middleware.
const (
	ClaimsKey  = "claims"
	SessionKey = "session"
)

// ErrNoSession is returned when the request carries no authenticated session.
var ErrNoSession = errors.New("Session information not provided")

// ExtractValue reads a typed value stored in gin context.
// It does not abort the request, it returns an error when missing or of another type.
func ExtractValue[T any](c *gin.Context, key string) (T, error) {
	var zero T
	v, ok := c.Get(key)
	if !ok || v == nil {
		return zero, ErrNoSession
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.New("Failed to assert type")
	}
	return typed, nil
}

// HashPassword hashes a plain password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword compares a bcrypt hash with a plain password.
func VerifyPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

var validate = validator.New()

// ValidateEmail reports whether email is a well formed address.
func ValidateEmail(email string) error {
	return validate.Var(email, "required,email")
}

// Contains checks if a string is present in a slice of strings.
func Contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
