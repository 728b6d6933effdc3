package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ahscorp/hiring-hive-platform/internal/database"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

const authTypeLocal = "Local"

// Handler serves sign-in, sign-out and session endpoints.
type Handler struct {
	DB        *database.DBinstanceStruct
	Tokens    *TokenIssuer
	Blacklist JwtBlacklistStore
	Attempts  *AttemptLogger
}

// NewHandler creates a Handler.
func NewHandler(db *database.DBinstanceStruct, tokens *TokenIssuer, bl JwtBlacklistStore, attempts *AttemptLogger) *Handler {
	return &Handler{DB: db, Tokens: tokens, Blacklist: bl, Attempts: attempts}
}

type loginInfo struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned after a successful sign-in.
type LoginResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

// LoginHandler signs an admin in with email and password.
// @Summary Sign in to the admin panel
// @Description Email must exist and password must match
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} LoginResponse "Signed in"
// @Failure 400 {object} utilities.ErrorResponse "Email or password is not provided"
// @Failure 401 {object} utilities.ErrorResponse "Email not exist or password incorrect"
// @Failure 500 {object} utilities.ErrorResponse "Database or token error"
// @Router /auth/login [post]
func (h *Handler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email or password is not provided",
		})
		return
	}

	user, err := h.DB.UserByEmail(c.Request.Context(), info.Email)

	switch {
	case errors.Is(err, database.ErrNotFound):
		h.Attempts.LogAttempt(log.WarnLevel, authTypeLocal, StatusFail, info.Email, "unknown email")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		h.Attempts.LogAttempt(log.ErrorLevel, authTypeLocal, StatusFail, info.Email, err.Error())
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		h.Attempts.LogAttempt(log.WarnLevel, authTypeLocal, StatusFail, info.Email, "wrong password")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return
	}

	accessToken, session, err := h.Tokens.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	h.Attempts.LogAttempt(log.InfoLevel, authTypeLocal, StatusSuccess, user.Email, "")
	c.JSON(http.StatusOK, LoginResponse{
		User:        user,
		AccessToken: accessToken,
		ExpiresAt:   session.ExpiresAt,
	})
}

// LogoutHandler revokes the current session token.
// @Summary Sign out
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.MessageResponse "Successfully logged out"
// @Failure 401 {object} utilities.UnauthorizedResponse "No session"
// @Failure 500 {object} utilities.ErrorResponse "Failed to logout"
// @Router /auth/logout [post]
func (h *Handler) LogoutHandler(c *gin.Context) {
	session, err := FromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.Blacklist.AddToBlacklist(session.TokenID, session.ExpiresAt); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Successfully logged out"})
}

// SessionHandler returns the current session.
// @Summary Current admin session
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} Session "Active session"
// @Failure 401 {object} utilities.UnauthorizedResponse "No session"
// @Router /auth/session [get]
func (h *Handler) SessionHandler(c *gin.Context) {
	session, err := FromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}
