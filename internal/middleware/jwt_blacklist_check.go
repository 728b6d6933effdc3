package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahscorp/hiring-hive-platform/internal/auth"
	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

// JwtBlacklistCheck is a middleware that rejects sessions whose token was revoked
// by sign-out. It must run after RequireAuth.
func JwtBlacklistCheck(bl auth.JwtBlacklistStore, loginURL string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		session, err := auth.FromContext(ctx)
		if err != nil {
			unauthorized(ctx, loginURL, err.Error())
			return
		}

		isBlacklisted, err := bl.IsBlacklisted(session.TokenID)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to validate token: %s", err.Error()),
			})
			return
		}

		if isBlacklisted {
			unauthorized(ctx, loginURL, "Token has been revoked")
			return
		}
		ctx.Next()
	}
}
