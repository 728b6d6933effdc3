// Package middleware contain utilities middleware code
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/ahscorp/hiring-hive-platform/internal/auth"
	"github.com/ahscorp/hiring-hive-platform/internal/database"
	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

func unauthorized(ctx *gin.Context, loginURL, msg string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.UnauthorizedResponse{
		Error:    msg,
		LoginURL: loginURL,
	})
}

// RequireAuth function is a middleware that validates a Bearer token in the Authorization
// header and checks that the user associated with the token still exists before allowing
// access to the endpoint. Rejections are 401 with the sign-in URL attached.
// On success the claims, the user and the *auth.Session are stored in the context.
func RequireAuth(db *database.DBinstanceStruct, tokens *auth.TokenIssuer, loginURL string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			unauthorized(ctx, loginURL, err.Error())
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				unauthorized(ctx, loginURL, "Access token expired")
				return
			}

			if errors.Is(err, jwt.ErrTokenInvalidIssuer) {
				unauthorized(ctx, loginURL, "Invalid token issuer")
				return
			}

			unauthorized(ctx, loginURL, fmt.Sprintf("Failed to validate token: %s", err.Error()))
			return
		}

		session, err := auth.SessionFromClaims(claims)
		if err != nil {
			unauthorized(ctx, loginURL, err.Error())
			return
		}

		foundUser, err := db.UserByID(ctx.Request.Context(), session.UserID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				unauthorized(ctx, loginURL, "User not exist")
				return
			}

			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
			})
			return
		}
		session.Role = foundUser.Role

		ctx.Set(utilities.ClaimsKey, claims)
		ctx.Set("user", foundUser)
		ctx.Set(utilities.SessionKey, session)
		ctx.Next()
	}
}
