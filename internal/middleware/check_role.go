package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahscorp/hiring-hive-platform/internal/auth"
	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

// CheckRole will protect endpoint from user that is not a specific roles.
// It must run after RequireAuth.
func CheckRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		session, err := auth.FromContext(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		if !utilities.Contains(roles, session.Role) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "User doesn't have permission to access",
			})
			return
		}
		ctx.Next()
	}
}
