package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

// multipartOverhead covers boundaries and the text fields sent next to a file.
var multipartOverhead = int64(64 * 1024)

// SizeLimit function is a middleware that caps the request body at maxBodyBytes
// plus multipart overhead. Reads beyond the cap fail with http.MaxBytesError,
// which handlers turn into 413. A declared Content-Length over the cap is
// rejected with 413 before the body is read.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	limit := maxBodyBytes + multipartOverhead
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
				Error: "Request body too large",
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
