package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SafeHeader adds security-related headers to each response. HSTS is only
// sent in release mode.
func SafeHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Del("X-Powered-By")
		// stored resumes may be cached, API responses may not
		if c.Request.Method != http.MethodGet || !strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			h.Set("Cache-Control", "no-store")
		}
		if gin.Mode() == gin.ReleaseMode {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		c.Next()
	}
}
