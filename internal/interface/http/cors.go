package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// corsMiddleware lets the dashboard call the API from the configured origins.
// An empty list allows any origin.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := c.Writer.Header()
		headers.Add("Vary", "Origin")
		if origin := allowOriginHeader(c.GetHeader("Origin"), allowed); origin != "" {
			headers.Set("Access-Control-Allow-Origin", origin)
		}
		headers.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		headers.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		headers.Set("Access-Control-Expose-Headers", requestIDHeader+", Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// allowOriginHeader returns the Access-Control-Allow-Origin value for the
// request, or "" when the origin is not permitted.
func allowOriginHeader(requestOrigin string, allowed []string) string {
	if len(allowed) == 0 {
		return "*"
	}
	for _, candidate := range allowed {
		if candidate == "*" {
			return "*"
		}
		if requestOrigin != "" && strings.EqualFold(candidate, requestOrigin) {
			return requestOrigin
		}
	}
	return ""
}

func originAllowed(requestOrigin string, allowed []string) bool {
	return requestOrigin == "" || allowOriginHeader(requestOrigin, allowed) != ""
}
