package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// unexpectedResponse mirrors the notification response shape without leaking internals.
type unexpectedResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// Recovery converts a panic into a generic 500 response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("panic recovered",
			"path", c.Request.URL.Path,
			"request_id", GetRequestID(c),
			"panic", recovered,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, unexpectedResponse{
			Message: "Internal server error",
			Errors:  []string{"An unexpected error occurred while processing the request"},
		})
	})
}
