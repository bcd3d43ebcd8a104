package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Healthz answers 503 while the database is unreachable.
func Healthz(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /healthz"

		if err := ping(c.Request.Context()); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
