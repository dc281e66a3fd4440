package routes

import (
	"net/http"

	"artbook_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every handler group under /api/v1.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	h.AuthHandler.RegisterRoutes(api)
	h.JobHandler.RegisterRoutes(api)
	h.ProposalHandler.RegisterRoutes(api)
	h.ReviewHandler.RegisterRoutes(api)
	h.NotificationHandler.RegisterRoutes(api)
}
