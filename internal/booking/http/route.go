package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.POST("/check-availability", h.CheckAvailability)
		group.PATCH("/:id", h.UpdateStatus)
		group.DELETE("/:id", h.Cancel)
		group.POST("/:id/accept-conflict", h.AcceptConflict)
		group.POST("/:id/reject-conflict", h.RejectConflict)
	}
}
