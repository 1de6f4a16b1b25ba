package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all clinician-related routes (including Auth).
func RegisterRoutes(g *gin.RouterGroup, h *ClinicianHandler, authMiddleware gin.HandlerFunc) {
	// Public Routes
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// Authenticated Routes
	g.GET("/me", authMiddleware, h.Me)

	cliniciansGroup := g.Group("/clinicians")
	cliniciansGroup.Use(authMiddleware)
	{
		cliniciansGroup.GET("", h.List)
		cliniciansGroup.GET("/:id", h.Get)
	}
}
