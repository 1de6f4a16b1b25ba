package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *RoomHandler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/rooms")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/available", h.ListAvailable)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PATCH("/:id", h.Update)
	}
}
