package events

import (
	"ticketera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller, jwtSecret string) {
	// Public browsing
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.ListEvents)   // GET /api/v1/events
		publicEvents.GET("/:id", controller.GetEvent) // GET /api/v1/events/:id
	}

	// Back-office management
	adminEvents := router.Group("/admin/events")
	adminEvents.Use(middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		adminEvents.GET("", controller.ListEvents)
		adminEvents.GET("/:id", controller.GetEvent)
		adminEvents.POST("", controller.CreateEvent)
		adminEvents.PUT("/:id", controller.UpdateEvent)
		adminEvents.DELETE("/:id", controller.DeleteEvent)
	}
}
