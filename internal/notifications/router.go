package notifications

import (
	"ticketera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupNotificationRoutes(router *gin.RouterGroup, controller Controller, jwtSecret string) {
	tracking := router.Group("/notifications")
	{
		tracking.POST("/:id/read", controller.TrackRead)
		tracking.POST("/:id/click", controller.TrackClick)
	}

	admin := router.Group("/admin/notifications")
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListNotifications)
		admin.POST("", controller.CreateNotification)
		admin.GET("/:id", controller.GetNotification)
		admin.PUT("/:id", controller.UpdateNotification)
		admin.DELETE("/:id", controller.DeleteNotification)
		admin.POST("/:id/send", controller.SendNotification)
		admin.POST("/:id/schedule", controller.ScheduleNotification)
	}
}
