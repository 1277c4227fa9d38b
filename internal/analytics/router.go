package analytics

import (
	"ticketera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(router *gin.RouterGroup, controller Controller, jwtSecret string) {
	admin := router.Group("/admin/analytics")
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", controller.GetDashboardAnalytics) // GET /api/v1/admin/analytics/dashboard
		admin.GET("/bookings", controller.GetBookingAnalytics)
		admin.GET("/revenue", controller.GetRevenueTrend) // ?days=30
		admin.GET("/events", controller.GetTopEvents)     // ?limit=5
		admin.GET("/routes", controller.GetTopRoutes)
	}

	user := router.Group("/analytics")
	user.Use(middleware.JWTAuth(jwtSecret))
	{
		user.GET("/me", controller.GetPersonalAnalytics)
	}
}
