package bookings

import (
	"ticketera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller, jwtSecret string) {
	user := router.Group("/bookings")
	user.Use(middleware.JWTAuth(jwtSecret))
	{
		user.POST("/event", controller.CreateEventBooking)
		user.POST("/transport", controller.CreateTransportBooking)
		user.GET("/me", controller.ListMyBookings)
		user.GET("/:id", controller.GetBooking)
		user.POST("/:id/cancel", controller.CancelBooking)
	}

	admin := router.Group("/admin/bookings")
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListBookings)
		admin.GET("/:id", controller.GetBooking)
		admin.GET("/code/:code", controller.GetBookingByCode)
		admin.PATCH("/:id/payment-status", controller.UpdatePaymentStatus)
		admin.PATCH("/:id/status", controller.UpdateBookingStatus)
		admin.DELETE("/:id", controller.DeleteBooking)
	}
}
