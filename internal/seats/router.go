package seats

import (
	"ticketera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(router *gin.RouterGroup, controller Controller, jwtSecret string) {
	// Seat map shows the caller's own selection when a token is sent
	router.GET("/events/:id/seats", middleware.OptionalAuth(jwtSecret), controller.GetSeatMap)

	selection := router.Group("/events/:id/selection")
	selection.Use(middleware.JWTAuth(jwtSecret))
	{
		selection.GET("", controller.GetSelection)
		selection.DELETE("", controller.ClearSelection)
		selection.POST("/:seatId", controller.SelectSeat)
		selection.DELETE("/:seatId", controller.DeselectSeat)
	}

	admin := router.Group("/admin/events/:id/seats")
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		admin.POST("/generate", controller.GenerateSeats)
		admin.PATCH("/status", controller.SetSeatStatus)
	}
}
