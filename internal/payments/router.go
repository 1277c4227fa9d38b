package payments

import (
	"ticketera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(router *gin.RouterGroup, controller Controller, jwtSecret string, limiters ...gin.HandlerFunc) {
	public := router.Group("/payments")
	{
		public.GET("/checkout", controller.ParseCheckout)
		public.POST("/webhook", controller.Webhook)
	}

	user := router.Group("/payments")
	user.Use(middleware.JWTAuth(jwtSecret))
	user.Use(limiters...)
	{
		user.POST("", controller.StartSession)
		user.GET("/:id", controller.GetSession)
		user.POST("/:id/method", controller.SelectMethod)
		user.POST("/:id/back", controller.Back)
		user.POST("/:id/regenerate", controller.Regenerate)
		user.POST("/:id/details", controller.SubmitDetails)
		user.GET("/:id/events", controller.Stream)
	}
}
