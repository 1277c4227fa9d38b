package auth

import (
	"ticketera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(router *gin.RouterGroup, controller *Controller, jwtSecret string) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", controller.Register)
		authGroup.POST("/login", controller.Login)
		authGroup.POST("/refresh", controller.RefreshToken)

		protected := authGroup.Group("")
		protected.Use(middleware.JWTAuth(jwtSecret))
		{
			protected.GET("/session", controller.Session)
			protected.POST("/change-password", controller.ChangePassword)
		}
	}
}
