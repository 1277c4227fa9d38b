package users

import (
	"ticketera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(router *gin.RouterGroup, controller Controller, jwtSecret string) {
	me := router.Group("/users/me")
	me.Use(middleware.JWTAuth(jwtSecret))
	{
		me.GET("", controller.GetMe)
		me.PATCH("", controller.UpdateMe)
	}

	admin := router.Group("/admin/users")
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListUsers)
		admin.GET("/:id", controller.GetUser)
		admin.PUT("/:id/roles", controller.SetRoles)
		admin.DELETE("/:id", controller.DeleteUser)
	}
}
