package transport

import (
	"ticketera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTransportRoutes(router *gin.RouterGroup, controller Controller, jwtSecret string) {
	// Public browsing
	public := router.Group("/transport")
	{
		public.GET("/routes", controller.ListRoutes)
		public.GET("/routes/:id", controller.GetRoute)
		public.GET("/companies", controller.ListCompanies)
		public.GET("/companies/:id", controller.GetCompany)
	}

	// Operators manage the fleet alongside admins
	manage := router.Group("/admin/transport")
	manage.Use(middleware.JWTAuth(jwtSecret), middleware.RequireCapability(middleware.CanManageTransport))
	{
		manage.GET("/routes", controller.ListRoutes)
		manage.POST("/routes", controller.CreateRoute)
		manage.PUT("/routes/:id", controller.UpdateRoute)
		manage.DELETE("/routes/:id", controller.DeleteRoute)

		manage.GET("/companies", controller.ListCompanies)
		manage.GET("/companies/:id/stats", controller.GetCompanyStats)
	}

	// Company records are admin-only
	admin := router.Group("/admin/transport/companies")
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateCompany)
		admin.PUT("/:id", controller.UpdateCompany)
		admin.DELETE("/:id", controller.DeleteCompany)
	}
}
