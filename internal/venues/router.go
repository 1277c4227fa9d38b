package venues

import (
	"ticketera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVenueRoutes(router *gin.RouterGroup, controller Controller, jwtSecret string) {
	public := router.Group("/venues")
	{
		public.GET("", controller.ListVenues)
		public.GET("/:id", controller.GetVenue)
	}

	admin := router.Group("/admin/venues")
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListVenues)
		admin.POST("", controller.CreateVenue)
		admin.PUT("/:id", controller.UpdateVenue)
		admin.DELETE("/:id", controller.DeleteVenue)
	}
}
