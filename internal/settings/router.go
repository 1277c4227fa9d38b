package settings

import (
	"ticketera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSettingRoutes(router *gin.RouterGroup, controller Controller, jwtSecret string) {
	adminSettings := router.Group("/admin/settings")
	adminSettings.Use(middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		adminSettings.GET("", controller.ListSettings)          // GET /api/v1/admin/settings
		adminSettings.PUT("", controller.BulkUpdate)            // PUT /api/v1/admin/settings
		adminSettings.GET("/:key", controller.GetSetting)       // GET /api/v1/admin/settings/:key
		adminSettings.PUT("/:key", controller.UpsertSetting)    // PUT /api/v1/admin/settings/:key
		adminSettings.DELETE("/:key", controller.DeleteSetting) // DELETE /api/v1/admin/settings/:key
	}
}
