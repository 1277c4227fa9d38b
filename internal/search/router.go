package search

import (
	"github.com/gin-gonic/gin"
)

func SetupSearchRoutes(router *gin.RouterGroup, controller Controller) {
	router.GET("/search", controller.Search) // GET /api/v1/search
}
