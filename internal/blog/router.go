package blog

import (
	"ticketera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBlogRoutes(router *gin.RouterGroup, controller Controller, jwtSecret string) {
	publicBlog := router.Group("/blog")
	{
		publicBlog.GET("", controller.ListPublished)          // GET /api/v1/blog
		publicBlog.GET("/:slug", controller.GetPublishedPost) // GET /api/v1/blog/:slug
	}

	adminBlog := router.Group("/admin/blog")
	adminBlog.Use(middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		adminBlog.GET("", controller.ListPosts)
		adminBlog.GET("/:id", controller.GetPost)
		adminBlog.POST("", controller.CreatePost)
		adminBlog.PUT("/:id", controller.UpdatePost)
		adminBlog.DELETE("/:id", controller.DeletePost)
		adminBlog.POST("/:id/publish", controller.PublishPost)
		adminBlog.POST("/:id/archive", controller.ArchivePost)
	}
}
