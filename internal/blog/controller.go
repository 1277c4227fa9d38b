package blog

import (
	"errors"
	"net/http"

	"ticketera/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreatePost(c *gin.Context)
	GetPost(c *gin.Context)
	GetPublishedPost(c *gin.Context)
	UpdatePost(c *gin.Context)
	DeletePost(c *gin.Context)
	ListPosts(c *gin.Context)
	ListPublished(c *gin.Context)
	PublishPost(c *gin.Context)
	ArchivePost(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	post, err := ctrl.service.CreatePost(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Blog post created successfully", post, nil)
}

func (ctrl *controller) GetPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := ctrl.service.GetPost(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Blog post retrieved successfully", post, nil)
}

func (ctrl *controller) GetPublishedPost(c *gin.Context) {
	post, err := ctrl.service.GetPublishedPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Blog post retrieved successfully", post, nil)
}

func (ctrl *controller) UpdatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	post, err := ctrl.service.UpdatePost(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Blog post updated successfully", post, nil)
}

func (ctrl *controller) DeletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeletePost(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Blog post deleted successfully", nil, nil)
}

func (ctrl *controller) ListPosts(c *gin.Context) {
	var q PostListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.FieldErrors(err))
		return
	}

	page, err := ctrl.service.ListPosts(c.Request.Context(), q)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load blog posts", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Blog posts retrieved successfully", page, nil)
}

func (ctrl *controller) ListPublished(c *gin.Context) {
	var q PostListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.FieldErrors(err))
		return
	}

	page, err := ctrl.service.ListPublished(c.Request.Context(), q)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load blog posts", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Blog posts retrieved successfully", page, nil)
}

func (ctrl *controller) PublishPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := ctrl.service.PublishPost(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Blog post published", post, nil)
}

func (ctrl *controller) ArchivePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := ctrl.service.ArchivePost(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Blog post archived", post, nil)
}

func postID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid blog post ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Blog post not found", nil, nil)
	case errors.Is(err, ErrStatusUnchanged):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Blog operation failed", nil, err.Error())
	}
}
