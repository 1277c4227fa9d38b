package search

import (
	"net/http"

	"ticketera/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	Search(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Search(c *gin.Context) {
	var q Query
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid search parameters", nil, response.FieldErrors(err))
		return
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		response.RespondJSON(c, "error", http.StatusBadRequest, "min_price must not exceed max_price", nil, nil)
		return
	}

	result, err := ctrl.service.Search(c.Request.Context(), q)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load search results", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Search results retrieved successfully", result, nil)
}
