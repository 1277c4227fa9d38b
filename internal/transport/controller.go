package transport

import (
	"errors"
	"net/http"

	"ticketera/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateCompany(c *gin.Context)
	GetCompany(c *gin.Context)
	UpdateCompany(c *gin.Context)
	DeleteCompany(c *gin.Context)
	ListCompanies(c *gin.Context)
	GetCompanyStats(c *gin.Context)

	CreateRoute(c *gin.Context)
	GetRoute(c *gin.Context)
	UpdateRoute(c *gin.Context)
	DeleteRoute(c *gin.Context)
	ListRoutes(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateCompany(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	company, err := ctrl.service.CreateCompany(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Company created successfully", company, nil)
}

func (ctrl *controller) GetCompany(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	company, err := ctrl.service.GetCompany(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Company retrieved successfully", company, nil)
}

func (ctrl *controller) UpdateCompany(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	company, err := ctrl.service.UpdateCompany(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Company updated successfully", company, nil)
}

func (ctrl *controller) DeleteCompany(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteCompany(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Company deleted successfully", nil, nil)
}

func (ctrl *controller) ListCompanies(c *gin.Context) {
	var q CompanyListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.FieldErrors(err))
		return
	}

	page, err := ctrl.service.ListCompanies(c.Request.Context(), q)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load companies", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Companies retrieved successfully", page, nil)
}

func (ctrl *controller) GetCompanyStats(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	stats, err := ctrl.service.GetCompanyStats(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Company stats retrieved successfully", stats, nil)
}

func (ctrl *controller) CreateRoute(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	route, err := ctrl.service.CreateRoute(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Route created successfully", route, nil)
}

func (ctrl *controller) GetRoute(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	route, err := ctrl.service.GetRoute(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Route retrieved successfully", route, nil)
}

func (ctrl *controller) UpdateRoute(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	route, err := ctrl.service.UpdateRoute(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Route updated successfully", route, nil)
}

func (ctrl *controller) DeleteRoute(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteRoute(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Route deleted successfully", nil, nil)
}

func (ctrl *controller) ListRoutes(c *gin.Context) {
	var q RouteListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.FieldErrors(err))
		return
	}

	page, err := ctrl.service.ListRoutes(c.Request.Context(), q)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load routes", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Routes retrieved successfully", page, nil)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCompanyNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Company not found", nil, nil)
	case errors.Is(err, ErrRouteNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Route not found", nil, nil)
	case errors.Is(err, ErrCompanyHasRoutes):
		response.RespondJSON(c, "error", http.StatusConflict, "Company still has routes", nil, nil)
	case errors.Is(err, ErrInvalidSeatCounts), errors.Is(err, ErrInvalidSchedule), errors.Is(err, ErrInvalidPrice):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Transport operation failed", nil, err.Error())
	}
}
