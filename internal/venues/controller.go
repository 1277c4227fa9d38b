package venues

import (
	"errors"
	"net/http"

	"ticketera/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateVenue(c *gin.Context)
	GetVenue(c *gin.Context)
	UpdateVenue(c *gin.Context)
	DeleteVenue(c *gin.Context)
	ListVenues(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateVenue(c *gin.Context) {
	var req CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	venue, err := ctrl.service.CreateVenue(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Venue created successfully", venue, nil)
}

func (ctrl *controller) GetVenue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid venue ID", nil, err.Error())
		return
	}

	venue, err := ctrl.service.GetVenue(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Venue retrieved successfully", venue, nil)
}

func (ctrl *controller) UpdateVenue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid venue ID", nil, err.Error())
		return
	}

	var req UpdateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	venue, err := ctrl.service.UpdateVenue(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Venue updated successfully", venue, nil)
}

func (ctrl *controller) DeleteVenue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid venue ID", nil, err.Error())
		return
	}

	if err := ctrl.service.DeleteVenue(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Venue deleted successfully", nil, nil)
}

func (ctrl *controller) ListVenues(c *gin.Context) {
	var q VenueListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.FieldErrors(err))
		return
	}

	page, err := ctrl.service.ListVenues(c.Request.Context(), q)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load venues", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Venues retrieved successfully", page, nil)
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrVenueNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Venue not found", nil, nil)
	case errors.Is(err, ErrCapacityExceeded), errors.Is(err, ErrInvalidSection):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Invalid seating map", nil, err.Error())
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Venue operation failed", nil, err.Error())
	}
}
