package seats

import (
	"errors"
	"net/http"

	"ticketera/internal/events"
	"ticketera/internal/shared/middleware"
	"ticketera/internal/shared/utils/response"
	"ticketera/internal/venues"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	GetSeatMap(c *gin.Context)
	GetSelection(c *gin.Context)
	SelectSeat(c *gin.Context)
	DeselectSeat(c *gin.Context)
	ClearSelection(c *gin.Context)
	GenerateSeats(c *gin.Context)
	SetSeatStatus(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetSeatMap(c *gin.Context) {
	eventID, ok := parseID(c, "id", "Invalid event ID")
	if !ok {
		return
	}

	var viewer *uuid.UUID
	if session, ok := middleware.GetSession(c); ok {
		viewer = &session.UserID
	}

	seats, err := ctrl.service.GetSeatMap(c.Request.Context(), eventID, viewer)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seats retrieved successfully", seats, nil)
}

func (ctrl *controller) GetSelection(c *gin.Context) {
	eventID, session, ok := ctrl.eventAndSession(c)
	if !ok {
		return
	}

	sel, err := ctrl.service.GetSelection(c.Request.Context(), eventID, session.UserID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Selection retrieved successfully", sel, nil)
}

func (ctrl *controller) SelectSeat(c *gin.Context) {
	eventID, session, ok := ctrl.eventAndSession(c)
	if !ok {
		return
	}
	seatID, ok := parseID(c, "seatId", "Invalid seat ID")
	if !ok {
		return
	}

	sel, err := ctrl.service.SelectSeat(c.Request.Context(), eventID, session.UserID, seatID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seat selected", sel, nil)
}

func (ctrl *controller) DeselectSeat(c *gin.Context) {
	eventID, session, ok := ctrl.eventAndSession(c)
	if !ok {
		return
	}
	seatID, ok := parseID(c, "seatId", "Invalid seat ID")
	if !ok {
		return
	}

	sel, err := ctrl.service.DeselectSeat(c.Request.Context(), eventID, session.UserID, seatID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seat deselected", sel, nil)
}

func (ctrl *controller) ClearSelection(c *gin.Context) {
	eventID, session, ok := ctrl.eventAndSession(c)
	if !ok {
		return
	}

	if err := ctrl.service.ClearSelection(c.Request.Context(), eventID, session.UserID); err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Selection cleared", nil, nil)
}

func (ctrl *controller) GenerateSeats(c *gin.Context) {
	eventID, ok := parseID(c, "id", "Invalid event ID")
	if !ok {
		return
	}

	result, err := ctrl.service.GenerateSeats(c.Request.Context(), eventID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Seats generated successfully", result, nil)
}

func (ctrl *controller) SetSeatStatus(c *gin.Context) {
	eventID, ok := parseID(c, "id", "Invalid event ID")
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	ids := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		ids = append(ids, uuid.MustParse(raw))
	}

	if err := ctrl.service.SetSeatStatus(c.Request.Context(), eventID, ids, Status(req.Status)); err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seats updated successfully", nil, nil)
}

func (ctrl *controller) eventAndSession(c *gin.Context) (uuid.UUID, middleware.Session, bool) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, middleware.Session{}, false
	}
	eventID, ok := parseID(c, "id", "Invalid event ID")
	return eventID, session, ok
}

func parseID(c *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, message, nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSeatNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Seat not found", nil, err.Error())
	case errors.Is(err, ErrSeatNotAvailable):
		response.RespondJSON(c, "error", http.StatusConflict, "Seat not available", nil, err.Error())
	case errors.Is(err, ErrSeatsAlreadyGenerated):
		response.RespondJSON(c, "error", http.StatusConflict, "Seats already generated", nil, nil)
	case errors.Is(err, ErrCapacityExceeded):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Seat map exceeds venue capacity", nil, err.Error())
	case errors.Is(err, events.ErrEventNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
	case errors.Is(err, venues.ErrVenueNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Venue not found", nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Seat operation failed", nil, err.Error())
	}
}
