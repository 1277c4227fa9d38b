package bookings

import (
	"errors"
	"net/http"

	"ticketera/internal/events"
	"ticketera/internal/seats"
	"ticketera/internal/shared/middleware"
	"ticketera/internal/shared/utils/response"
	"ticketera/internal/transport"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateEventBooking(c *gin.Context)
	CreateTransportBooking(c *gin.Context)
	GetBooking(c *gin.Context)
	GetBookingByCode(c *gin.Context)
	ListMyBookings(c *gin.Context)
	CancelBooking(c *gin.Context)

	ListBookings(c *gin.Context)
	UpdatePaymentStatus(c *gin.Context)
	UpdateBookingStatus(c *gin.Context)
	DeleteBooking(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateEventBooking(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req CreateEventBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	booking, err := ctrl.service.CreateEventBooking(c.Request.Context(), session.UserID, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

func (ctrl *controller) CreateTransportBooking(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req CreateTransportBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	booking, err := ctrl.service.CreateTransportBooking(c.Request.Context(), session.UserID, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), session, id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

func (ctrl *controller) GetBookingByCode(c *gin.Context) {
	booking, err := ctrl.service.GetBookingByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

func (ctrl *controller) ListMyBookings(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var q BookingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.FieldErrors(err))
		return
	}

	page, err := ctrl.service.ListUserBookings(c.Request.Context(), session.UserID, q)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load bookings", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", page, nil)
}

func (ctrl *controller) CancelBooking(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.CancelBooking(c.Request.Context(), session, id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

func (ctrl *controller) ListBookings(c *gin.Context) {
	var q BookingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.FieldErrors(err))
		return
	}

	page, err := ctrl.service.ListBookings(c.Request.Context(), q)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load bookings", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", page, nil)
}

func (ctrl *controller) UpdatePaymentStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	booking, err := ctrl.service.UpdatePaymentStatus(c.Request.Context(), id, PaymentStatus(req.PaymentStatus))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Payment status updated", booking, nil)
}

func (ctrl *controller) UpdateBookingStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	booking, err := ctrl.service.UpdateBookingStatus(c.Request.Context(), id, Status(req.BookingStatus))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking status updated", booking, nil)
}

func (ctrl *controller) DeleteBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteBooking(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking deleted successfully", nil, nil)
}

func requireSession(c *gin.Context) (middleware.Session, bool) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
	}
	return session, ok
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
	case errors.Is(err, ErrAccessDenied):
		response.RespondJSON(c, "error", http.StatusForbidden, "Access denied", nil, nil)
	case errors.Is(err, ErrEmptySelection):
		response.RespondJSON(c, "error", http.StatusBadRequest, "No seats selected", nil, nil)
	case errors.Is(err, ErrCannotCancel), errors.Is(err, ErrAlreadyPaid),
		errors.Is(err, ErrEventNotBookable), errors.Is(err, ErrRouteNotBookable):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, transport.ErrNotEnoughSeats), errors.Is(err, seats.ErrSeatNotAvailable):
		response.RespondJSON(c, "error", http.StatusConflict, "Seats not available", nil, err.Error())
	case errors.Is(err, events.ErrEventNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
	case errors.Is(err, transport.ErrRouteNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Route not found", nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Booking operation failed", nil, err.Error())
	}
}
