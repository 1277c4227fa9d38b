package notifications

import (
	"context"
	"errors"
	"net/http"

	"ticketera/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateNotification(c *gin.Context)
	GetNotification(c *gin.Context)
	UpdateNotification(c *gin.Context)
	DeleteNotification(c *gin.Context)
	ListNotifications(c *gin.Context)
	SendNotification(c *gin.Context)
	ScheduleNotification(c *gin.Context)
	TrackRead(c *gin.Context)
	TrackClick(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	n, err := ctrl.service.CreateNotification(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Notification created successfully", n, nil)
}

func (ctrl *controller) GetNotification(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	n, err := ctrl.service.GetNotification(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Notification retrieved successfully", n, nil)
}

func (ctrl *controller) UpdateNotification(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	n, err := ctrl.service.UpdateNotification(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Notification updated successfully", n, nil)
}

func (ctrl *controller) DeleteNotification(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctrl.service.DeleteNotification(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Notification deleted successfully", nil, nil)
}

func (ctrl *controller) ListNotifications(c *gin.Context) {
	var q NotificationListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.FieldErrors(err))
		return
	}

	page, err := ctrl.service.ListNotifications(c.Request.Context(), q)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load notifications", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Notifications retrieved successfully", page, nil)
}

func (ctrl *controller) SendNotification(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	n, err := ctrl.service.SendNotification(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusAccepted, "Notification dispatched", n, nil)
}

func (ctrl *controller) ScheduleNotification(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	n, err := ctrl.service.ScheduleNotification(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Notification scheduled", n, nil)
}

func (ctrl *controller) TrackRead(c *gin.Context) {
	ctrl.track(c, ctrl.service.TrackRead)
}

func (ctrl *controller) TrackClick(c *gin.Context) {
	ctrl.track(c, ctrl.service.TrackClick)
}

func (ctrl *controller) track(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) error) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid notification ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotificationNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Notification not found", nil, nil)
	case errors.Is(err, ErrAlreadySent):
		response.RespondJSON(c, "error", http.StatusConflict, "Notification already sent", nil, nil)
	case errors.Is(err, ErrInvalidSchedule):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Notification operation failed", nil, err.Error())
	}
}
