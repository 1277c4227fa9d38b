package settings

import (
	"errors"
	"net/http"

	"ticketera/internal/shared/middleware"
	"ticketera/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	ListSettings(c *gin.Context)
	GetSetting(c *gin.Context)
	UpsertSetting(c *gin.Context)
	BulkUpdate(c *gin.Context)
	DeleteSetting(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListSettings(c *gin.Context) {
	settings, err := ctrl.service.ListSettings(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load settings", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Settings retrieved successfully", settings, nil)
}

func (ctrl *controller) GetSetting(c *gin.Context) {
	setting, err := ctrl.service.GetSetting(c.Request.Context(), c.Param("key"))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Setting retrieved successfully", setting, nil)
}

func (ctrl *controller) UpsertSetting(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	var req UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	setting, err := ctrl.service.UpsertSetting(c.Request.Context(), c.Param("key"), req, session.UserID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Setting saved successfully", setting, nil)
}

func (ctrl *controller) BulkUpdate(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	settings, err := ctrl.service.BulkUpdate(c.Request.Context(), req, session.UserID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Settings saved successfully", settings, nil)
}

func (ctrl *controller) DeleteSetting(c *gin.Context) {
	if err := ctrl.service.DeleteSetting(c.Request.Context(), c.Param("key")); err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Setting deleted successfully", nil, nil)
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSettingNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Setting not found", nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Settings operation failed", nil, err.Error())
	}
}
