package users

import (
	"errors"
	"net/http"

	"ticketera/internal/shared/middleware"
	"ticketera/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	GetMe(c *gin.Context)
	UpdateMe(c *gin.Context)
	ListUsers(c *gin.Context)
	GetUser(c *gin.Context)
	SetRoles(c *gin.Context)
	DeleteUser(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetMe(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	profile, err := ctrl.service.GetProfile(c.Request.Context(), session.UserID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Profile retrieved successfully", profile, nil)
}

func (ctrl *controller) UpdateMe(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	profile, err := ctrl.service.UpdateProfile(c.Request.Context(), session.UserID, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Profile updated successfully", profile, nil)
}

func (ctrl *controller) ListUsers(c *gin.Context) {
	var q ProfileListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.FieldErrors(err))
		return
	}

	page, err := ctrl.service.ListProfiles(c.Request.Context(), q)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load users", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Users retrieved successfully", page, nil)
}

func (ctrl *controller) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid user ID", nil, err.Error())
		return
	}

	profile, err := ctrl.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "User retrieved successfully", profile, nil)
}

func (ctrl *controller) SetRoles(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid user ID", nil, err.Error())
		return
	}

	var req UpdateRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	profile, err := ctrl.service.SetRoles(c.Request.Context(), id, req.Roles)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Roles updated successfully", profile, nil)
}

func (ctrl *controller) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid user ID", nil, err.Error())
		return
	}

	if err := ctrl.service.DeleteProfile(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "User deleted successfully", nil, nil)
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "User not found", nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
	}
}
