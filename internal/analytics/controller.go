package analytics

import (
	"net/http"
	"strconv"

	"ticketera/internal/shared/middleware"
	"ticketera/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	GetDashboardAnalytics(c *gin.Context)
	GetBookingAnalytics(c *gin.Context)
	GetRevenueTrend(c *gin.Context)
	GetTopEvents(c *gin.Context)
	GetTopRoutes(c *gin.Context)
	GetPersonalAnalytics(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetDashboardAnalytics(c *gin.Context) {
	dashboard, err := ctrl.service.GetDashboardAnalytics(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load dashboard analytics", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Dashboard analytics retrieved successfully", dashboard, nil)
}

func (ctrl *controller) GetBookingAnalytics(c *gin.Context) {
	overview, err := ctrl.service.GetBookingAnalytics(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load booking analytics", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking analytics retrieved successfully", overview, nil)
}

func (ctrl *controller) GetRevenueTrend(c *gin.Context) {
	days, ok := intQuery(c, "days", dashboardTrendDays)
	if !ok {
		return
	}

	trend, err := ctrl.service.GetRevenueTrend(c.Request.Context(), days)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load revenue trend", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Revenue trend retrieved successfully", trend, nil)
}

func (ctrl *controller) GetTopEvents(c *gin.Context) {
	limit, ok := intQuery(c, "limit", dashboardTopLimit)
	if !ok {
		return
	}

	rows, err := ctrl.service.GetTopEvents(c.Request.Context(), limit)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load event performance", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event performance retrieved successfully", rows, nil)
}

func (ctrl *controller) GetTopRoutes(c *gin.Context) {
	limit, ok := intQuery(c, "limit", dashboardTopLimit)
	if !ok {
		return
	}

	rows, err := ctrl.service.GetTopRoutes(c.Request.Context(), limit)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load route performance", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Route performance retrieved successfully", rows, nil)
}

func (ctrl *controller) GetPersonalAnalytics(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	personal, err := ctrl.service.GetPersonalAnalytics(c.Request.Context(), session.UserID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load personal analytics", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Personal analytics retrieved successfully", personal, nil)
}

func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid "+name+" parameter", nil, err.Error())
		return 0, false
	}
	return n, true
}
