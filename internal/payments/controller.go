package payments

import (
	"errors"
	"io"
	"net/http"
	"time"

	"ticketera/internal/bookings"
	"ticketera/internal/payments/checkout"
	"ticketera/internal/shared/middleware"
	"ticketera/internal/shared/utils/response"
	"ticketera/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller interface {
	ParseCheckout(c *gin.Context)
	StartSession(c *gin.Context)
	GetSession(c *gin.Context)
	SelectMethod(c *gin.Context)
	Back(c *gin.Context)
	Regenerate(c *gin.Context)
	SubmitDetails(c *gin.Context)
	Stream(c *gin.Context)
	Webhook(c *gin.Context)
}

type controller struct {
	service  Service
	interval time.Duration
}

func NewController(service Service, streamInterval time.Duration) Controller {
	if streamInterval <= 0 {
		streamInterval = time.Second
	}
	return &controller{service: service, interval: streamInterval}
}

func (ctrl *controller) ParseCheckout(c *gin.Context) {
	params, err := checkout.FromValues(c.Request.URL.Query())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid checkout parameters", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Checkout parsed successfully", params, nil)
}

func (ctrl *controller) StartSession(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	resp, err := ctrl.service.StartSession(c.Request.Context(), session.UserID, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Payment session started", resp, nil)
}

func (ctrl *controller) GetSession(c *gin.Context) {
	session, id, ok := sessionAndID(c)
	if !ok {
		return
	}
	resp, err := ctrl.service.GetSession(c.Request.Context(), session.UserID, id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Payment session retrieved successfully", resp, nil)
}

func (ctrl *controller) SelectMethod(c *gin.Context) {
	session, id, ok := sessionAndID(c)
	if !ok {
		return
	}

	var req SelectMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	resp, err := ctrl.service.SelectMethod(c.Request.Context(), session.UserID, id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Payment method selected", resp, nil)
}

func (ctrl *controller) Back(c *gin.Context) {
	session, id, ok := sessionAndID(c)
	if !ok {
		return
	}
	resp, err := ctrl.service.Back(c.Request.Context(), session.UserID, id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Returned to method selection", resp, nil)
}

func (ctrl *controller) Regenerate(c *gin.Context) {
	session, id, ok := sessionAndID(c)
	if !ok {
		return
	}
	resp, err := ctrl.service.Regenerate(c.Request.Context(), session.UserID, id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "QR code regenerated", resp, nil)
}

func (ctrl *controller) SubmitDetails(c *gin.Context) {
	session, id, ok := sessionAndID(c)
	if !ok {
		return
	}

	var req SubmitDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	resp, err := ctrl.service.SubmitDetails(c.Request.Context(), session.UserID, id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusAccepted, "Payment is processing", resp, nil)
}

// Stream pushes countdown frames every interval and status frames as they happen
func (ctrl *controller) Stream(c *gin.Context) {
	session, id, ok := sessionAndID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	updates, err := ctrl.service.Subscribe(ctx, session.UserID, id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	snapshot, err := ctrl.service.GetSession(ctx, session.UserID, id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	metrics.PaymentStreamOpened()
	defer metrics.PaymentStreamClosed()

	c.SSEvent(UpdateCountdown, snapshot)
	c.Writer.Flush()
	if finished(snapshot.Status) {
		return
	}

	ticker := time.NewTicker(ctrl.interval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case update, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent(update.Type, update.Session)
			return !finished(update.Session.Status)
		case <-ticker.C:
			snap, err := ctrl.service.GetSession(ctx, session.UserID, id)
			if err != nil {
				c.SSEvent("error", gin.H{"message": err.Error()})
				return false
			}
			c.SSEvent(UpdateCountdown, snap)
			return !finished(snap.Status)
		}
	})
}

func finished(status Status) bool {
	return status == StatusSuccess || status == StatusFailed
}

func (ctrl *controller) Webhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Unable to read request body", nil, err.Error())
		return
	}

	err = ctrl.service.HandleWebhook(c.Request.Context(), body, c.GetHeader(SignatureHeader))
	if errors.Is(err, ErrDuplicateWebhook) {
		response.RespondJSON(c, "success", http.StatusOK, "Webhook already processed", nil, nil)
		return
	}
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusAccepted, "Webhook accepted", nil, nil)
}

func requireSession(c *gin.Context) (middleware.Session, bool) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
	}
	return session, ok
}

func sessionAndID(c *gin.Context) (middleware.Session, uuid.UUID, bool) {
	session, ok := requireSession(c)
	if !ok {
		return session, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid payment ID", nil, err.Error())
		return session, uuid.Nil, false
	}
	return session, id, true
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid webhook payload", nil, response.FieldErrors(err))
	case errors.Is(err, ErrSessionNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Payment session not found", nil, nil)
	case errors.Is(err, ErrUnknownReference):
		response.RespondJSON(c, "error", http.StatusNotFound, "Unknown payment reference", nil, nil)
	case errors.Is(err, bookings.ErrBookingNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
	case errors.Is(err, ErrAccessDenied):
		response.RespondJSON(c, "error", http.StatusForbidden, "Access denied", nil, nil)
	case errors.Is(err, ErrInvalidSignature):
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid signature", nil, nil)
	case errors.Is(err, ErrUnknownMethod):
		response.RespondJSON(c, "error", http.StatusBadRequest, "Unknown payment method", nil, err.Error())
	case errors.Is(err, ErrSessionExpired):
		response.RespondJSON(c, "error", http.StatusGone, "Payment code expired", nil, nil)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSessionClosed), errors.Is(err, ErrBookingNotPending),
		errors.Is(err, ErrStaleReference):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Payment operation failed", nil, err.Error())
	}
}
