package payments

import (
	"errors"
	"strings"
	"time"

	"ticketera/internal/payments/checkout"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
)

var (
	ErrSessionNotFound   = errors.New("payment session not found")
	ErrUnknownMethod     = errors.New("unknown payment method")
	ErrInvalidTransition = errors.New("invalid payment step transition")
	ErrSessionExpired    = errors.New("payment session expired")
	ErrSessionClosed     = errors.New("payment session already finished")
	ErrAccessDenied      = errors.New("payment session belongs to another user")
	ErrBookingNotPending = errors.New("booking is not awaiting payment")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
	ErrDuplicateWebhook  = errors.New("webhook already processed")
	ErrUnknownReference  = errors.New("unknown payment reference")
	ErrStaleReference    = errors.New("payment reference is no longer active")
)

type Step int

const (
	StepMethodSelection Step = 1
	StepMethodDetails   Step = 2
	StepProcessing      Step = 3
	StepSuccess         Step = 4
)

func (s Step) String() string {
	switch s {
	case StepMethodSelection:
		return "method_selection"
	case StepMethodDetails:
		return "method_details"
	case StepProcessing:
		return "processing"
	case StepSuccess:
		return "success"
	}
	return "unknown"
}

type Method string

const (
	MethodYape        Method = "yape"
	MethodMercadoPago Method = "mercado_pago"
	MethodPayPal      Method = "paypal"
	MethodCard        Method = "card"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.TrimSpace(s)); m {
	case MethodYape, MethodMercadoPago, MethodPayPal, MethodCard:
		return m, nil
	}
	return "", ErrUnknownMethod
}

// IsQR reports whether the method is paid by scanning a time-limited code
func (m Method) IsQR() bool {
	return m == MethodYape
}

type Status string

const (
	StatusPending Status = "pending"
	StatusExpired Status = "expired"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Session is one walk through the payment screen for a booking.
// Remaining counts QR seconds left; it never goes below zero.
type Session struct {
	ID              uuid.UUID       `json:"id"`
	BookingID       uuid.UUID       `json:"booking_id"`
	UserID          uuid.UUID       `json:"user_id"`
	Checkout        checkout.Params `json:"checkout"`
	Step            Step            `json:"step"`
	Method          Method          `json:"method,omitempty"`
	Status          Status          `json:"status"`
	Reference       string          `json:"reference,omitempty"`
	QRPayload       string          `json:"qr_payload,omitempty"`
	QRWindow        int             `json:"qr_window"`
	Remaining       int             `json:"remaining"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
	ProcessingUntil *time.Time      `json:"processing_until,omitempty"`
	FailureReason   string          `json:"failure_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func NewSession(bookingID, userID uuid.UUID, params checkout.Params, qrWindow time.Duration, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		BookingID: bookingID,
		UserID:    userID,
		Checkout:  params,
		Step:      StepMethodSelection,
		Status:    StatusPending,
		QRWindow:  int(qrWindow / time.Second),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newReference() string {
	return "YP-" + strings.ToUpper(shortuuid.New()[:8])
}

func (s *Session) IsTerminal() bool {
	return s.Status == StatusSuccess || s.Status == StatusFailed
}

// SelectMethod moves 1 -> 2. For QR methods it issues a reference and starts the countdown.
func (s *Session) SelectMethod(m Method, now time.Time) error {
	if s.IsTerminal() {
		return ErrSessionClosed
	}
	if s.Step != StepMethodSelection {
		return ErrInvalidTransition
	}
	s.Method = m
	s.Step = StepMethodDetails
	s.Status = StatusPending
	if m.IsQR() {
		s.startCountdown(now)
	}
	s.UpdatedAt = now
	return nil
}

func (s *Session) startCountdown(now time.Time) {
	expires := now.Add(time.Duration(s.QRWindow) * time.Second)
	s.Reference = newReference()
	s.Remaining = s.QRWindow
	s.ExpiresAt = &expires
}

// Back moves 2 -> 1 and discards any pending code or timer
func (s *Session) Back(now time.Time) error {
	if s.Step != StepMethodDetails || s.IsTerminal() {
		return ErrInvalidTransition
	}
	s.Step = StepMethodSelection
	s.Method = ""
	s.Status = StatusPending
	s.Reference = ""
	s.QRPayload = ""
	s.Remaining = 0
	s.ExpiresAt = nil
	s.UpdatedAt = now
	return nil
}

// awaits reports whether a provider callback for reference can still settle the session
func (s *Session) awaits(reference string) bool {
	return s.Method.IsQR() && s.Step == StepMethodDetails && s.Reference == reference
}

// Tick advances the QR countdown by one second
func (s *Session) Tick() {
	if !s.counting() {
		return
	}
	if s.Remaining > 0 {
		s.Remaining--
	}
	if s.Remaining == 0 {
		s.Status = StatusExpired
	}
}

// Sync derives the countdown from the wall clock
func (s *Session) Sync(now time.Time) {
	if !s.counting() || s.ExpiresAt == nil {
		return
	}
	left := int(s.ExpiresAt.Sub(now).Round(time.Second) / time.Second)
	s.Remaining = max(0, min(left, s.QRWindow))
	if s.Remaining == 0 {
		s.Status = StatusExpired
	}
}

func (s *Session) counting() bool {
	return s.Step == StepMethodDetails && s.Method.IsQR() && s.Status == StatusPending
}

// Regenerate issues a fresh reference and restarts the countdown
func (s *Session) Regenerate(now time.Time) error {
	if s.Step != StepMethodDetails || !s.Method.IsQR() || s.IsTerminal() {
		return ErrInvalidTransition
	}
	s.Status = StatusPending
	s.startCountdown(now)
	s.UpdatedAt = now
	return nil
}

// Submit moves a non-QR session 2 -> 3; it completes once the processing delay passes
func (s *Session) Submit(delay time.Duration, now time.Time) error {
	if s.IsTerminal() {
		return ErrSessionClosed
	}
	if s.Step != StepMethodDetails || s.Method.IsQR() {
		return ErrInvalidTransition
	}
	until := now.Add(delay)
	s.Step = StepProcessing
	s.ProcessingUntil = &until
	s.UpdatedAt = now
	return nil
}

// Confirm moves the session to success
func (s *Session) Confirm(now time.Time) error {
	if s.IsTerminal() {
		return ErrSessionClosed
	}
	switch {
	case s.Step == StepMethodDetails && s.Method.IsQR():
		s.Sync(now)
		if s.Status == StatusExpired {
			return ErrSessionExpired
		}
	case s.Step == StepProcessing:
	default:
		return ErrInvalidTransition
	}
	s.Step = StepSuccess
	s.Status = StatusSuccess
	s.Remaining = 0
	s.UpdatedAt = now
	return nil
}

// Fail closes the session without touching its step
func (s *Session) Fail(reason string, now time.Time) error {
	if s.IsTerminal() {
		return ErrSessionClosed
	}
	if s.Step == StepMethodSelection {
		return ErrInvalidTransition
	}
	s.Status = StatusFailed
	s.FailureReason = reason
	s.UpdatedAt = now
	return nil
}

type SessionResponse struct {
	ID            string          `json:"id"`
	BookingID     string          `json:"booking_id"`
	Step          Step            `json:"step"`
	StepName      string          `json:"step_name"`
	Method        Method          `json:"method,omitempty"`
	Status        Status          `json:"status"`
	Reference     string          `json:"reference,omitempty"`
	QRPayload     string          `json:"qr_payload,omitempty"`
	Remaining     int             `json:"remaining"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	Checkout      checkout.Params `json:"checkout"`
	CheckoutQuery string          `json:"checkout_query"`
}

func (s Session) ToResponse() SessionResponse {
	return SessionResponse{
		ID:            s.ID.String(),
		BookingID:     s.BookingID.String(),
		Step:          s.Step,
		StepName:      s.Step.String(),
		Method:        s.Method,
		Status:        s.Status,
		Reference:     s.Reference,
		QRPayload:     s.QRPayload,
		Remaining:     s.Remaining,
		ExpiresAt:     s.ExpiresAt,
		FailureReason: s.FailureReason,
		Checkout:      s.Checkout,
		CheckoutQuery: checkout.Encode(s.Checkout),
	}
}

// Confirmation is the message carried on the payment-confirmations topic
type Confirmation struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	Reference  string    `json:"reference,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	Method     Method    `json:"method"`
	Reason     string    `json:"reason,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

type Outcome string

const (
	OutcomePaid   Outcome = "paid"
	OutcomeFailed Outcome = "failed"
)

// Update is pushed to stream subscribers
type Update struct {
	Type    string          `json:"type"`
	Session SessionResponse `json:"session"`
}

const (
	UpdateCountdown = "countdown"
	UpdateStatus    = "status"
)
