package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ticketera/internal/bookings"
	"ticketera/internal/payments/checkout"
	"ticketera/internal/seats"
	"ticketera/pkg/logger"
	"ticketera/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Service interface {
	StartSession(ctx context.Context, userID uuid.UUID, req StartSessionRequest) (*SessionResponse, error)
	GetSession(ctx context.Context, userID, id uuid.UUID) (*SessionResponse, error)
	SelectMethod(ctx context.Context, userID, id uuid.UUID, req SelectMethodRequest) (*SessionResponse, error)
	Back(ctx context.Context, userID, id uuid.UUID) (*SessionResponse, error)
	Regenerate(ctx context.Context, userID, id uuid.UUID) (*SessionResponse, error)
	SubmitDetails(ctx context.Context, userID, id uuid.UUID, req SubmitDetailsRequest) (*SessionResponse, error)
	Subscribe(ctx context.Context, userID, id uuid.UUID) (<-chan Update, error)

	HandleWebhook(ctx context.Context, body []byte, signature string) error
	ProcessConfirmation(ctx context.Context, c Confirmation) error
}

type BookingService interface {
	FindBooking(ctx context.Context, id uuid.UUID) (*bookings.Booking, error)
	ConfirmPayment(ctx context.Context, id uuid.UUID, method string) error
	FailPayment(ctx context.Context, id uuid.UUID, method string) error
}

type Options struct {
	QRExpiry        time.Duration
	ProcessingDelay time.Duration
	WebhookSecret   string
	PayeeNumber     string
	Currency        string
}

type service struct {
	store       SessionStore
	bookings    BookingService
	broadcaster *Broadcaster
	publisher   Publisher
	opts        Options
	validate    *validator.Validate
	now         func() time.Time
	log         *logger.Logger
}

// NewService wires the payment flow. A nil publisher processes confirmations in-process.
func NewService(store SessionStore, bookingService BookingService, broadcaster *Broadcaster, publisher Publisher, opts Options) Service {
	v := validator.New()
	v.SetTagName("binding")

	s := &service{
		store:       store,
		bookings:    bookingService,
		broadcaster: broadcaster,
		publisher:   publisher,
		opts:        opts,
		validate:    v,
		now:         time.Now,
		log:         logger.GetDefault().WithComponent("payments"),
	}
	if s.publisher == nil {
		s.publisher = &DirectPublisher{Processor: s}
	}
	return s
}

func (s *service) StartSession(ctx context.Context, userID uuid.UUID, req StartSessionRequest) (*SessionResponse, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", err)
	}
	booking, err := s.bookings.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrAccessDenied
	}
	if booking.PaymentStatus != bookings.PaymentPending && booking.PaymentStatus != bookings.PaymentFailed {
		return nil, ErrBookingNotPending
	}
	if booking.BookingStatus != bookings.StatusConfirmed {
		return nil, ErrBookingNotPending
	}

	session := NewSession(booking.ID, userID, checkoutFor(booking), s.opts.QRExpiry, s.now())
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	metrics.PaymentTransition("none", session.Step.String())
	resp := session.ToResponse()
	return &resp, nil
}

func checkoutFor(b *bookings.Booking) checkout.Params {
	p := checkout.Params{
		Amount: b.TotalAmount,
		Type:   checkout.Type(b.BookingType),
		Seats:  b.Seats,
		Title:  b.Title(),
	}
	if !b.TravelDate.IsZero() {
		p.Date = b.TravelDate.Format("2006-01-02")
	}
	if b.EventID != nil {
		p.EventID = b.EventID.String()
	}
	switch {
	case b.Event != nil && b.Event.Venue != nil:
		p.Venue = b.Event.Venue.Name
	case b.Route != nil:
		p.Venue = b.Route.CompanyName()
	}
	return p
}

// load fetches a session owned by userID and brings its countdown up to date
func (s *service) load(ctx context.Context, userID, id uuid.UUID) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrAccessDenied
	}
	if err := s.sync(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) sync(ctx context.Context, session *Session) error {
	before := session.Status
	session.Sync(s.now())
	if before == session.Status {
		return nil
	}
	metrics.PaymentTransition(string(session.Method), string(session.Status))
	if err := s.store.Save(ctx, session); err != nil {
		return err
	}
	s.broadcast(session, UpdateStatus)
	return nil
}

func (s *service) GetSession(ctx context.Context, userID, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := session.ToResponse()
	return &resp, nil
}

func (s *service) SelectMethod(ctx context.Context, userID, id uuid.UUID, req SelectMethodRequest) (*SessionResponse, error) {
	method, err := ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, id, func(session *Session) error {
		if err := session.SelectMethod(method, s.now()); err != nil {
			return err
		}
		return s.issueQR(ctx, session)
	})
}

func (s *service) Back(ctx context.Context, userID, id uuid.UUID) (*SessionResponse, error) {
	return s.mutate(ctx, userID, id, func(session *Session) error {
		old := session.Reference
		if err := session.Back(s.now()); err != nil {
			return err
		}
		return s.retire(ctx, old)
	})
}

func (s *service) Regenerate(ctx context.Context, userID, id uuid.UUID) (*SessionResponse, error) {
	return s.mutate(ctx, userID, id, func(session *Session) error {
		old := session.Reference
		if err := session.Regenerate(s.now()); err != nil {
			return err
		}
		if err := s.issueQR(ctx, session); err != nil {
			return err
		}
		return s.retire(ctx, old)
	})
}

// retire drops a replaced reference so late callbacks for it stop resolving
func (s *service) retire(ctx context.Context, reference string) error {
	if reference == "" {
		return nil
	}
	if err := s.store.UnbindReference(ctx, reference); err != nil {
		return fmt.Errorf("failed to release payment reference: %w", err)
	}
	return nil
}

func (s *service) issueQR(ctx context.Context, session *Session) error {
	if !session.Method.IsQR() {
		return nil
	}
	session.QRPayload = fmt.Sprintf("yape://pay?phone=%s&amount=%s&currency=%s&ref=%s",
		s.opts.PayeeNumber, session.Checkout.Amount.StringFixed(2), s.opts.Currency, session.Reference)
	return s.store.BindReference(ctx, session.Reference, session.ID)
}

func (s *service) SubmitDetails(ctx context.Context, userID, id uuid.UUID, req SubmitDetailsRequest) (*SessionResponse, error) {
	resp, err := s.mutate(ctx, userID, id, func(session *Session) error {
		return session.Submit(s.opts.ProcessingDelay, s.now())
	})
	if err != nil {
		return nil, err
	}

	confirmation := Confirmation{PaymentID: id, Outcome: OutcomePaid, Method: resp.Method}
	time.AfterFunc(s.opts.ProcessingDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		confirmation.ReceivedAt = s.now()
		if err := s.publisher.PublishConfirmation(ctx, confirmation); err != nil {
			s.log.ErrorWithContext(ctx, "failed to publish processing result", err, map[string]interface{}{"payment_id": id.String()})
		}
	})
	return resp, nil
}

func (s *service) mutate(ctx context.Context, userID, id uuid.UUID, fn func(*Session) error) (*SessionResponse, error) {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	metrics.PaymentTransition(string(session.Method), session.Step.String())
	s.broadcast(session, UpdateStatus)
	resp := session.ToResponse()
	return &resp, nil
}

func (s *service) Subscribe(ctx context.Context, userID, id uuid.UUID) (<-chan Update, error) {
	if _, err := s.load(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.broadcaster.Subscribe(ctx, id.String())
}

// HandleWebhook verifies a provider callback and queues it for processing
func (s *service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if s.opts.WebhookSecret != "" && !VerifySignature(s.opts.WebhookSecret, body, signature) {
		return ErrInvalidSignature
	}

	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("invalid webhook payload: %w", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	id, err := s.store.ResolveReference(ctx, req.Reference)
	if err != nil {
		return err
	}
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.sync(ctx, session); err != nil {
		return err
	}
	if session.Status == StatusExpired {
		return ErrSessionExpired
	}
	if session.IsTerminal() {
		return ErrSessionClosed
	}
	if !session.awaits(req.Reference) {
		return ErrStaleReference
	}

	fresh, err := s.store.MarkWebhook(ctx, req.EventID)
	if err != nil {
		return err
	}
	if !fresh {
		return ErrDuplicateWebhook
	}

	outcome := OutcomePaid
	if req.Status == string(OutcomeFailed) {
		outcome = OutcomeFailed
	}
	err = s.publisher.PublishConfirmation(ctx, Confirmation{
		PaymentID:  id,
		Reference:  req.Reference,
		Outcome:    outcome,
		Method:     session.Method,
		Reason:     req.Reason,
		ReceivedAt: s.now(),
	})
	if err != nil {
		if forgetErr := s.store.ForgetWebhook(ctx, req.EventID); forgetErr != nil {
			s.log.Warn("failed to clear webhook marker", slog.String("event_id", req.EventID), slog.Any("error", forgetErr))
		}
		return fmt.Errorf("failed to queue payment confirmation: %w", err)
	}
	return nil
}

// ProcessConfirmation applies a queued outcome to the session and its booking
func (s *service) ProcessConfirmation(ctx context.Context, c Confirmation) error {
	session, err := s.store.Get(ctx, c.PaymentID)
	if err != nil {
		return err
	}
	now := s.now()
	next := *session

	if c.Reference != "" && !session.awaits(c.Reference) && !session.IsTerminal() {
		return ErrStaleReference
	}

	switch c.Outcome {
	case OutcomePaid:
		if err := next.Confirm(now); err != nil {
			if errors.Is(err, ErrSessionExpired) {
				if syncErr := s.sync(ctx, session); syncErr != nil {
					s.log.Warn("failed to persist expired payment session", slog.String("payment_id", session.ID.String()), slog.Any("error", syncErr))
				}
			}
			return err
		}
		err = s.bookings.ConfirmPayment(ctx, session.BookingID, string(session.Method))
		switch {
		case err == nil, errors.Is(err, bookings.ErrAlreadyPaid):
		case errors.Is(err, seats.ErrSeatNotAvailable):
			next = *session
			if failErr := next.Fail("seats are no longer available", now); failErr != nil {
				return failErr
			}
			if failErr := s.bookings.FailPayment(ctx, session.BookingID, string(session.Method)); failErr != nil {
				return failErr
			}
		default:
			return err
		}
	case OutcomeFailed:
		if err := next.Fail(c.Reason, now); err != nil {
			return err
		}
		if err := s.bookings.FailPayment(ctx, session.BookingID, string(session.Method)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown payment outcome %q", c.Outcome)
	}

	if err := s.store.Save(ctx, &next); err != nil {
		return err
	}
	metrics.PaymentTransition(string(next.Method), string(next.Status))
	s.log.LogPaymentConfirmed(ctx, next.ID.String(), string(next.Method), string(next.Status))
	s.broadcast(&next, UpdateStatus)
	return nil
}

func (s *service) broadcast(session *Session, kind string) {
	if s.broadcaster == nil {
		return
	}
	if err := s.broadcaster.Publish(Update{Type: kind, Session: session.ToResponse()}); err != nil {
		s.log.Warn("failed to broadcast payment update", slog.String("payment_id", session.ID.String()), slog.Any("error", err))
	}
}
