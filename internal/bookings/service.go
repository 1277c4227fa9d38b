package bookings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ticketera/internal/events"
	"ticketera/internal/seats"
	"ticketera/internal/shared/listing"
	"ticketera/internal/shared/middleware"
	"ticketera/internal/transport"
	"ticketera/pkg/logger"
	"ticketera/pkg/metrics"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
	"github.com/shopspring/decimal"
)

type Service interface {
	CreateEventBooking(ctx context.Context, userID uuid.UUID, req CreateEventBookingRequest) (*BookingResponse, error)
	CreateTransportBooking(ctx context.Context, userID uuid.UUID, req CreateTransportBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, session middleware.Session, id uuid.UUID) (*BookingResponse, error)
	GetBookingByCode(ctx context.Context, code string) (*BookingResponse, error)
	FindBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListBookings(ctx context.Context, q BookingListQuery) (listing.Page[BookingResponse], error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, q BookingListQuery) (listing.Page[BookingResponse], error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) (*BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status Status) (*BookingResponse, error)
	CancelBooking(ctx context.Context, session middleware.Session, id uuid.UUID) (*BookingResponse, error)
	DeleteBooking(ctx context.Context, id uuid.UUID) error

	// Payment outcomes
	ConfirmPayment(ctx context.Context, id uuid.UUID, method string) error
	FailPayment(ctx context.Context, id uuid.UUID, method string) error
}

type SeatService interface {
	GetSelection(ctx context.Context, eventID, userID uuid.UUID) (*seats.SelectionResponse, error)
	ClearSelection(ctx context.Context, eventID, userID uuid.UUID) error
	OccupySeats(ctx context.Context, eventID, userID, bookingID uuid.UUID, seatIDs []uuid.UUID) error
	SetSeatStatus(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, status seats.Status) error
}

type EventLookup interface {
	GetEvent(ctx context.Context, id uuid.UUID) (*events.EventResponse, error)
}

type RouteService interface {
	GetRoute(ctx context.Context, id uuid.UUID) (*transport.Route, error)
	ReserveSeats(ctx context.Context, routeID uuid.UUID, count int) error
	ReleaseSeats(ctx context.Context, routeID uuid.UUID, count int) error
	RecordSale(ctx context.Context, routeID uuid.UUID, amount decimal.Decimal) error
}

type service struct {
	repo   Repository
	seats  SeatService
	events EventLookup
	routes RouteService
	log    *logger.Logger
}

func NewService(repo Repository, seatService SeatService, eventLookup EventLookup, routeService RouteService) Service {
	return &service{
		repo:   repo,
		seats:  seatService,
		events: eventLookup,
		routes: routeService,
		log:    logger.GetDefault().WithComponent("bookings"),
	}
}

// generateBookingCode returns a short human-friendly code, e.g. TK-7DbXnG2kQa
func generateBookingCode() string {
	return "TK-" + shortuuid.New()[:10]
}

func qrPayload(code string) string {
	return "ticketera:booking:" + code
}

// CreateEventBooking turns the user's current seat selection into a booking.
// The total is the sum of the selected seat prices at this moment.
func (s *service) CreateEventBooking(ctx context.Context, userID uuid.UUID, req CreateEventBookingRequest) (*BookingResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event id: %w", err)
	}
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != events.StatusActive {
		return nil, ErrEventNotBookable
	}

	selection, err := s.seats.GetSelection(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if selection.Count == 0 {
		return nil, ErrEmptySelection
	}

	seatIDs := make([]uuid.UUID, 0, len(selection.Seats))
	for _, v := range selection.Seats {
		id, err := uuid.Parse(v.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid seat id in selection: %w", err)
		}
		seatIDs = append(seatIDs, id)
	}

	code := generateBookingCode()
	booking := &Booking{
		UserID:        userID,
		BookingType:   TypeEvent,
		EventID:       &eventID,
		Seats:         selection.Labels,
		SeatIDs:       seatIDs,
		TotalAmount:   selection.Total,
		PaymentStatus: PaymentPending,
		BookingStatus: StatusConfirmed,
		BookingCode:   code,
		QRCode:        qrPayload(code),
		PaymentMethod: req.PaymentMethod,
		TravelDate:    event.StartDate,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), code, userID.String())
	metrics.BookingCreated(string(TypeEvent))
	return s.reload(ctx, booking.ID)
}

func (s *service) CreateTransportBooking(ctx context.Context, userID uuid.UUID, req CreateTransportBookingRequest) (*BookingResponse, error) {
	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("invalid route id: %w", err)
	}
	route, err := s.routes.GetRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route.Status != transport.RouteActive {
		return nil, ErrRouteNotBookable
	}

	count := len(req.Seats)
	if err := s.routes.ReserveSeats(ctx, routeID, count); err != nil {
		return nil, err
	}

	travelDate := req.TravelDate
	if travelDate.IsZero() {
		travelDate = route.DepartureTime
	}

	code := generateBookingCode()
	booking := &Booking{
		UserID:        userID,
		BookingType:   TypeTransport,
		RouteID:       &routeID,
		Seats:         req.Seats,
		TotalAmount:   route.MinPrice.Mul(decimal.NewFromInt(int64(count))),
		PaymentStatus: PaymentPending,
		BookingStatus: StatusConfirmed,
		BookingCode:   code,
		QRCode:        qrPayload(code),
		PaymentMethod: req.PaymentMethod,
		TravelDate:    travelDate,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		if relErr := s.routes.ReleaseSeats(ctx, routeID, count); relErr != nil {
			s.log.Warn("failed to release route seats after booking error", slog.String("route_id", routeID.String()), slog.Any("error", relErr))
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), code, userID.String())
	metrics.BookingCreated(string(TypeTransport))
	return s.reload(ctx, booking.ID)
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetBooking(ctx context.Context, session middleware.Session, id uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !middleware.CanAccessBooking(session, booking.UserID) {
		return nil, ErrAccessDenied
	}
	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetBookingByCode(ctx context.Context, code string) (*BookingResponse, error) {
	booking, err := s.repo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) FindBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListBookings(ctx context.Context, q BookingListQuery) (listing.Page[BookingResponse], error) {
	q.Normalize()
	bookings, total, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[BookingResponse]{}, fmt.Errorf("failed to list bookings: %w", err)
	}
	return listing.Map(listing.NewPage(bookings, total, q.Query), Booking.ToResponse), nil
}

func (s *service) ListUserBookings(ctx context.Context, userID uuid.UUID, q BookingListQuery) (listing.Page[BookingResponse], error) {
	q.UserID = userID.String()
	return s.ListBookings(ctx, q)
}

func (s *service) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetPaymentStatus(ctx, id, status, ""); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	s.log.LogBookingStatusChanged(ctx, id.String(), "payment_status", string(booking.PaymentStatus), string(status))
	return s.reload(ctx, id)
}

func (s *service) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status Status) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetBookingStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	s.log.LogBookingStatusChanged(ctx, id.String(), "booking_status", string(booking.BookingStatus), string(status))
	return s.reload(ctx, id)
}

// CancelBooking cancels the booking and returns its seats to inventory.
// The payment axis is left alone; refunds are a separate admin action.
func (s *service) CancelBooking(ctx context.Context, session middleware.Session, id uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !middleware.CanAccessBooking(session, booking.UserID) {
		return nil, ErrAccessDenied
	}
	if !booking.BookingStatus.CanBeCancelled() {
		return nil, ErrCannotCancel
	}

	if err := s.repo.SetBookingStatus(ctx, id, StatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	s.log.LogBookingStatusChanged(ctx, id.String(), "booking_status", string(booking.BookingStatus), string(StatusCancelled))
	s.releaseInventory(ctx, booking)

	return s.reload(ctx, id)
}

func (s *service) releaseInventory(ctx context.Context, booking *Booking) {
	var err error
	switch {
	case booking.EventID != nil && booking.PaymentStatus == PaymentCompleted:
		err = s.seats.SetSeatStatus(ctx, *booking.EventID, booking.SeatIDs, seats.StatusAvailable)
	case booking.EventID != nil:
		err = s.seats.ClearSelection(ctx, *booking.EventID, booking.UserID)
	case booking.RouteID != nil:
		err = s.routes.ReleaseSeats(ctx, *booking.RouteID, len(booking.Seats))
	}
	if err != nil {
		s.log.Warn("failed to release booking inventory", slog.String("booking_id", booking.ID.String()), slog.Any("error", err))
	}
}

func (s *service) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ConfirmPayment finalizes inventory then flips payment_status to completed.
// booking_status is not touched. A booking that is no longer confirmed only
// records the payment; its inventory was already released.
func (s *service) ConfirmPayment(ctx context.Context, id uuid.UUID, method string) error {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.PaymentStatus == PaymentCompleted {
		return ErrAlreadyPaid
	}

	switch {
	case booking.BookingStatus != StatusConfirmed:
		s.log.Warn("payment received for inactive booking",
			slog.String("booking_id", id.String()),
			slog.String("booking_status", string(booking.BookingStatus)),
		)
	case booking.EventID != nil:
		// seats this booking already occupies pass, so a retry after a failed status write succeeds
		if err := s.seats.OccupySeats(ctx, *booking.EventID, booking.UserID, booking.ID, booking.SeatIDs); err != nil {
			return fmt.Errorf("failed to occupy seats: %w", err)
		}
	case booking.RouteID != nil:
		if err := s.routes.RecordSale(ctx, *booking.RouteID, booking.TotalAmount); err != nil {
			s.log.Warn("failed to record route sale", slog.String("route_id", booking.RouteID.String()), slog.Any("error", err))
		}
	}

	if err := s.repo.SetPaymentStatus(ctx, id, PaymentCompleted, method); err != nil {
		return fmt.Errorf("failed to mark booking paid: %w", err)
	}
	s.log.LogBookingStatusChanged(ctx, id.String(), "payment_status", string(booking.PaymentStatus), string(PaymentCompleted))
	return nil
}

func (s *service) FailPayment(ctx context.Context, id uuid.UUID, method string) error {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.PaymentStatus == PaymentCompleted {
		return ErrAlreadyPaid
	}
	if err := s.repo.SetPaymentStatus(ctx, id, PaymentFailed, method); err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	s.log.LogBookingStatusChanged(ctx, id.String(), "payment_status", string(booking.PaymentStatus), string(PaymentFailed))
	return nil
}
