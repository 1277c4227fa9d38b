package bookings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ticketera/internal/events"
	"ticketera/internal/seats"
	"ticketera/internal/shared/listing"
	"ticketera/internal/shared/middleware"
	"ticketera/internal/transport"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	Repository
	items      map[uuid.UUID]*Booking
	paymentErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{items: map[uuid.UUID]*Booking{}}
}

func (m *memoryRepository) Create(_ context.Context, b *Booking) error {
	b.ID = uuid.New()
	cp := *b
	m.items[b.ID] = &cp
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := m.items[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memoryRepository) List(_ context.Context, q BookingListQuery) ([]Booking, int64, error) {
	out := []Booking{}
	for _, b := range m.items {
		if q.UserID == "" || b.UserID.String() == q.UserID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryRepository) SetPaymentStatus(_ context.Context, id uuid.UUID, status PaymentStatus, method string) error {
	if m.paymentErr != nil {
		return m.paymentErr
	}
	b, ok := m.items[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.PaymentStatus = status
	if method != "" {
		b.PaymentMethod = method
	}
	return nil
}

func (m *memoryRepository) SetBookingStatus(_ context.Context, id uuid.UUID, status Status) error {
	b, ok := m.items[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.BookingStatus = status
	return nil
}

type fakeSeats struct {
	selection *seats.SelectionResponse
	occupied  []uuid.UUID
	owners    map[uuid.UUID]uuid.UUID
	released  []uuid.UUID
	cleared   bool
}

func (f *fakeSeats) GetSelection(context.Context, uuid.UUID, uuid.UUID) (*seats.SelectionResponse, error) {
	return f.selection, nil
}

func (f *fakeSeats) ClearSelection(context.Context, uuid.UUID, uuid.UUID) error {
	f.cleared = true
	return nil
}

func (f *fakeSeats) OccupySeats(_ context.Context, _, _, bookingID uuid.UUID, ids []uuid.UUID) error {
	if f.owners == nil {
		f.owners = map[uuid.UUID]uuid.UUID{}
	}
	for _, id := range ids {
		if owner, ok := f.owners[id]; ok && owner != bookingID {
			return seats.ErrSeatNotAvailable
		}
	}
	for _, id := range ids {
		if _, ok := f.owners[id]; !ok {
			f.occupied = append(f.occupied, id)
		}
		f.owners[id] = bookingID
	}
	return nil
}

func (f *fakeSeats) SetSeatStatus(_ context.Context, _ uuid.UUID, ids []uuid.UUID, _ seats.Status) error {
	f.released = append(f.released, ids...)
	return nil
}

type fakeEvents struct {
	status events.Status
}

func (f fakeEvents) GetEvent(_ context.Context, id uuid.UUID) (*events.EventResponse, error) {
	return &events.EventResponse{ID: id.String(), Title: "Concierto de Rock", Status: f.status}, nil
}

type fakeRoutes struct {
	route    *transport.Route
	reserved int
	sales    []decimal.Decimal
}

func (f *fakeRoutes) GetRoute(context.Context, uuid.UUID) (*transport.Route, error) {
	return f.route, nil
}

func (f *fakeRoutes) ReserveSeats(_ context.Context, _ uuid.UUID, n int) error {
	if f.route.AvailableSeats-f.reserved < n {
		return transport.ErrNotEnoughSeats
	}
	f.reserved += n
	return nil
}

func (f *fakeRoutes) ReleaseSeats(_ context.Context, _ uuid.UUID, n int) error {
	f.reserved -= n
	return nil
}

func (f *fakeRoutes) RecordSale(_ context.Context, _ uuid.UUID, amount decimal.Decimal) error {
	f.sales = append(f.sales, amount)
	return nil
}

func selectionOf(prices ...int64) *seats.SelectionResponse {
	resp := &seats.SelectionResponse{Total: decimal.Zero}
	for i, p := range prices {
		label := "A" + string(rune('1'+i))
		resp.Seats = append(resp.Seats, seats.SeatView{ID: uuid.NewString(), Label: label, Price: decimal.NewFromInt(p)})
		resp.Labels = append(resp.Labels, label)
		resp.Total = resp.Total.Add(decimal.NewFromInt(p))
	}
	resp.Count = len(prices)
	return resp
}

func newEventService(repo Repository, seatSvc *fakeSeats) Service {
	return NewService(repo, seatSvc, fakeEvents{status: events.StatusActive}, &fakeRoutes{})
}

func TestCreateEventBooking_TotalMatchesSelection(t *testing.T) {
	repo := newMemoryRepository()
	seatSvc := &fakeSeats{selection: selectionOf(100, 150)}

	booking, err := newEventService(repo, seatSvc).CreateEventBooking(context.Background(), uuid.New(), CreateEventBookingRequest{EventID: uuid.NewString()})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(250).Equal(booking.TotalAmount))
	assert.Equal(t, []string{"A1", "A2"}, booking.Seats)
	assert.Equal(t, PaymentPending, booking.PaymentStatus)
	assert.Equal(t, StatusConfirmed, booking.BookingStatus)
	assert.True(t, strings.HasPrefix(booking.BookingCode, "TK-"))
	assert.Contains(t, booking.QRCode, booking.BookingCode)
}

func TestCreateEventBooking_EmptySelection(t *testing.T) {
	seatSvc := &fakeSeats{selection: selectionOf()}
	_, err := newEventService(newMemoryRepository(), seatSvc).CreateEventBooking(context.Background(), uuid.New(), CreateEventBookingRequest{EventID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestCreateEventBooking_CancelledEvent(t *testing.T) {
	svc := NewService(newMemoryRepository(), &fakeSeats{selection: selectionOf(100)}, fakeEvents{status: events.StatusCancelled}, &fakeRoutes{})
	_, err := svc.CreateEventBooking(context.Background(), uuid.New(), CreateEventBookingRequest{EventID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrEventNotBookable)
}

func TestStatusAxesAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	svc := newEventService(repo, &fakeSeats{selection: selectionOf(100)})
	created, err := svc.CreateEventBooking(ctx, uuid.New(), CreateEventBookingRequest{EventID: uuid.NewString()})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	after, err := svc.UpdatePaymentStatus(ctx, id, PaymentRefunded)
	require.NoError(t, err)
	assert.Equal(t, PaymentRefunded, after.PaymentStatus)
	assert.Equal(t, StatusConfirmed, after.BookingStatus)

	after, err = svc.UpdateBookingStatus(ctx, id, StatusUsed)
	require.NoError(t, err)
	assert.Equal(t, StatusUsed, after.BookingStatus)
	assert.Equal(t, PaymentRefunded, after.PaymentStatus)
}

func TestConfirmPayment_OccupiesSeatsOnly(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	seatSvc := &fakeSeats{selection: selectionOf(100, 150)}
	svc := newEventService(repo, seatSvc)
	created, err := svc.CreateEventBooking(ctx, uuid.New(), CreateEventBookingRequest{EventID: uuid.NewString()})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	require.NoError(t, svc.ConfirmPayment(ctx, id, "yape"))

	b, _ := repo.GetByID(ctx, id)
	assert.Equal(t, PaymentCompleted, b.PaymentStatus)
	assert.Equal(t, StatusConfirmed, b.BookingStatus)
	assert.Equal(t, "yape", b.PaymentMethod)
	assert.Len(t, seatSvc.occupied, 2)

	assert.ErrorIs(t, svc.ConfirmPayment(ctx, id, "yape"), ErrAlreadyPaid)
}

func TestConfirmPayment_RetryAfterStatusWriteFails(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	seatSvc := &fakeSeats{selection: selectionOf(100, 150)}
	svc := newEventService(repo, seatSvc)
	created, err := svc.CreateEventBooking(ctx, uuid.New(), CreateEventBookingRequest{EventID: uuid.NewString()})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	repo.paymentErr = errors.New("connection reset")
	require.Error(t, svc.ConfirmPayment(ctx, id, "yape"))
	assert.Len(t, seatSvc.occupied, 2)

	repo.paymentErr = nil
	require.NoError(t, svc.ConfirmPayment(ctx, id, "yape"))

	b, _ := repo.GetByID(ctx, id)
	assert.Equal(t, PaymentCompleted, b.PaymentStatus)
	assert.Len(t, seatSvc.occupied, 2)
}

func TestConfirmPayment_SeatsTakenByAnotherBooking(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	seatSvc := &fakeSeats{selection: selectionOf(100)}
	svc := newEventService(repo, seatSvc)
	created, err := svc.CreateEventBooking(ctx, uuid.New(), CreateEventBookingRequest{EventID: uuid.NewString()})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	b, _ := repo.GetByID(ctx, id)
	seatSvc.owners = map[uuid.UUID]uuid.UUID{b.SeatIDs[0]: uuid.New()}

	assert.ErrorIs(t, svc.ConfirmPayment(ctx, id, "yape"), seats.ErrSeatNotAvailable)
	b, _ = repo.GetByID(ctx, id)
	assert.Equal(t, PaymentPending, b.PaymentStatus)
}

func TestConfirmPayment_CancelledBookingKeepsSeatsFree(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	repo := newMemoryRepository()
	seatSvc := &fakeSeats{selection: selectionOf(100, 150)}
	svc := newEventService(repo, seatSvc)
	created, err := svc.CreateEventBooking(ctx, owner, CreateEventBookingRequest{EventID: uuid.NewString()})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = svc.CancelBooking(ctx, middleware.Session{UserID: owner, Roles: []string{middleware.RoleUser}}, id)
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmPayment(ctx, id, "yape"))

	b, _ := repo.GetByID(ctx, id)
	assert.Equal(t, PaymentCompleted, b.PaymentStatus)
	assert.Equal(t, StatusCancelled, b.BookingStatus)
	assert.Empty(t, seatSvc.occupied)
}

func TestFailPayment_LeavesBookingStatus(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	svc := newEventService(repo, &fakeSeats{selection: selectionOf(100)})
	created, err := svc.CreateEventBooking(ctx, uuid.New(), CreateEventBookingRequest{EventID: uuid.NewString()})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	require.NoError(t, svc.FailPayment(ctx, id, "card"))

	b, _ := repo.GetByID(ctx, id)
	assert.Equal(t, PaymentFailed, b.PaymentStatus)
	assert.Equal(t, StatusConfirmed, b.BookingStatus)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	repo := newMemoryRepository()
	seatSvc := &fakeSeats{selection: selectionOf(100, 150)}
	svc := newEventService(repo, seatSvc)
	created, err := svc.CreateEventBooking(ctx, owner, CreateEventBookingRequest{EventID: uuid.NewString()})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)
	require.NoError(t, svc.ConfirmPayment(ctx, id, "card"))

	_, err = svc.CancelBooking(ctx, middleware.Session{UserID: uuid.New(), Roles: []string{middleware.RoleUser}}, id)
	assert.ErrorIs(t, err, ErrAccessDenied)

	cancelled, err := svc.CancelBooking(ctx, middleware.Session{UserID: owner, Roles: []string{middleware.RoleUser}}, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.BookingStatus)
	assert.Equal(t, PaymentCompleted, cancelled.PaymentStatus)
	assert.Len(t, seatSvc.released, 2)

	_, err = svc.CancelBooking(ctx, middleware.Session{UserID: owner}, id)
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCreateTransportBooking(t *testing.T) {
	ctx := context.Background()
	departure := time.Date(2026, 11, 5, 8, 0, 0, 0, time.UTC)
	routes := &fakeRoutes{route: &transport.Route{
		ID: uuid.New(), Origin: "Lima", Destination: "Cusco", Status: transport.RouteActive,
		MinPrice: decimal.NewFromInt(90), TotalSeats: 40, AvailableSeats: 2, DepartureTime: departure,
	}}
	svc := NewService(newMemoryRepository(), &fakeSeats{}, fakeEvents{}, routes)

	booking, err := svc.CreateTransportBooking(ctx, uuid.New(), CreateTransportBookingRequest{
		RouteID: routes.route.ID.String(),
		Seats:   []string{"12", "13"},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(180).Equal(booking.TotalAmount))
	assert.Equal(t, departure, booking.TravelDate)
	assert.Equal(t, 2, routes.reserved)

	_, err = svc.CreateTransportBooking(ctx, uuid.New(), CreateTransportBookingRequest{
		RouteID: routes.route.ID.String(),
		Seats:   []string{"14"},
	})
	assert.ErrorIs(t, err, transport.ErrNotEnoughSeats)
}

func TestListUserBookings_ScopesToUser(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	svc := newEventService(repo, &fakeSeats{selection: selectionOf(50)})
	me, other := uuid.New(), uuid.New()
	for _, u := range []uuid.UUID{me, me, other} {
		_, err := svc.CreateEventBooking(ctx, u, CreateEventBookingRequest{EventID: uuid.NewString()})
		require.NoError(t, err)
	}

	page, err := svc.ListUserBookings(ctx, me, BookingListQuery{Query: listing.Query{}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}
