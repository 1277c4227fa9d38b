package payments

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ticketera/internal/bookings"
	"ticketera/internal/seats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

type memoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]Session
	refs     map[string]uuid.UUID
	hooks    map[string]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: map[uuid.UUID]Session{},
		refs:     map[string]uuid.UUID{},
		hooks:    map[string]bool{},
	}
}

func (m *memoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *memoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *memoryStore) BindReference(_ context.Context, ref string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs[ref] = id
	return nil
}

func (m *memoryStore) ResolveReference(_ context.Context, ref string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.refs[ref]
	if !ok {
		return uuid.Nil, ErrUnknownReference
	}
	return id, nil
}

func (m *memoryStore) UnbindReference(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.refs, ref)
	return nil
}

func (m *memoryStore) MarkWebhook(_ context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hooks[eventID] {
		return false, nil
	}
	m.hooks[eventID] = true
	return true, nil
}

func (m *memoryStore) ForgetWebhook(_ context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hooks, eventID)
	return nil
}

type fakeBookings struct {
	mu         sync.Mutex
	booking    bookings.Booking
	confirmErr error
	confirmed  int
	failed     int
}

func (f *fakeBookings) FindBooking(context.Context, uuid.UUID) (*bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.booking
	return &b, nil
}

func (f *fakeBookings) ConfirmPayment(context.Context, uuid.UUID, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed++
	f.booking.PaymentStatus = bookings.PaymentCompleted
	return nil
}

func (f *fakeBookings) FailPayment(context.Context, uuid.UUID, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed++
	f.booking.PaymentStatus = bookings.PaymentFailed
	return nil
}

func (f *fakeBookings) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirmed, f.failed
}

type harness struct {
	svc      *service
	store    *memoryStore
	bookings *fakeBookings
	userID   uuid.UUID
	clock    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	userID := uuid.New()
	eventID := uuid.New()
	h := &harness{
		store:  newMemoryStore(),
		userID: userID,
		clock:  start,
		bookings: &fakeBookings{booking: bookings.Booking{
			ID:            uuid.New(),
			UserID:        userID,
			BookingType:   bookings.TypeEvent,
			EventID:       &eventID,
			Seats:         []string{"A1", "A2"},
			TotalAmount:   decimal.NewFromInt(250),
			PaymentStatus: bookings.PaymentPending,
			BookingStatus: bookings.StatusConfirmed,
		}},
	}
	broadcaster := NewBroadcaster(watermill.NopLogger{})
	t.Cleanup(func() { _ = broadcaster.Close() })

	h.svc = NewService(h.store, h.bookings, broadcaster, nil, Options{
		QRExpiry:        15 * time.Minute,
		ProcessingDelay: 10 * time.Millisecond,
		WebhookSecret:   testSecret,
		PayeeNumber:     "987654321",
		Currency:        "PEN",
	}).(*service)
	h.svc.now = func() time.Time { return h.clock }
	return h
}

func (h *harness) startYape(t *testing.T) *SessionResponse {
	t.Helper()
	ctx := context.Background()
	started, err := h.svc.StartSession(ctx, h.userID, StartSessionRequest{BookingID: h.bookings.booking.ID.String()})
	require.NoError(t, err)
	resp, err := h.svc.SelectMethod(ctx, h.userID, uuid.MustParse(started.ID), SelectMethodRequest{Method: "yape"})
	require.NoError(t, err)
	return resp
}

func webhookBody(t *testing.T, eventID, reference, status string) []byte {
	t.Helper()
	body, err := json.Marshal(WebhookRequest{EventID: eventID, Reference: reference, Status: status})
	require.NoError(t, err)
	return body
}

func TestStartSession_BuildsCheckout(t *testing.T) {
	h := newHarness(t)
	resp, err := h.svc.StartSession(context.Background(), h.userID, StartSessionRequest{BookingID: h.bookings.booking.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, StepMethodSelection, resp.Step)
	assert.True(t, decimal.NewFromInt(250).Equal(resp.Checkout.Amount))
	assert.Equal(t, []string{"A1", "A2"}, resp.Checkout.Seats)
	assert.Contains(t, resp.CheckoutQuery, "amount=250.00")
}

func TestStartSession_OtherUsersBooking(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.StartSession(context.Background(), uuid.New(), StartSessionRequest{BookingID: h.bookings.booking.ID.String()})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSelectMethod_Unknown(t *testing.T) {
	h := newHarness(t)
	started, err := h.svc.StartSession(context.Background(), h.userID, StartSessionRequest{BookingID: h.bookings.booking.ID.String()})
	require.NoError(t, err)

	_, err = h.svc.SelectMethod(context.Background(), h.userID, uuid.MustParse(started.ID), SelectMethodRequest{Method: "crypto"})
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestWebhook_ConfirmsBookingAndNotifiesSubscribers(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := h.startYape(t)
	assert.Contains(t, session.QRPayload, "phone=987654321")
	assert.Contains(t, session.QRPayload, session.Reference)

	updates, err := h.svc.Subscribe(ctx, h.userID, uuid.MustParse(session.ID))
	require.NoError(t, err)

	body := webhookBody(t, "evt_1", session.Reference, "paid")
	require.NoError(t, h.svc.HandleWebhook(ctx, body, Sign(testSecret, body)))

	got, err := h.svc.GetSession(ctx, h.userID, uuid.MustParse(session.ID))
	require.NoError(t, err)
	assert.Equal(t, StepSuccess, got.Step)
	assert.Equal(t, StatusSuccess, got.Status)

	confirmed, failed := h.bookings.counts()
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 0, failed)

	select {
	case u := <-updates:
		assert.Equal(t, StatusSuccess, u.Session.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber received no update")
	}

	// provider retries the same event
	assert.ErrorIs(t, h.svc.HandleWebhook(ctx, body, Sign(testSecret, body)), ErrSessionClosed)
}

func TestWebhook_Duplicate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.startYape(t)
	h.store.hooks["evt_dup"] = true

	body := webhookBody(t, "evt_dup", session.Reference, "paid")
	assert.ErrorIs(t, h.svc.HandleWebhook(ctx, body, Sign(testSecret, body)), ErrDuplicateWebhook)
	confirmed, _ := h.bookings.counts()
	assert.Equal(t, 0, confirmed)
}

func TestWebhook_BadSignature(t *testing.T) {
	h := newHarness(t)
	session := h.startYape(t)
	body := webhookBody(t, "evt_1", session.Reference, "paid")

	err := h.svc.HandleWebhook(context.Background(), body, Sign("wrong", body))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestWebhook_ExpiredSessionRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.startYape(t)

	h.clock = start.Add(16 * time.Minute)
	body := webhookBody(t, "evt_late", session.Reference, "paid")
	assert.ErrorIs(t, h.svc.HandleWebhook(ctx, body, Sign(testSecret, body)), ErrSessionExpired)

	got, err := h.svc.GetSession(ctx, h.userID, uuid.MustParse(session.ID))
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, got.Status)
	assert.Equal(t, 0, got.Remaining)

	regenerated, err := h.svc.Regenerate(ctx, h.userID, uuid.MustParse(session.ID))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, regenerated.Status)
	assert.Equal(t, 900, regenerated.Remaining)
	assert.NotEqual(t, session.Reference, regenerated.Reference)
}

func TestWebhook_FailureLeavesBookingStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.startYape(t)

	body := webhookBody(t, "evt_fail", session.Reference, "failed")
	require.NoError(t, h.svc.HandleWebhook(ctx, body, Sign(testSecret, body)))

	got, err := h.svc.GetSession(ctx, h.userID, uuid.MustParse(session.ID))
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, bookings.PaymentFailed, h.bookings.booking.PaymentStatus)
	assert.Equal(t, bookings.StatusConfirmed, h.bookings.booking.BookingStatus)
}

func TestProcessConfirmation_SeatConflictFailsSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.startYape(t)
	h.bookings.confirmErr = seats.ErrSeatNotAvailable

	err := h.svc.ProcessConfirmation(ctx, Confirmation{PaymentID: uuid.MustParse(session.ID), Outcome: OutcomePaid})
	require.NoError(t, err)

	got, err := h.svc.GetSession(ctx, h.userID, uuid.MustParse(session.ID))
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	_, failed := h.bookings.counts()
	assert.Equal(t, 1, failed)
}

func TestSubmitDetails_CompletesAfterDelay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	started, err := h.svc.StartSession(ctx, h.userID, StartSessionRequest{BookingID: h.bookings.booking.ID.String()})
	require.NoError(t, err)
	id := uuid.MustParse(started.ID)

	_, err = h.svc.SelectMethod(ctx, h.userID, id, SelectMethodRequest{Method: "card"})
	require.NoError(t, err)
	resp, err := h.svc.SubmitDetails(ctx, h.userID, id, SubmitDetailsRequest{HolderName: "Ana Quispe", CardLast4: "4242"})
	require.NoError(t, err)
	assert.Equal(t, StepProcessing, resp.Step)

	assert.Eventually(t, func() bool {
		confirmed, _ := h.bookings.counts()
		return confirmed == 1
	}, 2*time.Second, 5*time.Millisecond)

	got, err := h.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StepSuccess, got.Step)
}

func TestBack_FromDetails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.startYape(t)

	resp, err := h.svc.Back(ctx, h.userID, uuid.MustParse(session.ID))
	require.NoError(t, err)
	assert.Equal(t, StepMethodSelection, resp.Step)
	assert.Empty(t, resp.Reference)
	assert.Equal(t, 0, resp.Remaining)
}

func TestWebhook_RegeneratedCodeRetiresOldReference(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.startYape(t)
	id := uuid.MustParse(session.ID)

	h.clock = start.Add(16 * time.Minute)
	regenerated, err := h.svc.Regenerate(ctx, h.userID, id)
	require.NoError(t, err)

	old := webhookBody(t, "evt_old", session.Reference, "paid")
	assert.ErrorIs(t, h.svc.HandleWebhook(ctx, old, Sign(testSecret, old)), ErrUnknownReference)

	// bound before the regenerate landed
	h.store.refs[session.Reference] = id
	assert.ErrorIs(t, h.svc.HandleWebhook(ctx, old, Sign(testSecret, old)), ErrStaleReference)
	confirmed, _ := h.bookings.counts()
	assert.Equal(t, 0, confirmed)

	current := webhookBody(t, "evt_new", regenerated.Reference, "paid")
	require.NoError(t, h.svc.HandleWebhook(ctx, current, Sign(testSecret, current)))
	confirmed, _ = h.bookings.counts()
	assert.Equal(t, 1, confirmed)
}

func TestWebhook_SwitchingAwayFromQRRetiresReference(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.startYape(t)
	id := uuid.MustParse(session.ID)

	_, err := h.svc.Back(ctx, h.userID, id)
	require.NoError(t, err)
	_, err = h.svc.SelectMethod(ctx, h.userID, id, SelectMethodRequest{Method: "card"})
	require.NoError(t, err)
	h.svc.opts.ProcessingDelay = time.Hour
	_, err = h.svc.SubmitDetails(ctx, h.userID, id, SubmitDetailsRequest{HolderName: "Ana Quispe", CardLast4: "4242"})
	require.NoError(t, err)

	body := webhookBody(t, "evt_yape", session.Reference, "paid")
	assert.ErrorIs(t, h.svc.HandleWebhook(ctx, body, Sign(testSecret, body)), ErrUnknownReference)

	h.store.refs[session.Reference] = id
	assert.ErrorIs(t, h.svc.HandleWebhook(ctx, body, Sign(testSecret, body)), ErrStaleReference)

	got, err := h.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StepProcessing, got.Step)
	assert.Equal(t, MethodCard, got.Method)
	confirmed, _ := h.bookings.counts()
	assert.Equal(t, 0, confirmed)
}

func TestProcessConfirmation_QueuedForReplacedReference(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.startYape(t)
	id := uuid.MustParse(session.ID)

	_, err := h.svc.Regenerate(ctx, h.userID, id)
	require.NoError(t, err)

	err = h.svc.ProcessConfirmation(ctx, Confirmation{PaymentID: id, Reference: session.Reference, Outcome: OutcomePaid, Method: MethodYape})
	assert.ErrorIs(t, err, ErrStaleReference)
	confirmed, _ := h.bookings.counts()
	assert.Equal(t, 0, confirmed)
}

type unsavableStore struct {
	*memoryStore
}

func (unsavableStore) Save(context.Context, *Session) error {
	return errors.New("redis: connection pool timeout")
}

func TestProcessConfirmation_ExpiredReportedWhenSaveFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.startYape(t)
	id := uuid.MustParse(session.ID)

	h.svc.store = unsavableStore{h.store}
	h.clock = start.Add(16 * time.Minute)

	err := h.svc.ProcessConfirmation(ctx, Confirmation{PaymentID: id, Reference: session.Reference, Outcome: OutcomePaid})
	assert.ErrorIs(t, err, ErrSessionExpired)
	confirmed, _ := h.bookings.counts()
	assert.Equal(t, 0, confirmed)
}
