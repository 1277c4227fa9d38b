package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	Repository
	items map[uuid.UUID]*Notification
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{items: map[uuid.UUID]*Notification{}}
}

func (m *memoryRepository) Create(_ context.Context, n *Notification) error {
	n.ID = uuid.New()
	cp := *n
	m.items[n.ID] = &cp
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Notification, error) {
	n, ok := m.items[id]
	if !ok {
		return nil, ErrNotificationNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memoryRepository) Save(_ context.Context, n *Notification) error {
	cp := *n
	m.items[n.ID] = &cp
	return nil
}

func (m *memoryRepository) DueScheduled(_ context.Context, now time.Time, limit int) ([]Notification, error) {
	var out []Notification
	for _, n := range m.items {
		if n.Status == StatusScheduled && n.SentAt == nil && !n.ScheduledAt.After(now) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *memoryRepository) Claim(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	n := m.items[id]
	if n.SentAt != nil {
		return false, nil
	}
	n.SentAt = &now
	return true, nil
}

func (m *memoryRepository) Release(_ context.Context, id uuid.UUID) error {
	if n := m.items[id]; n.Status == StatusScheduled {
		n.SentAt = nil
	}
	return nil
}

func (m *memoryRepository) MarkSent(_ context.Context, id uuid.UUID, at time.Time, recipients int) error {
	n := m.items[id]
	n.Status = StatusSent
	n.SentAt = &at
	n.TotalRecipients = recipients
	return nil
}

func (m *memoryRepository) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	n := m.items[id]
	n.Status = StatusFailed
	n.LastError = reason
	return nil
}

type staticRecipients []Recipient

func (s staticRecipients) Recipients(context.Context, Audience) ([]Recipient, error) {
	return s, nil
}

type recordingEmail struct {
	sent    []string
	failFor string
}

func (r *recordingEmail) SendHTML(_ context.Context, to, subject, html, text string) error {
	if to == r.failFor {
		return errors.New("mailbox unavailable")
	}
	r.sent = append(r.sent, to)
	return nil
}

var now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func newTestService(repo Repository, recipients RecipientSource, email EmailService) *service {
	svc := NewService(repo, recipients, email, nil, "Ticketera").(*service)
	svc.now = func() time.Time { return now }
	return svc
}

var threeUsers = staticRecipients{
	{ID: uuid.New(), Name: "Ana", Email: "ana@example.pe"},
	{ID: uuid.New(), Name: "Luis", Email: "luis@example.pe"},
	{ID: uuid.New(), Name: "Rosa", Email: "rosa@example.pe"},
}

func TestCreateNotification_Defaults(t *testing.T) {
	svc := newTestService(newMemoryRepository(), threeUsers, &recordingEmail{})

	n, err := svc.CreateNotification(context.Background(), CreateNotificationRequest{Title: "Nueva fecha", Message: "Se agregó una función"})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, n.Status)
	assert.Equal(t, TypeInfo, n.Type)
	assert.Equal(t, ChannelEmail, n.Channel)
	assert.Equal(t, AudienceAll, n.TargetAudience)
}

func TestCreateNotification_ScheduleMustBeFuture(t *testing.T) {
	svc := newTestService(newMemoryRepository(), threeUsers, &recordingEmail{})
	past := now.Add(-time.Minute)

	_, err := svc.CreateNotification(context.Background(), CreateNotificationRequest{Title: "x", Message: "y", ScheduledAt: &past})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestSendNotification_DeliversToAudience(t *testing.T) {
	ctx := context.Background()
	email := &recordingEmail{}
	svc := newTestService(newMemoryRepository(), threeUsers, email)
	created, err := svc.CreateNotification(ctx, CreateNotificationRequest{Title: "Promo", Message: "20% off", Type: "promotion"})
	require.NoError(t, err)

	sent, err := svc.SendNotification(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, sent.Status)
	assert.Equal(t, 3, sent.TotalRecipients)
	assert.Len(t, email.sent, 3)

	_, err = svc.SendNotification(ctx, created.ID)
	assert.ErrorIs(t, err, ErrAlreadySent)

	_, err = svc.UpdateNotification(ctx, created.ID, UpdateNotificationRequest{})
	assert.ErrorIs(t, err, ErrAlreadySent)
}

func TestDeliver_PartialFailureStillSent(t *testing.T) {
	ctx := context.Background()
	email := &recordingEmail{failFor: "luis@example.pe"}
	repo := newMemoryRepository()
	svc := newTestService(repo, threeUsers, email)
	created, err := svc.CreateNotification(ctx, CreateNotificationRequest{Title: "Aviso", Message: "Hola"})
	require.NoError(t, err)

	require.NoError(t, svc.Deliver(ctx, created.ID))
	assert.Equal(t, StatusSent, repo.items[created.ID].Status)
	assert.Equal(t, 2, repo.items[created.ID].TotalRecipients)
}

func TestDeliver_NoRecipientsMarksFailed(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	svc := newTestService(repo, staticRecipients{}, &recordingEmail{})
	created, err := svc.CreateNotification(ctx, CreateNotificationRequest{Title: "Aviso", Message: "Hola", TargetAudience: "admins"})
	require.NoError(t, err)

	require.NoError(t, svc.Deliver(ctx, created.ID))
	assert.Equal(t, StatusFailed, repo.items[created.ID].Status)
	assert.Equal(t, ErrNoRecipients.Error(), repo.items[created.ID].LastError)
}

func TestDeliver_NonEmailChannelSkipsSMTP(t *testing.T) {
	ctx := context.Background()
	email := &recordingEmail{}
	repo := newMemoryRepository()
	svc := newTestService(repo, threeUsers, email)
	created, err := svc.CreateNotification(ctx, CreateNotificationRequest{Title: "Push", Message: "Hola", Channel: "push"})
	require.NoError(t, err)

	require.NoError(t, svc.Deliver(ctx, created.ID))
	assert.Empty(t, email.sent)
	assert.Equal(t, 3, repo.items[created.ID].TotalRecipients)
}

func TestDispatchDue_OnlyDueOnce(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	email := &recordingEmail{}
	svc := newTestService(repo, threeUsers, email)

	soon := now.Add(time.Minute)
	later := now.Add(time.Hour)
	due, err := svc.CreateNotification(ctx, CreateNotificationRequest{Title: "A", Message: "a", ScheduledAt: &soon})
	require.NoError(t, err)
	_, err = svc.CreateNotification(ctx, CreateNotificationRequest{Title: "B", Message: "b", ScheduledAt: &later})
	require.NoError(t, err)

	now2 := now.Add(2 * time.Minute)
	svc.now = func() time.Time { return now2 }

	n, err := svc.DispatchDue(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, StatusSent, repo.items[due.ID].Status)

	n, err = svc.DispatchDue(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, email.sent, 3)
}

type brokerDown struct{}

func (brokerDown) Dispatch(context.Context, uuid.UUID) error {
	return errors.New("kafka: client has run out of available brokers")
}

func TestDispatchDue_FailedDispatchIsRetried(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	email := &recordingEmail{}
	svc := newTestService(repo, threeUsers, email)

	soon := now.Add(time.Minute)
	due, err := svc.CreateNotification(ctx, CreateNotificationRequest{Title: "A", Message: "a", ScheduledAt: &soon})
	require.NoError(t, err)
	later := now.Add(2 * time.Minute)
	svc.now = func() time.Time { return later }

	svc.dispatcher = brokerDown{}
	n, err := svc.DispatchDue(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, StatusScheduled, repo.items[due.ID].Status)
	assert.Nil(t, repo.items[due.ID].SentAt)

	svc.dispatcher = &DirectDispatcher{Deliverer: svc}
	n, err = svc.DispatchDue(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, StatusSent, repo.items[due.ID].Status)
	assert.Len(t, email.sent, 3)
}

func TestRender_EscapesHTML(t *testing.T) {
	n := &Notification{Title: "Oferta", Message: "<script>alert(1)</script>"}
	html, text, err := render(n, Recipient{Name: "Ana"}, "Ticketera")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.True(t, strings.HasPrefix(text, "Hola Ana"))
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("Ticketera", "noreply@ticketera.pe", "ana@example.pe", "Hola", "<p>hi</p>", "hi", now))
	assert.Contains(t, msg, "From: Ticketera <noreply@ticketera.pe>\r\n")
	assert.Contains(t, msg, "To: ana@example.pe\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8")
	assert.True(t, strings.HasSuffix(msg, "--\r\n"))
}
