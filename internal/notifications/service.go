package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ticketera/internal/shared/listing"
	"ticketera/pkg/logger"
	"ticketera/pkg/metrics"

	"github.com/google/uuid"
)

type Service interface {
	CreateNotification(ctx context.Context, req CreateNotificationRequest) (*Notification, error)
	GetNotification(ctx context.Context, id uuid.UUID) (*Notification, error)
	UpdateNotification(ctx context.Context, id uuid.UUID, req UpdateNotificationRequest) (*Notification, error)
	DeleteNotification(ctx context.Context, id uuid.UUID) error
	ListNotifications(ctx context.Context, q NotificationListQuery) (listing.Page[Notification], error)
	SendNotification(ctx context.Context, id uuid.UUID) (*Notification, error)
	ScheduleNotification(ctx context.Context, id uuid.UUID, req ScheduleRequest) (*Notification, error)
	TrackRead(ctx context.Context, id uuid.UUID) error
	TrackClick(ctx context.Context, id uuid.UUID) error

	// Deliver sends to every recipient; called by the dispatch consumer
	Deliver(ctx context.Context, id uuid.UUID) error
	// DispatchDue queues scheduled notifications whose time has come
	DispatchDue(ctx context.Context, limit int) (int, error)
}

type service struct {
	repo       Repository
	recipients RecipientSource
	email      EmailService
	dispatcher Dispatcher
	brand      string
	now        func() time.Time
	log        *logger.Logger
}

// NewService builds the notification service. A nil dispatcher delivers in-process.
func NewService(repo Repository, recipients RecipientSource, email EmailService, dispatcher Dispatcher, brand string) Service {
	s := &service{
		repo:       repo,
		recipients: recipients,
		email:      email,
		dispatcher: dispatcher,
		brand:      brand,
		now:        time.Now,
		log:        logger.GetDefault().WithComponent("notifications"),
	}
	if s.dispatcher == nil {
		s.dispatcher = &DirectDispatcher{Deliverer: s}
	}
	return s
}

func (s *service) CreateNotification(ctx context.Context, req CreateNotificationRequest) (*Notification, error) {
	n := &Notification{
		Title:          req.Title,
		Message:        req.Message,
		Type:           Type(orDefault(req.Type, string(TypeInfo))),
		Channel:        Channel(orDefault(req.Channel, string(ChannelEmail))),
		TargetAudience: Audience(orDefault(req.TargetAudience, string(AudienceAll))),
		Status:         StatusDraft,
	}
	if req.ScheduledAt != nil {
		if !req.ScheduledAt.After(s.now()) {
			return nil, ErrInvalidSchedule
		}
		n.ScheduledAt = req.ScheduledAt
		n.Status = StatusScheduled
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func (s *service) GetNotification(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateNotification(ctx context.Context, id uuid.UUID, req UpdateNotificationRequest) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.Editable() {
		return nil, ErrAlreadySent
	}

	if req.Title != nil {
		n.Title = *req.Title
	}
	if req.Message != nil {
		n.Message = *req.Message
	}
	if req.Type != nil {
		n.Type = Type(*req.Type)
	}
	if req.Channel != nil {
		n.Channel = Channel(*req.Channel)
	}
	if req.TargetAudience != nil {
		n.TargetAudience = Audience(*req.TargetAudience)
	}

	if err := s.repo.Save(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListNotifications(ctx context.Context, q NotificationListQuery) (listing.Page[Notification], error) {
	q.Normalize()
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[Notification]{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	return listing.NewPage(items, total, q.Query), nil
}

func (s *service) SendNotification(ctx context.Context, id uuid.UUID) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.Editable() {
		return nil, ErrAlreadySent
	}
	if err := s.dispatcher.Dispatch(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to dispatch notification: %w", err)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) ScheduleNotification(ctx context.Context, id uuid.UUID, req ScheduleRequest) (*Notification, error) {
	if !req.ScheduledAt.After(s.now()) {
		return nil, ErrInvalidSchedule
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.Editable() {
		return nil, ErrAlreadySent
	}

	at := req.ScheduledAt
	n.ScheduledAt = &at
	n.SentAt = nil
	n.Status = StatusScheduled
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to schedule notification: %w", err)
	}
	return n, nil
}

func (s *service) TrackRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.IncrementCounter(ctx, id, "read_count")
}

func (s *service) TrackClick(ctx context.Context, id uuid.UUID) error {
	return s.repo.IncrementCounter(ctx, id, "click_count")
}

func (s *service) Deliver(ctx context.Context, id uuid.UUID) (err error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.Status == StatusSent {
		return nil
	}
	defer func() { metrics.NotificationDispatched(string(n.Channel), err) }()

	recipients, err := s.recipients.Recipients(ctx, n.TargetAudience)
	if err != nil {
		return fmt.Errorf("failed to resolve recipients: %w", err)
	}
	if len(recipients) == 0 {
		return s.repo.MarkFailed(ctx, id, ErrNoRecipients.Error())
	}

	delivered := 0
	var errs []error
	for _, r := range recipients {
		if err := s.deliverOne(ctx, n, r); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Email, err))
			continue
		}
		delivered++
	}

	if delivered == 0 {
		sendErr := errors.Join(errs...)
		if markErr := s.repo.MarkFailed(ctx, id, sendErr.Error()); markErr != nil {
			s.log.Warn("failed to mark notification failed", slog.String("id", id.String()), slog.Any("error", markErr))
		}
		return sendErr
	}
	if len(errs) > 0 {
		s.log.Warn("some recipients were not reached",
			slog.String("id", id.String()),
			slog.Int("failed", len(errs)),
			slog.Any("error", errors.Join(errs...)),
		)
	}

	s.log.Info("notification delivered",
		slog.String("id", id.String()),
		slog.String("channel", string(n.Channel)),
		slog.Int("recipients", delivered),
	)
	return s.repo.MarkSent(ctx, id, s.now(), delivered)
}

// deliverOne sends email; sms, push and in-app are recorded as delivered
func (s *service) deliverOne(ctx context.Context, n *Notification, r Recipient) error {
	if n.Channel != ChannelEmail {
		return nil
	}
	if r.Email == "" {
		return errors.New("recipient has no email")
	}
	html, text, err := render(n, r, s.brand)
	if err != nil {
		return err
	}
	return s.email.SendHTML(ctx, r.Email, n.Title, html, text)
}

func (s *service) DispatchDue(ctx context.Context, limit int) (int, error) {
	due, err := s.repo.DueScheduled(ctx, s.now(), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to load scheduled notifications: %w", err)
	}

	dispatched := 0
	for _, n := range due {
		claimed, err := s.repo.Claim(ctx, n.ID, s.now())
		if err != nil {
			return dispatched, err
		}
		if !claimed {
			continue
		}
		if err := s.dispatcher.Dispatch(ctx, n.ID); err != nil {
			s.log.Error("failed to dispatch scheduled notification", slog.String("id", n.ID.String()), slog.Any("error", err))
			if relErr := s.repo.Release(ctx, n.ID); relErr != nil {
				s.log.Warn("failed to release notification claim", slog.String("id", n.ID.String()), slog.Any("error", relErr))
			}
			continue
		}
		dispatched++
	}
	return dispatched, nil
}
