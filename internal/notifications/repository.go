package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	Save(ctx context.Context, n *Notification) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q NotificationListQuery) ([]Notification, int64, error)
	DueScheduled(ctx context.Context, now time.Time, limit int) ([]Notification, error)
	Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	Release(ctx context.Context, id uuid.UUID) error
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time, recipients int) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	IncrementCounter(ctx context.Context, id uuid.UUID, column string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	var n Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *repository) Save(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Notification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, q NotificationListQuery) ([]Notification, int64, error) {
	var (
		items []Notification
		total int64
	)

	db := r.db.WithContext(ctx).Model(&Notification{})
	if q.Search != "" {
		pattern := q.SearchPattern()
		db = db.Where("LOWER(title) LIKE ? OR LOWER(message) LIKE ?", pattern, pattern)
	}
	if q.Type != "" && q.Type != "all" {
		db = db.Where("type = ?", q.Type)
	}
	if q.Status != "" && q.Status != "all" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Channel != "" && q.Channel != "all" {
		db = db.Where("channel = ?", q.Channel)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Paginate(db).Order("created_at DESC").Find(&items).Error
	return items, total, err
}

func (r *repository) DueScheduled(ctx context.Context, now time.Time, limit int) ([]Notification, error) {
	var items []Notification
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ? AND sent_at IS NULL", StatusScheduled, now).
		Order("scheduled_at").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// Claim stamps sent_at on a due notification so the next scheduler tick skips it
func (r *repository) Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND status = ? AND sent_at IS NULL", id, StatusScheduled).
		Update("sent_at", now)
	return result.RowsAffected == 1, result.Error
}

// Release undoes a Claim whose dispatch never started, so the next tick retries it
func (r *repository) Release(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND status = ?", id, StatusScheduled).
		Update("sent_at", nil).Error
}

func (r *repository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time, recipients int) error {
	return r.db.WithContext(ctx).Model(&Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":           StatusSent,
		"sent_at":          sentAt,
		"total_recipients": recipients,
		"last_error":       "",
	}).Error
}

func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).Model(&Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     StatusFailed,
		"last_error": reason,
	}).Error
}

// IncrementCounter bumps read_count or click_count
func (r *repository) IncrementCounter(ctx context.Context, id uuid.UUID, column string) error {
	if column != "read_count" && column != "click_count" {
		return errors.New("unsupported counter column")
	}
	result := r.db.WithContext(ctx).Model(&Notification{}).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
