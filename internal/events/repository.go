package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	Save(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q EventListQuery) ([]Event, int64, error)
	ListActive(ctx context.Context) ([]Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Preload("Venue").Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) Save(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Omit("Venue").Save(event).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, q EventListQuery) ([]Event, int64, error) {
	var (
		events []Event
		total  int64
	)

	db := r.db.WithContext(ctx).Model(&Event{})

	if q.Search != "" {
		pattern := q.SearchPattern()
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(artist) LIKE ?",
			pattern, pattern, pattern)
	}
	if q.Type != "" && q.Type != "all" {
		db = db.Where("category = ?", q.Type)
	}
	if q.Status != "" && q.Status != "all" {
		db = db.Where("status = ?", q.Status)
	}
	if q.VenueID != "" {
		db = db.Where("venue_id = ?", q.VenueID)
	}

	if q.DateFrom != "" {
		if from, err := time.Parse("2006-01-02", q.DateFrom); err == nil {
			db = db.Where("start_date >= ?", from)
		}
	}
	if q.DateTo != "" {
		if to, err := time.Parse("2006-01-02", q.DateTo); err == nil {
			// include the whole day
			db = db.Where("start_date < ?", to.Add(24*time.Hour))
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Paginate(db.Preload("Venue")).Order("start_date ASC").Find(&events).Error
	return events, total, err
}

func (r *repository) ListActive(ctx context.Context) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Where("status = ?", StatusActive).
		Order("start_date ASC").
		Find(&events).Error
	return events, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	result := r.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}
