package venues

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	Save(ctx context.Context, venue *Venue) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q VenueListQuery) ([]Venue, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, venue *Venue) error {
	return r.db.WithContext(ctx).Create(venue).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&venue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &venue, nil
}

func (r *repository) Save(ctx context.Context, venue *Venue) error {
	return r.db.WithContext(ctx).Save(venue).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Venue{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, q VenueListQuery) ([]Venue, int64, error) {
	var (
		venues []Venue
		total  int64
	)

	db := r.db.WithContext(ctx).Model(&Venue{})
	if q.Search != "" {
		pattern := q.SearchPattern()
		db = db.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ? OR LOWER(city) LIKE ?", pattern, pattern, pattern)
	}
	if q.City != "" {
		db = db.Where("LOWER(city) = ?", strings.ToLower(q.City))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Paginate(db).Order("name ASC").Find(&venues).Error
	return venues, total, err
}
