package bookings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByCode(ctx context.Context, code string) (*Booking, error)
	List(ctx context.Context, q BookingListQuery) ([]Booking, int64, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus, method string) error
	SetBookingStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Omit("Profile", "Event", "Route").Create(booking).Error
}

func (r *repository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Event.Venue").
		Preload("Route.Company")
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	if err := r.withRelations(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Booking, error) {
	var booking Booking
	if err := r.withRelations(ctx).Where("booking_code = ?", code).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) List(ctx context.Context, q BookingListQuery) ([]Booking, int64, error) {
	var (
		bookings []Booking
		total    int64
	)

	db := r.db.WithContext(ctx).Model(&Booking{})
	if q.UserID != "" {
		db = db.Where("bookings.user_id = ?", q.UserID)
	}
	if q.Search != "" {
		pattern := q.SearchPattern()
		db = db.Joins("LEFT JOIN profiles ON profiles.id = bookings.user_id").
			Where("LOWER(bookings.booking_code) LIKE ? OR LOWER(profiles.full_name) LIKE ? OR LOWER(profiles.email) LIKE ?",
				pattern, pattern, pattern)
	}
	if q.Type != "" && q.Type != "all" {
		db = db.Where("bookings.booking_type = ?", q.Type)
	}
	if q.Status != "" && q.Status != "all" {
		db = db.Where("bookings.booking_status = ?", q.Status)
	}
	if q.PaymentStatus != "" && q.PaymentStatus != "all" {
		db = db.Where("bookings.payment_status = ?", q.PaymentStatus)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Paginate(db).
		Preload("Profile").
		Preload("Event.Venue").
		Preload("Route.Company").
		Order("bookings.created_at DESC").
		Find(&bookings).Error
	return bookings, total, err
}

// SetPaymentStatus writes only the payment axis (and the method when given)
func (r *repository) SetPaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus, method string) error {
	updates := map[string]interface{}{"payment_status": status}
	if method != "" {
		updates["payment_method"] = method
	}
	result := r.db.WithContext(ctx).Model(&Booking{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// SetBookingStatus writes only the booking axis
func (r *repository) SetBookingStatus(ctx context.Context, id uuid.UUID, status Status) error {
	result := r.db.WithContext(ctx).Model(&Booking{}).Where("id = ?", id).Update("booking_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Booking{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
