package seats

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateSeats(ctx context.Context, seats []EventSeat) error
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]EventSeat, error)
	GetByIDs(ctx context.Context, eventID uuid.UUID, ids []uuid.UUID) ([]EventSeat, error)
	OccupySeats(ctx context.Context, eventID, bookingID uuid.UUID, ids []uuid.UUID) (remaining int64, err error)
	SetStatus(ctx context.Context, eventID uuid.UUID, ids []uuid.UUID, status Status) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSeats(ctx context.Context, seats []EventSeat) error {
	return r.db.WithContext(ctx).CreateInBatches(seats, 500).Error
}

func (r *repository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&EventSeat{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]EventSeat, error) {
	var seats []EventSeat
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("section ASC, row ASC, number ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetByIDs(ctx context.Context, eventID uuid.UUID, ids []uuid.UUID) ([]EventSeat, error) {
	var seats []EventSeat
	err := r.db.WithContext(ctx).Where("event_id = ? AND id IN ?", eventID, ids).Find(&seats).Error
	return seats, err
}

// OccupySeats locks the rows, checks they are all still available and marks
// them occupied by bookingID in one transaction. Seats the booking already
// occupies pass the check, so a retried confirmation succeeds. It returns how
// many seats of the event remain available afterwards.
func (r *repository) OccupySeats(ctx context.Context, eventID, bookingID uuid.UUID, ids []uuid.UUID) (int64, error) {
	var remaining int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seats []EventSeat
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_id = ? AND id IN ?", eventID, ids).
			Find(&seats).Error; err != nil {
			return err
		}
		if len(seats) != len(ids) {
			return ErrSeatNotFound
		}
		if err := checkClaim(seats, bookingID); err != nil {
			return err
		}

		if err := tx.Model(&EventSeat{}).
			Where("event_id = ? AND id IN ?", eventID, ids).
			Updates(map[string]interface{}{"status": StatusOccupied, "booking_id": bookingID}).Error; err != nil {
			return err
		}

		return tx.Model(&EventSeat{}).
			Where("event_id = ? AND status = ?", eventID, StatusAvailable).
			Count(&remaining).Error
	})
	return remaining, err
}

func (r *repository) SetStatus(ctx context.Context, eventID uuid.UUID, ids []uuid.UUID, status Status) error {
	updates := map[string]interface{}{"status": status}
	if status != StatusOccupied {
		updates["booking_id"] = nil
	}
	return r.db.WithContext(ctx).Model(&EventSeat{}).
		Where("event_id = ? AND id IN ?", eventID, ids).
		Updates(updates).Error
}
