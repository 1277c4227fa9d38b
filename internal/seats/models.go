package seats

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"ticketera/internal/venues"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrSeatNotFound          = errors.New("seat not found")
	ErrSeatNotAvailable      = errors.New("seat not available")
	ErrCapacityExceeded      = errors.New("seat count exceeds venue capacity")
	ErrSeatsAlreadyGenerated = errors.New("seats already generated for event")
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusOccupied  Status = "occupied"
	StatusReserved  Status = "reserved"
	// StatusSelected is never persisted; it marks the caller's own selection in views
	StatusSelected Status = "selected"
)

type EventSeat struct {
	ID       uuid.UUID           `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID  uuid.UUID           `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_event_seat,priority:1;index"`
	Section  string              `json:"section" gorm:"size:100;not null;uniqueIndex:idx_event_seat,priority:2"`
	Row      string              `json:"row" gorm:"size:10;not null;uniqueIndex:idx_event_seat,priority:3"`
	Number   int                 `json:"number" gorm:"not null;uniqueIndex:idx_event_seat,priority:4"`
	Price    decimal.Decimal     `json:"price" gorm:"type:numeric(12,2);not null"`
	Category venues.SeatCategory `json:"category" gorm:"type:varchar(20);not null;default:'general'"`
	Status   Status              `json:"status" gorm:"type:varchar(20);not null;default:'available';index"`
	// BookingID is set while the seat is occupied by a paid booking
	BookingID *uuid.UUID `json:"booking_id,omitempty" gorm:"type:uuid;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EventSeat) TableName() string {
	return "event_seats"
}

// Label is section, row letter and seat number, e.g. "VIP-A1"; rows repeat across sections
func (s EventSeat) Label() string {
	return s.Section + "-" + s.Row + strconv.Itoa(s.Number)
}

func (s EventSeat) IsAvailable() bool {
	return s.Status == StatusAvailable
}

func (s EventSeat) OccupiedBy(bookingID uuid.UUID) bool {
	return s.Status == StatusOccupied && s.BookingID != nil && *s.BookingID == bookingID
}

// checkClaim fails unless every seat is free or already occupied by bookingID
func checkClaim(seats []EventSeat, bookingID uuid.UUID) error {
	for _, s := range seats {
		if s.OccupiedBy(bookingID) {
			continue
		}
		if !s.IsAvailable() {
			return fmt.Errorf("%w: %s is %s", ErrSeatNotAvailable, s.Label(), s.Status)
		}
	}
	return nil
}

type SeatView struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Section  string          `json:"section"`
	Row      string          `json:"row"`
	Number   int             `json:"number"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Status   Status          `json:"status"`
}

func (s EventSeat) ToView() SeatView {
	return SeatView{
		ID:       s.ID.String(),
		Label:    s.Label(),
		Section:  s.Section,
		Row:      s.Row,
		Number:   s.Number,
		Price:    s.Price,
		Category: string(s.Category),
		Status:   s.Status,
	}
}

type SelectionResponse struct {
	EventID string          `json:"event_id"`
	Seats   []SeatView      `json:"seats"`
	Labels  []string        `json:"labels"`
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
}

type GenerateResponse struct {
	EventID string `json:"event_id"`
	Created int    `json:"created"`
}
