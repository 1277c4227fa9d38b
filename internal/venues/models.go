package venues

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrVenueNotFound    = errors.New("venue not found")
	ErrCapacityExceeded = errors.New("seating map exceeds venue capacity")
	ErrInvalidSection   = errors.New("invalid seating section")
)

type SeatCategory string

const (
	CategoryGeneral      SeatCategory = "general"
	CategoryPreferencial SeatCategory = "preferencial"
	CategoryVIP          SeatCategory = "vip"
	CategoryPlatea       SeatCategory = "platea"
)

func IsValidCategory(c string) bool {
	switch SeatCategory(c) {
	case CategoryGeneral, CategoryPreferencial, CategoryVIP, CategoryPlatea:
		return true
	}
	return false
}

// SeatingSection is one block of rows in a venue's seat map
type SeatingSection struct {
	Name        string          `json:"name"`
	Category    SeatCategory    `json:"category"`
	Rows        int             `json:"rows"`
	SeatsPerRow int             `json:"seats_per_row"`
	Price       decimal.Decimal `json:"price"`
}

// Section bounds keep Rows*SeatsPerRow well inside int range
const (
	MaxRows        = 200
	MaxSeatsPerRow = 500
)

func (s SeatingSection) Seats() int {
	return s.Rows * s.SeatsPerRow
}

// SeatingMap is stored as an opaque JSON document on the venue
type SeatingMap struct {
	Sections []SeatingSection `json:"sections"`
}

func (m SeatingMap) TotalSeats() int {
	total := 0
	for _, s := range m.Sections {
		total += s.Seats()
	}
	return total
}

type Venue struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name       string     `json:"name" gorm:"not null"`
	Address    string     `json:"address"`
	City       string     `json:"city" gorm:"index;not null"`
	Capacity   int        `json:"capacity" gorm:"not null"`
	SeatingMap SeatingMap `json:"seating_map" gorm:"type:jsonb;serializer:json"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Venue) TableName() string {
	return "venues"
}

// Validate checks the seat map against the venue capacity
func (v Venue) Validate() error {
	seen := make(map[string]bool, len(v.SeatingMap.Sections))
	for _, s := range v.SeatingMap.Sections {
		if s.Name == "" || s.Rows < 1 || s.SeatsPerRow < 1 || s.Price.IsNegative() {
			return fmt.Errorf("%w: %q", ErrInvalidSection, s.Name)
		}
		if s.Rows > MaxRows || s.SeatsPerRow > MaxSeatsPerRow {
			return fmt.Errorf("%w: %q exceeds %d rows of %d seats", ErrInvalidSection, s.Name, MaxRows, MaxSeatsPerRow)
		}
		if !IsValidCategory(string(s.Category)) {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidSection, s.Category)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalidSection, s.Name)
		}
		seen[s.Name] = true
	}
	if total := v.SeatingMap.TotalSeats(); total > v.Capacity {
		return fmt.Errorf("%w: %d seats for capacity %d", ErrCapacityExceeded, total, v.Capacity)
	}
	return nil
}
