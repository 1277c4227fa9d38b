package events

import (
	"errors"
	"time"

	"ticketera/internal/venues"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrInvalidPrice     = errors.New("max price must not be below min price")
	ErrEventNotOnSale   = errors.New("event is not on sale")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSoldOut   Status = "sold_out"
	StatusCancelled Status = "cancelled"
)

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusActive, StatusSoldOut, StatusCancelled:
		return true
	}
	return false
}

type Event struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string          `json:"title" gorm:"not null;size:255"`
	Description string          `json:"description" gorm:"type:text"`
	VenueID     uuid.UUID       `json:"venue_id" gorm:"type:uuid;not null;index"`
	Artist      string          `json:"artist" gorm:"size:255"`
	Category    string          `json:"category" gorm:"size:100;index"`
	StartDate   time.Time       `json:"start_date" gorm:"not null;index"`
	EndDate     time.Time       `json:"end_date" gorm:"not null"`
	MinPrice    decimal.Decimal `json:"min_price" gorm:"type:numeric(12,2);not null;default:0"`
	MaxPrice    decimal.Decimal `json:"max_price" gorm:"type:numeric(12,2);not null;default:0"`
	Status      Status          `json:"status" gorm:"type:varchar(20);default:'active';index"`
	Rating      float64         `json:"rating" gorm:"default:0"`
	Featured    bool            `json:"featured" gorm:"default:false"`
	ImageURL    string          `json:"image_url" gorm:"size:500"`

	Venue *venues.Venue `json:"venue,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:RESTRICT"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

// Location is the city of the event's venue, when loaded
func (e Event) Location() string {
	if e.Venue == nil {
		return ""
	}
	return e.Venue.City
}

func (e Event) Validate() error {
	if e.EndDate.Before(e.StartDate) {
		return ErrInvalidDateRange
	}
	if e.MaxPrice.LessThan(e.MinPrice) {
		return ErrInvalidPrice
	}
	return nil
}

type EventResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	VenueID     string          `json:"venue_id"`
	VenueName   string          `json:"venue_name"`
	Location    string          `json:"location"`
	Artist      string          `json:"artist"`
	Category    string          `json:"category"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	MinPrice    decimal.Decimal `json:"min_price"`
	MaxPrice    decimal.Decimal `json:"max_price"`
	Status      Status          `json:"status"`
	Rating      float64         `json:"rating"`
	Featured    bool            `json:"featured"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (e Event) ToResponse() EventResponse {
	resp := EventResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		VenueID:     e.VenueID.String(),
		Location:    e.Location(),
		Artist:      e.Artist,
		Category:    e.Category,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		MinPrice:    e.MinPrice,
		MaxPrice:    e.MaxPrice,
		Status:      e.Status,
		Rating:      e.Rating,
		Featured:    e.Featured,
		ImageURL:    e.ImageURL,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Venue != nil {
		resp.VenueName = e.Venue.Name
	}
	return resp
}
