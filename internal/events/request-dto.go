package events

import (
	"time"

	"ticketera/internal/shared/listing"

	"github.com/shopspring/decimal"
)

type CreateEventRequest struct {
	Title       string          `json:"title" binding:"required,min=3,max=255"`
	Description string          `json:"description" binding:"max=5000"`
	VenueID     string          `json:"venue_id" binding:"required,uuid"`
	Artist      string          `json:"artist" binding:"max=255"`
	Category    string          `json:"category" binding:"required,max=100"`
	StartDate   time.Time       `json:"start_date" binding:"required"`
	EndDate     time.Time       `json:"end_date" binding:"required"`
	MinPrice    decimal.Decimal `json:"min_price"`
	MaxPrice    decimal.Decimal `json:"max_price"`
	Rating      float64         `json:"rating" binding:"min=0,max=5"`
	Featured    bool            `json:"featured"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url"`
}

type UpdateEventRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=3,max=255"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	VenueID     *string          `json:"venue_id" binding:"omitempty,uuid"`
	Artist      *string          `json:"artist" binding:"omitempty,max=255"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
	MinPrice    *decimal.Decimal `json:"min_price"`
	MaxPrice    *decimal.Decimal `json:"max_price"`
	Status      *string          `json:"status" binding:"omitempty,oneof=active sold_out cancelled"`
	Rating      *float64         `json:"rating" binding:"omitempty,min=0,max=5"`
	Featured    *bool            `json:"featured"`
	ImageURL    *string          `json:"image_url" binding:"omitempty,url"`
}

// EventListQuery uses Type as the category facet
type EventListQuery struct {
	listing.Query
	VenueID  string `form:"venue_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}
