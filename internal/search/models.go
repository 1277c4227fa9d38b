package search

import (
	"strings"
	"time"

	"ticketera/internal/events"
	"ticketera/internal/transport"

	"github.com/shopspring/decimal"
)

type ResultType string

const (
	TypeEvent     ResultType = "event"
	TypeTransport ResultType = "transport"
)

// Result is one card on the public browse page, either an event or a route
type Result struct {
	ID          string          `json:"id"`
	Type        ResultType      `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Destination string          `json:"destination,omitempty"`
	Artist      string          `json:"artist,omitempty"`
	Company     string          `json:"company,omitempty"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Price       decimal.Decimal `json:"price"`
	MaxPrice    decimal.Decimal `json:"max_price"`
	Rating      float64         `json:"rating"`
	Featured    bool            `json:"featured"`
	VehicleType string          `json:"vehicle_type,omitempty"`
	Amenities   []string        `json:"amenities,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
}

func FromEvent(e events.Event) Result {
	return Result{
		ID:          e.ID.String(),
		Type:        TypeEvent,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location(),
		Artist:      e.Artist,
		Category:    e.Category,
		Date:        e.StartDate,
		Price:       e.MinPrice,
		MaxPrice:    e.MaxPrice,
		Rating:      e.Rating,
		Featured:    e.Featured,
		ImageURL:    e.ImageURL,
	}
}

// FromRoute maps a route; its category is the vehicle class
func FromRoute(r transport.Route) Result {
	return Result{
		ID:          r.ID.String(),
		Type:        TypeTransport,
		Title:       r.Origin + " - " + r.Destination,
		Description: strings.TrimSpace(r.CompanyName() + " " + r.VehicleClass),
		Location:    r.Origin,
		Destination: r.Destination,
		Company:     r.CompanyName(),
		Category:    r.VehicleClass,
		Date:        r.DepartureTime,
		Price:       r.MinPrice,
		MaxPrice:    r.MaxPrice,
		Rating:      r.Rating,
		VehicleType: string(r.VehicleType),
		Amenities:   r.Amenities,
	}
}

type SortBy string

const (
	SortRelevance SortBy = "relevance"
	SortPriceAsc  SortBy = "price_asc"
	SortPriceDesc SortBy = "price_desc"
	SortRating    SortBy = "rating"
	SortDate      SortBy = "date"
	SortName      SortBy = "name"
)

// Facets lists the values the filter panel can offer, taken from the whole catalogue
type Facets struct {
	Categories   []string `json:"categories"`
	Locations    []string `json:"locations"`
	VehicleTypes []string `json:"vehicle_types"`
	Amenities    []string `json:"amenities"`
}

type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Facets  Facets   `json:"facets"`
}
