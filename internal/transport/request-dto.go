package transport

import (
	"time"

	"ticketera/internal/shared/listing"

	"github.com/shopspring/decimal"
)

type CreateCompanyRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=200"`
	Rating       float64 `json:"rating" binding:"min=0,max=5"`
	ContactEmail string  `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string  `json:"contact_phone" binding:"omitempty,max=30"`
	Website      string  `json:"website" binding:"omitempty,url"`
}

type UpdateCompanyRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=2,max=200"`
	Rating       *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	ContactEmail *string  `json:"contact_email" binding:"omitempty,email"`
	ContactPhone *string  `json:"contact_phone" binding:"omitempty,max=30"`
	Website      *string  `json:"website" binding:"omitempty,url"`
}

type CreateRouteRequest struct {
	CompanyID      string          `json:"company_id" binding:"required,uuid"`
	Origin         string          `json:"origin" binding:"required"`
	Destination    string          `json:"destination" binding:"required,nefield=Origin"`
	VehicleType    string          `json:"vehicle_type" binding:"required,oneof=bus train boat plane"`
	VehicleClass   string          `json:"vehicle_class" binding:"max=50"`
	DepartureTime  time.Time       `json:"departure_time" binding:"required"`
	ArrivalTime    time.Time       `json:"arrival_time" binding:"required"`
	MinPrice       decimal.Decimal `json:"min_price"`
	MaxPrice       decimal.Decimal `json:"max_price"`
	TotalSeats     int             `json:"total_seats" binding:"required,min=1"`
	AvailableSeats *int            `json:"available_seats" binding:"omitempty,min=0"`
	Amenities      []string        `json:"amenities"`
	Rating         float64         `json:"rating" binding:"min=0,max=5"`
}

type UpdateRouteRequest struct {
	Origin         *string          `json:"origin"`
	Destination    *string          `json:"destination"`
	VehicleType    *string          `json:"vehicle_type" binding:"omitempty,oneof=bus train boat plane"`
	VehicleClass   *string          `json:"vehicle_class" binding:"omitempty,max=50"`
	DepartureTime  *time.Time       `json:"departure_time"`
	ArrivalTime    *time.Time       `json:"arrival_time"`
	MinPrice       *decimal.Decimal `json:"min_price"`
	MaxPrice       *decimal.Decimal `json:"max_price"`
	TotalSeats     *int             `json:"total_seats" binding:"omitempty,min=1"`
	AvailableSeats *int             `json:"available_seats" binding:"omitempty,min=0"`
	Amenities      []string         `json:"amenities"`
	Status         *string          `json:"status" binding:"omitempty,oneof=active suspended maintenance"`
	Rating         *float64         `json:"rating" binding:"omitempty,min=0,max=5"`
}

// RouteListQuery uses Type as the vehicle type facet
type RouteListQuery struct {
	listing.Query
	CompanyID   string `form:"company_id" binding:"omitempty,uuid"`
	Origin      string `form:"origin"`
	Destination string `form:"destination"`
}

type CompanyListQuery struct {
	listing.Query
}
