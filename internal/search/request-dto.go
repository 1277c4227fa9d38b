package search

import (
	"time"
)

// Query is the public search form. Every field is optional.
type Query struct {
	Text         string     `form:"q"`
	Type         string     `form:"type" binding:"omitempty,oneof=all event transport"`
	Category     string     `form:"category"`
	Location     string     `form:"location"`
	DateFrom     *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo       *time.Time `form:"date_to" time_format:"2006-01-02"`
	MinPrice     *float64   `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice     *float64   `form:"max_price" binding:"omitempty,gte=0"`
	MinRating    float64    `form:"min_rating" binding:"omitempty,gte=0,lte=5"`
	VehicleTypes []string   `form:"vehicle_type" binding:"omitempty,dive,oneof=bus train boat plane"`
	Amenities    []string   `form:"amenity"`
	Sort         string     `form:"sort" binding:"omitempty,oneof=relevance price_asc price_desc rating date name"`
}
