package venues

import (
	"ticketera/internal/shared/listing"

	"github.com/shopspring/decimal"
)

type SeatingSectionRequest struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category" binding:"required,oneof=general preferencial vip platea"`
	Rows        int             `json:"rows" binding:"required,min=1,max=200"`
	SeatsPerRow int             `json:"seats_per_row" binding:"required,min=1,max=500"`
	Price       decimal.Decimal `json:"price"`
}

type CreateVenueRequest struct {
	Name     string                  `json:"name" binding:"required,min=2,max=200"`
	Address  string                  `json:"address" binding:"required"`
	City     string                  `json:"city" binding:"required"`
	Capacity int                     `json:"capacity" binding:"required,min=1"`
	Sections []SeatingSectionRequest `json:"sections" binding:"omitempty,dive"`
}

type UpdateVenueRequest struct {
	Name     *string                 `json:"name" binding:"omitempty,min=2,max=200"`
	Address  *string                 `json:"address"`
	City     *string                 `json:"city"`
	Capacity *int                    `json:"capacity" binding:"omitempty,min=1"`
	Sections []SeatingSectionRequest `json:"sections" binding:"omitempty,dive"`
}

// VenueListQuery adds the city facet to the common list query
type VenueListQuery struct {
	listing.Query
	City string `form:"city"`
}

func toSeatingMap(sections []SeatingSectionRequest) SeatingMap {
	m := SeatingMap{Sections: make([]SeatingSection, 0, len(sections))}
	for _, s := range sections {
		m.Sections = append(m.Sections, SeatingSection{
			Name:        s.Name,
			Category:    SeatCategory(s.Category),
			Rows:        s.Rows,
			SeatsPerRow: s.SeatsPerRow,
			Price:       s.Price,
		})
	}
	return m
}
