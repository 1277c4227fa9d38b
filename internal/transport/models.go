package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCompanyNotFound   = errors.New("transport company not found")
	ErrRouteNotFound     = errors.New("transport route not found")
	ErrInvalidSeatCounts = errors.New("available seats must be between 0 and total seats")
	ErrInvalidSchedule   = errors.New("arrival must be after departure")
	ErrInvalidPrice      = errors.New("max price must not be below min price")
	ErrNotEnoughSeats    = errors.New("not enough seats available on route")
	ErrCompanyHasRoutes  = errors.New("company still has routes")
)

type VehicleType string

const (
	VehicleBus   VehicleType = "bus"
	VehicleTrain VehicleType = "train"
	VehicleBoat  VehicleType = "boat"
	VehiclePlane VehicleType = "plane"
)

type RouteStatus string

const (
	RouteActive      RouteStatus = "active"
	RouteSuspended   RouteStatus = "suspended"
	RouteMaintenance RouteStatus = "maintenance"
)

type Company struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name          string    `json:"name" gorm:"not null;uniqueIndex"`
	Rating        float64   `json:"rating" gorm:"default:0"`
	ContactEmail  string    `json:"contact_email"`
	ContactPhone  string    `json:"contact_phone"`
	Website       string    `json:"website"`
	TotalRoutes   int       `json:"total_routes" gorm:"default:0"`
	TotalBookings int       `json:"total_bookings" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Company) TableName() string {
	return "transport_companies"
}

type Route struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CompanyID       uuid.UUID       `json:"company_id" gorm:"type:uuid;not null;index"`
	Origin          string          `json:"origin" gorm:"not null;index"`
	Destination     string          `json:"destination" gorm:"not null;index"`
	VehicleType     VehicleType     `json:"vehicle_type" gorm:"type:varchar(20);not null"`
	VehicleClass    string          `json:"vehicle_class"`
	DepartureTime   time.Time       `json:"departure_time" gorm:"not null;index"`
	ArrivalTime     time.Time       `json:"arrival_time" gorm:"not null"`
	DurationMinutes int             `json:"duration_minutes"`
	MinPrice        decimal.Decimal `json:"min_price" gorm:"type:numeric(12,2);not null;default:0"`
	MaxPrice        decimal.Decimal `json:"max_price" gorm:"type:numeric(12,2);not null;default:0"`
	TotalSeats      int             `json:"total_seats" gorm:"not null"`
	AvailableSeats  int             `json:"available_seats" gorm:"not null"`
	Amenities       []string        `json:"amenities" gorm:"type:jsonb;serializer:json"`
	Status          RouteStatus     `json:"status" gorm:"type:varchar(20);default:'active';index"`
	Rating          float64         `json:"rating" gorm:"default:0"`
	TotalBookings   int             `json:"total_bookings" gorm:"default:0"`
	Revenue         decimal.Decimal `json:"revenue" gorm:"type:numeric(14,2);not null;default:0"`

	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID;constraint:OnDelete:RESTRICT"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Route) TableName() string {
	return "transport_routes"
}

// Validate checks the invariants the transport_routes CHECK constraint also enforces
func (r Route) Validate() error {
	if r.TotalSeats < 0 || r.AvailableSeats < 0 || r.AvailableSeats > r.TotalSeats {
		return fmt.Errorf("%w: %d of %d", ErrInvalidSeatCounts, r.AvailableSeats, r.TotalSeats)
	}
	if !r.ArrivalTime.After(r.DepartureTime) {
		return ErrInvalidSchedule
	}
	if r.MaxPrice.LessThan(r.MinPrice) {
		return ErrInvalidPrice
	}
	return nil
}

// CompanyName returns the operator name when the company is loaded
func (r Route) CompanyName() string {
	if r.Company == nil {
		return ""
	}
	return r.Company.Name
}

func (r *Route) deriveDuration() {
	r.DurationMinutes = int(r.ArrivalTime.Sub(r.DepartureTime).Minutes())
}

// CompanyStats is the per-company aggregate shown in the back office
type CompanyStats struct {
	CompanyID     uuid.UUID       `json:"company_id"`
	TotalRoutes   int64           `json:"total_routes"`
	ActiveRoutes  int64           `json:"active_routes"`
	TotalBookings int64           `json:"total_bookings"`
	Revenue       decimal.Decimal `json:"revenue"`
}
