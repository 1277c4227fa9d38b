package bookings

import (
	"errors"
	"time"

	"ticketera/internal/events"
	"ticketera/internal/transport"
	"ticketera/internal/users"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrEmptySelection   = errors.New("no seats selected")
	ErrCannotCancel     = errors.New("booking cannot be cancelled")
	ErrAccessDenied     = errors.New("booking belongs to another user")
	ErrAlreadyPaid      = errors.New("booking already paid")
	ErrRouteNotBookable = errors.New("route is not accepting bookings")
	ErrEventNotBookable = errors.New("event is not accepting bookings")
)

type Booking struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID        uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	BookingType   Type            `json:"booking_type" gorm:"type:varchar(20);not null;index"`
	EventID       *uuid.UUID      `json:"event_id,omitempty" gorm:"type:uuid;index"`
	RouteID       *uuid.UUID      `json:"route_id,omitempty" gorm:"type:uuid;index"`
	Seats         []string        `json:"seats" gorm:"type:jsonb;serializer:json"`
	SeatIDs       []uuid.UUID     `json:"seat_ids,omitempty" gorm:"type:jsonb;serializer:json"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);not null;default:'pending';index"`
	BookingStatus Status          `json:"booking_status" gorm:"type:varchar(20);not null;default:'confirmed';index"`
	BookingCode   string          `json:"booking_code" gorm:"size:20;not null;uniqueIndex"`
	QRCode        string          `json:"qr_code"`
	PaymentMethod string          `json:"payment_method" gorm:"size:30"`
	TravelDate    time.Time       `json:"travel_date"`

	Profile *users.Profile   `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Event   *events.Event    `json:"event,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:RESTRICT"`
	Route   *transport.Route `json:"route,omitempty" gorm:"foreignKey:RouteID;constraint:OnDelete:RESTRICT"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Title is the event title or the route's "origin - destination"
func (b Booking) Title() string {
	switch {
	case b.Event != nil:
		return b.Event.Title
	case b.Route != nil:
		return b.Route.Origin + " - " + b.Route.Destination
	}
	return ""
}

type BookingResponse struct {
	ID            string          `json:"id"`
	BookingCode   string          `json:"booking_code"`
	BookingType   Type            `json:"booking_type"`
	Title         string          `json:"title"`
	EventID       *uuid.UUID      `json:"event_id,omitempty"`
	RouteID       *uuid.UUID      `json:"route_id,omitempty"`
	UserID        string          `json:"user_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	Seats         []string        `json:"seats"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	BookingStatus Status          `json:"booking_status"`
	PaymentMethod string          `json:"payment_method"`
	QRCode        string          `json:"qr_code"`
	TravelDate    time.Time       `json:"travel_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (b Booking) ToResponse() BookingResponse {
	resp := BookingResponse{
		ID:            b.ID.String(),
		BookingCode:   b.BookingCode,
		BookingType:   b.BookingType,
		Title:         b.Title(),
		EventID:       b.EventID,
		RouteID:       b.RouteID,
		UserID:        b.UserID.String(),
		Seats:         b.Seats,
		TotalAmount:   b.TotalAmount,
		PaymentStatus: b.PaymentStatus,
		BookingStatus: b.BookingStatus,
		PaymentMethod: b.PaymentMethod,
		QRCode:        b.QRCode,
		TravelDate:    b.TravelDate,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if resp.Seats == nil {
		resp.Seats = []string{}
	}
	if b.Profile != nil {
		resp.CustomerName = b.Profile.FullName
		resp.CustomerEmail = b.Profile.Email
	}
	return resp
}
