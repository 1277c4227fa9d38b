package bookings

import (
	"time"

	"ticketera/internal/shared/listing"
)

type CreateEventBookingRequest struct {
	EventID       string `json:"event_id" binding:"required,uuid"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=yape mercado_pago paypal card"`
}

type CreateTransportBookingRequest struct {
	RouteID       string    `json:"route_id" binding:"required,uuid"`
	Seats         []string  `json:"seats" binding:"required,min=1,max=10,dive,required"`
	TravelDate    time.Time `json:"travel_date"`
	PaymentMethod string    `json:"payment_method" binding:"omitempty,oneof=yape mercado_pago paypal card"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=pending completed failed refunded"`
}

type UpdateBookingStatusRequest struct {
	BookingStatus string `json:"booking_status" binding:"required,oneof=confirmed cancelled used"`
}

// BookingListQuery uses Type as booking_type and Status as booking_status
type BookingListQuery struct {
	listing.Query
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=all pending completed failed refunded"`
	UserID        string `form:"-"`
}
