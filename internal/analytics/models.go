package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dashboard & Overview Models

type DashboardAnalytics struct {
	Overview      OverviewMetrics      `json:"overview"`
	Bookings      BookingOverview      `json:"bookings"`
	Transport     TransportOverview    `json:"transport"`
	Notifications NotificationOverview `json:"notifications"`
	Content       ContentOverview      `json:"content"`
	TopEvents     []EventPerformance   `json:"top_events"`
	TopRoutes     []RoutePerformance   `json:"top_routes"`
	RevenueTrend  []DailyMetric        `json:"revenue_trend"`
	GeneratedAt   time.Time            `json:"generated_at"`
}

type OverviewMetrics struct {
	TotalEvents      int             `json:"total_events"`
	ActiveEvents     int             `json:"active_events"`
	TotalRoutes      int             `json:"total_routes"`
	ActiveRoutes     int             `json:"active_routes"`
	TotalBookings    int             `json:"total_bookings"`
	TotalUsers       int             `json:"total_users"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	CancellationRate float64         `json:"cancellation_rate"`
	RevenueGrowth    float64         `json:"revenue_growth"`
}

// Booking Analytics Models

type BookingOverview struct {
	ByPaymentStatus     map[string]int       `json:"by_payment_status"`
	ByBookingStatus     map[string]int       `json:"by_booking_status"`
	ByType              map[string]int       `json:"by_type"`
	PaymentMethods      []PaymentMethodStats `json:"payment_methods"`
	AverageBookingValue decimal.Decimal      `json:"average_booking_value"`
	PaymentSuccessRate  float64              `json:"payment_success_rate"`
}

type PaymentMethodStats struct {
	Method      string  `json:"method"`
	Bookings    int     `json:"bookings"`
	Completed   int     `json:"completed"`
	SuccessRate float64 `json:"success_rate"`
}

// StatusCount is one GROUP BY row
type StatusCount struct {
	Key   string
	Count int
}

type DailyMetric struct {
	Date     string          `json:"date"`
	Bookings int             `json:"bookings"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// Catalogue Performance Models

type EventPerformance struct {
	EventID     string          `json:"event_id"`
	Title       string          `json:"title"`
	Bookings    int             `json:"bookings"`
	Revenue     decimal.Decimal `json:"revenue"`
	SeatsSold   int             `json:"seats_sold"`
	Capacity    int             `json:"capacity"`
	Utilization float64         `json:"utilization"`
}

type RoutePerformance struct {
	RouteID        string          `json:"route_id"`
	Origin         string          `json:"origin"`
	Destination    string          `json:"destination"`
	Company        string          `json:"company"`
	Bookings       int             `json:"bookings"`
	Revenue        decimal.Decimal `json:"revenue"`
	TotalSeats     int             `json:"total_seats"`
	AvailableSeats int             `json:"available_seats"`
	Occupancy      float64         `json:"occupancy"`
}

type TransportOverview struct {
	Companies      int     `json:"companies"`
	Routes         int     `json:"routes"`
	TotalSeats     int     `json:"total_seats"`
	AvailableSeats int     `json:"available_seats"`
	Occupancy      float64 `json:"occupancy"`
}

// Engagement Models

type NotificationOverview struct {
	Sent       int     `json:"sent"`
	Scheduled  int     `json:"scheduled"`
	Failed     int     `json:"failed"`
	Recipients int     `json:"recipients"`
	Reads      int     `json:"reads"`
	Clicks     int     `json:"clicks"`
	ReadRate   float64 `json:"read_rate"`
	ClickRate  float64 `json:"click_rate"`
}

type ContentOverview struct {
	PublishedPosts int `json:"published_posts"`
	DraftPosts     int `json:"draft_posts"`
	TotalViews     int `json:"total_views"`
}

// User-facing Analytics

type PersonalAnalytics struct {
	TotalBookings    int             `json:"total_bookings"`
	UpcomingBookings int             `json:"upcoming_bookings"`
	CancelledCount   int             `json:"cancelled_count"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
	EventBookings    int             `json:"event_bookings"`
	TransportTrips   int             `json:"transport_trips"`
}
