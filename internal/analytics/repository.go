package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository runs the aggregate queries behind the back-office dashboard
type Repository interface {
	GetOverviewMetrics(ctx context.Context, now time.Time) (*OverviewMetrics, error)
	GetBookingOverview(ctx context.Context) (*BookingOverview, error)
	GetDailyRevenue(ctx context.Context, since time.Time) ([]DailyMetric, error)
	GetTopEvents(ctx context.Context, limit int) ([]EventPerformance, error)
	GetTopRoutes(ctx context.Context, limit int) ([]RoutePerformance, error)
	GetTransportOverview(ctx context.Context) (*TransportOverview, error)
	GetNotificationOverview(ctx context.Context) (*NotificationOverview, error)
	GetContentOverview(ctx context.Context) (*ContentOverview, error)
	GetPersonalAnalytics(ctx context.Context, userID uuid.UUID, now time.Time) (*PersonalAnalytics, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOverviewMetrics(ctx context.Context, now time.Time) (*OverviewMetrics, error) {
	db := r.db.WithContext(ctx)
	var metrics OverviewMetrics

	var row struct {
		TotalEvents  int
		ActiveEvents int
		TotalRoutes  int
		ActiveRoutes int
		TotalUsers   int
	}
	err := db.Raw(`
		SELECT
			(SELECT COUNT(*) FROM events) AS total_events,
			(SELECT COUNT(*) FROM events WHERE status = 'active' AND end_date >= ?) AS active_events,
			(SELECT COUNT(*) FROM transport_routes) AS total_routes,
			(SELECT COUNT(*) FROM transport_routes WHERE status = 'active') AS active_routes,
			(SELECT COUNT(*) FROM profiles) AS total_users
	`, now).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count catalogue: %w", err)
	}
	metrics.TotalEvents = row.TotalEvents
	metrics.ActiveEvents = row.ActiveEvents
	metrics.TotalRoutes = row.TotalRoutes
	metrics.ActiveRoutes = row.ActiveRoutes
	metrics.TotalUsers = row.TotalUsers

	var bookingRow struct {
		Total     int
		Cancelled int
		Revenue   decimal.Decimal
		Current   decimal.Decimal
		Previous  decimal.Decimal
	}
	currentStart := now.AddDate(0, 0, -30)
	previousStart := now.AddDate(0, 0, -60)
	err = db.Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE booking_status = 'cancelled') AS cancelled,
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = 'completed'), 0) AS revenue,
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = 'completed' AND created_at >= ?), 0) AS current,
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = 'completed' AND created_at >= ? AND created_at < ?), 0) AS previous
		FROM bookings
	`, currentStart, previousStart, currentStart).Scan(&bookingRow).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings: %w", err)
	}
	metrics.TotalBookings = bookingRow.Total
	metrics.TotalRevenue = bookingRow.Revenue
	metrics.CancellationRate = rate(bookingRow.Cancelled, bookingRow.Total)
	metrics.RevenueGrowth = growth(bookingRow.Current, bookingRow.Previous)

	return &metrics, nil
}

func (r *repository) GetBookingOverview(ctx context.Context) (*BookingOverview, error) {
	db := r.db.WithContext(ctx)
	overview := &BookingOverview{}

	byPayment, err := r.countBy(ctx, "payment_status")
	if err != nil {
		return nil, err
	}
	byStatus, err := r.countBy(ctx, "booking_status")
	if err != nil {
		return nil, err
	}
	byType, err := r.countBy(ctx, "booking_type")
	if err != nil {
		return nil, err
	}
	overview.ByPaymentStatus = countsToMap(byPayment)
	overview.ByBookingStatus = countsToMap(byStatus)
	overview.ByType = countsToMap(byType)
	overview.PaymentSuccessRate = rate(overview.ByPaymentStatus["completed"], sumCounts(overview.ByPaymentStatus))

	var methods []PaymentMethodStats
	err = db.Raw(`
		SELECT
			payment_method AS method,
			COUNT(*) AS bookings,
			COUNT(*) FILTER (WHERE payment_status = 'completed') AS completed
		FROM bookings
		WHERE payment_method <> ''
		GROUP BY payment_method
	`).Scan(&methods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payment methods: %w", err)
	}
	overview.PaymentMethods = withPaymentSuccess(methods)

	err = db.Raw(`
		SELECT COALESCE(AVG(total_amount), 0)
		FROM bookings
		WHERE payment_status = 'completed'
	`).Scan(&overview.AverageBookingValue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to average booking value: %w", err)
	}
	overview.AverageBookingValue = overview.AverageBookingValue.Round(2)

	return overview, nil
}

func (r *repository) countBy(ctx context.Context, column string) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Table("bookings").
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings by %s: %w", column, err)
	}
	return rows, nil
}

func (r *repository) GetDailyRevenue(ctx context.Context, since time.Time) ([]DailyMetric, error) {
	var rows []DailyMetric
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS date,
			COUNT(*) AS bookings,
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = 'completed'), 0) AS revenue
		FROM bookings
		WHERE created_at >= ?
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at)
	`, since).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily revenue: %w", err)
	}
	return rows, nil
}

func (r *repository) GetTopEvents(ctx context.Context, limit int) ([]EventPerformance, error) {
	var rows []EventPerformance
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			e.id AS event_id,
			e.title,
			COUNT(b.id) AS bookings,
			COALESCE(SUM(b.total_amount) FILTER (WHERE b.payment_status = 'completed'), 0) AS revenue,
			COALESCE(SUM(jsonb_array_length(b.seats)) FILTER (WHERE b.payment_status = 'completed'), 0) AS seats_sold,
			(SELECT COUNT(*) FROM event_seats s WHERE s.event_id = e.id) AS capacity
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id AND b.booking_status <> 'cancelled'
		GROUP BY e.id, e.title
		ORDER BY revenue DESC, bookings DESC
		LIMIT ?
	`, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top events: %w", err)
	}
	for i := range rows {
		rows[i].Utilization = rate(rows[i].SeatsSold, rows[i].Capacity)
	}
	return rows, nil
}

func (r *repository) GetTopRoutes(ctx context.Context, limit int) ([]RoutePerformance, error) {
	var rows []RoutePerformance
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			r.id AS route_id,
			r.origin,
			r.destination,
			COALESCE(c.name, '') AS company,
			r.total_bookings AS bookings,
			r.revenue,
			r.total_seats,
			r.available_seats
		FROM transport_routes r
		LEFT JOIN transport_companies c ON c.id = r.company_id
		ORDER BY r.revenue DESC, r.total_bookings DESC
		LIMIT ?
	`, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top routes: %w", err)
	}
	for i := range rows {
		rows[i].Occupancy = rate(rows[i].TotalSeats-rows[i].AvailableSeats, rows[i].TotalSeats)
	}
	return rows, nil
}

func (r *repository) GetTransportOverview(ctx context.Context) (*TransportOverview, error) {
	var overview TransportOverview
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM transport_companies) AS companies,
			COUNT(*) AS routes,
			COALESCE(SUM(total_seats), 0) AS total_seats,
			COALESCE(SUM(available_seats), 0) AS available_seats
		FROM transport_routes
		WHERE status = 'active'
	`).Scan(&overview).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transport overview: %w", err)
	}
	overview.Occupancy = rate(overview.TotalSeats-overview.AvailableSeats, overview.TotalSeats)
	return &overview, nil
}

func (r *repository) GetNotificationOverview(ctx context.Context) (*NotificationOverview, error) {
	var overview NotificationOverview
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE status = 'sent') AS sent,
			COUNT(*) FILTER (WHERE status = 'scheduled') AS scheduled,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed,
			COALESCE(SUM(total_recipients) FILTER (WHERE status = 'sent'), 0) AS recipients,
			COALESCE(SUM(read_count), 0) AS reads,
			COALESCE(SUM(click_count), 0) AS clicks
		FROM notifications
	`).Scan(&overview).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get notification overview: %w", err)
	}
	overview.ReadRate = rate(overview.Reads, overview.Recipients)
	overview.ClickRate = rate(overview.Clicks, overview.Recipients)
	return &overview, nil
}

func (r *repository) GetContentOverview(ctx context.Context) (*ContentOverview, error) {
	var overview ContentOverview
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE status = 'published') AS published_posts,
			COUNT(*) FILTER (WHERE status = 'draft') AS draft_posts,
			COALESCE(SUM(views), 0) AS total_views
		FROM blog_posts
	`).Scan(&overview).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get content overview: %w", err)
	}
	return &overview, nil
}

func (r *repository) GetPersonalAnalytics(ctx context.Context, userID uuid.UUID, now time.Time) (*PersonalAnalytics, error) {
	var personal PersonalAnalytics
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_bookings,
			COUNT(*) FILTER (WHERE booking_status = 'confirmed' AND payment_status = 'completed' AND travel_date >= ?) AS upcoming_bookings,
			COUNT(*) FILTER (WHERE booking_status = 'cancelled') AS cancelled_count,
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = 'completed'), 0) AS total_spent,
			COUNT(*) FILTER (WHERE booking_type = 'event') AS event_bookings,
			COUNT(*) FILTER (WHERE booking_type = 'transport') AS transport_trips
		FROM bookings
		WHERE user_id = ?
	`, now, userID).Scan(&personal).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get personal analytics: %w", err)
	}
	return &personal, nil
}
