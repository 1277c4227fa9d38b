package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketera/pkg/cache"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	Repository
	overviewCalls int
	dailySince    time.Time
	dailyRows     []DailyMetric
	overviewErr   error
}

func (s *stubRepository) GetOverviewMetrics(context.Context, time.Time) (*OverviewMetrics, error) {
	s.overviewCalls++
	if s.overviewErr != nil {
		return nil, s.overviewErr
	}
	return &OverviewMetrics{TotalBookings: 12, TotalRevenue: decimal.NewFromInt(1500)}, nil
}

func (s *stubRepository) GetBookingOverview(context.Context) (*BookingOverview, error) {
	return &BookingOverview{ByPaymentStatus: map[string]int{"completed": 9, "pending": 3}}, nil
}

func (s *stubRepository) GetDailyRevenue(_ context.Context, since time.Time) ([]DailyMetric, error) {
	s.dailySince = since
	return s.dailyRows, nil
}

func (s *stubRepository) GetTopEvents(context.Context, int) ([]EventPerformance, error) {
	return nil, nil
}

func (s *stubRepository) GetTopRoutes(context.Context, int) ([]RoutePerformance, error) {
	return []RoutePerformance{{Origin: "Lima", Destination: "Cusco"}}, nil
}

func (s *stubRepository) GetTransportOverview(context.Context) (*TransportOverview, error) {
	return &TransportOverview{Routes: 4}, nil
}

func (s *stubRepository) GetNotificationOverview(context.Context) (*NotificationOverview, error) {
	return &NotificationOverview{}, nil
}

func (s *stubRepository) GetContentOverview(context.Context) (*ContentOverview, error) {
	return &ContentOverview{PublishedPosts: 2}, nil
}

func (s *stubRepository) GetPersonalAnalytics(_ context.Context, _ uuid.UUID, _ time.Time) (*PersonalAnalytics, error) {
	return &PersonalAnalytics{TotalBookings: 3}, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 16, 15, 30, 0, 0, time.UTC)
}

func TestGetDashboardAnalytics_CachesAggregates(t *testing.T) {
	repo := &stubRepository{dailyRows: []DailyMetric{
		{Date: "2026-10-15", Bookings: 2, Revenue: decimal.NewFromInt(300)},
	}}
	svc := NewService(repo, cache.NewMemoryService()).(*service)
	svc.now = fixedNow
	ctx := context.Background()

	first, err := svc.GetDashboardAnalytics(ctx)
	require.NoError(t, err)
	_, err = svc.GetDashboardAnalytics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.overviewCalls)
	assert.Equal(t, 12, first.Overview.TotalBookings)
	assert.True(t, decimal.NewFromInt(1500).Equal(first.Overview.TotalRevenue))
	assert.NotNil(t, first.TopEvents)
	assert.Len(t, first.TopRoutes, 1)
	require.Len(t, first.RevenueTrend, 30)
	assert.Equal(t, "2026-09-17", first.RevenueTrend[0].Date)
	assert.Equal(t, "2026-10-16", first.RevenueTrend[29].Date)
	assert.Equal(t, 2, first.RevenueTrend[28].Bookings)
	assert.Equal(t, time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC), repo.dailySince)
}

func TestGetDashboardAnalytics_FailureIsNotCached(t *testing.T) {
	repo := &stubRepository{overviewErr: errors.New("db down")}
	svc := NewService(repo, cache.NewMemoryService())
	ctx := context.Background()

	_, err := svc.GetDashboardAnalytics(ctx)
	require.Error(t, err)

	repo.overviewErr = nil
	dashboard, err := svc.GetDashboardAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, dashboard.Overview.TotalBookings)
	assert.Equal(t, 2, repo.overviewCalls)
}

func TestGetRevenueTrend_ClampsDays(t *testing.T) {
	svc := NewService(&stubRepository{}, cache.NewMemoryService()).(*service)
	svc.now = fixedNow

	trend, err := svc.GetRevenueTrend(context.Background(), 1000)
	require.NoError(t, err)
	assert.Len(t, trend, maxTrendDays)

	trend, err = svc.GetRevenueTrend(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, trend, dashboardTrendDays)
	for _, point := range trend {
		assert.True(t, point.Revenue.IsZero())
	}
}

func TestRateAndGrowth(t *testing.T) {
	assert.Equal(t, 0.0, rate(3, 0))
	assert.Equal(t, 33.33, rate(1, 3))
	assert.Equal(t, 100.0, rate(4, 4))

	assert.Equal(t, 0.0, growth(decimal.NewFromInt(500), decimal.Zero))
	assert.Equal(t, 50.0, growth(decimal.NewFromInt(300), decimal.NewFromInt(200)))
	assert.Equal(t, -25.0, growth(decimal.NewFromInt(150), decimal.NewFromInt(200)))
}

func TestWithPaymentSuccess_OrdersByVolume(t *testing.T) {
	methods := withPaymentSuccess([]PaymentMethodStats{
		{Method: "card", Bookings: 2, Completed: 2},
		{Method: "yape", Bookings: 8, Completed: 6},
	})

	require.Len(t, methods, 2)
	assert.Equal(t, "yape", methods[0].Method)
	assert.Equal(t, 75.0, methods[0].SuccessRate)
	assert.Equal(t, 100.0, methods[1].SuccessRate)
}
