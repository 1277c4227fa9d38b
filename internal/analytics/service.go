package analytics

import (
	"context"
	"fmt"
	"time"

	"ticketera/internal/shared/constants"
	"ticketera/pkg/cache"
	"ticketera/pkg/logger"

	"github.com/google/uuid"
)

const (
	dashboardTopLimit  = 5
	dashboardTrendDays = 30
	maxTrendDays       = 365
)

type Service interface {
	GetDashboardAnalytics(ctx context.Context) (*DashboardAnalytics, error)
	GetBookingAnalytics(ctx context.Context) (*BookingOverview, error)
	GetRevenueTrend(ctx context.Context, days int) ([]DailyMetric, error)
	GetTopEvents(ctx context.Context, limit int) ([]EventPerformance, error)
	GetTopRoutes(ctx context.Context, limit int) ([]RoutePerformance, error)
	GetPersonalAnalytics(ctx context.Context, userID uuid.UUID) (*PersonalAnalytics, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   logger.GetDefault().WithComponent("analytics"),
		now:   time.Now,
	}
}

// GetDashboardAnalytics is cached briefly; the dashboard tolerates a few minutes of lag
func (s *service) GetDashboardAnalytics(ctx context.Context) (*DashboardAnalytics, error) {
	var dashboard DashboardAnalytics
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_DASHBOARD, constants.TTL_DASHBOARD, func() (interface{}, error) {
		return s.buildDashboard(ctx)
	}, &dashboard)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard analytics: %w", err)
	}
	return &dashboard, nil
}

func (s *service) buildDashboard(ctx context.Context) (*DashboardAnalytics, error) {
	now := s.now()

	overview, err := s.repo.GetOverviewMetrics(ctx, now)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.GetBookingOverview(ctx)
	if err != nil {
		return nil, err
	}
	transportOverview, err := s.repo.GetTransportOverview(ctx)
	if err != nil {
		return nil, err
	}
	notificationOverview, err := s.repo.GetNotificationOverview(ctx)
	if err != nil {
		return nil, err
	}
	content, err := s.repo.GetContentOverview(ctx)
	if err != nil {
		return nil, err
	}
	topEvents, err := s.repo.GetTopEvents(ctx, dashboardTopLimit)
	if err != nil {
		return nil, err
	}
	topRoutes, err := s.repo.GetTopRoutes(ctx, dashboardTopLimit)
	if err != nil {
		return nil, err
	}
	trend, err := s.revenueTrend(ctx, dashboardTrendDays, now)
	if err != nil {
		return nil, err
	}

	return &DashboardAnalytics{
		Overview:      *overview,
		Bookings:      *bookings,
		Transport:     *transportOverview,
		Notifications: *notificationOverview,
		Content:       *content,
		TopEvents:     nonNil(topEvents),
		TopRoutes:     nonNil(topRoutes),
		RevenueTrend:  trend,
		GeneratedAt:   now,
	}, nil
}

func (s *service) GetBookingAnalytics(ctx context.Context) (*BookingOverview, error) {
	overview, err := s.repo.GetBookingOverview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking analytics: %w", err)
	}
	return overview, nil
}

func (s *service) GetRevenueTrend(ctx context.Context, days int) ([]DailyMetric, error) {
	if days < 1 {
		days = dashboardTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}
	trend, err := s.revenueTrend(ctx, days, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue trend: %w", err)
	}
	return trend, nil
}

func (s *service) revenueTrend(ctx context.Context, days int, now time.Time) ([]DailyMetric, error) {
	since := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, -(days - 1))
	rows, err := s.repo.GetDailyRevenue(ctx, since)
	if err != nil {
		return nil, err
	}
	return fillDailySeries(rows, days, now), nil
}

func (s *service) GetTopEvents(ctx context.Context, limit int) ([]EventPerformance, error) {
	rows, err := s.repo.GetTopEvents(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get top events: %w", err)
	}
	return nonNil(rows), nil
}

func (s *service) GetTopRoutes(ctx context.Context, limit int) ([]RoutePerformance, error) {
	rows, err := s.repo.GetTopRoutes(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get top routes: %w", err)
	}
	return nonNil(rows), nil
}

func (s *service) GetPersonalAnalytics(ctx context.Context, userID uuid.UUID) (*PersonalAnalytics, error) {
	personal, err := s.repo.GetPersonalAnalytics(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get personal analytics: %w", err)
	}
	return personal, nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return dashboardTopLimit
	}
	if limit > 50 {
		return 50
	}
	return limit
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
