package transport

import (
	"context"
	"fmt"
	"log/slog"

	"ticketera/internal/shared/constants"
	"ticketera/internal/shared/listing"
	"ticketera/pkg/cache"
	"ticketera/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service interface {
	CreateCompany(ctx context.Context, req CreateCompanyRequest) (*Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*Company, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, req UpdateCompanyRequest) (*Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	ListCompanies(ctx context.Context, q CompanyListQuery) (listing.Page[Company], error)
	GetCompanyStats(ctx context.Context, id uuid.UUID) (*CompanyStats, error)

	CreateRoute(ctx context.Context, req CreateRouteRequest) (*Route, error)
	GetRoute(ctx context.Context, id uuid.UUID) (*Route, error)
	UpdateRoute(ctx context.Context, id uuid.UUID, req UpdateRouteRequest) (*Route, error)
	DeleteRoute(ctx context.Context, id uuid.UUID) error
	ListRoutes(ctx context.Context, q RouteListQuery) (listing.Page[Route], error)
	ListActiveRoutes(ctx context.Context) ([]Route, error)

	ReserveSeats(ctx context.Context, routeID uuid.UUID, count int) error
	ReleaseSeats(ctx context.Context, routeID uuid.UUID, count int) error
	RecordSale(ctx context.Context, routeID uuid.UUID, amount decimal.Decimal) error
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   logger.GetDefault().WithComponent("transport"),
	}
}

//  COMPANIES

func (s *service) CreateCompany(ctx context.Context, req CreateCompanyRequest) (*Company, error) {
	company := &Company{
		Name:         req.Name,
		Rating:       req.Rating,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Website:      req.Website,
	}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return company, nil
}

func (s *service) GetCompany(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.repo.GetCompany(ctx, id)
}

func (s *service) UpdateCompany(ctx context.Context, id uuid.UUID, req UpdateCompanyRequest) (*Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Rating != nil {
		company.Rating = *req.Rating
	}
	if req.ContactEmail != nil {
		company.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		company.ContactPhone = *req.ContactPhone
	}
	if req.Website != nil {
		company.Website = *req.Website
	}

	if err := s.repo.SaveCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	s.invalidateAll(ctx)
	return company, nil
}

func (s *service) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCompany(ctx, id)
}

func (s *service) ListCompanies(ctx context.Context, q CompanyListQuery) (listing.Page[Company], error) {
	q.Normalize()
	companies, total, err := s.repo.ListCompanies(ctx, q)
	if err != nil {
		return listing.Page[Company]{}, fmt.Errorf("failed to list companies: %w", err)
	}
	return listing.NewPage(companies, total, q.Query), nil
}

func (s *service) GetCompanyStats(ctx context.Context, id uuid.UUID) (*CompanyStats, error) {
	if _, err := s.repo.GetCompany(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.CompanyStats(ctx, id)
}

//  ROUTES

func (s *service) CreateRoute(ctx context.Context, req CreateRouteRequest) (*Route, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company id: %w", err)
	}
	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	available := req.TotalSeats
	if req.AvailableSeats != nil {
		available = *req.AvailableSeats
	}

	route := &Route{
		CompanyID:      companyID,
		Origin:         req.Origin,
		Destination:    req.Destination,
		VehicleType:    VehicleType(req.VehicleType),
		VehicleClass:   req.VehicleClass,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		MinPrice:       req.MinPrice,
		MaxPrice:       req.MaxPrice,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: available,
		Amenities:      normalizeAmenities(req.Amenities),
		Status:         RouteActive,
		Rating:         req.Rating,
		Revenue:        decimal.Zero,
	}
	route.deriveDuration()
	if err := route.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateRoute(ctx, route); err != nil {
		return nil, fmt.Errorf("failed to create route: %w", err)
	}
	route.Company = company
	s.invalidateCatalogue(ctx)
	return route, nil
}

func (s *service) GetRoute(ctx context.Context, id uuid.UUID) (*Route, error) {
	var route Route
	err := s.cache.GetOrSet(ctx, constants.BuildRouteDetailKey(id.String()), constants.TTL_ROUTE_DETAIL, func() (interface{}, error) {
		return s.repo.GetRoute(ctx, id)
	}, &route)
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (s *service) UpdateRoute(ctx context.Context, id uuid.UUID, req UpdateRouteRequest) (*Route, error) {
	route, err := s.repo.GetRoute(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Origin != nil {
		route.Origin = *req.Origin
	}
	if req.Destination != nil {
		route.Destination = *req.Destination
	}
	if req.VehicleType != nil {
		route.VehicleType = VehicleType(*req.VehicleType)
	}
	if req.VehicleClass != nil {
		route.VehicleClass = *req.VehicleClass
	}
	if req.DepartureTime != nil {
		route.DepartureTime = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		route.ArrivalTime = *req.ArrivalTime
	}
	if req.MinPrice != nil {
		route.MinPrice = *req.MinPrice
	}
	if req.MaxPrice != nil {
		route.MaxPrice = *req.MaxPrice
	}
	if req.TotalSeats != nil {
		route.TotalSeats = *req.TotalSeats
	}
	if req.AvailableSeats != nil {
		route.AvailableSeats = *req.AvailableSeats
	}
	if req.Amenities != nil {
		route.Amenities = normalizeAmenities(req.Amenities)
	}
	if req.Status != nil {
		route.Status = RouteStatus(*req.Status)
	}
	if req.Rating != nil {
		route.Rating = *req.Rating
	}
	route.deriveDuration()
	if err := route.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.SaveRoute(ctx, route); err != nil {
		return nil, fmt.Errorf("failed to update route: %w", err)
	}
	s.invalidateRoute(ctx, id)
	return route, nil
}

func (s *service) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteRoute(ctx, id); err != nil {
		return err
	}
	s.invalidateRoute(ctx, id)
	return nil
}

func (s *service) ListRoutes(ctx context.Context, q RouteListQuery) (listing.Page[Route], error) {
	q.Normalize()
	routes, total, err := s.repo.ListRoutes(ctx, q)
	if err != nil {
		return listing.Page[Route]{}, fmt.Errorf("failed to list routes: %w", err)
	}
	return listing.NewPage(routes, total, q.Query), nil
}

func (s *service) ListActiveRoutes(ctx context.Context) ([]Route, error) {
	return s.repo.ListActiveRoutes(ctx)
}

func (s *service) ReserveSeats(ctx context.Context, routeID uuid.UUID, count int) error {
	if err := s.repo.ReserveSeats(ctx, routeID, count); err != nil {
		return err
	}
	s.invalidateRoute(ctx, routeID)
	return nil
}

func (s *service) ReleaseSeats(ctx context.Context, routeID uuid.UUID, count int) error {
	if err := s.repo.ReleaseSeats(ctx, routeID, count); err != nil {
		return err
	}
	s.invalidateRoute(ctx, routeID)
	return nil
}

func (s *service) RecordSale(ctx context.Context, routeID uuid.UUID, amount decimal.Decimal) error {
	if err := s.repo.RecordSale(ctx, routeID, amount); err != nil {
		return err
	}
	s.invalidateRoute(ctx, routeID)
	return nil
}

func (s *service) invalidateRoute(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, constants.BuildRouteDetailKey(id.String())); err != nil {
		s.log.Warn("failed to invalidate route cache", slog.String("route_id", id.String()), slog.Any("error", err))
	}
	s.invalidateCatalogue(ctx)
}

// company edits change every cached route's embedded company
func (s *service) invalidateAll(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_TRANSPORT_ALL); err != nil {
		s.log.Warn("failed to invalidate transport cache", slog.Any("error", err))
	}
	s.invalidateCatalogue(ctx)
}

func (s *service) invalidateCatalogue(ctx context.Context) {
	if err := s.cache.Delete(ctx, constants.CACHE_KEY_SEARCH); err != nil {
		s.log.Warn("failed to invalidate search catalogue", slog.Any("error", err))
	}
}

func normalizeAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
