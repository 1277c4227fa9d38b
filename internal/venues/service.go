package venues

import (
	"context"
	"fmt"
	"log/slog"

	"ticketera/internal/shared/constants"
	"ticketera/internal/shared/listing"
	"ticketera/pkg/cache"
	"ticketera/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreateVenue(ctx context.Context, req CreateVenueRequest) (*Venue, error)
	GetVenue(ctx context.Context, id uuid.UUID) (*Venue, error)
	UpdateVenue(ctx context.Context, id uuid.UUID, req UpdateVenueRequest) (*Venue, error)
	DeleteVenue(ctx context.Context, id uuid.UUID) error
	ListVenues(ctx context.Context, q VenueListQuery) (listing.Page[Venue], error)
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
		log:   logger.GetDefault().WithComponent("venues"),
	}
}

func (s *service) CreateVenue(ctx context.Context, req CreateVenueRequest) (*Venue, error) {
	venue := &Venue{
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		Capacity:   req.Capacity,
		SeatingMap: toSeatingMap(req.Sections),
	}
	if err := venue.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}
	return venue, nil
}

func (s *service) GetVenue(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	err := s.cache.GetOrSet(ctx, constants.BuildVenueDetailKey(id.String()), constants.TTL_VENUE_DETAIL, func() (interface{}, error) {
		return s.repo.GetByID(ctx, id)
	}, &venue)
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (s *service) UpdateVenue(ctx context.Context, id uuid.UUID, req UpdateVenueRequest) (*Venue, error) {
	venue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		venue.Name = *req.Name
	}
	if req.Address != nil {
		venue.Address = *req.Address
	}
	if req.City != nil {
		venue.City = *req.City
	}
	if req.Capacity != nil {
		venue.Capacity = *req.Capacity
	}
	if req.Sections != nil {
		venue.SeatingMap = toSeatingMap(req.Sections)
	}
	if err := venue.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to update venue: %w", err)
	}
	s.invalidate(ctx, id)
	return venue, nil
}

func (s *service) DeleteVenue(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *service) ListVenues(ctx context.Context, q VenueListQuery) (listing.Page[Venue], error) {
	q.Normalize()
	venues, total, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[Venue]{}, fmt.Errorf("failed to list venues: %w", err)
	}
	return listing.NewPage(venues, total, q.Query), nil
}

func (s *service) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, constants.BuildVenueDetailKey(id.String())); err != nil {
		s.log.Warn("failed to invalidate venue cache", slog.String("venue_id", id.String()), slog.Any("error", err))
	}
	// event details and search results embed the venue name and city
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENT_ALL); err != nil {
		s.log.Warn("failed to invalidate event cache", slog.Any("error", err))
	}
	if err := s.cache.Delete(ctx, constants.CACHE_KEY_SEARCH); err != nil {
		s.log.Warn("failed to invalidate search cache", slog.Any("error", err))
	}
}
