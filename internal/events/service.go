package events

import (
	"context"
	"fmt"
	"log/slog"

	"ticketera/internal/shared/constants"
	"ticketera/internal/shared/listing"
	"ticketera/internal/venues"
	"ticketera/pkg/cache"
	"ticketera/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	ListEvents(ctx context.Context, q EventListQuery) (listing.Page[EventResponse], error)
	ListActiveEvents(ctx context.Context) ([]Event, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
}

// VenueLookup is the part of the venue service events depend on
type VenueLookup interface {
	GetVenue(ctx context.Context, id uuid.UUID) (*venues.Venue, error)
}

type service struct {
	repo   Repository
	venues VenueLookup
	cache  cache.Service
	log    *logger.Logger
}

func NewService(repo Repository, venueLookup VenueLookup, cacheService cache.Service) Service {
	return &service{
		repo:   repo,
		venues: venueLookup,
		cache:  cacheService,
		log:    logger.GetDefault().WithComponent("events"),
	}
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error) {
	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue id: %w", err)
	}
	venue, err := s.venues.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	event := &Event{
		Title:       req.Title,
		Description: req.Description,
		VenueID:     venueID,
		Artist:      req.Artist,
		Category:    req.Category,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		Status:      StatusActive,
		Rating:      req.Rating,
		Featured:    req.Featured,
		ImageURL:    req.ImageURL,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	event.Venue = venue
	s.invalidateCatalogue(ctx)

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	var resp EventResponse
	err := s.cache.GetOrSet(ctx, constants.BuildEventDetailKey(id.String()), constants.TTL_EVENT_DETAIL, func() (interface{}, error) {
		event, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return event.ToResponse(), nil
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.VenueID != nil {
		venueID, err := uuid.Parse(*req.VenueID)
		if err != nil {
			return nil, fmt.Errorf("invalid venue id: %w", err)
		}
		venue, err := s.venues.GetVenue(ctx, venueID)
		if err != nil {
			return nil, err
		}
		event.VenueID = venueID
		event.Venue = venue
	}
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Artist != nil {
		event.Artist = *req.Artist
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.MinPrice != nil {
		event.MinPrice = *req.MinPrice
	}
	if req.MaxPrice != nil {
		event.MaxPrice = *req.MaxPrice
	}
	if req.Status != nil {
		event.Status = Status(*req.Status)
	}
	if req.Rating != nil {
		event.Rating = *req.Rating
	}
	if req.Featured != nil {
		event.Featured = *req.Featured
	}
	if req.ImageURL != nil {
		event.ImageURL = *req.ImageURL
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	s.invalidate(ctx, id)

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *service) ListEvents(ctx context.Context, q EventListQuery) (listing.Page[EventResponse], error) {
	q.Normalize()
	events, total, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[EventResponse]{}, fmt.Errorf("failed to list events: %w", err)
	}
	return listing.Map(listing.NewPage(events, total, q.Query), Event.ToResponse), nil
}

func (s *service) ListActiveEvents(ctx context.Context) ([]Event, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *service) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, constants.BuildEventDetailKey(id.String())); err != nil {
		s.log.Warn("failed to invalidate event cache", slog.String("event_id", id.String()), slog.Any("error", err))
	}
	s.invalidateCatalogue(ctx)
}

func (s *service) invalidateCatalogue(ctx context.Context) {
	if err := s.cache.Delete(ctx, constants.CACHE_KEY_SEARCH); err != nil {
		s.log.Warn("failed to invalidate search catalogue", slog.Any("error", err))
	}
}
