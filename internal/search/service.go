package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ticketera/internal/events"
	"ticketera/internal/shared/constants"
	"ticketera/internal/transport"
	"ticketera/pkg/cache"
	"ticketera/pkg/logger"
)

type Service interface {
	Search(ctx context.Context, q Query) (*Response, error)
	Catalogue(ctx context.Context) ([]Result, error)
}

type EventCatalogue interface {
	ListActiveEvents(ctx context.Context) ([]events.Event, error)
}

type RouteCatalogue interface {
	ListActiveRoutes(ctx context.Context) ([]transport.Route, error)
}

type service struct {
	events EventCatalogue
	routes RouteCatalogue
	cache  cache.Service
	ttl    time.Duration
	log    *logger.Logger
}

func NewService(eventCatalogue EventCatalogue, routeCatalogue RouteCatalogue, cacheService cache.Service, ttl time.Duration) Service {
	return &service{
		events: eventCatalogue,
		routes: routeCatalogue,
		cache:  cacheService,
		ttl:    ttl,
		log:    logger.GetDefault().WithComponent("search"),
	}
}

func (s *service) Search(ctx context.Context, q Query) (*Response, error) {
	catalogue, err := s.Catalogue(ctx)
	if err != nil {
		return nil, err
	}

	results := Filter(catalogue, q)
	Sort(results, SortBy(q.Sort))

	return &Response{
		Results: results,
		Total:   len(results),
		Facets:  BuildFacets(catalogue),
	}, nil
}

// Catalogue is every active event and route, events first
func (s *service) Catalogue(ctx context.Context) ([]Result, error) {
	var results []Result
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_SEARCH, s.ttl, func() (interface{}, error) {
		return s.load(ctx)
	}, &results)
	if err != nil {
		return nil, fmt.Errorf("failed to load search catalogue: %w", err)
	}
	return results, nil
}

func (s *service) load(ctx context.Context) ([]Result, error) {
	activeEvents, err := s.events.ListActiveEvents(ctx)
	if err != nil {
		return nil, err
	}
	activeRoutes, err := s.routes.ListActiveRoutes(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(activeEvents)+len(activeRoutes))
	for _, e := range activeEvents {
		results = append(results, FromEvent(e))
	}
	for _, r := range activeRoutes {
		results = append(results, FromRoute(r))
	}
	s.log.Debug("search catalogue loaded", slog.Int("events", len(activeEvents)), slog.Int("routes", len(activeRoutes)))
	return results, nil
}
