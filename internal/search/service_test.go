package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketera/internal/events"
	"ticketera/internal/transport"
	"ticketera/internal/venues"
	"ticketera/pkg/cache"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventCatalogueFunc func(ctx context.Context) ([]events.Event, error)

func (f eventCatalogueFunc) ListActiveEvents(ctx context.Context) ([]events.Event, error) {
	return f(ctx)
}

type routeCatalogueFunc func(ctx context.Context) ([]transport.Route, error)

func (f routeCatalogueFunc) ListActiveRoutes(ctx context.Context) ([]transport.Route, error) {
	return f(ctx)
}

func TestSearch_BuildsCatalogueOnceAndFilters(t *testing.T) {
	loads := 0
	eventSource := eventCatalogueFunc(func(context.Context) ([]events.Event, error) {
		loads++
		return []events.Event{{
			ID:        uuid.New(),
			Title:     "Concierto de Rock",
			Category:  "music",
			StartDate: time.Date(2026, 12, 5, 20, 0, 0, 0, time.UTC),
			MinPrice:  decimal.NewFromInt(120),
			Venue:     &venues.Venue{City: "Lima"},
		}}, nil
	})
	routeSource := routeCatalogueFunc(func(context.Context) ([]transport.Route, error) {
		return []transport.Route{{
			ID:            uuid.New(),
			Origin:        "Lima",
			Destination:   "Cusco",
			VehicleType:   transport.VehicleBus,
			DepartureTime: time.Date(2026, 12, 6, 8, 0, 0, 0, time.UTC),
			MinPrice:      decimal.NewFromInt(90),
			Amenities:     []string{"wifi"},
			Company:       &transport.Company{Name: "Cruz del Sur"},
		}}, nil
	})
	svc := NewService(eventSource, routeSource, cache.NewMemoryService(), time.Minute)
	ctx := context.Background()

	all, err := svc.Search(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
	assert.Equal(t, []string{"Cusco", "Lima"}, all.Facets.Locations)

	routes, err := svc.Search(ctx, Query{Text: "cruz", Sort: "price_asc"})
	require.NoError(t, err)
	require.Len(t, routes.Results, 1)
	assert.Equal(t, "Lima - Cusco", routes.Results[0].Title)
	assert.Equal(t, TypeTransport, routes.Results[0].Type)

	assert.Equal(t, 1, loads)
}

func TestSearch_SourceFailureIsAnError(t *testing.T) {
	eventSource := eventCatalogueFunc(func(context.Context) ([]events.Event, error) {
		return nil, errors.New("connection refused")
	})
	routeSource := routeCatalogueFunc(func(context.Context) ([]transport.Route, error) {
		return nil, nil
	})

	_, err := NewService(eventSource, routeSource, cache.NewMemoryService(), time.Minute).Search(context.Background(), Query{})

	assert.Error(t, err)
}
