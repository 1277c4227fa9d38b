package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketera/internal/venues"
	"ticketera/pkg/cache"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	Repository
	createFn  func(ctx context.Context, event *Event) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*Event, error)
	saveFn    func(ctx context.Context, event *Event) error
	listFn    func(ctx context.Context, q EventListQuery) ([]Event, int64, error)
}

func (m *mockRepository) Create(ctx context.Context, event *Event) error {
	return m.createFn(ctx, event)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockRepository) Save(ctx context.Context, event *Event) error {
	return m.saveFn(ctx, event)
}

func (m *mockRepository) List(ctx context.Context, q EventListQuery) ([]Event, int64, error) {
	return m.listFn(ctx, q)
}

type venueLookupFunc func(ctx context.Context, id uuid.UUID) (*venues.Venue, error)

func (f venueLookupFunc) GetVenue(ctx context.Context, id uuid.UUID) (*venues.Venue, error) {
	return f(ctx, id)
}

func limaVenue(id uuid.UUID) *venues.Venue {
	return &venues.Venue{ID: id, Name: "Teatro Municipal", City: "Lima", Capacity: 800}
}

func TestCreateEvent_DerivesLocationFromVenue(t *testing.T) {
	venueID := uuid.New()
	repo := &mockRepository{
		createFn: func(_ context.Context, e *Event) error {
			e.ID = uuid.New()
			return nil
		},
	}
	lookup := venueLookupFunc(func(_ context.Context, id uuid.UUID) (*venues.Venue, error) {
		return limaVenue(id), nil
	})
	start := time.Date(2026, 11, 20, 20, 0, 0, 0, time.UTC)

	resp, err := NewService(repo, lookup, cache.NewMemoryService()).CreateEvent(context.Background(), CreateEventRequest{
		Title:     "Concierto de Rock",
		VenueID:   venueID.String(),
		Category:  "music",
		StartDate: start,
		EndDate:   start.Add(3 * time.Hour),
		MinPrice:  decimal.NewFromInt(100),
		MaxPrice:  decimal.NewFromInt(350),
	})

	require.NoError(t, err)
	assert.Equal(t, "Lima", resp.Location)
	assert.Equal(t, "Teatro Municipal", resp.VenueName)
	assert.Equal(t, StatusActive, resp.Status)
}

func TestCreateEvent_Validation(t *testing.T) {
	start := time.Date(2026, 11, 20, 20, 0, 0, 0, time.UTC)
	lookup := venueLookupFunc(func(_ context.Context, id uuid.UUID) (*venues.Venue, error) {
		return limaVenue(id), nil
	})
	repo := &mockRepository{
		createFn: func(context.Context, *Event) error {
			t.Fatal("repository must not be called")
			return nil
		},
	}
	svc := NewService(repo, lookup, cache.NewMemoryService())

	_, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		Title: "Backwards", VenueID: uuid.NewString(), Category: "music",
		StartDate: start, EndDate: start.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.CreateEvent(context.Background(), CreateEventRequest{
		Title: "Cheap max", VenueID: uuid.NewString(), Category: "music",
		StartDate: start, EndDate: start,
		MinPrice: decimal.NewFromInt(200), MaxPrice: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestCreateEvent_UnknownVenue(t *testing.T) {
	lookup := venueLookupFunc(func(context.Context, uuid.UUID) (*venues.Venue, error) {
		return nil, venues.ErrVenueNotFound
	})

	_, err := NewService(&mockRepository{}, lookup, cache.NewMemoryService()).CreateEvent(context.Background(), CreateEventRequest{
		Title: "Orphan", VenueID: uuid.NewString(), Category: "music",
	})
	assert.ErrorIs(t, err, venues.ErrVenueNotFound)
}

func TestUpdateEvent_PartialFields(t *testing.T) {
	id := uuid.New()
	start := time.Date(2026, 12, 1, 19, 0, 0, 0, time.UTC)
	stored := Event{ID: id, Title: "Old", Category: "theatre", StartDate: start, EndDate: start, Status: StatusActive}
	repo := &mockRepository{
		getByIDFn: func(context.Context, uuid.UUID) (*Event, error) {
			e := stored
			return &e, nil
		},
		saveFn: func(_ context.Context, e *Event) error {
			stored = *e
			return nil
		},
	}
	title := "Hamlet"
	status := string(StatusSoldOut)

	resp, err := NewService(repo, nil, cache.NewMemoryService()).UpdateEvent(context.Background(), id, UpdateEventRequest{Title: &title, Status: &status})

	require.NoError(t, err)
	assert.Equal(t, "Hamlet", resp.Title)
	assert.Equal(t, StatusSoldOut, resp.Status)
	assert.Equal(t, "theatre", stored.Category)
}

func TestListEvents_ErrorAndEmptyStates(t *testing.T) {
	failing := &mockRepository{
		listFn: func(context.Context, EventListQuery) ([]Event, int64, error) {
			return nil, 0, errors.New("timeout")
		},
	}
	_, err := NewService(failing, nil, cache.NewMemoryService()).ListEvents(context.Background(), EventListQuery{})
	assert.Error(t, err)

	empty := &mockRepository{
		listFn: func(context.Context, EventListQuery) ([]Event, int64, error) {
			return nil, 0, nil
		},
	}
	page, err := NewService(empty, nil, cache.NewMemoryService()).ListEvents(context.Background(), EventListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}
