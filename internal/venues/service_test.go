package venues

import (
	"context"
	"errors"
	"testing"

	"ticketera/pkg/cache"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	Repository
	createFn  func(ctx context.Context, venue *Venue) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*Venue, error)
	saveFn    func(ctx context.Context, venue *Venue) error
	listFn    func(ctx context.Context, q VenueListQuery) ([]Venue, int64, error)
}

func (m *mockRepository) Create(ctx context.Context, venue *Venue) error {
	return m.createFn(ctx, venue)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockRepository) Save(ctx context.Context, venue *Venue) error {
	return m.saveFn(ctx, venue)
}

func (m *mockRepository) List(ctx context.Context, q VenueListQuery) ([]Venue, int64, error) {
	return m.listFn(ctx, q)
}

func section(name string, rows, perRow int, price int64) SeatingSection {
	return SeatingSection{Name: name, Category: CategoryGeneral, Rows: rows, SeatsPerRow: perRow, Price: decimal.NewFromInt(price)}
}

func TestVenueValidate(t *testing.T) {
	tests := []struct {
		name    string
		venue   Venue
		wantErr error
	}{
		{
			name:  "fits capacity",
			venue: Venue{Capacity: 100, SeatingMap: SeatingMap{Sections: []SeatingSection{section("A", 5, 10, 100), section("B", 5, 10, 150)}}},
		},
		{
			name:    "over capacity",
			venue:   Venue{Capacity: 99, SeatingMap: SeatingMap{Sections: []SeatingSection{section("A", 10, 10, 100)}}},
			wantErr: ErrCapacityExceeded,
		},
		{
			name:    "duplicate section",
			venue:   Venue{Capacity: 100, SeatingMap: SeatingMap{Sections: []SeatingSection{section("A", 1, 1, 1), section("A", 1, 1, 1)}}},
			wantErr: ErrInvalidSection,
		},
		{
			name:    "negative price",
			venue:   Venue{Capacity: 100, SeatingMap: SeatingMap{Sections: []SeatingSection{section("A", 1, 1, -5)}}},
			wantErr: ErrInvalidSection,
		},
		{
			name:    "rows above limit",
			venue:   Venue{Capacity: 1_000_000, SeatingMap: SeatingMap{Sections: []SeatingSection{section("A", MaxRows+1, 1, 10)}}},
			wantErr: ErrInvalidSection,
		},
		{
			name:    "seat count would overflow",
			venue:   Venue{Capacity: 100, SeatingMap: SeatingMap{Sections: []SeatingSection{section("A", 3, 3074457345618258603, 10)}}},
			wantErr: ErrInvalidSection,
		},
		{
			name:  "no map",
			venue: Venue{Capacity: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.venue.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateVenue_RejectsOversizedMap(t *testing.T) {
	repo := &mockRepository{
		createFn: func(context.Context, *Venue) error {
			t.Fatal("repository must not be called")
			return nil
		},
	}

	_, err := NewService(repo, cache.NewMemoryService()).CreateVenue(context.Background(), CreateVenueRequest{
		Name:     "Teatro Municipal",
		Address:  "Jr. Ica 377",
		City:     "Lima",
		Capacity: 10,
		Sections: []SeatingSectionRequest{{Name: "Platea", Category: "platea", Rows: 4, SeatsPerRow: 5}},
	})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestGetVenue_CachesDetail(t *testing.T) {
	id := uuid.New()
	calls := 0
	repo := &mockRepository{
		getByIDFn: func(context.Context, uuid.UUID) (*Venue, error) {
			calls++
			return &Venue{ID: id, Name: "Estadio Nacional", City: "Lima", Capacity: 45000}, nil
		},
	}
	svc := NewService(repo, cache.NewMemoryService())

	for i := 0; i < 3; i++ {
		venue, err := svc.GetVenue(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "Estadio Nacional", venue.Name)
	}
	assert.Equal(t, 1, calls)
}

func TestGetVenue_NotFound(t *testing.T) {
	repo := &mockRepository{
		getByIDFn: func(context.Context, uuid.UUID) (*Venue, error) {
			return nil, ErrVenueNotFound
		},
	}

	_, err := NewService(repo, cache.NewMemoryService()).GetVenue(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestUpdateVenue_InvalidatesCache(t *testing.T) {
	id := uuid.New()
	stored := Venue{ID: id, Name: "Arena Lima", City: "Lima", Capacity: 500}
	repo := &mockRepository{
		getByIDFn: func(context.Context, uuid.UUID) (*Venue, error) {
			v := stored
			return &v, nil
		},
		saveFn: func(_ context.Context, v *Venue) error {
			stored = *v
			return nil
		},
	}
	svc := NewService(repo, cache.NewMemoryService())

	_, err := svc.GetVenue(context.Background(), id)
	require.NoError(t, err)

	name := "Arena Callao"
	_, err = svc.UpdateVenue(context.Background(), id, UpdateVenueRequest{Name: &name})
	require.NoError(t, err)

	venue, err := svc.GetVenue(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Arena Callao", venue.Name)
}

func TestListVenues_ErrorState(t *testing.T) {
	repo := &mockRepository{
		listFn: func(context.Context, VenueListQuery) ([]Venue, int64, error) {
			return nil, 0, errors.New("db down")
		},
	}

	_, err := NewService(repo, cache.NewMemoryService()).ListVenues(context.Background(), VenueListQuery{})
	assert.Error(t, err)
}

func TestListVenues_EmptyState(t *testing.T) {
	repo := &mockRepository{
		listFn: func(context.Context, VenueListQuery) ([]Venue, int64, error) {
			return nil, 0, nil
		},
	}

	page, err := NewService(repo, cache.NewMemoryService()).ListVenues(context.Background(), VenueListQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.NotNil(t, page.Items)
}
