package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	Repository
	getByIDFn  func(ctx context.Context, id uuid.UUID) (*Profile, error)
	listFn     func(ctx context.Context, q ProfileListQuery) ([]Profile, int64, error)
	setRolesFn func(ctx context.Context, id uuid.UUID, roles []Role) error
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockRepository) List(ctx context.Context, q ProfileListQuery) ([]Profile, int64, error) {
	return m.listFn(ctx, q)
}

func (m *mockRepository) SetRoles(ctx context.Context, id uuid.UUID, roles []Role) error {
	return m.setRolesFn(ctx, id, roles)
}

func TestRoleNames_DefaultsToUser(t *testing.T) {
	assert.Equal(t, []string{"user"}, Profile{}.RoleNames())
	p := Profile{Roles: []UserRole{{Role: RoleAdmin}, {Role: RoleOperator}}}
	assert.Equal(t, []string{"admin", "operator"}, p.RoleNames())
}

func TestListProfiles_NormalizesAndMaps(t *testing.T) {
	var got ProfileListQuery
	repo := &mockRepository{
		listFn: func(_ context.Context, q ProfileListQuery) ([]Profile, int64, error) {
			got = q
			return []Profile{{ID: uuid.New(), FullName: "Ana Quispe", Email: "ana@example.pe"}}, 1, nil
		},
	}

	page, err := NewService(repo).ListProfiles(context.Background(), ProfileListQuery{})

	require.NoError(t, err)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 10, got.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ana Quispe", page.Items[0].FullName)
	assert.Equal(t, []string{"user"}, page.Items[0].Roles)
}

func TestListProfiles_ErrorIsNotEmpty(t *testing.T) {
	repo := &mockRepository{
		listFn: func(context.Context, ProfileListQuery) ([]Profile, int64, error) {
			return nil, 0, errors.New("connection refused")
		},
	}

	_, err := NewService(repo).ListProfiles(context.Background(), ProfileListQuery{})
	assert.ErrorContains(t, err, "connection refused")
}

func TestSetRoles(t *testing.T) {
	id := uuid.New()
	var stored []Role
	repo := &mockRepository{
		setRolesFn: func(_ context.Context, _ uuid.UUID, roles []Role) error {
			stored = roles
			return nil
		},
		getByIDFn: func(context.Context, uuid.UUID) (*Profile, error) {
			p := &Profile{ID: id}
			for _, r := range stored {
				p.Roles = append(p.Roles, UserRole{Role: r})
			}
			return p, nil
		},
	}
	svc := NewService(repo)

	resp, err := svc.SetRoles(context.Background(), id, []string{"operator", "operator", "admin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"operator", "admin"}, resp.Roles)

	_, err = svc.SetRoles(context.Background(), id, []string{"superuser"})
	assert.ErrorContains(t, err, "invalid role")
}
