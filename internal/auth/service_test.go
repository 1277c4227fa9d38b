package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"ticketera/internal/shared/config"
	"ticketera/internal/shared/middleware"
	"ticketera/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepository keeps profiles in a map keyed by id.
type memoryRepository struct {
	users.Repository
	profiles map[uuid.UUID]*users.Profile
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{profiles: map[uuid.UUID]*users.Profile{}}
}

func (m *memoryRepository) Create(_ context.Context, p *users.Profile, roles ...users.Role) error {
	p.ID = uuid.New()
	for _, r := range roles {
		p.Roles = append(p.Roles, users.UserRole{UserID: p.ID, Role: r})
	}
	m.profiles[p.ID] = p
	return nil
}

func (m *memoryRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memoryRepository) GetByEmail(_ context.Context, email string) (*users.Profile, error) {
	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*users.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, users.ErrUserNotFound
}

func (m *memoryRepository) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	p, ok := m.profiles[id]
	if !ok {
		return users.ErrUserNotFound
	}
	p.PasswordHash = hash
	return nil
}

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{
		Secret:           "unit-test-secret",
		JWTExpiresIn:     15 * time.Minute,
		RefreshExpiresIn: time.Hour,
	}}
}

func registerAna(t *testing.T, svc Service) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FullName: "Ana Quispe",
		Email:    "Ana@Example.pe",
		Password: "secreto123",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister_IssuesUserSession(t *testing.T) {
	cfg := testConfig()
	svc := NewService(newMemoryRepository(), cfg)

	resp := registerAna(t, svc)

	assert.Equal(t, "ana@example.pe", resp.User.Email)
	assert.Equal(t, []string{"user"}, resp.User.Roles)
	assert.EqualValues(t, 900, resp.ExpiresIn)

	claims, err := middleware.ParseToken(cfg.JWT.Secret, resp.AccessToken)
	require.NoError(t, err)
	session, err := middleware.SessionFromClaims(claims)
	require.NoError(t, err)
	assert.False(t, session.IsAdmin())
	assert.Equal(t, resp.User.ID, session.UserID.String())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewService(newMemoryRepository(), testConfig())
	registerAna(t, svc)

	_, err := svc.Register(context.Background(), &RegisterRequest{FullName: "Otra", Email: "ana@example.pe", Password: "secreto123"})
	assert.ErrorIs(t, err, users.ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc := NewService(newMemoryRepository(), testConfig())
	registerAna(t, svc)

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "ana@example.pe", Password: "secreto123"})
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginRequest{Email: "ana@example.pe", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.pe", Password: "secreto123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken_ReloadsRoles(t *testing.T) {
	repo := newMemoryRepository()
	cfg := testConfig()
	svc := NewService(repo, cfg)
	resp := registerAna(t, svc)

	id := uuid.MustParse(resp.User.ID)
	repo.profiles[id].Roles = []users.UserRole{{Role: users.RoleOperator}}

	pair, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)

	claims, err := middleware.ParseToken(cfg.JWT.Secret, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"operator"}, claims.Roles)

	_, err = svc.RefreshToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	svc := NewService(newMemoryRepository(), testConfig())
	resp := registerAna(t, svc)
	id := uuid.MustParse(resp.User.ID)

	err := svc.ChangePassword(context.Background(), id, &ChangePasswordRequest{CurrentPassword: "bad", NewPassword: "nuevo123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(context.Background(), id, &ChangePasswordRequest{CurrentPassword: "secreto123", NewPassword: "nuevo123"}))
	_, err = svc.Login(context.Background(), &LoginRequest{Email: "ana@example.pe", Password: "nuevo123"})
	assert.NoError(t, err)
}
