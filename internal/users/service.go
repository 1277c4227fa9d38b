package users

import (
	"context"
	"fmt"

	"ticketera/internal/shared/listing"

	"github.com/google/uuid"
)

type Service interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error)
	ListProfiles(ctx context.Context, q ProfileListQuery) (listing.Page[ProfileResponse], error)
	SetRoles(ctx context.Context, id uuid.UUID, roles []string) (*ProfileResponse, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileResponse, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := profile.ToResponse()
	return &resp, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	updates := make(map[string]interface{})
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) == 0 {
		return s.GetProfile(ctx, id)
	}

	profile, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	resp := profile.ToResponse()
	return &resp, nil
}

func (s *service) ListProfiles(ctx context.Context, q ProfileListQuery) (listing.Page[ProfileResponse], error) {
	q.Normalize()
	profiles, total, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[ProfileResponse]{}, fmt.Errorf("failed to list profiles: %w", err)
	}
	page := listing.NewPage(profiles, total, q.Query)
	return listing.Map(page, Profile.ToResponse), nil
}

func (s *service) SetRoles(ctx context.Context, id uuid.UUID, roles []string) (*ProfileResponse, error) {
	granted := make([]Role, 0, len(roles))
	seen := make(map[string]bool, len(roles))
	for _, r := range roles {
		if !IsValidRole(r) {
			return nil, fmt.Errorf("invalid role: %s", r)
		}
		if !seen[r] {
			seen[r] = true
			granted = append(granted, Role(r))
		}
	}

	if err := s.repo.SetRoles(ctx, id, granted); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}

func (s *service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
