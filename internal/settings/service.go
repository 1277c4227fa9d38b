package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"ticketera/internal/shared/constants"
	"ticketera/pkg/cache"
	"ticketera/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	ListSettings(ctx context.Context) ([]Setting, error)
	GetSetting(ctx context.Context, key string) (*Setting, error)
	Values(ctx context.Context) (map[string]string, error)
	UpsertSetting(ctx context.Context, key string, req UpsertSettingRequest, updatedBy uuid.UUID) (*Setting, error)
	BulkUpdate(ctx context.Context, req BulkUpdateRequest, updatedBy uuid.UUID) ([]Setting, error)
	DeleteSetting(ctx context.Context, key string) error
	EnsureDefaults(ctx context.Context) error
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   logger.GetDefault().WithComponent("settings"),
		now:   time.Now,
	}
}

func (s *service) ListSettings(ctx context.Context) ([]Setting, error) {
	var settings []Setting
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_SETTINGS, constants.TTL_SETTINGS, func() (interface{}, error) {
		rows, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []Setting{}
		}
		return rows, nil
	}, &settings)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

func (s *service) GetSetting(ctx context.Context, key string) (*Setting, error) {
	all, err := s.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	key = normalizeKey(key)
	for i := range all {
		if all[i].Key == key {
			return &all[i], nil
		}
	}
	return nil, ErrSettingNotFound
}

func (s *service) Values(ctx context.Context) (map[string]string, error) {
	all, err := s.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(all))
	for _, setting := range all {
		values[setting.Key] = setting.Value
	}
	return values, nil
}

func (s *service) UpsertSetting(ctx context.Context, key string, req UpsertSettingRequest, updatedBy uuid.UUID) (*Setting, error) {
	key = normalizeKey(key)
	if key == "" {
		return nil, ErrSettingNotFound
	}

	setting := Setting{Key: key}
	existing, err := s.repo.Get(ctx, key)
	switch {
	case err == nil:
		setting = *existing
	case !errors.Is(err, ErrSettingNotFound):
		return nil, err
	}

	setting.Value = req.Value
	if req.Description != nil {
		setting.Description = *req.Description
	}
	setting.UpdatedBy = &updatedBy
	setting.UpdatedAt = s.now()

	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to save setting: %w", err)
	}
	s.invalidate(ctx)
	s.log.Info("setting updated", slog.String("key", key), slog.String("updated_by", updatedBy.String()))
	return &setting, nil
}

// BulkUpdate saves the configuration screen in one write
func (s *service) BulkUpdate(ctx context.Context, req BulkUpdateRequest, updatedBy uuid.UUID) ([]Setting, error) {
	current, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	descriptions := make(map[string]string, len(current))
	for _, setting := range current {
		descriptions[setting.Key] = setting.Description
	}

	now := s.now()
	updated := make([]Setting, 0, len(req.Values))
	for key, value := range req.Values {
		key = normalizeKey(key)
		if key == "" {
			continue
		}
		updated = append(updated, Setting{
			Key:         key,
			Value:       value,
			Description: descriptions[key],
			UpdatedBy:   &updatedBy,
			UpdatedAt:   now,
		})
	}
	sort.Slice(updated, func(i, j int) bool { return updated[i].Key < updated[j].Key })

	if err := s.repo.Upsert(ctx, updated...); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *service) DeleteSetting(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, normalizeKey(key)); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// EnsureDefaults inserts missing default keys and leaves edited ones alone
func (s *service) EnsureDefaults(ctx context.Context) error {
	current, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(current))
	for _, setting := range current {
		present[setting.Key] = true
	}

	var missing []Setting
	for _, setting := range Defaults() {
		if !present[setting.Key] {
			setting.UpdatedAt = s.now()
			missing = append(missing, setting)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if err := s.repo.Upsert(ctx, missing...); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, constants.CACHE_KEY_SETTINGS); err != nil {
		s.log.Warn("failed to invalidate settings cache", slog.Any("error", err))
	}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
