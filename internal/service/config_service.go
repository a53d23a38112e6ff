package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/cache"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/category"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/repository"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
	"github.com/rs/zerolog/log"
)

// ConfigService manages per-user unit weights and evaluation settings.
type ConfigService struct {
	store    repository.ConfigStore
	defaults domain.Settings
	cache    cache.DashboardCache
}

func NewConfigService(store repository.ConfigStore, defaults domain.Settings, cacheImpl cache.DashboardCache) *ConfigService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	if validateSettings(defaults) != nil {
		defaults = domain.DefaultSettings()
	}
	return &ConfigService{store: store, defaults: defaults, cache: cacheImpl}
}

// Converter builds a converter from the user's latest saved weights.
func (s *ConfigService) Converter(ctx context.Context, userID string) (*units.Converter, error) {
	cfg, err := s.store.GetUnitConfig(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return units.DefaultConverter(), nil
	}
	if err != nil {
		return nil, err
	}

	conv, err := units.NewConverter(cfg)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("config: stored unit config invalid, using defaults")
		return units.DefaultConverter(), nil
	}
	return conv, nil
}

// UnitConfig returns the effective weight tables, defaults included.
func (s *ConfigService) UnitConfig(ctx context.Context, userID string) (domain.UnitConfig, error) {
	conv, err := s.Converter(ctx, userID)
	if err != nil {
		return nil, err
	}
	return conv.Config(), nil
}

// UpdateUnitConfig validates and replaces the user's weight tables.
func (s *ConfigService) UpdateUnitConfig(ctx context.Context, userID string, cfg domain.UnitConfig) (domain.UnitConfig, error) {
	conv, err := units.NewConverter(cfg)
	if err != nil {
		return nil, err
	}
	return s.saveUnitConfig(ctx, userID, conv.Config())
}

// SetUnitWeight changes one weight. An empty category sets the unit's base
// weight, otherwise the category override.
func (s *ConfigService) SetUnitWeight(ctx context.Context, userID string, unit domain.UnitType, c domain.Category, weight float64) (domain.UnitConfig, error) {
	current, err := s.UnitConfig(ctx, userID)
	if err != nil {
		return nil, err
	}

	var next domain.UnitConfig
	if c == "" {
		next, err = units.WithBaseWeight(current, unit, weight)
	} else {
		next, err = units.WithWeight(current, unit, c, weight)
	}
	if err != nil {
		return nil, err
	}
	return s.saveUnitConfig(ctx, userID, next)
}

func (s *ConfigService) saveUnitConfig(ctx context.Context, userID string, cfg domain.UnitConfig) (domain.UnitConfig, error) {
	version, err := s.store.SaveUnitConfig(ctx, userID, cfg)
	if err != nil {
		return nil, fmt.Errorf("save unit config: %w", err)
	}
	s.invalidate(ctx, userID)

	log.Info().Str("user_id", userID).Int64("version", version).Msg("config: unit config updated")
	return cfg, nil
}

// Settings returns the user's settings or the configured defaults.
func (s *ConfigService) Settings(ctx context.Context, userID string) (domain.Settings, error) {
	settings, err := s.store.GetSettings(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// UpdateSettings validates and stores new settings.
func (s *ConfigService) UpdateSettings(ctx context.Context, userID string, settings domain.Settings) (domain.Settings, error) {
	if err := validateSettings(settings); err != nil {
		return domain.Settings{}, err
	}

	version, err := s.store.SaveSettings(ctx, userID, settings)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	s.invalidate(ctx, userID)

	log.Info().Str("user_id", userID).Int64("version", version).Msg("config: settings updated")
	return settings, nil
}

// Goals returns the default MyPlate goals with the user's tolerance.
func (s *ConfigService) Goals(ctx context.Context, userID string) (domain.GoalTable, error) {
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return domain.GoalTable{}, err
	}
	return goalsFor(settings)
}

func goalsFor(settings domain.Settings) (domain.GoalTable, error) {
	return category.NewGoalTable(category.DefaultGoalTable().Percentages, settings.Tolerance)
}

// invalidate drops the user's cached views ahead of their TTL.
func (s *ConfigService) invalidate(ctx context.Context, userID string) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("config: cache invalidate failed")
	}
}

func validateSettings(s domain.Settings) error {
	if math.IsNaN(s.TargetCapacity) || math.IsInf(s.TargetCapacity, 0) || s.TargetCapacity <= 0 {
		return fmt.Errorf("%w: target capacity must be positive, got %v", domain.ErrInvalidConfig, s.TargetCapacity)
	}
	if math.IsNaN(s.Tolerance) || math.IsInf(s.Tolerance, 0) || s.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be non-negative, got %v", domain.ErrInvalidConfig, s.Tolerance)
	}
	return nil
}
