package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/aggregate"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/alerts"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/cache"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/compliance"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/metrics"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/repository"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

// DashboardService recomputes compliance and alerts from the current state.
// Views are cached per state version, so a cached view never outlives the
// state it was built from.
type DashboardService struct {
	inventory   repository.InventoryStore
	configs     *ConfigService
	cache       cache.DashboardCache
	metrics     *metrics.Collector
	historyDays int
}

func NewDashboardService(inventory repository.InventoryStore, configs *ConfigService, cacheImpl cache.DashboardCache, collector *metrics.Collector, historyDays int) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	if historyDays <= 0 {
		historyDays = defaultHistoryDays
	}
	return &DashboardService{
		inventory:   inventory,
		configs:     configs,
		cache:       cacheImpl,
		metrics:     collector,
		historyDays: historyDays,
	}
}

// Dashboard returns the compliance report and alert feed for userID as of now.
func (s *DashboardService) Dashboard(ctx context.Context, userID string, now time.Time) (*domain.Dashboard, error) {
	start := time.Now()

	snapshot, version, err := s.inventory.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	key := cache.DashboardKey{UserID: userID, Version: version, Date: now}
	if view, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		s.metrics.ObserveCache(true)
		return view, nil
	} else if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("dashboard: cache get failed")
	}
	s.metrics.ObserveCache(false)

	var (
		settings domain.Settings
		goals    domain.GoalTable
		conv     *units.Converter
		history  []domain.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, err = s.configs.Settings(gctx, userID)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		goals, err = goalsFor(settings)
		return err
	})
	g.Go(func() error {
		var err error
		conv, err = s.configs.Converter(gctx, userID)
		if err != nil {
			return fmt.Errorf("load unit config: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		since := now.AddDate(0, 0, -s.historyDays)
		history, err = s.inventory.ListTransactions(gctx, userID, domain.KindDistribution, since)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	outgoing := aggregate.ComputeOutgoingMetrics(history, now)
	report := compliance.NewEvaluator(goals, settings.TargetCapacity).Evaluate(snapshot)
	feed := alerts.NewEngine(goals, conv).Evaluate(alerts.Input{
		Snapshot:       snapshot,
		TargetCapacity: settings.TargetCapacity,
		Metrics:        outgoing,
		Now:            now,
	})
	if feed == nil {
		feed = make([]domain.Alert, 0)
	}

	total := snapshot.Total()
	view := &domain.Dashboard{
		Snapshot:       snapshot,
		TotalWeight:    total,
		TargetCapacity: settings.TargetCapacity,
		Utilization:    100 * total / settings.TargetCapacity,
		Compliance:     report,
		BalanceScore:   report.Summary(),
		Metrics:        outgoing,
		Alerts:         feed,
		Version:        version,
		GeneratedAt:    now,
	}

	if err := s.cache.Set(ctx, key, view); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("dashboard: cache set failed")
	}
	s.metrics.ObserveAlerts(feed)
	s.metrics.ObserveDashboardBuild(time.Since(start))

	return view, nil
}

// EvaluateItems runs the item-level rules over a caller-supplied detailed
// inventory, converting with the user's weight tables.
func (s *DashboardService) EvaluateItems(ctx context.Context, userID string, items []domain.TrackedItem, now time.Time) ([]domain.Alert, error) {
	conv, err := s.configs.Converter(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load unit config: %w", err)
	}
	goals, err := s.configs.Goals(ctx, userID)
	if err != nil {
		return nil, err
	}

	feed := alerts.NewEngine(goals, conv).Evaluate(alerts.Input{Items: items, Now: now})
	if feed == nil {
		feed = make([]domain.Alert, 0)
	}
	s.metrics.ObserveAlerts(feed)
	return feed, nil
}
