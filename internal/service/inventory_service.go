package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/aggregate"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/metrics"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/repository"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

const defaultHistoryDays = 30

// RecordResult is returned after an intake or distribution commits.
type RecordResult struct {
	Transaction domain.Transaction       `json:"transaction"`
	Snapshot    domain.InventorySnapshot `json:"snapshot"`
	Outcome     *aggregate.Outcome       `json:"outcome,omitempty"`
	Version     int64                    `json:"version"`
}

type InventoryService struct {
	store   repository.InventoryStore
	configs *ConfigService
	metrics *metrics.Collector
	now     func() time.Time
}

func NewInventoryService(store repository.InventoryStore, configs *ConfigService, collector *metrics.Collector) *InventoryService {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &InventoryService{
		store:   store,
		configs: configs,
		metrics: collector,
		now:     time.Now,
	}
}

// RecordIntake validates tx, converts its lines to pounds and adds them to
// the user's inventory.
func (s *InventoryService) RecordIntake(ctx context.Context, userID string, tx domain.Transaction) (*RecordResult, error) {
	tx.Kind = domain.KindIntake
	deltas, err := s.prepare(ctx, userID, &tx)
	if err != nil {
		return nil, err
	}

	m, version, err := s.store.Commit(ctx, userID, func(cur domain.InventorySnapshot) (repository.Mutation, error) {
		archived := tx
		archived.CategoryTotals = deltas
		archived.TotalWeight = deltas.Total()

		return repository.Mutation{
			Snapshot:    aggregate.ApplyIntake(cur, deltas),
			Transaction: &archived,
			Activity:    s.activity(userID, archived),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("commit intake: %w", err)
	}

	s.metrics.ObserveTransaction(domain.KindIntake, m.Transaction.CategoryTotals)
	log.Info().
		Str("user_id", userID).
		Str("kind", string(domain.KindIntake)).
		Float64("weight", m.Transaction.TotalWeight).
		Int64("version", version).
		Msg("inventory: intake recorded")

	return &RecordResult{Transaction: *m.Transaction, Snapshot: m.Snapshot, Version: version}, nil
}

// RecordDistribution validates tx and removes its lines from inventory.
// Categories asked for more than they hold are clamped at zero and reported
// in the outcome; the archived totals are the pounds actually removed.
func (s *InventoryService) RecordDistribution(ctx context.Context, userID string, tx domain.Transaction) (*RecordResult, error) {
	tx.Kind = domain.KindDistribution
	deltas, err := s.prepare(ctx, userID, &tx)
	if err != nil {
		return nil, err
	}

	var outcome aggregate.Outcome
	m, version, err := s.store.Commit(ctx, userID, func(cur domain.InventorySnapshot) (repository.Mutation, error) {
		var next domain.InventorySnapshot
		next, outcome = aggregate.ApplyDistribution(cur, deltas)

		archived := tx
		archived.CategoryTotals = outcome.Applied
		archived.TotalWeight = outcome.Applied.Total()

		return repository.Mutation{
			Snapshot:    next,
			Transaction: &archived,
			Activity:    s.activity(userID, archived),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("commit distribution: %w", err)
	}

	s.metrics.ObserveTransaction(domain.KindDistribution, outcome.Applied)
	for c, short := range outcome.Shortfall {
		s.metrics.ObserveUnfilled(c, short.Unfilled)
	}

	event := log.Info()
	if outcome.Clamped() {
		event = log.Warn().Float64("unfilled", outcome.Unfilled())
	}
	event.
		Str("user_id", userID).
		Str("kind", string(domain.KindDistribution)).
		Float64("weight", m.Transaction.TotalWeight).
		Int64("version", version).
		Msg("inventory: distribution recorded")

	return &RecordResult{Transaction: *m.Transaction, Snapshot: m.Snapshot, Outcome: &outcome, Version: version}, nil
}

// prepare validates tx, fills its identity fields and resolves each line's
// category, returning the per-category pounds.
func (s *InventoryService) prepare(ctx context.Context, userID string, tx *domain.Transaction) (aggregate.Deltas, error) {
	if err := aggregate.ValidateTransaction(*tx); err != nil {
		return nil, err
	}

	conv, err := s.configs.Converter(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load unit config: %w", err)
	}

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = s.now()
	}

	items := make([]domain.TransactionItem, len(tx.Items))
	for i, item := range tx.Items {
		item.Category = aggregate.CategoryFor(item)
		items[i] = item
	}
	tx.Items = items

	return aggregate.DeltasFor(items, conv), nil
}

func (s *InventoryService) activity(userID string, tx domain.Transaction) *domain.ActivityEntry {
	weight := units.FormatWithUnit(tx.TotalWeight, domain.UnitPound)

	var summary string
	switch tx.Kind {
	case domain.KindIntake:
		summary = "Received " + weight
		if tx.Donor != "" {
			summary += " from " + tx.Donor
		}
	default:
		summary = "Distributed " + weight
		if tx.Recipient != "" {
			summary += " to " + tx.Recipient
		}
		if tx.ClientsServed > 0 {
			summary += fmt.Sprintf(" (%d clients)", tx.ClientsServed)
		}
	}

	return &domain.ActivityEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      tx.Kind,
		Summary:   summary,
		Weight:    tx.TotalWeight,
		CreatedAt: s.now(),
	}
}

// Snapshot returns the user's current inventory and state version.
func (s *InventoryService) Snapshot(ctx context.Context, userID string) (domain.InventorySnapshot, int64, error) {
	return s.store.GetSnapshot(ctx, userID)
}

// Activity returns the newest activity entries first.
func (s *InventoryService) Activity(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error) {
	entries, err := s.store.ListActivity(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make([]domain.ActivityEntry, 0)
	}
	return entries, nil
}

// History returns transactions of kind from the last days, oldest first.
func (s *InventoryService) History(ctx context.Context, userID string, kind domain.TransactionKind, days int) ([]domain.Transaction, error) {
	if days <= 0 {
		days = defaultHistoryDays
	}
	since := s.now().AddDate(0, 0, -days)

	txs, err := s.store.ListTransactions(ctx, userID, kind, since)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = make([]domain.Transaction, 0)
	}
	return txs, nil
}
