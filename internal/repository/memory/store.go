// Package memory is an in-process implementation of the repository
// interfaces, used by tests and the CLI.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/repository"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

const defaultActivityLimit = 50

type userState struct {
	snapshot     domain.InventorySnapshot
	version      int64
	transactions []domain.Transaction
	activity     []domain.ActivityEntry
	unitConfig   domain.UnitConfig
	settings     *domain.Settings
}

// Store keeps every user's state in a map guarded by one mutex.
type Store struct {
	mu            sync.Mutex
	users         map[string]*userState
	activityLimit int
}

// NewStore creates an empty store. activityLimit bounds each user's log.
func NewStore(activityLimit int) *Store {
	if activityLimit <= 0 {
		activityLimit = defaultActivityLimit
	}
	return &Store{
		users:         make(map[string]*userState),
		activityLimit: activityLimit,
	}
}

var (
	_ repository.InventoryStore = (*Store)(nil)
	_ repository.ConfigStore    = (*Store)(nil)
)

func (s *Store) user(userID string) *userState {
	u, ok := s.users[userID]
	if !ok {
		u = &userState{snapshot: domain.NewInventorySnapshot()}
		s.users[userID] = u
	}
	return u
}

func (s *Store) GetSnapshot(ctx context.Context, userID string) (domain.InventorySnapshot, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	return u.snapshot.Clone(), u.version, nil
}

func (s *Store) Commit(ctx context.Context, userID string, fn repository.CommitFunc) (repository.Mutation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return repository.Mutation{}, 0, err
	}

	u := s.user(userID)
	m, err := fn(u.snapshot.Clone())
	if err != nil {
		return repository.Mutation{}, u.version, err
	}

	if m.Snapshot != nil {
		u.snapshot = m.Snapshot.Clone()
	}
	if m.Transaction != nil {
		u.transactions = append(u.transactions, *m.Transaction)
	}
	if m.Activity != nil {
		u.activity = append([]domain.ActivityEntry{*m.Activity}, u.activity...)
		if len(u.activity) > s.activityLimit {
			u.activity = u.activity[:s.activityLimit]
		}
	}
	u.version++

	return m, u.version, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID string, kind domain.TransactionKind, since time.Time) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Transaction
	for _, tx := range s.user(userID).transactions {
		if kind != "" && tx.Kind != kind {
			continue
		}
		if tx.Timestamp.Before(since) {
			continue
		}
		out = append(out, tx)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (s *Store) ListActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity := s.user(userID).activity
	if limit > 0 && limit < len(activity) {
		activity = activity[:limit]
	}
	return append([]domain.ActivityEntry(nil), activity...), nil
}

func (s *Store) GetUnitConfig(ctx context.Context, userID string) (domain.UnitConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	if u.unitConfig == nil {
		return nil, domain.ErrNotFound
	}
	return units.Clone(u.unitConfig), nil
}

func (s *Store) SaveUnitConfig(ctx context.Context, userID string, cfg domain.UnitConfig) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	u.unitConfig = units.Clone(cfg)
	u.version++
	return u.version, nil
}

func (s *Store) GetSettings(ctx context.Context, userID string) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	if u.settings == nil {
		return domain.Settings{}, domain.ErrNotFound
	}
	return *u.settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, userID string, settings domain.Settings) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	u.settings = &settings
	u.version++
	return u.version, nil
}
