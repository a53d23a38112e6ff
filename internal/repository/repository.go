// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
)

// Mutation is the result of a read-modify-write on a user's inventory.
type Mutation struct {
	Snapshot    domain.InventorySnapshot
	Transaction *domain.Transaction
	Activity    *domain.ActivityEntry
}

// CommitFunc computes a mutation from the current snapshot. Returning an
// error aborts the commit.
type CommitFunc func(current domain.InventorySnapshot) (Mutation, error)

// InventoryStore persists snapshots, archived transactions and the activity
// log. Every write bumps the user's state version.
type InventoryStore interface {
	GetSnapshot(ctx context.Context, userID string) (domain.InventorySnapshot, int64, error)
	// Commit runs fn against the current snapshot and stores its result
	// atomically. Writes for one user are serialized.
	Commit(ctx context.Context, userID string, fn CommitFunc) (Mutation, int64, error)
	// ListTransactions returns archived transactions at or after since,
	// oldest first. An empty kind matches both kinds.
	ListTransactions(ctx context.Context, userID string, kind domain.TransactionKind, since time.Time) ([]domain.Transaction, error)
	// ListActivity returns the newest entries first.
	ListActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error)
}

// ConfigStore persists per-user unit weights and settings. Getters return
// domain.ErrNotFound when the user has not saved a value.
type ConfigStore interface {
	GetUnitConfig(ctx context.Context, userID string) (domain.UnitConfig, error)
	SaveUnitConfig(ctx context.Context, userID string, cfg domain.UnitConfig) (int64, error)
	GetSettings(ctx context.Context, userID string) (domain.Settings, error)
	SaveSettings(ctx context.Context, userID string, s domain.Settings) (int64, error)
}
