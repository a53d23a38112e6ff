package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/repository"
)

const defaultActivityLimit = 50

type inventoryRepository struct {
	db            *DB
	activityLimit int
}

// NewInventoryRepository stores snapshots in user_state and archives
// transactions and activity in their own tables.
func NewInventoryRepository(db *DB, activityLimit int) repository.InventoryStore {
	if activityLimit <= 0 {
		activityLimit = defaultActivityLimit
	}
	return &inventoryRepository{db: db, activityLimit: activityLimit}
}

func (r *inventoryRepository) GetSnapshot(ctx context.Context, userID string) (domain.InventorySnapshot, int64, error) {
	var row struct {
		Snapshot []byte `db:"snapshot"`
		Version  int64  `db:"version"`
	}

	query := `SELECT snapshot, version FROM user_state WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return domain.NewInventorySnapshot(), 0, nil
		}
		return nil, 0, fmt.Errorf("error getting snapshot: %w", err)
	}

	snap, err := decodeSnapshot(row.Snapshot)
	if err != nil {
		return nil, 0, err
	}
	return snap, row.Version, nil
}

func (r *inventoryRepository) Commit(ctx context.Context, userID string, fn repository.CommitFunc) (repository.Mutation, int64, error) {
	var (
		m       repository.Mutation
		version int64
	)

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		// 1. Lock the user's row, creating it on first write
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}

		var raw []byte
		if err := tx.QueryRowContext(ctx,
			`SELECT snapshot FROM user_state WHERE user_id = $1 FOR UPDATE`, userID,
		).Scan(&raw); err != nil {
			return fmt.Errorf("failed to lock snapshot: %w", err)
		}

		current, err := decodeSnapshot(raw)
		if err != nil {
			return err
		}

		// 2. Compute the new state
		m, err = fn(current)
		if err != nil {
			return err
		}
		if m.Snapshot == nil {
			m.Snapshot = current
		}

		// 3. Replace the snapshot
		encoded, err := json.Marshal(m.Snapshot)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		if err := tx.QueryRowContext(ctx, `
			UPDATE user_state
			SET snapshot = $2, version = version + 1, updated_at = NOW()
			WHERE user_id = $1
			RETURNING version
		`, userID, encoded).Scan(&version); err != nil {
			return fmt.Errorf("failed to update snapshot: %w", err)
		}

		// 4. Archive the transaction
		if m.Transaction != nil {
			if err := insertTransaction(ctx, tx, userID, m.Transaction); err != nil {
				return err
			}
		}

		// 5. Append to the bounded activity log
		if m.Activity != nil {
			if err := r.appendActivity(ctx, tx, userID, m.Activity); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return repository.Mutation{}, 0, err
	}

	return m, version, nil
}

func (r *inventoryRepository) ListTransactions(ctx context.Context, userID string, kind domain.TransactionKind, since time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT payload
		FROM inventory_transactions
		WHERE user_id = $1
		  AND ($2::text = '' OR kind = $2::text)
		  AND occurred_at >= $3
		ORDER BY occurred_at ASC
	`

	var payloads [][]byte
	if err := r.db.SelectContext(ctx, &payloads, query, userID, string(kind), since); err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}

	out := make([]domain.Transaction, 0, len(payloads))
	for _, p := range payloads {
		var tx domain.Transaction
		if err := json.Unmarshal(p, &tx); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *inventoryRepository) ListActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error) {
	if limit <= 0 || limit > r.activityLimit {
		limit = r.activityLimit
	}

	query := `
		SELECT id, user_id, kind, summary, weight, created_at
		FROM activity_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var entries []domain.ActivityEntry
	if err := r.db.SelectContext(ctx, &entries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("error listing activity: %w", err)
	}
	return entries, nil
}

func (r *inventoryRepository) appendActivity(ctx context.Context, tx *sql.Tx, userID string, entry *domain.ActivityEntry) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO activity_log (id, user_id, kind, summary, weight, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, userID, entry.Kind, entry.Summary, entry.Weight, entry.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM activity_log
		WHERE user_id = $1
		  AND id NOT IN (
			SELECT id FROM activity_log
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		  )
	`, userID, r.activityLimit); err != nil {
		return fmt.Errorf("failed to trim activity: %w", err)
	}

	return nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, userID string, t *domain.Transaction) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO inventory_transactions (id, user_id, kind, occurred_at, total_weight, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, userID, t.Kind, t.Timestamp, t.TotalWeight, payload); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func ensureUser(ctx context.Context, tx *sql.Tx, userID string) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_state (user_id, created_at)
		VALUES ($1, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func decodeSnapshot(raw []byte) (domain.InventorySnapshot, error) {
	snap := domain.InventorySnapshot{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &snap); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
	}
	return snap.Clone(), nil
}
