package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/repository"
)

type configRepository struct {
	db *DB
}

// NewConfigRepository keeps unit weights and settings as JSONB columns on
// user_state.
func NewConfigRepository(db *DB) repository.ConfigStore {
	return &configRepository{db: db}
}

func (r *configRepository) GetUnitConfig(ctx context.Context, userID string) (domain.UnitConfig, error) {
	var cfg domain.UnitConfig
	if err := r.getJSON(ctx, "unit_config", userID, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *configRepository) SaveUnitConfig(ctx context.Context, userID string, cfg domain.UnitConfig) (int64, error) {
	return r.saveJSON(ctx, "unit_config", userID, cfg)
}

func (r *configRepository) GetSettings(ctx context.Context, userID string) (domain.Settings, error) {
	var s domain.Settings
	if err := r.getJSON(ctx, "settings", userID, &s); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}

func (r *configRepository) SaveSettings(ctx context.Context, userID string, s domain.Settings) (int64, error) {
	return r.saveJSON(ctx, "settings", userID, s)
}

// column is always one of the two literals above.
func (r *configRepository) getJSON(ctx context.Context, column, userID string, dst interface{}) error {
	var raw []byte
	query := fmt.Sprintf(`SELECT %s FROM user_state WHERE user_id = $1`, column)
	if err := r.db.GetContext(ctx, &raw, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return fmt.Errorf("error getting %s: %w", column, err)
	}
	if len(raw) == 0 {
		return domain.ErrNotFound
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", column, err)
	}
	return nil
}

func (r *configRepository) saveJSON(ctx context.Context, column, userID string, value interface{}) (int64, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s: %w", column, err)
	}

	var version int64
	err = r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		query := fmt.Sprintf(`
			UPDATE user_state
			SET %s = $2, version = version + 1, updated_at = NOW()
			WHERE user_id = $1
			RETURNING version
		`, column)
		if err := tx.QueryRowContext(ctx, query, userID, encoded).Scan(&version); err != nil {
			return fmt.Errorf("failed to save %s: %w", column, err)
		}
		return nil
	})
	return version, err
}
