// internal/repository/postgres/config_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tutor-ledger/internal/domain"
	"tutor-ledger/internal/repository"
	"tutor-ledger/internal/util"
)

// ConfigRepository implements repository.ConfigRepository for PostgreSQL.
type ConfigRepository struct{}

// NewConfigRepository creates a new ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepository{}
}

const configColumns = `id, key, value, description, updated_by, created_at, updated_at`

// GetValue retrieves the current value for a key.
func (r *ConfigRepository) GetValue(ctx context.Context, q repository.DBExecutor, key string) (int64, error) {
	var value int64
	query := `SELECT value FROM coin_configuration WHERE key = $1`
	err := q.GetContext(ctx, &value, query, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("coin configuration %q: %w", key, util.ErrConfigKeyNotFound)
		}
		return 0, fmt.Errorf("failed to get coin configuration %q: %w", key, err)
	}
	return value, nil
}

// Get retrieves the full configuration row for a key.
func (r *ConfigRepository) Get(ctx context.Context, q repository.DBExecutor, key string) (*domain.CoinConfig, error) {
	var cfg domain.CoinConfig
	query := `SELECT ` + configColumns + ` FROM coin_configuration WHERE key = $1`
	err := q.GetContext(ctx, &cfg, query, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("coin configuration %q: %w", key, util.ErrConfigKeyNotFound)
		}
		return nil, fmt.Errorf("failed to get coin configuration %q: %w", key, err)
	}
	return &cfg, nil
}

// List retrieves all configuration rows ordered by key.
func (r *ConfigRepository) List(ctx context.Context, q repository.DBExecutor) ([]domain.CoinConfig, error) {
	configs := []domain.CoinConfig{}
	query := `SELECT ` + configColumns + ` FROM coin_configuration ORDER BY key`
	if err := q.SelectContext(ctx, &configs, query); err != nil {
		return nil, fmt.Errorf("failed to list coin configuration: %w", err)
	}
	return configs, nil
}

// Upsert overwrites a key's value in place, preserving the row identity so
// created_at stays the original insert time.
func (r *ConfigRepository) Upsert(ctx context.Context, q repository.DBExecutor, key string, value int64, description, updatedBy *string) (*domain.CoinConfig, error) {
	var cfg domain.CoinConfig
	query := `INSERT INTO coin_configuration (key, value, description, updated_by)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (key) DO UPDATE
              SET value = EXCLUDED.value,
                  description = COALESCE(EXCLUDED.description, coin_configuration.description),
                  updated_by = EXCLUDED.updated_by,
                  updated_at = NOW()
              RETURNING ` + configColumns
	err := q.QueryRowxContext(ctx, query, key, value, description, updatedBy).StructScan(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert coin configuration %q: %w", key, err)
	}
	return &cfg, nil
}
