// internal/repository/config_repo.go
package repository

import (
	"context"

	"tutor-ledger/internal/domain"
)

// ConfigRepository defines the interface for the coin configuration
// key/value store. Values are read live so admin edits apply immediately.
type ConfigRepository interface {
	// GetValue retrieves the current value for a key.
	GetValue(ctx context.Context, q DBExecutor, key string) (int64, error)
	// Get retrieves the full configuration row for a key.
	Get(ctx context.Context, q DBExecutor, key string) (*domain.CoinConfig, error)
	// List retrieves all configuration rows.
	List(ctx context.Context, q DBExecutor) ([]domain.CoinConfig, error)
	// Upsert overwrites a key's value in place, stamping the editor.
	Upsert(ctx context.Context, q DBExecutor, key string, value int64, description, updatedBy *string) (*domain.CoinConfig, error)
}
