// internal/service/config_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"tutor-ledger/internal/domain"
	"tutor-ledger/internal/repository"
	"tutor-ledger/internal/util"

	"github.com/jmoiron/sqlx"
)

// ConfigService exposes the coin configuration store to admin callers.
type ConfigService interface {
	List(ctx context.Context) ([]domain.CoinConfig, error)
	Get(ctx context.Context, key string) (*domain.CoinConfig, error)
	Update(ctx context.Context, key string, value int64, description *string, updatedBy string) (*domain.CoinConfig, error)
}

// configService implements the ConfigService interface.
type configService struct {
	dbExecutor repository.DBExecutor
	runner     TxRunner
	configRepo repository.ConfigRepository
	logger     *slog.Logger
}

// NewConfigService creates a new instance of ConfigService.
func NewConfigService(
	dbExecutor repository.DBExecutor,
	runner TxRunner,
	configRepo repository.ConfigRepository,
	logger *slog.Logger,
) ConfigService {
	return &configService{
		dbExecutor: dbExecutor,
		runner:     runner,
		configRepo: configRepo,
		logger:     logger,
	}
}

// List returns all configuration rows.
func (s *configService) List(ctx context.Context) ([]domain.CoinConfig, error) {
	return s.configRepo.List(ctx, s.dbExecutor)
}

// Get returns one configuration row.
func (s *configService) Get(ctx context.Context, key string) (*domain.CoinConfig, error) {
	if key == "" {
		return nil, fmt.Errorf("configuration key is required: %w", util.ErrInvalidInput)
	}
	return s.configRepo.Get(ctx, s.dbExecutor, key)
}

// Update overwrites a key's value in place. The next reward grant reads
// the new value immediately.
func (s *configService) Update(ctx context.Context, key string, value int64, description *string, updatedBy string) (*domain.CoinConfig, error) {
	if key == "" {
		return nil, fmt.Errorf("configuration key is required: %w", util.ErrInvalidInput)
	}
	if value < 0 {
		return nil, fmt.Errorf("configuration value must not be negative: %w", util.ErrInvalidInput)
	}
	if updatedBy == "" {
		return nil, fmt.Errorf("configuration update requires an editor: %w", util.ErrInvalidInput)
	}

	var cfg *domain.CoinConfig
	err := s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		var uerr error
		cfg, uerr = s.configRepo.Upsert(ctx, tx, key, value, description, &updatedBy)
		return uerr
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("coin configuration updated", "key", key, "value", value, "updated_by", updatedBy)
	return cfg, nil
}
