// internal/service/config_service_test.go
package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tutor-ledger/internal/domain"
	"tutor-ledger/internal/util"
)

func newConfigService(configRepo *MockConfigRepository) ConfigService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewConfigService(nil, &fakeTxRunner{}, configRepo, logger)
}

func TestConfigUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessfulUpdate", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		service := newConfigService(configRepo)
		updatedBy := "admin@tutoring.example"

		configRepo.On("Upsert", ctx, mock.Anything, "referral", int64(75), (*string)(nil), &updatedBy).
			Return(&domain.CoinConfig{Key: "referral", Value: 75}, nil).Once()

		cfg, err := service.Update(ctx, "referral", 75, nil, updatedBy)

		require.NoError(t, err)
		assert.Equal(t, int64(75), cfg.Value)
		mock.AssertExpectationsForObjects(t, configRepo)
	})

	t.Run("RejectsNegativeValue", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		service := newConfigService(configRepo)

		_, err := service.Update(ctx, "referral", -5, nil, "admin")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		configRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RequiresEditor", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		service := newConfigService(configRepo)

		_, err := service.Update(ctx, "referral", 75, nil, "")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})
}

func TestConfigGet(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresKey", func(t *testing.T) {
		service := newConfigService(new(MockConfigRepository))

		_, err := service.Get(ctx, "")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("PassesThroughNotFound", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		service := newConfigService(configRepo)

		configRepo.On("Get", ctx, mock.Anything, "bogus").Return(nil, util.ErrConfigKeyNotFound).Once()

		_, err := service.Get(ctx, "bogus")

		assert.ErrorIs(t, err, util.ErrConfigKeyNotFound)
	})
}
