// internal/service/reward_service_test.go
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

// rewardFixture bundles a reward service wired to fresh mocks.
type rewardFixture struct {
	service    RewardService
	configRepo *MockConfigRepository
	ledger     *MockLedgerService
}

func newRewardFixture() *rewardFixture {
	f := &rewardFixture{
		configRepo: new(MockConfigRepository),
		ledger:     new(MockLedgerService),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = NewRewardService(nil, f.configRepo, f.ledger, logger)
	return f
}

func TestCourseCompletion(t *testing.T) {
	ctx := context.Background()

	t.Run("GrantsConfiguredAmountKeyedOnCourse", func(t *testing.T) {
		f := newRewardFixture()
		wallet := &domain.Wallet{ID: 1, StudentID: 42, Balance: 100}
		entry := &domain.CoinTransaction{ID: 7, Amount: 100, Type: domain.TransactionTypeCourseCompletion}

		f.configRepo.On("GetValue", ctx, mock.Anything, domain.ConfigKeyCourseCompletion).Return(int64(100), nil).Once()
		f.ledger.On("Credit", ctx, mock.MatchedBy(func(p CreditParams) bool {
			return p.StudentID == 42 &&
				p.Amount == 100 &&
				p.Type == domain.TransactionTypeCourseCompletion &&
				p.ReferenceID != nil && *p.ReferenceID == "course-12"
		})).Return(wallet, entry, nil).Once()

		resWallet, resEntry, err := f.service.CourseCompletion(ctx, 42, "course-12")

		require.NoError(t, err)
		assert.Equal(t, wallet, resWallet)
		assert.Equal(t, entry, resEntry)
		mock.AssertExpectationsForObjects(t, f.configRepo, f.ledger)
	})

	t.Run("ConfigEditAppliesToNextGrant", func(t *testing.T) {
		f := newRewardFixture()

		f.configRepo.On("GetValue", ctx, mock.Anything, domain.ConfigKeyCourseCompletion).Return(int64(100), nil).Once()
		f.configRepo.On("GetValue", ctx, mock.Anything, domain.ConfigKeyCourseCompletion).Return(int64(250), nil).Once()
		f.ledger.On("Credit", ctx, mock.MatchedBy(func(p CreditParams) bool { return p.Amount == 100 })).
			Return(&domain.Wallet{}, &domain.CoinTransaction{}, nil).Once()
		f.ledger.On("Credit", ctx, mock.MatchedBy(func(p CreditParams) bool { return p.Amount == 250 })).
			Return(&domain.Wallet{}, &domain.CoinTransaction{}, nil).Once()

		_, _, err := f.service.CourseCompletion(ctx, 42, "course-1")
		require.NoError(t, err)
		_, _, err = f.service.CourseCompletion(ctx, 42, "course-2")
		require.NoError(t, err)
		mock.AssertExpectationsForObjects(t, f.configRepo, f.ledger)
	})

	t.Run("MissingCourseID", func(t *testing.T) {
		f := newRewardFixture()

		_, _, err := f.service.CourseCompletion(ctx, 42, "")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		f.configRepo.AssertNotCalled(t, "GetValue", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReferral(t *testing.T) {
	ctx := context.Background()

	t.Run("GrantsConfiguredAmount", func(t *testing.T) {
		f := newRewardFixture()

		f.configRepo.On("GetValue", ctx, mock.Anything, domain.ConfigKeyReferral).Return(int64(50), nil).Once()
		f.ledger.On("Credit", ctx, mock.MatchedBy(func(p CreditParams) bool {
			return p.Amount == 50 &&
				p.Type == domain.TransactionTypeReferral &&
				p.ReferenceID != nil && *p.ReferenceID == "314"
		})).Return(&domain.Wallet{}, &domain.CoinTransaction{}, nil).Once()

		_, _, err := f.service.Referral(ctx, 42, 314, nil)

		require.NoError(t, err)
		mock.AssertExpectationsForObjects(t, f.configRepo, f.ledger)
	})

	t.Run("OverrideAmountSkipsConfig", func(t *testing.T) {
		f := newRewardFixture()
		override := int64(75)

		f.ledger.On("Credit", ctx, mock.MatchedBy(func(p CreditParams) bool { return p.Amount == 75 })).
			Return(&domain.Wallet{}, &domain.CoinTransaction{}, nil).Once()

		_, _, err := f.service.Referral(ctx, 42, 314, &override)

		require.NoError(t, err)
		f.configRepo.AssertNotCalled(t, "GetValue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingReferredStudent", func(t *testing.T) {
		f := newRewardFixture()

		_, _, err := f.service.Referral(ctx, 42, 0, nil)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})
}

func TestRegistrationBonus(t *testing.T) {
	ctx := context.Background()

	f := newRewardFixture()

	f.configRepo.On("GetValue", ctx, mock.Anything, domain.ConfigKeyRegistration).Return(int64(10), nil).Once()
	f.ledger.On("Credit", ctx, mock.MatchedBy(func(p CreditParams) bool {
		// Keyed on the student id, so re-delivered registration events
		// collapse into the first grant.
		return p.Amount == 10 &&
			p.Type == domain.TransactionTypeRegistration &&
			p.ReferenceID != nil && *p.ReferenceID == "42"
	})).Return(&domain.Wallet{}, &domain.CoinTransaction{}, nil).Once()

	_, _, err := f.service.RegistrationBonus(ctx, 42)

	require.NoError(t, err)
	mock.AssertExpectationsForObjects(t, f.configRepo, f.ledger)
}
