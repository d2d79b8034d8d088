// internal/service/reward_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"tutor-ledger/internal/domain"
	"tutor-ledger/internal/repository"
	"tutor-ledger/internal/util"
)

// RewardService translates domain events into wallet credits. Reward
// amounts come from coin_configuration at call time, never cached, so an
// admin edit applies to the very next grant. Every grant pins its
// reference id to the event identity, which makes re-delivery of the same
// event a no-op.
type RewardService interface {
	CourseCompletion(ctx context.Context, studentID int64, courseID string) (*domain.Wallet, *domain.CoinTransaction, error)
	Referral(ctx context.Context, studentID, referredStudentID int64, overrideAmount *int64) (*domain.Wallet, *domain.CoinTransaction, error)
	RegistrationBonus(ctx context.Context, studentID int64) (*domain.Wallet, *domain.CoinTransaction, error)
}

// rewardService implements the RewardService interface.
type rewardService struct {
	dbExecutor repository.DBExecutor
	configRepo repository.ConfigRepository
	ledger     LedgerService
	logger     *slog.Logger
}

// NewRewardService creates a new instance of RewardService.
func NewRewardService(
	dbExecutor repository.DBExecutor,
	configRepo repository.ConfigRepository,
	ledger LedgerService,
	logger *slog.Logger,
) RewardService {
	return &rewardService{
		dbExecutor: dbExecutor,
		configRepo: configRepo,
		ledger:     ledger,
		logger:     logger,
	}
}

// CourseCompletion grants the configured course-completion reward, keyed
// on the course id so a re-triggered completion never double-grants.
func (s *rewardService) CourseCompletion(ctx context.Context, studentID int64, courseID string) (*domain.Wallet, *domain.CoinTransaction, error) {
	if courseID == "" {
		return nil, nil, fmt.Errorf("course id is required: %w", util.ErrInvalidInput)
	}

	amount, err := s.configRepo.GetValue(ctx, s.dbExecutor, domain.ConfigKeyCourseCompletion)
	if err != nil {
		return nil, nil, err
	}

	description := fmt.Sprintf("Course completion reward for course %s", courseID)
	return s.ledger.Credit(ctx, CreditParams{
		StudentID:   studentID,
		Amount:      amount,
		Type:        domain.TransactionTypeCourseCompletion,
		ReferenceID: &courseID,
		Description: &description,
	})
}

// Referral grants the configured referral reward, keyed on the referred
// student. An explicit override amount wins over the configured value.
func (s *rewardService) Referral(ctx context.Context, studentID, referredStudentID int64, overrideAmount *int64) (*domain.Wallet, *domain.CoinTransaction, error) {
	if referredStudentID == 0 {
		return nil, nil, fmt.Errorf("referred student id is required: %w", util.ErrInvalidInput)
	}

	amount := int64(0)
	if overrideAmount != nil {
		amount = *overrideAmount
	} else {
		configured, err := s.configRepo.GetValue(ctx, s.dbExecutor, domain.ConfigKeyReferral)
		if err != nil {
			return nil, nil, err
		}
		amount = configured
	}

	referenceID := strconv.FormatInt(referredStudentID, 10)
	description := fmt.Sprintf("Referral reward for referring student %d", referredStudentID)
	return s.ledger.Credit(ctx, CreditParams{
		StudentID:   studentID,
		Amount:      amount,
		Type:        domain.TransactionTypeReferral,
		ReferenceID: &referenceID,
		Description: &description,
	})
}

// RegistrationBonus grants the configured one-time signup bonus, keyed on
// the student's own id.
func (s *rewardService) RegistrationBonus(ctx context.Context, studentID int64) (*domain.Wallet, *domain.CoinTransaction, error) {
	amount, err := s.configRepo.GetValue(ctx, s.dbExecutor, domain.ConfigKeyRegistration)
	if err != nil {
		return nil, nil, err
	}

	referenceID := strconv.FormatInt(studentID, 10)
	description := "Registration bonus"
	return s.ledger.Credit(ctx, CreditParams{
		StudentID:   studentID,
		Amount:      amount,
		Type:        domain.TransactionTypeRegistration,
		ReferenceID: &referenceID,
		Description: &description,
	})
}
