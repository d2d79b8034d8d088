// internal/service/payment_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"tutor-ledger/internal/domain"
	"tutor-ledger/internal/metrics"
	"tutor-ledger/internal/provider"
	"tutor-ledger/internal/repository"
	"tutor-ledger/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

// DefaultPaymentExpiry bounds how long an initiated payment stays
// confirmable.
const DefaultPaymentExpiry = 30 * time.Minute

// CreatePaymentParams describes a new payment attempt.
type CreatePaymentParams struct {
	StudentID     int64
	AmountCents   int64 // must be positive
	Currency      string
	PaymentMethod *string
	Description   *string
	Coins         int64 // coins credited on successful confirmation, optional
}

// paymentMetadata is the JSON payload stored on the payment row.
type paymentMetadata struct {
	Coins int64 `json:"coins,omitempty"`
}

// PaymentService manages the payment lifecycle: initiated, then exactly
// one transition to confirmed, failed or expired.
type PaymentService interface {
	CreatePayment(ctx context.Context, p CreatePaymentParams) (*domain.Payment, error)
	// ConfirmPayment applies the provider outcome. It is idempotent: a
	// payment already in a terminal state is returned unchanged no matter
	// how many times confirmation is invoked.
	ConfirmPayment(ctx context.Context, paymentID int64, outcome domain.PaymentOutcome) (*domain.Payment, error)
	GetPayment(ctx context.Context, paymentID int64) (*domain.Payment, error)
	ListForStudent(ctx context.Context, studentID int64, limit, offset int) ([]domain.Payment, int64, error)
}

// paymentService implements the PaymentService interface.
type paymentService struct {
	dbExecutor  repository.DBExecutor
	runner      TxRunner
	paymentRepo repository.PaymentRepository
	ledger      LedgerService
	provider    provider.PaymentProvider
	expiry      time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(
	dbExecutor repository.DBExecutor,
	runner TxRunner,
	paymentRepo repository.PaymentRepository,
	ledger LedgerService,
	paymentProvider provider.PaymentProvider,
	expiry time.Duration,
	logger *slog.Logger,
) PaymentService {
	if expiry <= 0 {
		expiry = DefaultPaymentExpiry
	}
	return &paymentService{
		dbExecutor:  dbExecutor,
		runner:      runner,
		paymentRepo: paymentRepo,
		ledger:      ledger,
		provider:    paymentProvider,
		expiry:      expiry,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
	}
}

// CreatePayment validates the request, asks the provider for an intent and
// inserts the payment in initiated status.
func (s *paymentService) CreatePayment(ctx context.Context, p CreatePaymentParams) (*domain.Payment, error) {
	if p.AmountCents <= 0 {
		return nil, fmt.Errorf("payment amount must be positive: %w", util.ErrInvalidInput)
	}
	if p.Coins < 0 {
		return nil, fmt.Errorf("coin amount must not be negative: %w", util.ErrInvalidInput)
	}
	currency := p.Currency
	if currency == "" {
		currency = "INR"
	}

	intent, err := s.provider.CreateIntent(ctx, p.StudentID, p.AmountCents, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider intent: %w", err)
	}

	var metadata types.JSONText
	if p.Coins > 0 {
		raw, merr := json.Marshal(paymentMetadata{Coins: p.Coins})
		if merr != nil {
			return nil, fmt.Errorf("failed to encode payment metadata: %w", merr)
		}
		metadata = types.JSONText(raw)
	}

	now := s.now()
	payment := &domain.Payment{
		StudentID:         p.StudentID,
		AmountCents:       p.AmountCents,
		Currency:          currency,
		Status:            domain.PaymentStatusInitiated,
		PaymentMethod:     p.PaymentMethod,
		Provider:          intent.Provider,
		ProviderPaymentID: intent.ProviderPaymentID,
		Description:       p.Description,
		Metadata:          metadata,
		PaymentURL:        intent.PaymentURL,
		ExpiresAt:         now.Add(s.expiry),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		return s.paymentRepo.CreatePayment(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPayment(string(domain.PaymentStatusInitiated))
	return payment, nil
}

// ConfirmPayment transitions an initiated payment to the terminal state
// matching the outcome. On success the purchased coins are credited in the
// same transaction, so a crash between the two cannot leave them
// inconsistent. A confirmation arriving after the deadline flips the
// payment to expired and reports a conflict.
func (s *paymentService) ConfirmPayment(ctx context.Context, paymentID int64, outcome domain.PaymentOutcome) (*domain.Payment, error) {
	targetStatus, ok := outcome.Status()
	if !ok {
		return nil, fmt.Errorf("unknown payment outcome %q: %w", outcome, util.ErrInvalidInput)
	}

	var (
		payment    *domain.Payment
		expiredNow bool
	)
	err := s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		expiredNow = false
		p, err := s.paymentRepo.GetPaymentByIDForUpdate(ctx, tx, paymentID)
		if err != nil {
			return err
		}

		// Already terminal: at-least-once webhook replay, answer with the
		// committed record unchanged.
		if p.Status.Terminal() {
			payment = p
			return nil
		}

		now := s.now()

		if now.After(p.ExpiresAt) {
			if err := s.paymentRepo.UpdatePaymentStatus(ctx, tx, p.ID, domain.PaymentStatusExpired, nil); err != nil {
				return err
			}
			p.Status = domain.PaymentStatusExpired
			p.UpdatedAt = now
			payment = p
			expiredNow = true
			return nil
		}

		if err := s.paymentRepo.UpdatePaymentStatus(ctx, tx, p.ID, targetStatus, &now); err != nil {
			return err
		}
		p.Status = targetStatus
		p.ConfirmedAt = &now
		p.UpdatedAt = now

		if targetStatus == domain.PaymentStatusConfirmed {
			if err := s.creditPurchasedCoins(ctx, tx, p); err != nil {
				return err
			}
		}

		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if expiredNow {
		metrics.RecordPayment(string(domain.PaymentStatusExpired))
		return nil, fmt.Errorf("payment %d expired at %s: %w", paymentID, payment.ExpiresAt.Format(time.RFC3339), util.ErrPaymentExpired)
	}

	metrics.RecordPayment(string(payment.Status))
	return payment, nil
}

// creditPurchasedCoins applies the wallet side effect of a confirmed coin
// purchase inside the confirmation transaction. The payment id is the
// idempotency reference, so even a duplicate confirmation that somehow
// reached this point could not double-credit.
func (s *paymentService) creditPurchasedCoins(ctx context.Context, tx repository.DBExecutor, p *domain.Payment) error {
	if len(p.Metadata) == 0 {
		return nil
	}
	var meta paymentMetadata
	if err := json.Unmarshal(p.Metadata, &meta); err != nil {
		return fmt.Errorf("failed to decode metadata for payment %d: %w", p.ID, err)
	}
	if meta.Coins <= 0 {
		return nil
	}

	referenceID := fmt.Sprintf("payment-%d", p.ID)
	description := fmt.Sprintf("Coin purchase via payment %d", p.ID)
	_, err := s.ledger.CreditInTx(ctx, tx, CreditParams{
		StudentID:   p.StudentID,
		Amount:      meta.Coins,
		Type:        domain.TransactionTypePurchase,
		ReferenceID: &referenceID,
		Description: &description,
	})
	if err != nil {
		return fmt.Errorf("failed to credit purchased coins for payment %d: %w", p.ID, err)
	}
	return nil
}

// GetPayment retrieves a payment. Read-only, no lock.
func (s *paymentService) GetPayment(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	return s.paymentRepo.GetPaymentByID(ctx, s.dbExecutor, paymentID)
}

// ListForStudent retrieves a paginated slice of a student's payments.
func (s *paymentService) ListForStudent(ctx context.Context, studentID int64, limit, offset int) ([]domain.Payment, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.paymentRepo.ListByStudentID(ctx, s.dbExecutor, studentID, limit, offset)
}
