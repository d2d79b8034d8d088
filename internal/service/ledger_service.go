// internal/service/ledger_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"tutor-ledger/internal/domain"
	"tutor-ledger/internal/metrics"
	"tutor-ledger/internal/repository"
	"tutor-ledger/internal/util"
	"tutor-ledger/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// TxRunner executes a unit of work inside one database transaction,
// retrying transparently on transient connectivity failures.
// *db.TxRunner implements this.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// CreditParams describes a coin credit.
type CreditParams struct {
	StudentID   int64
	Amount      int64 // must be positive
	Type        domain.TransactionType
	ReferenceID *string // idempotency reference, optional
	Description *string
	Metadata    types.JSONText
}

// DebitParams describes a coin debit.
type DebitParams struct {
	StudentID   int64
	Amount      int64 // must be positive; stored negated
	Type        domain.TransactionType
	ReferenceID *string
	Description *string
	Metadata    types.JSONText
}

// AdjustParams describes an administrative balance correction.
type AdjustParams struct {
	StudentID   int64
	Amount      int64 // signed, nonzero
	Reason      string
	AdjustedBy  string
	ReferenceID *string
}

// RedemptionResult reports a committed redemption and the rupee value of
// the redeemed coins at the current configured rate.
type RedemptionResult struct {
	Wallet      *domain.Wallet          `json:"wallet"`
	Transaction *domain.CoinTransaction `json:"transaction"`
	RupeeValue  decimal.Decimal         `json:"rupee_value"`
}

// WalletAudit compares a wallet's balance against the sum of its log
// entries. The two must agree at every committed state.
type WalletAudit struct {
	Wallet     *domain.Wallet `json:"wallet"`
	EntrySum   int64          `json:"entry_sum"`
	Consistent bool           `json:"consistent"`
}

// LedgerService defines the business logic owning wallets and the coin
// transaction log. No other component writes balances.
type LedgerService interface {
	EnsureWallet(ctx context.Context, studentID int64) (*domain.Wallet, error)
	Credit(ctx context.Context, p CreditParams) (*domain.Wallet, *domain.CoinTransaction, error)
	Debit(ctx context.Context, p DebitParams) (*domain.Wallet, *domain.CoinTransaction, error)
	Adjust(ctx context.Context, p AdjustParams) (*domain.Wallet, *domain.CoinTransaction, error)
	Redeem(ctx context.Context, studentID, coins int64, referenceID *string) (*RedemptionResult, error)
	GetWallet(ctx context.Context, studentID int64) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, studentID int64, limit, offset int) ([]domain.CoinTransaction, int64, error)
	AuditWallet(ctx context.Context, studentID int64) (*WalletAudit, error)
	// CreditInTx applies a credit inside a caller-owned transaction so a
	// collaborator (payment confirmation) and its wallet side effect commit
	// or roll back together.
	CreditInTx(ctx context.Context, q repository.DBExecutor, p CreditParams) (*domain.CoinTransaction, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbExecutor      repository.DBExecutor // non-transactional reads
	runner          TxRunner
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
	configRepo      repository.ConfigRepository
	logger          *slog.Logger
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbExecutor repository.DBExecutor,
	runner TxRunner,
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	configRepo repository.ConfigRepository,
	logger *slog.Logger,
) LedgerService {
	return &ledgerService{
		dbExecutor:      dbExecutor,
		runner:          runner,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		configRepo:      configRepo,
		logger:          logger,
	}
}

// movement is the normalized form every balance change reduces to.
type movement struct {
	StudentID   int64
	Amount      int64 // signed, nonzero
	Type        domain.TransactionType
	ReferenceID *string
	Description *string
	Metadata    types.JSONText
}

// applyMovement performs one balance movement inside the transaction bound
// to q: resolve the duplicate-reference fast path, lock (or lazily create)
// the wallet row, verify the balance invariant, apply the delta and append
// the log entry. The returned bool is true when the movement was already
// applied and the prior entry is being replayed.
func (s *ledgerService) applyMovement(ctx context.Context, q repository.DBExecutor, m movement) (*domain.Wallet, *domain.CoinTransaction, bool, error) {
	if m.ReferenceID != nil {
		existing, err := s.transactionRepo.GetByReference(ctx, q, m.StudentID, m.Type, *m.ReferenceID)
		if err == nil {
			wallet, werr := s.walletRepo.GetWalletByStudentID(ctx, q, m.StudentID)
			if werr != nil {
				return nil, nil, false, fmt.Errorf("failed to load wallet for replayed movement: %w", werr)
			}
			return wallet, existing, true, nil
		}
		if !util.IsError(err, util.ErrNotFound) {
			return nil, nil, false, err
		}
	}

	wallet, err := s.lockOrCreateWallet(ctx, q, m.StudentID)
	if err != nil {
		return nil, nil, false, err
	}

	if wallet.Balance+m.Amount < 0 {
		return nil, nil, false, util.ErrInsufficientBalance
	}

	if err := s.walletRepo.UpdateWalletBalance(ctx, q, wallet.ID, m.Amount); err != nil {
		return nil, nil, false, err
	}

	entry := domain.NewCoinTransaction(m.StudentID, wallet.ID, m.Amount, m.Type, m.ReferenceID, m.Description, m.Metadata)
	// A concurrent duplicate surfaces here as a unique violation and aborts
	// the whole unit of work; the caller replays from the committed entry.
	if err := s.transactionRepo.CreateTransaction(ctx, q, entry); err != nil {
		return nil, nil, false, err
	}

	wallet.Balance += m.Amount
	return wallet, entry, false, nil
}

// lockOrCreateWallet takes the wallet row lock, creating the wallet first
// when the student has none yet. The insert is a no-op when a concurrent
// inserter wins, so the second lock attempt always finds the row.
func (s *ledgerService) lockOrCreateWallet(ctx context.Context, q repository.DBExecutor, studentID int64) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetWalletByStudentIDForUpdate(ctx, q, studentID)
	if err == nil {
		return wallet, nil
	}
	if !util.IsError(err, util.ErrNotFound) {
		return nil, err
	}

	if err := s.walletRepo.CreateWallet(ctx, q, studentID); err != nil {
		return nil, err
	}
	return s.walletRepo.GetWalletByStudentIDForUpdate(ctx, q, studentID)
}

// replayMovement answers a duplicate-reference call from the committed log
// entry after the losing transaction rolled back. Duplicates are success,
// not errors: at-least-once callers rely on this.
func (s *ledgerService) replayMovement(ctx context.Context, studentID int64, txType domain.TransactionType, referenceID string) (*domain.Wallet, *domain.CoinTransaction, error) {
	entry, err := s.transactionRepo.GetByReference(ctx, s.dbExecutor, studentID, txType, referenceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load replayed movement %q: %w", referenceID, err)
	}
	wallet, err := s.walletRepo.GetWalletByStudentID(ctx, s.dbExecutor, studentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load wallet for replayed movement: %w", err)
	}
	metrics.DuplicateReplaysTotal.Inc()
	return wallet, entry, nil
}

// runMovement wraps applyMovement in one retryable unit of work and
// resolves the concurrent-duplicate race.
func (s *ledgerService) runMovement(ctx context.Context, m movement) (*domain.Wallet, *domain.CoinTransaction, error) {
	var (
		wallet    *domain.Wallet
		entry     *domain.CoinTransaction
		duplicate bool
	)
	err := s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		var ferr error
		wallet, entry, duplicate, ferr = s.applyMovement(ctx, tx, m)
		return ferr
	})
	if err != nil {
		if m.ReferenceID != nil && db.IsUniqueViolation(err) {
			// Another writer committed the same reference first.
			return s.replayMovement(ctx, m.StudentID, m.Type, *m.ReferenceID)
		}
		return nil, nil, err
	}

	if duplicate {
		metrics.DuplicateReplaysTotal.Inc()
	} else {
		metrics.RecordCoinMovement(string(m.Type), m.Amount)
	}
	return wallet, entry, nil
}

// EnsureWallet fetches a student's wallet, creating it with a zero balance
// if absent.
func (s *ledgerService) EnsureWallet(ctx context.Context, studentID int64) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetWalletByStudentID(ctx, s.dbExecutor, studentID)
	if err == nil {
		return wallet, nil
	}
	if !util.IsError(err, util.ErrNotFound) {
		return nil, err
	}

	err = s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if cerr := s.walletRepo.CreateWallet(ctx, tx, studentID); cerr != nil {
			return cerr
		}
		var gerr error
		wallet, gerr = s.walletRepo.GetWalletByStudentID(ctx, tx, studentID)
		return gerr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure wallet for student %d: %w", studentID, err)
	}
	return wallet, nil
}

// Credit adds coins to a student's wallet. Calls carrying a reference id
// are idempotent: a duplicate returns the prior entry with no balance
// mutation.
func (s *ledgerService) Credit(ctx context.Context, p CreditParams) (*domain.Wallet, *domain.CoinTransaction, error) {
	if p.Amount <= 0 {
		return nil, nil, fmt.Errorf("credit amount must be positive: %w", util.ErrInvalidInput)
	}
	if !p.Type.Valid() {
		return nil, nil, fmt.Errorf("unknown transaction type %q: %w", p.Type, util.ErrInvalidInput)
	}
	return s.runMovement(ctx, movement{
		StudentID:   p.StudentID,
		Amount:      p.Amount,
		Type:        p.Type,
		ReferenceID: p.ReferenceID,
		Description: p.Description,
		Metadata:    p.Metadata,
	})
}

// Debit removes coins from a student's wallet, failing with
// ErrInsufficientBalance (and no state change) when the balance does not
// cover the amount.
func (s *ledgerService) Debit(ctx context.Context, p DebitParams) (*domain.Wallet, *domain.CoinTransaction, error) {
	if p.Amount <= 0 {
		return nil, nil, fmt.Errorf("debit amount must be positive: %w", util.ErrInvalidInput)
	}
	if !p.Type.Valid() {
		return nil, nil, fmt.Errorf("unknown transaction type %q: %w", p.Type, util.ErrInvalidInput)
	}
	return s.runMovement(ctx, movement{
		StudentID:   p.StudentID,
		Amount:      -p.Amount,
		Type:        p.Type,
		ReferenceID: p.ReferenceID,
		Description: p.Description,
		Metadata:    p.Metadata,
	})
}

// Adjust applies a signed administrative correction. It follows the same
// locking and idempotency discipline as credit/debit and must not drive
// the balance negative.
func (s *ledgerService) Adjust(ctx context.Context, p AdjustParams) (*domain.Wallet, *domain.CoinTransaction, error) {
	if p.Amount == 0 {
		return nil, nil, fmt.Errorf("adjustment amount must be nonzero: %w", util.ErrInvalidInput)
	}
	if p.AdjustedBy == "" {
		return nil, nil, fmt.Errorf("adjustment requires an operator: %w", util.ErrInvalidInput)
	}

	meta, err := json.Marshal(map[string]string{"adjusted_by": p.AdjustedBy})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode adjustment metadata: %w", err)
	}

	var description *string
	if p.Reason != "" {
		description = &p.Reason
	}

	return s.runMovement(ctx, movement{
		StudentID:   p.StudentID,
		Amount:      p.Amount,
		Type:        domain.TransactionTypeManualAdjustment,
		ReferenceID: p.ReferenceID,
		Description: description,
		Metadata:    types.JSONText(meta),
	})
}

// Redeem debits coins and reports their rupee value at the live configured
// rate.
func (s *ledgerService) Redeem(ctx context.Context, studentID, coins int64, referenceID *string) (*RedemptionResult, error) {
	if coins <= 0 {
		return nil, fmt.Errorf("redemption amount must be positive: %w", util.ErrInvalidInput)
	}

	rate, err := s.configRepo.GetValue(ctx, s.dbExecutor, domain.ConfigKeyCoinToRupeeRate)
	if err != nil {
		return nil, err
	}

	description := "coin redemption"
	wallet, entry, err := s.Debit(ctx, DebitParams{
		StudentID:   studentID,
		Amount:      coins,
		Type:        domain.TransactionTypeRedemption,
		ReferenceID: referenceID,
		Description: &description,
	})
	if err != nil {
		return nil, err
	}

	return &RedemptionResult{
		Wallet:      wallet,
		Transaction: entry,
		RupeeValue:  decimal.NewFromInt(coins).Mul(decimal.NewFromInt(rate)),
	}, nil
}

// GetWallet retrieves a student's wallet. Read-only, no lock.
func (s *ledgerService) GetWallet(ctx context.Context, studentID int64) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetWalletByStudentID(ctx, s.dbExecutor, studentID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet for student %d: %w", studentID, err)
	}
	return wallet, nil
}

// ListTransactions retrieves a paginated slice of a student's coin log.
func (s *ledgerService) ListTransactions(ctx context.Context, studentID int64, limit, offset int) ([]domain.CoinTransaction, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.transactionRepo.ListByStudentID(ctx, s.dbExecutor, studentID, limit, offset)
}

// AuditWallet checks the balance invariant for one wallet under the row
// lock so the comparison sees a consistent snapshot.
func (s *ledgerService) AuditWallet(ctx context.Context, studentID int64) (*WalletAudit, error) {
	var audit WalletAudit
	err := s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		wallet, werr := s.walletRepo.GetWalletByStudentIDForUpdate(ctx, tx, studentID)
		if werr != nil {
			if util.IsError(werr, util.ErrNotFound) {
				return util.ErrWalletNotFound
			}
			return werr
		}
		sum, serr := s.transactionRepo.SumByWalletID(ctx, tx, wallet.ID)
		if serr != nil {
			return serr
		}
		audit = WalletAudit{Wallet: wallet, EntrySum: sum, Consistent: wallet.Balance == sum}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !audit.Consistent {
		s.logger.Error("wallet balance does not match transaction log",
			"student_id", studentID, "balance", audit.Wallet.Balance, "entry_sum", audit.EntrySum)
	}
	return &audit, nil
}

// CreditInTx applies a credit inside a caller-owned transaction. The
// duplicate fast path still applies; the caller owns commit and rollback.
func (s *ledgerService) CreditInTx(ctx context.Context, q repository.DBExecutor, p CreditParams) (*domain.CoinTransaction, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive: %w", util.ErrInvalidInput)
	}
	if !p.Type.Valid() {
		return nil, fmt.Errorf("unknown transaction type %q: %w", p.Type, util.ErrInvalidInput)
	}
	_, entry, duplicate, err := s.applyMovement(ctx, q, movement{
		StudentID:   p.StudentID,
		Amount:      p.Amount,
		Type:        p.Type,
		ReferenceID: p.ReferenceID,
		Description: p.Description,
		Metadata:    p.Metadata,
	})
	if err != nil {
		return nil, err
	}
	if duplicate {
		metrics.DuplicateReplaysTotal.Inc()
	} else {
		metrics.RecordCoinMovement(string(p.Type), p.Amount)
	}
	return entry, nil
}
