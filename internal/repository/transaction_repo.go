// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"tutor-ledger/internal/domain"
)

// TransactionRepository defines the interface for the append-only coin
// transaction log. Entries are never mutated or deleted.
type TransactionRepository interface {
	// CreateTransaction appends a log entry. A unique violation on the
	// (student_id, type, reference_id) index surfaces unchanged so the
	// caller can treat the movement as already applied.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.CoinTransaction) error
	// GetByReference retrieves the entry previously written for an
	// idempotency reference, if any.
	GetByReference(ctx context.Context, q DBExecutor, studentID int64, txType domain.TransactionType, referenceID string) (*domain.CoinTransaction, error)
	// ListByStudentID retrieves a student's entries newest first, with the
	// total count for pagination.
	ListByStudentID(ctx context.Context, q DBExecutor, studentID int64, limit, offset int) ([]domain.CoinTransaction, int64, error)
	// SumByWalletID returns the sum of all entry amounts for a wallet. The
	// wallet balance must equal this sum at every committed state.
	SumByWalletID(ctx context.Context, q DBExecutor, walletID int64) (int64, error)
}
