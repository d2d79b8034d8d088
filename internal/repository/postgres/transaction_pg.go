// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tutor-ledger/internal/domain"
	"tutor-ledger/internal/repository"
	"tutor-ledger/internal/util"
)

// TransactionRepository implements repository.TransactionRepository for
// PostgreSQL. The coin_transactions table is append-only; there are no
// update or delete operations here on purpose.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

const transactionColumns = `id, student_id, wallet_id, amount, type, reference_id, description, metadata, created_at`

// CreateTransaction appends a coin movement entry. A duplicate idempotency
// reference violates coin_transactions_student_type_reference_key and the
// pq error surfaces unchanged for the service layer to classify.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.CoinTransaction) error {
	query := `INSERT INTO coin_transactions (student_id, wallet_id, amount, type, reference_id, description, metadata, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	var metadata interface{}
	if len(transaction.Metadata) > 0 {
		metadata = transaction.Metadata
	}

	err := q.QueryRowContext(ctx, query,
		transaction.StudentID,
		transaction.WalletID,
		transaction.Amount,
		transaction.Type,
		transaction.ReferenceID,
		transaction.Description,
		metadata,
		transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create coin transaction: %w", err)
	}
	return nil
}

// GetByReference retrieves the entry previously written for an idempotency
// reference.
func (r *TransactionRepository) GetByReference(ctx context.Context, q repository.DBExecutor, studentID int64, txType domain.TransactionType, referenceID string) (*domain.CoinTransaction, error) {
	var transaction domain.CoinTransaction
	query := `SELECT ` + transactionColumns + ` FROM coin_transactions
              WHERE student_id = $1 AND type = $2 AND reference_id = $3`
	err := q.GetContext(ctx, &transaction, query, studentID, txType, referenceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get coin transaction by reference %q: %w", referenceID, err)
	}
	return &transaction, nil
}

// ListByStudentID retrieves a paginated list of a student's coin movements,
// newest first, plus the total count.
func (r *TransactionRepository) ListByStudentID(ctx context.Context, q repository.DBExecutor, studentID int64, limit, offset int) ([]domain.CoinTransaction, int64, error) {
	transactions := []domain.CoinTransaction{}

	query := `SELECT ` + transactionColumns + ` FROM coin_transactions
              WHERE student_id = $1
              ORDER BY created_at DESC, id DESC
              LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &transactions, query, studentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch coin transactions for student %d: %w", studentID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM coin_transactions WHERE student_id = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, studentID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count coin transactions for student %d: %w", studentID, err)
	}

	return transactions, totalCount, nil
}

// SumByWalletID returns the sum of all entry amounts for a wallet.
func (r *TransactionRepository) SumByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(amount), 0) FROM coin_transactions WHERE wallet_id = $1`
	if err := q.GetContext(ctx, &sum, query, walletID); err != nil {
		return 0, fmt.Errorf("failed to sum coin transactions for wallet %d: %w", walletID, err)
	}
	return sum, nil
}
