// internal/repository/postgres/wallet_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tutor-ledger/internal/domain"
	"tutor-ledger/internal/repository"
	"tutor-ledger/internal/util"
)

// WalletRepository implements repository.WalletRepository for PostgreSQL.
type WalletRepository struct{}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository() repository.WalletRepository {
	return &WalletRepository{}
}

const walletColumns = `id, student_id, balance, created_at, updated_at`

// CreateWallet inserts a zero-balance wallet for a student. ON CONFLICT DO
// NOTHING resolves the create-or-fetch race: a concurrent inserter wins and
// this statement becomes a no-op instead of aborting the transaction.
func (r *WalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, studentID int64) error {
	query := `INSERT INTO coin_wallets (student_id) VALUES ($1)
              ON CONFLICT (student_id) DO NOTHING`
	if _, err := q.ExecContext(ctx, query, studentID); err != nil {
		return fmt.Errorf("failed to create wallet for student %d: %w", studentID, err)
	}
	return nil
}

// GetWalletByStudentID retrieves a student's wallet without locking.
func (r *WalletRepository) GetWalletByStudentID(ctx context.Context, q repository.DBExecutor, studentID int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT ` + walletColumns + ` FROM coin_wallets WHERE student_id = $1`
	err := q.GetContext(ctx, &wallet, query, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wallet for student %d: %w", studentID, err)
	}
	return &wallet, nil
}

// GetWalletByStudentIDForUpdate retrieves a student's wallet holding a
// row-level exclusive lock for the remainder of the transaction. Concurrent
// credit/debit/adjust calls for the same student serialize here while
// operations on different students proceed in parallel.
func (r *WalletRepository) GetWalletByStudentIDForUpdate(ctx context.Context, q repository.DBExecutor, studentID int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT ` + walletColumns + ` FROM coin_wallets WHERE student_id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &wallet, query, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet for student %d: %w", studentID, err)
	}
	return &wallet, nil
}

// UpdateWalletBalance applies a signed delta to a wallet's balance. The
// CHECK (balance >= 0) constraint is the database-level backstop; callers
// verify sufficiency under the row lock before calling this.
func (r *WalletRepository) UpdateWalletBalance(ctx context.Context, q repository.DBExecutor, walletID int64, delta int64) error {
	query := `UPDATE coin_wallets SET balance = balance + $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), walletID)
	if err != nil {
		return fmt.Errorf("failed to update balance for wallet %d: %w", walletID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for wallet %d: %w", walletID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected updating balance for wallet %d: %w", walletID, util.ErrWalletNotFound)
	}
	return nil
}
