// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"tutor-ledger/internal/domain"
)

// WalletRepository defines the interface for coin wallet data operations.
type WalletRepository interface {
	// CreateWallet inserts a zero-balance wallet for a student, skipping the
	// insert if one already exists (create-or-fetch race resolution).
	CreateWallet(ctx context.Context, q DBExecutor, studentID int64) error
	// GetWalletByStudentID retrieves a student's wallet without locking.
	GetWalletByStudentID(ctx context.Context, q DBExecutor, studentID int64) (*domain.Wallet, error)
	// GetWalletByStudentIDForUpdate retrieves a student's wallet with a
	// row-level exclusive lock held until the surrounding transaction ends.
	GetWalletByStudentIDForUpdate(ctx context.Context, q DBExecutor, studentID int64) (*domain.Wallet, error)
	// UpdateWalletBalance applies a signed delta to a wallet's balance.
	UpdateWalletBalance(ctx context.Context, q DBExecutor, walletID int64, delta int64) error
}
