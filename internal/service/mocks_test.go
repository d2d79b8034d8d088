// internal/service/mocks_test.go
package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"tutor-ledger/internal/domain"
	"tutor-ledger/internal/provider"
	"tutor-ledger/internal/repository"
)

// fakeTxRunner runs the unit of work directly, without a database. The
// nil *sqlx.Tx is never dereferenced because every repository is mocked.
type fakeTxRunner struct{}

func (f *fakeTxRunner) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

// MockWalletRepository is a mock implementation of repository.WalletRepository.
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, studentID int64) error {
	args := m.Called(ctx, q, studentID)
	return args.Error(0)
}

func (m *MockWalletRepository) GetWalletByStudentID(ctx context.Context, q repository.DBExecutor, studentID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, q, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetWalletByStudentIDForUpdate(ctx context.Context, q repository.DBExecutor, studentID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, q, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) UpdateWalletBalance(ctx context.Context, q repository.DBExecutor, walletID int64, delta int64) error {
	args := m.Called(ctx, q, walletID, delta)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.CoinTransaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByReference(ctx context.Context, q repository.DBExecutor, studentID int64, txType domain.TransactionType, referenceID string) (*domain.CoinTransaction, error) {
	args := m.Called(ctx, q, studentID, txType, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoinTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByStudentID(ctx context.Context, q repository.DBExecutor, studentID int64, limit, offset int) ([]domain.CoinTransaction, int64, error) {
	args := m.Called(ctx, q, studentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.CoinTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) SumByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64) (int64, error) {
	args := m.Called(ctx, q, walletID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepository is a mock implementation of repository.PaymentRepository.
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreatePayment(ctx context.Context, q repository.DBExecutor, payment *domain.Payment) error {
	args := m.Called(ctx, q, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetPaymentByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetPaymentByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdatePaymentStatus(ctx context.Context, q repository.DBExecutor, id int64, status domain.PaymentStatus, confirmedAt *time.Time) error {
	args := m.Called(ctx, q, id, status, confirmedAt)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByStudentID(ctx context.Context, q repository.DBExecutor, studentID int64, limit, offset int) ([]domain.Payment, int64, error) {
	args := m.Called(ctx, q, studentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Payment), args.Get(1).(int64), args.Error(2)
}

// MockConfigRepository is a mock implementation of repository.ConfigRepository.
type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) GetValue(ctx context.Context, q repository.DBExecutor, key string) (int64, error) {
	args := m.Called(ctx, q, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockConfigRepository) Get(ctx context.Context, q repository.DBExecutor, key string) (*domain.CoinConfig, error) {
	args := m.Called(ctx, q, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoinConfig), args.Error(1)
}

func (m *MockConfigRepository) List(ctx context.Context, q repository.DBExecutor) ([]domain.CoinConfig, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CoinConfig), args.Error(1)
}

func (m *MockConfigRepository) Upsert(ctx context.Context, q repository.DBExecutor, key string, value int64, description, updatedBy *string) (*domain.CoinConfig, error) {
	args := m.Called(ctx, q, key, value, description, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoinConfig), args.Error(1)
}

// MockLedgerService is a mock implementation of LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) EnsureWallet(ctx context.Context, studentID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockLedgerService) Credit(ctx context.Context, p CreditParams) (*domain.Wallet, *domain.CoinTransaction, error) {
	args := m.Called(ctx, p)
	wallet, _ := args.Get(0).(*domain.Wallet)
	entry, _ := args.Get(1).(*domain.CoinTransaction)
	return wallet, entry, args.Error(2)
}

func (m *MockLedgerService) Debit(ctx context.Context, p DebitParams) (*domain.Wallet, *domain.CoinTransaction, error) {
	args := m.Called(ctx, p)
	wallet, _ := args.Get(0).(*domain.Wallet)
	entry, _ := args.Get(1).(*domain.CoinTransaction)
	return wallet, entry, args.Error(2)
}

func (m *MockLedgerService) Adjust(ctx context.Context, p AdjustParams) (*domain.Wallet, *domain.CoinTransaction, error) {
	args := m.Called(ctx, p)
	wallet, _ := args.Get(0).(*domain.Wallet)
	entry, _ := args.Get(1).(*domain.CoinTransaction)
	return wallet, entry, args.Error(2)
}

func (m *MockLedgerService) Redeem(ctx context.Context, studentID, coins int64, referenceID *string) (*RedemptionResult, error) {
	args := m.Called(ctx, studentID, coins, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RedemptionResult), args.Error(1)
}

func (m *MockLedgerService) GetWallet(ctx context.Context, studentID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, studentID int64, limit, offset int) ([]domain.CoinTransaction, int64, error) {
	args := m.Called(ctx, studentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.CoinTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) AuditWallet(ctx context.Context, studentID int64) (*WalletAudit, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WalletAudit), args.Error(1)
}

func (m *MockLedgerService) CreditInTx(ctx context.Context, q repository.DBExecutor, p CreditParams) (*domain.CoinTransaction, error) {
	args := m.Called(ctx, q, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoinTransaction), args.Error(1)
}

// MockPaymentProvider is a mock implementation of provider.PaymentProvider.
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateIntent(ctx context.Context, studentID, amountCents int64, currency string) (*provider.Intent, error) {
	args := m.Called(ctx, studentID, amountCents, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Intent), args.Error(1)
}
