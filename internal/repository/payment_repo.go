// internal/repository/payment_repo.go
package repository

import (
	"context"
	"time"

	"tutor-ledger/internal/domain"
)

// PaymentRepository defines the interface for payment data operations.
type PaymentRepository interface {
	// CreatePayment inserts a new payment record in initiated status.
	CreatePayment(ctx context.Context, q DBExecutor, payment *domain.Payment) error
	// GetPaymentByID retrieves a payment without locking.
	GetPaymentByID(ctx context.Context, q DBExecutor, id int64) (*domain.Payment, error)
	// GetPaymentByIDForUpdate retrieves a payment with a row-level lock so
	// concurrent confirmations of the same payment serialize.
	GetPaymentByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Payment, error)
	// UpdatePaymentStatus transitions a payment to a new status, stamping
	// confirmed_at when provided.
	UpdatePaymentStatus(ctx context.Context, q DBExecutor, id int64, status domain.PaymentStatus, confirmedAt *time.Time) error
	// ListByStudentID retrieves a student's payments newest first, with the
	// total count for pagination.
	ListByStudentID(ctx context.Context, q DBExecutor, studentID int64, limit, offset int) ([]domain.Payment, int64, error)
}
