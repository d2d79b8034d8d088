// internal/repository/postgres/payment_pg.go
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

// PaymentRepository implements repository.PaymentRepository for PostgreSQL.
type PaymentRepository struct{}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository() repository.PaymentRepository {
	return &PaymentRepository{}
}

const paymentColumns = `id, student_id, amount_cents, currency, status, payment_method,
	provider, provider_payment_id, description, metadata, payment_url,
	expires_at, confirmed_at, created_at, updated_at`

// CreatePayment inserts a new payment record.
func (r *PaymentRepository) CreatePayment(ctx context.Context, q repository.DBExecutor, payment *domain.Payment) error {
	query := `INSERT INTO payments (student_id, amount_cents, currency, status, payment_method,
                provider, provider_payment_id, description, metadata, payment_url,
                expires_at, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`

	var metadata interface{}
	if len(payment.Metadata) > 0 {
		metadata = payment.Metadata
	}

	err := q.QueryRowContext(ctx, query,
		payment.StudentID,
		payment.AmountCents,
		payment.Currency,
		payment.Status,
		payment.PaymentMethod,
		payment.Provider,
		payment.ProviderPaymentID,
		payment.Description,
		metadata,
		payment.PaymentURL,
		payment.ExpiresAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Scan(&payment.ID)

	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetPaymentByID retrieves a payment without locking.
func (r *PaymentRepository) GetPaymentByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Payment, error) {
	var payment domain.Payment
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	err := q.GetContext(ctx, &payment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment %d: %w", id, err)
	}
	return &payment, nil
}

// GetPaymentByIDForUpdate retrieves a payment holding a row-level lock so
// concurrent confirmations serialize on the payment row.
func (r *PaymentRepository) GetPaymentByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Payment, error) {
	var payment domain.Payment
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &payment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to lock payment %d: %w", id, err)
	}
	return &payment, nil
}

// UpdatePaymentStatus transitions a payment to a new status. The WHERE
// clause only matches non-terminal rows, so a lost race cannot overwrite a
// terminal state.
func (r *PaymentRepository) UpdatePaymentStatus(ctx context.Context, q repository.DBExecutor, id int64, status domain.PaymentStatus, confirmedAt *time.Time) error {
	query := `UPDATE payments SET status = $1, confirmed_at = $2, updated_at = $3
              WHERE id = $4 AND status = 'initiated'`
	result, err := q.ExecContext(ctx, query, status, confirmedAt, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update payment %d to %s: %w", id, status, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for payment %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("payment %d is not in initiated status: %w", id, util.ErrInvalidTransition)
	}
	return nil
}

// ListByStudentID retrieves a paginated list of a student's payments,
// newest first, plus the total count.
func (r *PaymentRepository) ListByStudentID(ctx context.Context, q repository.DBExecutor, studentID int64, limit, offset int) ([]domain.Payment, int64, error) {
	payments := []domain.Payment{}

	query := `SELECT ` + paymentColumns + ` FROM payments
              WHERE student_id = $1
              ORDER BY created_at DESC, id DESC
              LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &payments, query, studentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments for student %d: %w", studentID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM payments WHERE student_id = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, studentID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count payments for student %d: %w", studentID, err)
	}

	return payments, totalCount, nil
}
