// internal/domain/payment.go
package domain

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// PaymentStatus defines the lifecycle status of a payment.
type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusExpired   PaymentStatus = "expired"
)

// Terminal reports whether s is a terminal status. A payment transitions
// out of initiated exactly once and never leaves a terminal status.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusConfirmed, PaymentStatusFailed, PaymentStatusExpired:
		return true
	}
	return false
}

// PaymentOutcome is the result reported by the provider (or its webhook)
// when a payment attempt finishes.
type PaymentOutcome string

const (
	PaymentOutcomeSuccess PaymentOutcome = "success"
	PaymentOutcomeFailure PaymentOutcome = "failure"
)

// Status returns the terminal status matching the outcome.
func (o PaymentOutcome) Status() (PaymentStatus, bool) {
	switch o {
	case PaymentOutcomeSuccess:
		return PaymentStatusConfirmed, true
	case PaymentOutcomeFailure:
		return PaymentStatusFailed, true
	}
	return "", false
}

// Payment represents one payment attempt against the (mocked) provider.
// (provider, provider_payment_id) is unique so a replayed provider
// callback can never attach to two records.
type Payment struct {
	ID                int64          `db:"id" json:"id"`                                   // Primary key, BIGSERIAL in DB
	StudentID         int64          `db:"student_id" json:"student_id"`                   // Paying student
	AmountCents       int64          `db:"amount_cents" json:"amount_cents"`               // Positive amount in smallest currency unit
	Currency          string         `db:"currency" json:"currency"`                       // ISO currency code, defaults to INR
	Status            PaymentStatus  `db:"status" json:"status"`                           // Lifecycle status
	PaymentMethod     *string        `db:"payment_method" json:"payment_method,omitempty"` // Optional method hint (upi, card, ...)
	Provider          string         `db:"provider" json:"provider"`                       // Provider name
	ProviderPaymentID string         `db:"provider_payment_id" json:"provider_payment_id"` // Provider-side id
	Description       *string        `db:"description" json:"description,omitempty"`       // Optional description
	Metadata          types.JSONText `db:"metadata" json:"metadata,omitempty"`             // Optional JSON payload, JSONB in DB
	PaymentURL        string         `db:"payment_url" json:"payment_url"`                 // Checkout URL handed to the client
	ExpiresAt         time.Time      `db:"expires_at" json:"expires_at"`                   // Confirmation deadline
	ConfirmedAt       *time.Time     `db:"confirmed_at" json:"confirmed_at,omitempty"`     // Set on transition to a terminal state
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`                   // Timestamp of record creation
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`                   // Timestamp of last update
}
