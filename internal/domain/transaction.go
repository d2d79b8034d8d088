// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TransactionType classifies a coin movement by the domain event that
// caused it.
type TransactionType string

const (
	TransactionTypeRegistration     TransactionType = "registration"
	TransactionTypeCourseCompletion TransactionType = "course_completion"
	TransactionTypeReferral         TransactionType = "referral"
	TransactionTypePurchase         TransactionType = "purchase"
	TransactionTypeManualAdjustment TransactionType = "manual_adjustment"
	TransactionTypeRedemption       TransactionType = "redemption"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeRegistration, TransactionTypeCourseCompletion,
		TransactionTypeReferral, TransactionTypePurchase,
		TransactionTypeManualAdjustment, TransactionTypeRedemption:
		return true
	}
	return false
}

// CoinTransaction is one immutable, signed coin movement. Entries are
// append-only and are the source of truth for a wallet's balance: the
// wallet balance always equals the sum of its entries' amounts.
//
// The triple (student_id, type, reference_id) is unique whenever a
// reference id is present. That is the idempotency key: re-applying the
// same domain event never produces a second entry.
type CoinTransaction struct {
	ID          int64           `db:"id" json:"id"`                     // Primary key, BIGSERIAL in DB
	StudentID   int64           `db:"student_id" json:"student_id"`     // Owning student
	WalletID    int64           `db:"wallet_id" json:"wallet_id"`       // Owning wallet
	Amount      int64           `db:"amount" json:"amount"`             // Signed, nonzero coin delta
	Type        TransactionType `db:"type" json:"type"`                 // Domain event that caused the movement
	ReferenceID *string         `db:"reference_id" json:"reference_id"` // Optional opaque idempotency reference
	Description *string         `db:"description" json:"description"`   // Optional human-readable description
	Metadata    types.JSONText  `db:"metadata" json:"metadata"`         // Optional JSON payload, JSONB in DB
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`     // Timestamp of record creation
}

// NewCoinTransaction creates a new CoinTransaction instance.
func NewCoinTransaction(
	studentID int64,
	walletID int64,
	amount int64,
	txType TransactionType,
	referenceID *string,
	description *string,
	metadata types.JSONText,
) *CoinTransaction {
	return &CoinTransaction{
		StudentID:   studentID,
		WalletID:    walletID,
		Amount:      amount,
		Type:        txType,
		ReferenceID: referenceID,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   time.Now().UTC(),
	}
}
