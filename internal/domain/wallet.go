// internal/domain/wallet.go
package domain

import "time"

// Wallet represents a student's coin wallet. There is exactly one wallet
// per student (unique on student_id); it is created lazily on the first
// credit or debit. Balance is an integer count of coins and must never
// go negative in any committed state.
type Wallet struct {
	ID        int64     `db:"id" json:"id"`                 // Primary key, BIGSERIAL in DB
	StudentID int64     `db:"student_id" json:"student_id"` // Owning student, unique
	Balance   int64     `db:"balance" json:"balance"`       // Coin balance, BIGINT with CHECK (balance >= 0)
	CreatedAt time.Time `db:"created_at" json:"created_at"` // Timestamp of creation
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // Timestamp of last balance change
}

// NewWallet creates a new Wallet instance with a zero balance.
func NewWallet(studentID int64) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		StudentID: studentID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
