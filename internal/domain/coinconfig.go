// internal/domain/coinconfig.go
package domain

import "time"

// Well-known coin configuration keys. Values are read live at grant time
// so admin edits take effect without a redeploy.
const (
	ConfigKeyRegistration     = "registration"
	ConfigKeyCourseCompletion = "course_completion"
	ConfigKeyReferral         = "referral"
	ConfigKeyCoinToRupeeRate  = "coin_to_rupee_rate"
)

// CoinConfig is one mutable key/value configuration row. Values are
// overwritten in place; updated_by/updated_at give a minimal audit trail.
type CoinConfig struct {
	ID          int64     `db:"id" json:"id"`
	Key         string    `db:"key" json:"key"`
	Value       int64     `db:"value" json:"value"` // Non-negative coin amount or rate
	Description *string   `db:"description" json:"description,omitempty"`
	UpdatedBy   *string   `db:"updated_by" json:"updated_by,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
