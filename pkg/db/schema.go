// pkg/db/schema.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Schema DDL. Every statement uses IF NOT EXISTS semantics so multiple
// service instances starting concurrently converge without a distributed
// lock; the database serializes the DDL itself.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS coin_wallets (
		id BIGSERIAL PRIMARY KEY,
		student_id BIGINT NOT NULL UNIQUE,
		balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS coin_transactions (
		id BIGSERIAL PRIMARY KEY,
		student_id BIGINT NOT NULL,
		wallet_id BIGINT NOT NULL REFERENCES coin_wallets (id),
		amount BIGINT NOT NULL CHECK (amount <> 0),
		type TEXT NOT NULL,
		reference_id TEXT,
		description TEXT,
		metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// Partial unique index: (student_id, type, reference_id) is the
	// idempotency key whenever a reference id is present.
	`CREATE UNIQUE INDEX IF NOT EXISTS coin_transactions_student_type_reference_key
		ON coin_transactions (student_id, type, reference_id)
		WHERE reference_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS coin_transactions_student_created_idx
		ON coin_transactions (student_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id BIGSERIAL PRIMARY KEY,
		student_id BIGINT NOT NULL,
		amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
		currency TEXT NOT NULL DEFAULT 'INR',
		status TEXT NOT NULL DEFAULT 'initiated',
		payment_method TEXT,
		provider TEXT NOT NULL,
		provider_payment_id TEXT NOT NULL,
		description TEXT,
		metadata JSONB,
		payment_url TEXT NOT NULL DEFAULT '',
		expires_at TIMESTAMPTZ NOT NULL,
		confirmed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (provider, provider_payment_id)
	)`,
	`CREATE INDEX IF NOT EXISTS payments_student_created_idx
		ON payments (student_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS coin_configuration (
		id BIGSERIAL PRIMARY KEY,
		key TEXT NOT NULL UNIQUE,
		value BIGINT NOT NULL CHECK (value >= 0),
		description TEXT,
		updated_by TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Default coin configuration rows. Seeded with insert-or-skip so re-runs
// never overwrite admin-edited values.
var configSeeds = []struct {
	Key         string
	Value       int64
	Description string
}{
	{"registration", 10, "Coins granted on student registration"},
	{"course_completion", 100, "Coins granted on course completion"},
	{"referral", 50, "Coins granted for a successful referral"},
	{"coin_to_rupee_rate", 1, "Rupee value of one coin at redemption"},
}

const seedConfigQuery = `INSERT INTO coin_configuration (key, value, description)
		VALUES ($1, $2, $3) ON CONFLICT (key) DO NOTHING`

// Bootstrap provisions tables, constraints, indexes and seed configuration
// rows. It runs once at process startup, before any wallet or payment
// operation is reachable, and is safe to run repeatedly.
func Bootstrap(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	for _, seed := range configSeeds {
		if _, err := db.ExecContext(ctx, seedConfigQuery, seed.Key, seed.Value, seed.Description); err != nil {
			return fmt.Errorf("failed to seed coin configuration %q: %w", seed.Key, err)
		}
	}

	logger.Info("Database schema bootstrapped.")
	return nil
}
