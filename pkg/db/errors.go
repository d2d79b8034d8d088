// pkg/db/errors.go
package db

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/lib/pq"
)

// Kind classifies a database error once, at the driver boundary, so that
// retry policy never needs to inspect free-text error messages.
type Kind int

const (
	// KindOther is anything not covered by a more specific kind.
	KindOther Kind = iota
	// KindTransient is a low-level connectivity failure (connection
	// reset/refused/terminated). Only these are eligible for retry.
	KindTransient
	// KindConstraint is an integrity constraint violation (unique, check,
	// foreign key). Never retried.
	KindConstraint
	// KindNotFound means the query matched no rows.
	KindNotFound
)

// PostgreSQL error code prefixes and codes that indicate the connection
// or server went away mid-operation. See the lib/pq error code table.
const (
	pgClassConnection     = "08" // connection_exception family
	pgClassIntegrity      = "23" // integrity_constraint_violation family
	pgCodeUniqueViolation = pq.ErrorCode("23505")
	pgCodeAdminShutdown   = pq.ErrorCode("57P01")
	pgCodeCrashShutdown   = pq.ErrorCode("57P02")
	pgCodeCannotConnect   = pq.ErrorCode("57P03")
	pgCodeTooManyConns    = pq.ErrorCode("53300")
)

// Classify maps err to a Kind. Context cancellation is deliberately
// classified as KindOther so a cancelled caller is never retried against.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}

	if errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code.Class() == pgClassIntegrity:
			return KindConstraint
		case pqErr.Code.Class() == pgClassConnection,
			pqErr.Code == pgCodeAdminShutdown,
			pqErr.Code == pgCodeCrashShutdown,
			pqErr.Code == pgCodeCannotConnect,
			pqErr.Code == pgCodeTooManyConns:
			return KindTransient
		}
		return KindOther
	}

	// Failures below the protocol level: the driver lost the connection.
	var netErr *net.OpError
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EPIPE),
		errors.As(err, &netErr):
		return KindTransient
	}

	return KindOther
}

// IsUniqueViolation reports whether err is a unique constraint violation.
// Insert-then-detect on a unique index is the idempotency strategy for
// coin transaction references, so callers treat this as "already applied".
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgCodeUniqueViolation
}

// UniqueConstraint returns the name of the violated unique constraint,
// or "" if err is not a unique violation.
func UniqueConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgCodeUniqueViolation {
		return pqErr.Constraint
	}
	return ""
}
