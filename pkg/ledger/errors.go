package ledger

import (
	"errors"
	"strings"
)

var (
	// ErrPaymentsPaused is returned when the payment gate is paused; no
	// record is created and no transaction id is consumed.
	ErrPaymentsPaused = errors.New("payments are paused")
	// ErrDuplicateTransactionID is returned by a store insert when the
	// generated transaction id collides with an existing row.
	ErrDuplicateTransactionID = errors.New("duplicate transaction id")
	// ErrConflict is returned when id generation keeps colliding after the
	// bounded retry budget. The whole confirmation is safe to retry.
	ErrConflict = errors.New("transaction id conflict after retries")
	// ErrCapacityExceeded means the 4-digit daily sequence would overflow.
	ErrCapacityExceeded = errors.New("daily transaction capacity exceeded")
	// ErrInvalidGateStatus rejects gate values outside {active, paused}.
	ErrInvalidGateStatus = errors.New("gate status must be \"active\" or \"paused\"")
)

// ValidationError reports a rejected submission field with a message fit to
// show the user inline. No side effects occur when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// IsUniqueConstraintError reports whether err looks like a database unique
// violation. Matching on message text keeps this portable across drivers.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "UNIQUE constraint")
}
