package ledger

import (
	"fmt"
	"time"
)

const (
	txIDPrefix     = "REC"
	txIDDateLayout = "20060102"
	// maxDailySequence is fixed by the 4-digit zero-padded field in the id.
	maxDailySequence = 9999
)

// FormatTransactionID builds the human-readable id REC-YYYYMMDD-NNNN for the
// given calendar day and daily sequence number (1-based). Sequences beyond
// the 4-digit field fail with ErrCapacityExceeded instead of producing a
// colliding or truncated id.
func FormatTransactionID(day time.Time, seq int64) (string, error) {
	if seq < 1 || seq > maxDailySequence {
		return "", ErrCapacityExceeded
	}
	return fmt.Sprintf("%s-%s-%04d", txIDPrefix, day.Format(txIDDateLayout), seq), nil
}

// StartOfDay returns midnight of t's calendar day in t's location. Daily
// sequence numbers reset at this boundary.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
