package ledger

import (
	"errors"
	"testing"
	"time"
)

func TestFormatTransactionID(t *testing.T) {
	day := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	id, err := FormatTransactionID(day, 1)
	if err != nil || id != "REC-20260314-0001" {
		t.Fatalf("expected REC-20260314-0001 got %q err=%v", id, err)
	}
	id, err = FormatTransactionID(day, 9999)
	if err != nil || id != "REC-20260314-9999" {
		t.Fatalf("expected REC-20260314-9999 got %q err=%v", id, err)
	}
}

func TestFormatTransactionIDOverflow(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if _, err := FormatTransactionID(day, 10000); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded for seq 10000, got %v", err)
	}
	if _, err := FormatTransactionID(day, 0); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded for seq 0, got %v", err)
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2026, 3, 14, 23, 59, 59, 0, loc)
	got := StartOfDay(at)
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
}
