package ledger

import (
	"errors"
	"strings"
	"time"

	"recpay/models"
)

// RecordStore is the subset of the payment store the controller needs.
type RecordStore interface {
	CountCreatedSince(t time.Time) (int64, error)
	Insert(p *models.Payment) error
}

// GateStore reads the payment gate.
type GateStore interface {
	GateStatus() (string, error)
}

// Payee identifies the UPI account payments are collected into.
type Payee struct {
	VPA  string
	Name string
}

// PayeeSource returns the currently configured payee. Implementations may
// hot-reload, so callers must not cache the result.
type PayeeSource interface {
	Payee() Payee
}

// TransferTarget is the advisory output of Initiate: everything the payer
// needs to complete the transfer in their own UPI app. Nothing is persisted
// when it is produced.
type TransferTarget struct {
	PayeeVPA  string  `json:"payee_vpa"`
	PayeeName string  `json:"payee_name"`
	Amount    float64 `json:"amount"`
	Note      string  `json:"note"`
}

// insertAttempts bounds the id-generation retry loop in Confirm. Each retry
// recomputes the daily count, so a loser of an id race picks up the winner's
// insert on the next pass.
const insertAttempts = 5

// Controller orchestrates the two-phase submission flow and owns the
// validation and gating rules.
//
// Known limitation, kept intentionally: Confirm trusts the caller's claim
// that the transfer happened. No gateway callback is consulted, and nothing
// checks that a Confirm's fields match an earlier Initiate — a payer can
// quote one amount and confirm another. The controller guarantees
// bookkeeping integrity only, not financial verification.
type Controller struct {
	Records RecordStore
	Gate    GateStore
	Payees  PayeeSource
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (c *Controller) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Initiate validates a submission against the current gate and returns the
// transfer target the payer should pay. It performs no persistence and
// consumes no transaction id.
func (c *Controller) Initiate(sub Submission) (*TransferTarget, error) {
	if err := sub.validate(); err != nil {
		return nil, err
	}
	if err := c.checkGate(); err != nil {
		return nil, err
	}
	p := c.Payees.Payee()
	return &TransferTarget{
		PayeeVPA:  p.VPA,
		PayeeName: p.Name,
		Amount:    sub.Amount,
		Note:      "Payment from " + strings.TrimSpace(sub.Name),
	}, nil
}

// Confirm records a payment the user asserts they have completed. It
// re-validates and re-checks the gate independently of any earlier Initiate,
// then allocates a daily-sequential transaction id and inserts the record.
// Id collisions from concurrent confirms are retried a bounded number of
// times before surfacing ErrConflict.
func (c *Controller) Confirm(sub Submission) (*models.Payment, error) {
	if err := sub.validate(); err != nil {
		return nil, err
	}
	if err := c.checkGate(); err != nil {
		return nil, err
	}
	for attempt := 0; attempt < insertAttempts; attempt++ {
		now := c.now()
		count, err := c.Records.CountCreatedSince(StartOfDay(now))
		if err != nil {
			return nil, err
		}
		txid, err := FormatTransactionID(now, count+1)
		if err != nil {
			return nil, err
		}
		rec := &models.Payment{
			TransactionID: txid,
			Name:          strings.TrimSpace(sub.Name),
			Phone:         strings.TrimSpace(sub.Phone),
			Address:       strings.TrimSpace(sub.Address),
			Amount:        sub.amountPaise(),
			Status:        models.PaymentStatusSuccess,
		}
		err = c.Records.Insert(rec)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrDuplicateTransactionID) {
			return nil, err
		}
		// a concurrent confirm won this sequence number; recount and retry
	}
	return nil, ErrConflict
}

func (c *Controller) checkGate() error {
	status, err := c.Gate.GateStatus()
	if err != nil {
		return err
	}
	if status != GateActive {
		return ErrPaymentsPaused
	}
	return nil
}
