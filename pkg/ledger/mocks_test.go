package ledger

import (
	"sync"
	"time"

	"recpay/models"
)

// fakeStore is an in-memory RecordStore + GateStore. Insert enforces the
// transaction-id uniqueness the real store gets from its database index, so
// the controller's retry path can be exercised without Postgres.
type fakeStore struct {
	mu      sync.Mutex
	records []models.Payment
	gate    string
	nextID  uint
	// FailInserts forces the next N Insert calls to report a duplicate id,
	// simulating a concurrent confirm winning the sequence number.
	FailInserts int
	InsertCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{gate: GateActive}
}

func (f *fakeStore) Insert(p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InsertCalls++
	if f.FailInserts > 0 {
		f.FailInserts--
		return ErrDuplicateTransactionID
	}
	for _, r := range f.records {
		if r.TransactionID == p.TransactionID {
			return ErrDuplicateTransactionID
		}
	}
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	f.records = append(f.records, *p)
	return nil
}

func (f *fakeStore) CountCreatedSince(t time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cnt int64
	for _, r := range f.records {
		if !r.CreatedAt.Before(t) {
			cnt++
		}
	}
	return cnt, nil
}

func (f *fakeStore) GateStatus() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gate, nil
}

func (f *fakeStore) setGate(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = v
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// staticPayee implements PayeeSource with a fixed payee.
type staticPayee struct{ p Payee }

func (s staticPayee) Payee() Payee { return s.p }

func newTestController(f *fakeStore) *Controller {
	return &Controller{
		Records: f,
		Gate:    f,
		Payees:  staticPayee{Payee{VPA: "collect@upi", Name: "Record Collections"}},
	}
}
