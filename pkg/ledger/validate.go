package ledger

import (
	"math"
	"regexp"
	"strings"
)

var phoneRE = regexp.MustCompile(`^[0-9]{10}$`)

// MinAmountRupees is the smallest payment the system accepts.
const MinAmountRupees = 100

// Submission carries the raw fields of a payment submission. Amount is in
// rupees as entered by the user; it is converted to paise at insert time.
type Submission struct {
	Name    string
	Phone   string
	Address string
	Amount  float64
}

func (s Submission) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Reason: "Name is required"}
	}
	if !phoneRE.MatchString(strings.TrimSpace(s.Phone)) {
		return &ValidationError{Field: "phone", Reason: "Phone number must be exactly 10 digits"}
	}
	if strings.TrimSpace(s.Address) == "" {
		return &ValidationError{Field: "address", Reason: "Address is required"}
	}
	if math.IsNaN(s.Amount) || math.IsInf(s.Amount, 0) {
		return &ValidationError{Field: "amount", Reason: "Amount must be a number"}
	}
	if s.Amount < MinAmountRupees {
		return &ValidationError{Field: "amount", Reason: "Minimum payment amount is ₹100"}
	}
	return nil
}

// amountPaise converts the submitted rupee amount to paise.
func (s Submission) amountPaise() int64 {
	return int64(math.Round(s.Amount * 100))
}
