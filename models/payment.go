package models

import "time"

// Payment statuses. Every record created through the confirmation flow is
// recorded as success; no pending/failed states are modeled because the
// transfer itself happens out of band in the payer's UPI app.
const (
	PaymentStatusSuccess = "success"
)

// Payment represents a single user-confirmed UPI payment.
// All fields except Trashed are immutable after creation.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	TransactionID string    `gorm:"size:32;not null;uniqueIndex" json:"transaction_id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Phone         string    `gorm:"size:16;not null" json:"phone"`
	Address       string    `gorm:"size:512;not null" json:"address"`
	Amount        int64     `gorm:"not null" json:"amount_paise"` // smallest currency unit (paise)
	Status        string    `gorm:"size:16;not null" json:"status"`
	Trashed       bool      `gorm:"default:false;not null;index" json:"trashed"`
	Receipts      []Receipt `gorm:"foreignKey:PaymentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
