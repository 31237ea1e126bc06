package models

import "time"

// Receipt represents a payer-uploaded proof-of-payment screenshot linked to a
// payment. The OCR result stored here is advisory only: it never mutates the
// payment row, it just gives the admin a quick cross-check.
type Receipt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PaymentID   uint      `gorm:"index;not null" json:"payment_id"`
	Payment     Payment   `gorm:"foreignKey:PaymentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	StorePath   string    `gorm:"column:store_path;size:512" json:"store_path"`
	ContentType string    `gorm:"size:128" json:"content_type"`
	// Amount extracted by OCR, in paise. Zero when extraction failed.
	Amount     int64   `json:"amount_paise"`
	Confidence float64 `json:"confidence"`
	// Matched is true when the OCR amount equals the payment amount.
	Matched bool `gorm:"default:false" json:"matched"`
	// Mark receipt as failed for OCR processing (keep the record so the admin can review)
	Failed       bool   `gorm:"default:false;index" json:"failed"`
	FailedReason string `gorm:"size:255" json:"failed_reason,omitempty"`
}
