package models

import "time"

// Setting stores admin-configurable key/value settings. The only key in use
// today is "payment_status", which gates whether new payments are accepted.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:100;column:key" json:"key"`
	Value     string    `gorm:"size:255;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }
