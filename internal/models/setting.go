package models

import "time"

// Setting is a key/value configuration row. Categories group related keys,
// e.g. "smtp" for the outbound mail configuration.
type Setting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"uniqueIndex"`
	Value     string    `json:"value" gorm:"type:text"`
	Type      string    `json:"type"` // "string", "int", "bool"
	Category  string    `json:"category" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
