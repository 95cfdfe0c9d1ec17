package models

import (
	"time"
)

// Audit categories group actions for filtering in the admin review screen.
const (
	AuditCategoryAuthentication = "authentication"
	AuditCategoryProfile        = "profile"
	AuditCategoryBA             = "ba"
	AuditCategoryAdmin          = "admin"
	AuditCategorySystem         = "system"
)

// Audit entry outcomes.
const (
	AuditStatusSuccess = "success"
	AuditStatusFailed  = "failed"
	AuditStatusError   = "error"
)

// AuditLog is an append-only record of a security or business relevant event.
// Rows are created exactly once and never updated or deleted by the
// application. The actor and target references are plain values, not foreign
// keys: an entry must survive deletion of whatever it points at.
type AuditLog struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// Actor. UserID is nil for unauthenticated or system events.
	UserID    *uint  `json:"user_id" gorm:"index"`
	UserEmail string `json:"user_email"`
	UserRole  string `json:"user_role"`

	Action      string `json:"action" gorm:"index"` // dotted, e.g. "user.login.failed"
	Category    string `json:"category" gorm:"index"`
	Description string `json:"description" gorm:"type:text"`

	// Polymorphic target descriptor, no referential integrity.
	TargetType string `json:"target_type"`
	TargetID   *uint  `json:"target_id"`
	TargetName string `json:"target_name"`

	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent" gorm:"type:text"`

	// Metadata holds caller-supplied structured data serialized to JSON.
	Metadata string `json:"metadata" gorm:"type:text"`

	Status       string `json:"status" gorm:"index;default:'success'"`
	ErrorMessage string `json:"error_message"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName keeps the table name stable across GORM naming strategy changes.
func (AuditLog) TableName() string {
	return "audit_logs"
}
