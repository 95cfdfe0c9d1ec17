package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Berita acara workflow states. The only transitions are
// PENDING -> APPROVED and PENDING -> REJECTED; a rejected record may be
// resubmitted by its vendor which returns it to PENDING.
const (
	BAStatusPending  = "PENDING"
	BAStatusApproved = "APPROVED"
	BAStatusRejected = "REJECTED"
)

// BeritaAcara is a handover record submitted by a vendor and reviewed by
// direksi.
type BeritaAcara struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UUID        string `json:"uuid" gorm:"uniqueIndex"`
	Number      string `json:"number" gorm:"uniqueIndex"` // e.g. "BA/2024/0001"
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`

	VendorID uint  `json:"vendor_id" gorm:"index"`
	Vendor   *User `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`

	Status string `json:"status" gorm:"index;default:'PENDING'"`

	// Review fields, set on approve/reject.
	ReviewedBy      *uint      `json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	ReviewNote      string     `json:"review_note" gorm:"type:text"`
	RejectionReason string     `json:"rejection_reason" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BeritaAcara) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == "" {
		b.UUID = uuid.New().String()
	}
	return nil
}

// IsPending reports whether the record still awaits review.
func (b *BeritaAcara) IsPending() bool {
	return b.Status == BAStatusPending
}
