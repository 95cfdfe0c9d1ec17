package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User roles. Vendors submit berita acara records, direksi approve or reject
// them, dewan komisaris (dk) has read-only oversight, admins manage accounts.
const (
	RoleAdmin   = "admin"
	RoleDireksi = "direksi"
	RoleDK      = "dk"
	RoleVendor  = "vendor"
)

// ValidRole reports whether the given role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDireksi, RoleDK, RoleVendor:
		return true
	}
	return false
}

// User represents an authenticated account with role-based access control.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	UUID         string `json:"uuid" gorm:"uniqueIndex"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"` // Never serialize password hash
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role" gorm:"default:'vendor'"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	LastLogin *time.Time `json:"last_login,omitempty"`

	// Password reset fields. The token is single-use and short lived.
	ResetToken   string     `json:"-" gorm:"index"`
	ResetExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == "" {
		u.UUID = uuid.New().String()
	}
	return nil
}

// FullName returns the display name used in notifications and audit rows.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the provided password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// HasValidResetToken returns true when a reset token is set and not expired.
func (u *User) HasValidResetToken() bool {
	if u.ResetToken == "" || u.ResetExpires == nil {
		return false
	}
	return u.ResetExpires.After(time.Now())
}
