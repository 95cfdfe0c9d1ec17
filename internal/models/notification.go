package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// Notification is an in-app notification shown to a specific user.
type Notification struct {
	ID        string           `gorm:"primaryKey" json:"id"`
	UserID    uint             `json:"user_id" gorm:"index"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

// NotificationProvider is an external push destination (shoutrrr URL).
type NotificationProvider struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name"`
	URL     string `json:"url"` // shoutrrr service URL
	Enabled bool   `json:"enabled" gorm:"default:true"`

	// Event preferences.
	NotifyBA    bool `json:"notify_ba" gorm:"default:true"`
	NotifyAdmin bool `json:"notify_admin" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
