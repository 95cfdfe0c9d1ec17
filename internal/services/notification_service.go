package services

import (
	"fmt"
	"time"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/DivaAnanda/accenprove-sub001/internal/logger"
	"github.com/DivaAnanda/accenprove-sub001/internal/models"
)

// NotificationService stores in-app notifications and pushes to external
// providers via shoutrrr. External sends are asynchronous and best effort.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// NotifyUser creates an in-app notification for one user.
func (s *NotificationService) NotifyUser(userID uint, nType models.NotificationType, title, message string) {
	notification := models.Notification{
		UserID:  userID,
		Type:    nType,
		Title:   title,
		Message: message,
	}
	if err := s.DB.Create(&notification).Error; err != nil {
		logger.WithFields(map[string]interface{}{"user_id": userID}).
			WithError(err).Warn("failed to create notification")
	}
}

// NotifyRole creates an in-app notification for every active user with the
// given role.
func (s *NotificationService) NotifyRole(role string, nType models.NotificationType, title, message string) {
	var users []models.User
	if err := s.DB.Where("role = ? AND is_active = ?", role, true).Find(&users).Error; err != nil {
		logger.WithFields(map[string]interface{}{"role": role}).
			WithError(err).Warn("failed to resolve notification recipients")
		return
	}
	for _, u := range users {
		s.NotifyUser(u.ID, nType, title, message)
	}
}

// List returns the newest notifications for a user.
func (s *NotificationService) List(userID uint, unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Where("user_id = ?", userID).Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

// MarkAsRead flags a single notification of the user as read.
func (s *NotificationService) MarkAsRead(userID uint, id string) error {
	return s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true).Error
}

// MarkAllAsRead flags all of the user's notifications as read.
func (s *NotificationService) MarkAllAsRead(userID uint) error {
	return s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// SendExternal pushes a message to every enabled provider that opted in to
// the event type. Sends run in goroutines; failures are logged and dropped.
func (s *NotificationService) SendExternal(eventType, title, message string) {
	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Warn("failed to fetch notification providers")
		return
	}

	for _, provider := range providers {
		switch eventType {
		case "ba":
			if !provider.NotifyBA {
				continue
			}
		case "admin":
			if !provider.NotifyAdmin {
				continue
			}
		}

		go func(p models.NotificationProvider) {
			msg := fmt.Sprintf("%s\n\n%s\n%s", title, message, time.Now().Format(time.RFC3339))
			if err := shoutrrr.Send(p.URL, msg); err != nil {
				logger.WithFields(map[string]interface{}{"provider": p.Name}).
					WithError(err).Warn("failed to send external notification")
			}
		}(provider)
	}
}

// TestProvider sends a test message through the given provider URL.
func (s *NotificationService) TestProvider(url string) error {
	return shoutrrr.Send(url, "Test notification from Accenprove")
}
