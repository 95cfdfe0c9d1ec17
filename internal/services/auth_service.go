package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/DivaAnanda/accenprove-sub001/internal/logger"
	"github.com/DivaAnanda/accenprove-sub001/internal/metrics"
	"github.com/DivaAnanda/accenprove-sub001/internal/models"
)

var (
	// ErrInvalidCredentials is returned for unknown email, wrong password and
	// inactive account alike. The audit trail keeps the real cause; the client
	// never learns which check failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrWrongPassword is returned when a password change fails the old-password check.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrResetTokenInvalid is returned for unknown or expired reset tokens.
	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")
)

const resetTokenTTL = time.Hour

// RequestInfo carries per-request network context into service calls so audit
// rows can record where an action came from.
type RequestInfo struct {
	IPAddress string
	UserAgent string
}

// AuthService handles credential checks, session issuance and the password
// reset flow.
type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
	audit  *AuditService
	mail   *MailService
}

// NewAuthService wires the auth service with its collaborators.
func NewAuthService(db *gorm.DB, tokens *TokenService, audit *AuditService, mail *MailService) *AuthService {
	return &AuthService{db: db, tokens: tokens, audit: audit, mail: mail}
}

// Login verifies credentials and returns a signed session token. Every
// attempt is audited; failed attempts record the operator-visible cause in the
// description while the returned error stays generic.
func (s *AuthService) Login(ctx context.Context, email, password string, info RequestInfo) (string, *models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.auditLoginFailure(ctx, nil, email, "user not found", info)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive {
		s.auditLoginFailure(ctx, &user, email, "account inactive", info)
		return "", nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		s.auditLoginFailure(ctx, &user, email, "invalid password", info)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(&user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		logger.WithFields(map[string]interface{}{"user_id": user.ID}).
			WithError(err).Warn("failed to update last login")
	}

	metrics.IncLoginAttempt("success")
	s.audit.Record(ctx, AuditEntry{
		UserID:      &user.ID,
		UserEmail:   user.Email,
		UserRole:    user.Role,
		Action:      "user.login.success",
		Category:    models.AuditCategoryAuthentication,
		Description: fmt.Sprintf("%s logged in", user.Email),
		IPAddress:   info.IPAddress,
		UserAgent:   info.UserAgent,
	})

	return token, &user, nil
}

func (s *AuthService) auditLoginFailure(ctx context.Context, user *models.User, email, cause string, info RequestInfo) {
	metrics.IncLoginAttempt("failed")
	entry := AuditEntry{
		UserEmail:   email,
		Action:      "user.login.failed",
		Category:    models.AuditCategoryAuthentication,
		Description: fmt.Sprintf("login failed for %s: %s", email, cause),
		IPAddress:   info.IPAddress,
		UserAgent:   info.UserAgent,
		Status:      models.AuditStatusFailed,
	}
	if user != nil {
		entry.UserID = &user.ID
		entry.UserRole = user.Role
	}
	s.audit.Record(ctx, entry)
}

// Logout records the end of a session. Cookie clearing happens at the handler.
func (s *AuthService) Logout(ctx context.Context, user *models.User, info RequestInfo) {
	s.audit.Record(ctx, AuditEntry{
		UserID:      &user.ID,
		UserEmail:   user.Email,
		UserRole:    user.Role,
		Action:      "user.logout",
		Category:    models.AuditCategoryAuthentication,
		Description: fmt.Sprintf("%s logged out", user.Email),
		IPAddress:   info.IPAddress,
		UserAgent:   info.UserAgent,
	})
}

// GetUserByID loads a user by primary key.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword verifies the old password before setting a new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string, info RequestInfo) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(oldPassword) {
		s.audit.Record(ctx, AuditEntry{
			UserID:      &user.ID,
			UserEmail:   user.Email,
			UserRole:    user.Role,
			Action:      "user.password.change.failed",
			Category:    models.AuditCategoryProfile,
			Description: fmt.Sprintf("password change rejected for %s: wrong current password", user.Email),
			IPAddress:   info.IPAddress,
			UserAgent:   info.UserAgent,
			Status:      models.AuditStatusFailed,
		})
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.Model(user).Update("password_hash", user.PasswordHash).Error; err != nil {
		return fmt.Errorf("save password: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		UserID:      &user.ID,
		UserEmail:   user.Email,
		UserRole:    user.Role,
		Action:      "user.password.changed",
		Category:    models.AuditCategoryProfile,
		Description: fmt.Sprintf("%s changed their password", user.Email),
		IPAddress:   info.IPAddress,
		UserAgent:   info.UserAgent,
	})

	return nil
}

// ForgotPassword starts the reset flow. It deliberately succeeds whether or
// not the email exists so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string, info RequestInfo) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.audit.Record(ctx, AuditEntry{
				UserEmail:   email,
				Action:      "user.password.reset.requested",
				Category:    models.AuditCategoryAuthentication,
				Description: fmt.Sprintf("password reset requested for unknown email %s", email),
				IPAddress:   info.IPAddress,
				UserAgent:   info.UserAgent,
				Status:      models.AuditStatusFailed,
			})
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)
	expires := time.Now().Add(resetTokenTTL)

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"reset_token":   token,
		"reset_expires": expires,
	}).Error; err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	// Outbound mail is best effort: a send failure must not fail the request.
	if s.mail != nil {
		go func() {
			if err := s.mail.SendPasswordReset(user.Email, user.FullName(), token); err != nil {
				logger.WithFields(map[string]interface{}{"email": user.Email}).
					WithError(err).Warn("failed to send password reset email")
			}
		}()
	}

	s.audit.Record(ctx, AuditEntry{
		UserID:      &user.ID,
		UserEmail:   user.Email,
		UserRole:    user.Role,
		Action:      "user.password.reset.requested",
		Category:    models.AuditCategoryAuthentication,
		Description: fmt.Sprintf("password reset requested for %s", user.Email),
		IPAddress:   info.IPAddress,
		UserAgent:   info.UserAgent,
	})

	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string, info RequestInfo) error {
	var user models.User
	if err := s.db.Where("reset_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}

	if !user.HasValidResetToken() {
		return ErrResetTokenInvalid
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"password_hash": user.PasswordHash,
		"reset_token":   "",
		"reset_expires": nil,
	}).Error; err != nil {
		return fmt.Errorf("save password: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		UserID:      &user.ID,
		UserEmail:   user.Email,
		UserRole:    user.Role,
		Action:      "user.password.reset.completed",
		Category:    models.AuditCategoryAuthentication,
		Description: fmt.Sprintf("%s reset their password", user.Email),
		IPAddress:   info.IPAddress,
		UserAgent:   info.UserAgent,
	})

	return nil
}
