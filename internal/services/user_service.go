package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DivaAnanda/accenprove-sub001/internal/models"
)

var (
	// ErrUserNotFound is returned when the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when creating or updating to an email that is
	// already registered.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidRole is returned for a role outside the known set.
	ErrInvalidRole = errors.New("invalid role")
	// ErrSelfDeactivation rejects an admin disabling their own account.
	ErrSelfDeactivation = errors.New("you cannot deactivate your own account")
	// ErrPeerAdminDeactivation rejects an admin disabling another admin.
	ErrPeerAdminDeactivation = errors.New("another admin account cannot be deactivated")
)

// UserService implements admin account management. Both deactivation guards
// run against the target's current stored role, after role authorization has
// already passed at the middleware.
type UserService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewUserService returns a UserService using the provided DB.
func NewUserService(db *gorm.DB, audit *AuditService) *UserService {
	return &UserService{db: db, audit: audit}
}

// List returns a page of users, optionally matching the search term against
// email and names.
func (s *UserService) List(search string, page, limit int) ([]models.User, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := s.db.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var users []models.User
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return users, Pagination{
		Page:        page,
		Limit:       limit,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

// CreateInput holds the fields for a new account.
type CreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// Create registers a new account on behalf of an admin.
func (s *UserService) Create(ctx context.Context, actor *models.User, in CreateInput, info RequestInfo) (*models.User, error) {
	if !models.ValidRole(in.Role) {
		return nil, ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	user := models.User{
		UUID:      uuid.New().String(),
		Email:     email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      in.Role,
		IsActive:  true,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		UserID:      &actor.ID,
		UserEmail:   actor.Email,
		UserRole:    actor.Role,
		Action:      "admin.user.created",
		Category:    models.AuditCategoryAdmin,
		Description: fmt.Sprintf("%s created account %s (%s)", actor.Email, user.Email, user.Role),
		TargetType:  "user",
		TargetID:    &user.ID,
		TargetName:  user.Email,
		IPAddress:   info.IPAddress,
		UserAgent:   info.UserAgent,
		Metadata:    map[string]any{"role": user.Role},
	})

	return &user, nil
}

// UpdateInput holds the mutable profile fields. Nil pointers mean unchanged.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Role      *string
}

// Update modifies profile fields of the target account.
func (s *UserService) Update(ctx context.Context, actor *models.User, targetID uint, in UpdateInput, info RequestInfo) (*models.User, error) {
	user, err := s.byID(targetID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return nil, ErrInvalidRole
		}
		updates["role"] = *in.Role
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	s.audit.Record(ctx, AuditEntry{
		UserID:      &actor.ID,
		UserEmail:   actor.Email,
		UserRole:    actor.Role,
		Action:      "admin.user.updated",
		Category:    models.AuditCategoryAdmin,
		Description: fmt.Sprintf("%s updated account %s", actor.Email, user.Email),
		TargetType:  "user",
		TargetID:    &user.ID,
		TargetName:  user.Email,
		IPAddress:   info.IPAddress,
		UserAgent:   info.UserAgent,
	})

	return user, nil
}

// SetActive toggles the activity flag. Two business guards run after role
// authorization: an admin can neither deactivate their own account nor
// another account whose current role is admin. Each guard has its own error
// so the client sees a specific message, and no mutation happens on rejection.
func (s *UserService) SetActive(ctx context.Context, actor *models.User, targetID uint, active bool, info RequestInfo) (*models.User, error) {
	user, err := s.byID(targetID)
	if err != nil {
		return nil, err
	}

	if !active {
		if user.ID == actor.ID {
			return nil, ErrSelfDeactivation
		}
		if user.Role == models.RoleAdmin {
			return nil, ErrPeerAdminDeactivation
		}
	}

	if err := s.db.Model(user).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("update activity flag: %w", err)
	}
	user.IsActive = active

	action := "admin.user.deactivated"
	verb := "deactivated"
	if active {
		action = "admin.user.activated"
		verb = "activated"
	}
	s.audit.Record(ctx, AuditEntry{
		UserID:      &actor.ID,
		UserEmail:   actor.Email,
		UserRole:    actor.Role,
		Action:      action,
		Category:    models.AuditCategoryAdmin,
		Description: fmt.Sprintf("%s %s account %s", actor.Email, verb, user.Email),
		TargetType:  "user",
		TargetID:    &user.ID,
		TargetName:  user.Email,
		IPAddress:   info.IPAddress,
		UserAgent:   info.UserAgent,
	})

	return user, nil
}

func (s *UserService) byID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
