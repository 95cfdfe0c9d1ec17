package services

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/DivaAnanda/accenprove-sub001/internal/logger"
	"github.com/DivaAnanda/accenprove-sub001/internal/metrics"
	"github.com/DivaAnanda/accenprove-sub001/internal/models"
)

// auditWriteTimeout bounds a single audit insert so a slow store cannot stall
// the request path. The write is best effort either way.
const auditWriteTimeout = 3 * time.Second

// AuditEntry is the caller-facing input for one audit record. Action,
// Category and Description are required; everything else is optional.
type AuditEntry struct {
	UserID       *uint
	UserEmail    string
	UserRole     string
	Action       string
	Category     string
	Description  string
	TargetType   string
	TargetID     *uint
	TargetName   string
	IPAddress    string
	UserAgent    string
	Metadata     map[string]any
	Status       string
	ErrorMessage string
}

// AuditFilters narrows the admin audit listing. All fields are optional and
// combined with AND; Search is matched OR-wise against description, actor
// email, action and target name.
type AuditFilters struct {
	Search   string
	UserID   *uint
	Category string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// AuditService writes and queries the append-only audit trail.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService returns an AuditService using the provided DB.
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record persists one audit entry. It is fire-and-forget from the caller's
// perspective: a failed insert is logged and swallowed, never propagated, so
// audit availability can never abort the primary action that triggered it.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	row := models.AuditLog{
		UserID:       entry.UserID,
		UserEmail:    entry.UserEmail,
		UserRole:     entry.UserRole,
		Action:       entry.Action,
		Category:     entry.Category,
		Description:  entry.Description,
		TargetType:   entry.TargetType,
		TargetID:     entry.TargetID,
		TargetName:   entry.TargetName,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		Status:       entry.Status,
		ErrorMessage: entry.ErrorMessage,
	}

	if row.Status == "" {
		row.Status = models.AuditStatusSuccess
	}

	if len(entry.Metadata) > 0 {
		if raw, err := json.Marshal(entry.Metadata); err == nil {
			row.Metadata = string(raw)
		} else {
			logger.WithFields(map[string]interface{}{"action": entry.Action}).
				WithError(err).Warn("audit metadata not serializable, dropping metadata")
		}
	}

	writeCtx, cancel := context.WithTimeout(ctx, auditWriteTimeout)
	defer cancel()

	if err := s.db.WithContext(writeCtx).Create(&row).Error; err != nil {
		metrics.IncAuditFailure()
		logger.WithFields(map[string]interface{}{
			"action":   entry.Action,
			"category": entry.Category,
		}).WithError(err).Error("audit write failed, entry dropped")
		return
	}

	metrics.IncAuditRecord()
}

// List returns one page of the audit trail ordered by created_at descending.
// Page numbers are 1-indexed; page and limit fall back to 1 and 50.
func (s *AuditService) List(filters AuditFilters, page, limit int) ([]models.AuditLog, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	query := s.db.Model(&models.AuditLog{})

	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where(
			"description LIKE ? OR user_email LIKE ? OR action LIKE ? OR target_name LIKE ?",
			like, like, like, like,
		)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var items []models.AuditLog
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, Pagination{}, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	pagination := Pagination{
		Page:        page,
		Limit:       limit,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}

	return items, pagination, nil
}

// ParseAuditFilters builds AuditFilters from raw query values with a
// permissive policy: values that do not parse are treated as absent.
func ParseAuditFilters(search, userID, category, status, dateFrom, dateTo string) AuditFilters {
	filters := AuditFilters{
		Search:   search,
		Category: category,
		Status:   status,
	}

	if userID != "" {
		if id, err := strconv.ParseUint(userID, 10, 32); err == nil {
			uid := uint(id)
			filters.UserID = &uid
		}
	}

	if dateFrom != "" {
		if t, ok := parseDateOrTime(dateFrom); ok {
			filters.DateFrom = &t
		}
	}
	if dateTo != "" {
		if t, ok := parseDateOrTime(dateTo); ok {
			// A bare date means the whole day is included.
			if len(dateTo) == len("2006-01-02") {
				t = t.Add(24*time.Hour - time.Millisecond)
			}
			filters.DateTo = &t
		}
	}

	return filters
}

func parseDateOrTime(value string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
