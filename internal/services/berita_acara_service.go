package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/DivaAnanda/accenprove-sub001/internal/metrics"
	"github.com/DivaAnanda/accenprove-sub001/internal/models"
)

var (
	// ErrBANotFound is returned when the referenced record does not exist.
	ErrBANotFound = errors.New("berita acara not found")
	// ErrBANotPending rejects review actions on records that already left PENDING.
	ErrBANotPending = errors.New("berita acara is not pending review")
	// ErrBANotRejected rejects resubmission of records that were not rejected.
	ErrBANotRejected = errors.New("only a rejected berita acara can be resubmitted")
	// ErrRejectionReasonRequired enforces a reason on every rejection.
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	// ErrNotRecordOwner rejects vendors touching records they do not own.
	ErrNotRecordOwner = errors.New("berita acara belongs to another vendor")
)

// BeritaAcaraService implements the handover-record workflow:
// vendor submits (PENDING), direksi approves or rejects, vendor may revise and
// resubmit a rejected record.
type BeritaAcaraService struct {
	db            *gorm.DB
	audit         *AuditService
	notifications *NotificationService
}

// NewBeritaAcaraService wires the workflow service with its collaborators.
func NewBeritaAcaraService(db *gorm.DB, audit *AuditService, notifications *NotificationService) *BeritaAcaraService {
	return &BeritaAcaraService{db: db, audit: audit, notifications: notifications}
}

// Submit creates a new record in PENDING for the calling vendor.
func (s *BeritaAcaraService) Submit(ctx context.Context, vendor *models.User, title, description string, info RequestInfo) (*models.BeritaAcara, error) {
	number, err := s.nextNumber()
	if err != nil {
		return nil, err
	}

	ba := models.BeritaAcara{
		Number:      number,
		Title:       title,
		Description: description,
		VendorID:    vendor.ID,
		Status:      models.BAStatusPending,
	}
	if err := s.db.Create(&ba).Error; err != nil {
		return nil, fmt.Errorf("create berita acara: %w", err)
	}

	metrics.IncBATransition(models.BAStatusPending)
	s.audit.Record(ctx, AuditEntry{
		UserID:      &vendor.ID,
		UserEmail:   vendor.Email,
		UserRole:    vendor.Role,
		Action:      "ba.submitted",
		Category:    models.AuditCategoryBA,
		Description: fmt.Sprintf("%s submitted berita acara %s", vendor.Email, ba.Number),
		TargetType:  "berita_acara",
		TargetID:    &ba.ID,
		TargetName:  ba.Number,
		IPAddress:   info.IPAddress,
		UserAgent:   info.UserAgent,
		Metadata:    map[string]any{"title": ba.Title},
	})

	s.notifyReviewers(ba.Number, fmt.Sprintf("New berita acara %s submitted by %s awaits review.", ba.Number, vendor.FullName()))

	return &ba, nil
}

// Resubmit lets the owning vendor revise a rejected record and return it to
// PENDING for another review round.
func (s *BeritaAcaraService) Resubmit(ctx context.Context, vendor *models.User, id uint, title, description string, info RequestInfo) (*models.BeritaAcara, error) {
	ba, err := s.byID(id)
	if err != nil {
		return nil, err
	}
	if ba.VendorID != vendor.ID {
		return nil, ErrNotRecordOwner
	}
	if ba.Status != models.BAStatusRejected {
		return nil, ErrBANotRejected
	}

	updates := map[string]interface{}{
		"status":           models.BAStatusPending,
		"reviewed_by":      nil,
		"reviewed_at":      nil,
		"review_note":      "",
		"rejection_reason": "",
	}
	if title != "" {
		updates["title"] = title
	}
	if description != "" {
		updates["description"] = description
	}
	if err := s.db.Model(ba).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("resubmit berita acara: %w", err)
	}
	ba, err = s.byID(id)
	if err != nil {
		return nil, err
	}

	metrics.IncBATransition(models.BAStatusPending)
	s.audit.Record(ctx, AuditEntry{
		UserID:      &vendor.ID,
		UserEmail:   vendor.Email,
		UserRole:    vendor.Role,
		Action:      "ba.resubmitted",
		Category:    models.AuditCategoryBA,
		Description: fmt.Sprintf("%s resubmitted berita acara %s", vendor.Email, ba.Number),
		TargetType:  "berita_acara",
		TargetID:    &ba.ID,
		TargetName:  ba.Number,
		IPAddress:   info.IPAddress,
		UserAgent:   info.UserAgent,
	})

	s.notifyReviewers(ba.Number, fmt.Sprintf("Berita acara %s was revised and awaits review again.", ba.Number))

	return ba, nil
}

// Approve moves a pending record to APPROVED with an optional note.
func (s *BeritaAcaraService) Approve(ctx context.Context, reviewer *models.User, id uint, note string, info RequestInfo) (*models.BeritaAcara, error) {
	return s.review(ctx, reviewer, id, models.BAStatusApproved, note, "", info)
}

// Reject moves a pending record to REJECTED. A reason is mandatory so the
// vendor knows what to fix.
func (s *BeritaAcaraService) Reject(ctx context.Context, reviewer *models.User, id uint, reason string, info RequestInfo) (*models.BeritaAcara, error) {
	if reason == "" {
		return nil, ErrRejectionReasonRequired
	}
	return s.review(ctx, reviewer, id, models.BAStatusRejected, "", reason, info)
}

func (s *BeritaAcaraService) review(ctx context.Context, reviewer *models.User, id uint, status, note, reason string, info RequestInfo) (*models.BeritaAcara, error) {
	ba, err := s.byID(id)
	if err != nil {
		return nil, err
	}
	if !ba.IsPending() {
		return nil, ErrBANotPending
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":           status,
		"reviewed_by":      reviewer.ID,
		"reviewed_at":      now,
		"review_note":      note,
		"rejection_reason": reason,
	}
	if err := s.db.Model(ba).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update berita acara status: %w", err)
	}
	ba.Status = status
	ba.ReviewedBy = &reviewer.ID
	ba.ReviewedAt = &now
	ba.ReviewNote = note
	ba.RejectionReason = reason

	action := "ba.approved"
	desc := fmt.Sprintf("%s approved berita acara %s", reviewer.Email, ba.Number)
	if status == models.BAStatusRejected {
		action = "ba.rejected"
		desc = fmt.Sprintf("%s rejected berita acara %s: %s", reviewer.Email, ba.Number, reason)
	}

	metrics.IncBATransition(status)
	s.audit.Record(ctx, AuditEntry{
		UserID:      &reviewer.ID,
		UserEmail:   reviewer.Email,
		UserRole:    reviewer.Role,
		Action:      action,
		Category:    models.AuditCategoryBA,
		Description: desc,
		TargetType:  "berita_acara",
		TargetID:    &ba.ID,
		TargetName:  ba.Number,
		IPAddress:   info.IPAddress,
		UserAgent:   info.UserAgent,
		Metadata:    map[string]any{"status": status},
	})

	s.notifyVendor(ba, status, reason)

	return ba, nil
}

// ListOptions scope the listing. Vendors only ever see their own records.
type ListOptions struct {
	VendorID *uint
	Status   string
	Search   string
}

// List returns a page of records ordered newest first.
func (s *BeritaAcaraService) List(opts ListOptions, page, limit int) ([]models.BeritaAcara, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := s.db.Model(&models.BeritaAcara{}).Preload("Vendor")
	if opts.VendorID != nil {
		query = query.Where("vendor_id = ?", *opts.VendorID)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		query = query.Where("number LIKE ? OR title LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var items []models.BeritaAcara
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return items, Pagination{
		Page:        page,
		Limit:       limit,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

// Get loads one record with its vendor.
func (s *BeritaAcaraService) Get(id uint) (*models.BeritaAcara, error) {
	var ba models.BeritaAcara
	if err := s.db.Preload("Vendor").First(&ba, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBANotFound
		}
		return nil, err
	}
	return &ba, nil
}

// StatusCounts returns the per-status totals used by the dashboard charts.
// When vendorID is non-nil the counts are scoped to that vendor.
func (s *BeritaAcaraService) StatusCounts(vendorID *uint) (map[string]int64, error) {
	counts := map[string]int64{
		models.BAStatusPending:  0,
		models.BAStatusApproved: 0,
		models.BAStatusRejected: 0,
	}

	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	query := s.db.Model(&models.BeritaAcara{}).Select("status, COUNT(*) as total").Group("status")
	if vendorID != nil {
		query = query.Where("vendor_id = ?", *vendorID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// MonthlyCount is one point of the dashboard submissions-per-month chart.
type MonthlyCount struct {
	Month string `json:"month"`
	Total int64  `json:"total"`
}

// MonthlyCounts returns submission totals per month for the current year,
// zero-filled so the chart always has twelve points.
func (s *BeritaAcaraService) MonthlyCounts(vendorID *uint) ([]MonthlyCount, error) {
	year := time.Now().Year()

	type row struct {
		Month string
		Total int64
	}
	var rows []row
	query := s.db.Model(&models.BeritaAcara{}).
		Select("strftime('%Y-%m', created_at) as month, COUNT(*) as total").
		Where("strftime('%Y', created_at) = ?", fmt.Sprintf("%d", year)).
		Group("month")
	if vendorID != nil {
		query = query.Where("vendor_id = ?", *vendorID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows))
	for _, r := range rows {
		totals[r.Month] = r.Total
	}

	series := make([]MonthlyCount, 0, 12)
	for m := 1; m <= 12; m++ {
		key := fmt.Sprintf("%d-%02d", year, m)
		series = append(series, MonthlyCount{Month: key, Total: totals[key]})
	}
	return series, nil
}

func (s *BeritaAcaraService) byID(id uint) (*models.BeritaAcara, error) {
	var ba models.BeritaAcara
	if err := s.db.First(&ba, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBANotFound
		}
		return nil, err
	}
	return &ba, nil
}

func (s *BeritaAcaraService) nextNumber() (string, error) {
	year := time.Now().Year()
	var count int64
	if err := s.db.Model(&models.BeritaAcara{}).
		Where("number LIKE ?", fmt.Sprintf("BA/%d/%%", year)).
		Count(&count).Error; err != nil {
		return "", fmt.Errorf("count berita acara: %w", err)
	}
	return fmt.Sprintf("BA/%d/%04d", year, count+1), nil
}

func (s *BeritaAcaraService) notifyReviewers(number, message string) {
	if s.notifications == nil {
		return
	}
	s.notifications.NotifyRole(models.RoleDireksi, models.NotificationTypeInfo, "Berita acara pending review", message)
	s.notifications.SendExternal("ba", "Berita acara "+number, message)
}

func (s *BeritaAcaraService) notifyVendor(ba *models.BeritaAcara, status, reason string) {
	if s.notifications == nil {
		return
	}
	switch status {
	case models.BAStatusApproved:
		s.notifications.NotifyUser(ba.VendorID, models.NotificationTypeSuccess,
			"Berita acara approved", fmt.Sprintf("Berita acara %s was approved.", ba.Number))
	case models.BAStatusRejected:
		s.notifications.NotifyUser(ba.VendorID, models.NotificationTypeWarning,
			"Berita acara rejected", fmt.Sprintf("Berita acara %s was rejected: %s", ba.Number, reason))
	}
	s.notifications.SendExternal("ba", "Berita acara "+ba.Number,
		fmt.Sprintf("Berita acara %s is now %s.", ba.Number, status))
}
