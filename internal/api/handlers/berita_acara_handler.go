package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DivaAnanda/accenprove-sub001/internal/api/middleware"
	"github.com/DivaAnanda/accenprove-sub001/internal/models"
	"github.com/DivaAnanda/accenprove-sub001/internal/services"
)

// BeritaAcaraHandler exposes the handover-record workflow. Submit and
// resubmit are vendor routes; approve and reject are direksi routes; listing
// is open to all authenticated roles with vendor results scoped to the caller.
type BeritaAcaraHandler struct {
	baService *services.BeritaAcaraService
}

func NewBeritaAcaraHandler(baService *services.BeritaAcaraService) *BeritaAcaraHandler {
	return &BeritaAcaraHandler{baService: baService}
}

type SubmitBARequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (h *BeritaAcaraHandler) Submit(c *gin.Context) {
	var req SubmitBARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	vendor := middleware.CurrentUser(c)
	ba, err := h.baService.Submit(c.Request.Context(), vendor, req.Title, req.Description, middleware.ClientContext(c.Request))
	if err != nil {
		respondInternal(c, err)
		return
	}

	respondOK(c, http.StatusCreated, ba)
}

type ResubmitBARequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *BeritaAcaraHandler) Resubmit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid berita acara id")
		return
	}

	var req ResubmitBARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	vendor := middleware.CurrentUser(c)
	ba, err := h.baService.Resubmit(c.Request.Context(), vendor, uint(id), req.Title, req.Description, middleware.ClientContext(c.Request))
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	respondOK(c, http.StatusOK, ba)
}

type ReviewBARequest struct {
	Note   string `json:"note"`
	Reason string `json:"reason"`
}

func (h *BeritaAcaraHandler) Approve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid berita acara id")
		return
	}

	// The note is optional, so an empty body is fine.
	var req ReviewBARequest
	_ = c.ShouldBindJSON(&req)

	reviewer := middleware.CurrentUser(c)
	ba, err := h.baService.Approve(c.Request.Context(), reviewer, uint(id), req.Note, middleware.ClientContext(c.Request))
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	respondOK(c, http.StatusOK, ba)
}

func (h *BeritaAcaraHandler) Reject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid berita acara id")
		return
	}

	var req ReviewBARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	reviewer := middleware.CurrentUser(c)
	ba, err := h.baService.Reject(c.Request.Context(), reviewer, uint(id), req.Reason, middleware.ClientContext(c.Request))
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	respondOK(c, http.StatusOK, ba)
}

func (h *BeritaAcaraHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	opts := services.ListOptions{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	user := middleware.CurrentUser(c)
	if user.Role == models.RoleVendor {
		opts.VendorID = &user.ID
	}

	items, pagination, err := h.baService.List(opts, page, limit)
	if err != nil {
		respondInternal(c, err)
		return
	}

	respondPage(c, items, pagination)
}

func (h *BeritaAcaraHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid berita acara id")
		return
	}

	ba, err := h.baService.Get(uint(id))
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	// Vendors only ever see their own records.
	user := middleware.CurrentUser(c)
	if user.Role == models.RoleVendor && ba.VendorID != user.ID {
		respondError(c, http.StatusNotFound, services.ErrBANotFound.Error())
		return
	}

	respondOK(c, http.StatusOK, ba)
}

// Stats returns per-status counts for the dashboard charts, scoped to the
// caller's own records for vendors.
func (h *BeritaAcaraHandler) Stats(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var vendorID *uint
	if user.Role == models.RoleVendor {
		vendorID = &user.ID
	}

	counts, err := h.baService.StatusCounts(vendorID)
	if err != nil {
		respondInternal(c, err)
		return
	}

	monthly, err := h.baService.MonthlyCounts(vendorID)
	if err != nil {
		respondInternal(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"byStatus": counts, "monthly": monthly})
}

func (h *BeritaAcaraHandler) respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBANotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrBANotPending),
		errors.Is(err, services.ErrBANotRejected),
		errors.Is(err, services.ErrRejectionReasonRequired):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotRecordOwner):
		respondError(c, http.StatusForbidden, err.Error())
	default:
		respondInternal(c, err)
	}
}
