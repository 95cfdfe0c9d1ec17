package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DivaAnanda/accenprove-sub001/internal/services"
)

// AuditLogHandler exposes the admin-only audit trail listing.
type AuditLogHandler struct {
	auditService *services.AuditService
}

func NewAuditLogHandler(auditService *services.AuditService) *AuditLogHandler {
	return &AuditLogHandler{auditService: auditService}
}

// List returns one page of the audit trail, newest first. Filter values that
// do not parse are ignored rather than rejected.
func (h *AuditLogHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	filters := services.ParseAuditFilters(
		c.Query("search"),
		c.Query("userId"),
		c.Query("category"),
		c.Query("status"),
		c.Query("dateFrom"),
		c.Query("dateTo"),
	)

	items, pagination, err := h.auditService.List(filters, page, limit)
	if err != nil {
		respondInternal(c, err)
		return
	}

	respondPage(c, items, pagination)
}
