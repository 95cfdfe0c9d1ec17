package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DivaAnanda/accenprove-sub001/internal/api/middleware"
	"github.com/DivaAnanda/accenprove-sub001/internal/services"
)

// respondOK writes the success envelope with a data payload.
func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondMessage writes the success envelope with only a message.
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

// respondPage writes the success envelope with data and pagination.
func respondPage(c *gin.Context, data any, pagination services.Pagination) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": pagination})
}

// respondError writes the failure envelope. Internal causes must already be
// reduced to a user-facing message before calling this.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondInternal logs the cause server-side and returns a generic 500.
func respondInternal(c *gin.Context, err error) {
	middleware.GetRequestLogger(c).WithError(err).Error("request failed")
	respondError(c, http.StatusInternalServerError, "Internal server error")
}
