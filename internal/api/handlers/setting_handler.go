package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DivaAnanda/accenprove-sub001/internal/services"
)

// SettingHandler manages the SMTP configuration. Admin only.
type SettingHandler struct {
	mailService *services.MailService
}

func NewSettingHandler(mailService *services.MailService) *SettingHandler {
	return &SettingHandler{mailService: mailService}
}

// GetSMTP returns the stored SMTP configuration with the password masked.
func (h *SettingHandler) GetSMTP(c *gin.Context) {
	config, err := h.mailService.GetSMTPConfig()
	if err != nil {
		respondInternal(c, err)
		return
	}

	if config.Password != "" {
		config.Password = "********"
	}
	respondOK(c, http.StatusOK, config)
}

type SMTPRequest struct {
	Host        string `json:"host" binding:"required"`
	Port        int    `json:"port" binding:"required"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	FromAddress string `json:"from_address" binding:"required,email"`
	BaseURL     string `json:"base_url"`
}

// SaveSMTP stores the SMTP configuration. An empty password keeps the
// previously stored one so the masked value never overwrites the secret.
func (h *SettingHandler) SaveSMTP(c *gin.Context) {
	var req SMTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	config := &services.SMTPConfig{
		Host:        req.Host,
		Port:        req.Port,
		Username:    req.Username,
		Password:    req.Password,
		FromAddress: req.FromAddress,
		BaseURL:     req.BaseURL,
	}

	if config.Password == "" || config.Password == "********" {
		if existing, err := h.mailService.GetSMTPConfig(); err == nil {
			config.Password = existing.Password
		}
	}

	if err := h.mailService.SaveSMTPConfig(config); err != nil {
		respondInternal(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "SMTP settings saved")
}
