package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"

	"gorm.io/gorm"

	"github.com/DivaAnanda/accenprove-sub001/internal/models"
)

// SMTPConfig holds the SMTP server configuration.
type SMTPConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	FromAddress string `json:"from_address"`
	BaseURL     string `json:"base_url"` // used to build links in emails
}

// MailService sends transactional email. The SMTP configuration lives in the
// settings table so admins can change it at runtime.
type MailService struct {
	db *gorm.DB
}

// NewMailService creates a new mail service instance.
func NewMailService(db *gorm.DB) *MailService {
	return &MailService{db: db}
}

// GetSMTPConfig retrieves SMTP settings from the database.
func (s *MailService) GetSMTPConfig() (*SMTPConfig, error) {
	var settings []models.Setting
	if err := s.db.Where("category = ?", "smtp").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("load SMTP settings: %w", err)
	}

	config := &SMTPConfig{Port: 587}
	for _, setting := range settings {
		switch setting.Key {
		case "smtp_host":
			config.Host = setting.Value
		case "smtp_port":
			if port, err := strconv.Atoi(setting.Value); err == nil {
				config.Port = port
			}
		case "smtp_username":
			config.Username = setting.Value
		case "smtp_password":
			config.Password = setting.Value
		case "smtp_from_address":
			config.FromAddress = setting.Value
		case "smtp_base_url":
			config.BaseURL = setting.Value
		}
	}

	return config, nil
}

// SaveSMTPConfig upserts SMTP settings into the settings table.
func (s *MailService) SaveSMTPConfig(config *SMTPConfig) error {
	settings := map[string]string{
		"smtp_host":         config.Host,
		"smtp_port":         strconv.Itoa(config.Port),
		"smtp_username":     config.Username,
		"smtp_password":     config.Password,
		"smtp_from_address": config.FromAddress,
		"smtp_base_url":     config.BaseURL,
	}

	for key, value := range settings {
		setting := models.Setting{Key: key, Value: value, Type: "string", Category: "smtp"}
		if err := s.db.Where(models.Setting{Key: key}).
			Assign(models.Setting{Value: value, Category: "smtp"}).
			FirstOrCreate(&setting).Error; err != nil {
			return fmt.Errorf("save setting %s: %w", key, err)
		}
	}

	return nil
}

// IsConfigured returns true if SMTP is properly configured.
func (s *MailService) IsConfigured() bool {
	config, err := s.GetSMTPConfig()
	if err != nil {
		return false
	}
	return config.Host != "" && config.FromAddress != ""
}

var resetMailTemplate = template.Must(template.New("reset").Parse(`
<p>Hello {{.Name}},</p>
<p>A password reset was requested for your Accenprove account. The link below
is valid for one hour:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If you did not request this, you can ignore this email.</p>
`))

// SendPasswordReset emails a reset link to the user. Callers treat failures
// as non-fatal; the triggering request must not fail on a mail error.
func (s *MailService) SendPasswordReset(email, name, token string) error {
	config, err := s.GetSMTPConfig()
	if err != nil {
		return err
	}
	if config.Host == "" || config.FromAddress == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", config.BaseURL, token)
	var body bytes.Buffer
	if err := resetMailTemplate.Execute(&body, map[string]string{"Name": name, "Link": link}); err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}

	return s.send(config, email, "Accenprove password reset", body.String())
}

func (s *MailService) send(config *SMTPConfig, to, subject, htmlBody string) error {
	msg := bytes.Buffer{}
	msg.WriteString(fmt.Sprintf("From: %s\r\n", config.FromAddress))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	var auth smtp.Auth
	if config.Username != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	if err := smtp.SendMail(addr, auth, config.FromAddress, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
