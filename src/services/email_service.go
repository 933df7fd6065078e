// backend/src/services/email_service.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/username/srriwatch/backend/src/config"
	"github.com/username/srriwatch/backend/src/logger"
)

func NewEmailService() EmailService {
	if config.Cfg == nil {
		slog.Error("Configuration (config.Cfg) is nil. Email service will default to mock.")
		return &MockEmailService{}
	}

	provider := strings.ToLower(config.Cfg.EmailServiceProvider)
	logger.L.Info("Initializing email service", "provider", provider)

	switch provider {
	case "mailgun":
		if config.Cfg.MailgunDomain == "" || config.Cfg.MailgunPrivateAPIKey == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("Mailgun configuration incomplete (Domain, API Key, or SenderEmail missing). Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		mg := mailgun.NewMailgun(config.Cfg.MailgunDomain, config.Cfg.MailgunPrivateAPIKey)
		logger.L.Info("Mailgun client initialized", "domain", config.Cfg.MailgunDomain)
		return &MailgunEmailService{
			mg:          mg,
			senderEmail: config.Cfg.SenderEmail,
			senderName:  config.Cfg.SenderName,
		}
	default:
		logger.L.Info("Defaulting to MockEmailService.")
		return &MockEmailService{}
	}
}

type MailgunEmailService struct {
	mg          mailgun.Mailgun
	senderEmail string
	senderName  string
}

func (s *MailgunEmailService) SendMismatchReport(toEmail string, runID string, mismatchCount int, reportCSV []byte) error {
	from := fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	subject := fmt.Sprintf("SRRI reconciliation: %d mismatch(es) found", mismatchCount)

	plainTextBody := fmt.Sprintf(`Reconciliation run %s finished with %d share class(es) whose published KIID risk category disagrees with the monitored one.

The full report is attached as CSV.

SRRI Watch`, runID, mismatchCount)

	message := s.mg.NewMessage(from, subject, plainTextBody, toEmail)
	message.AddBufferAttachment(fmt.Sprintf("srri_mismatches_%s.csv", runID), reportCSV)
	message.AddTag("srri-mismatch-report")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()
	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		logger.L.Error("Failed to send mismatch report via Mailgun", "error", err, "to", toEmail, "mailgunResp", resp, "mailgunId", id)
		return fmt.Errorf("mailgun send failed: %w. Response: %s", err, resp)
	}
	logger.L.Info("Mismatch report sent successfully via Mailgun", "to", toEmail, "runID", runID, "id", id)
	return nil
}

type MockEmailService struct{}

func (m *MockEmailService) SendMismatchReport(toEmail string, runID string, mismatchCount int, reportCSV []byte) error {
	logger.L.Info("MockEmailService: Would send mismatch report.",
		"to", toEmail, "runID", runID, "mismatches", mismatchCount, "reportBytes", len(reportCSV))
	return nil
}
