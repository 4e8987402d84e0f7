package email

import (
	"context"
	"fmt"
	"time"

	"sainiksetu/internal/config"
	"sainiksetu/internal/logger"
	"sainiksetu/internal/models"

	"github.com/mailgun/mailgun-go/v5"
)

// Service sends grievance notifications through Mailgun. It stays
// disabled unless both the domain and the API key are configured, and
// users without an email address are never contacted.
type Service struct {
	client      mailgun.Mailgun
	domain      string
	senderEmail string
	senderName  string
	enabled     bool
}

func NewService(cfg *config.Config) *Service {
	enabled := cfg.MailgunDomain != "" && cfg.MailgunAPIKey != ""

	var client mailgun.Mailgun
	if enabled {
		client = mailgun.NewMailgun(cfg.MailgunAPIKey)
	}

	return &Service{
		client:      client,
		domain:      cfg.MailgunDomain,
		senderEmail: cfg.MailgunSenderEmail,
		senderName:  cfg.MailgunSenderName,
		enabled:     enabled,
	}
}

func (s *Service) IsEnabled() bool {
	return s.enabled
}

func (s *Service) SendGrievanceFiledEmail(user *models.User, grievance *models.Grievance) error {
	subject := fmt.Sprintf("Grievance received: %s", grievance.Title)
	return s.send(user, subject, generateFiledText(user, grievance), generateFiledHTML(user, grievance))
}

func (s *Service) SendGrievanceStatusEmail(user *models.User, grievance *models.Grievance) error {
	subject := fmt.Sprintf("Grievance %s is now %s", grievance.Reference[:8], grievance.Status)
	return s.send(user, subject, generateStatusText(user, grievance), generateStatusHTML(user, grievance))
}

func (s *Service) send(user *models.User, subject, textBody, htmlBody string) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}
	if user.Email == "" {
		return fmt.Errorf("user %d has no email address", user.ID)
	}

	message := mailgun.NewMessage(
		s.domain,
		fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail),
		subject,
		textBody,
		user.Email,
	)
	message.SetHTML(htmlBody)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", user.Email, err)
	}

	logger.Info("Notification email sent", "email", user.Email, "message_id", resp)
	return nil
}
