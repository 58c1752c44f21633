// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/email/templates"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendWelcomeEmail(toEmail, name string) error
}

// Config carries the sender identity and link target for outgoing mail.
type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
	SiteName  string
	AppURL    string
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client *resend.Client
	cfg    Config
}

// NoopService stands in when no API key is configured. It only logs.
type NoopService struct {
	logger *logging.ChanneledLogger
}

// NewService returns a Resend-backed Service, or a NoopService when the API
// key is empty.
func NewService(cfg Config, logger *logging.ChanneledLogger) Service {
	if cfg.FromEmail == "" {
		cfg.FromEmail = "noreply@fanhub.app"
	}
	if cfg.FromName == "" {
		cfg.FromName = "FanHub"
	}
	if cfg.SiteName == "" {
		cfg.SiteName = cfg.FromName
	}
	if cfg.APIKey == "" {
		logger.Startup().Info("RESEND_API_KEY not set, transactional email disabled")
		return &NoopService{logger: logger}
	}
	return &ResendClient{
		client: resend.NewClient(cfg.APIKey),
		cfg:    cfg,
	}
}

// SendWelcomeEmail composes and sends the sign-up welcome email.
func (c *ResendClient) SendWelcomeEmail(toEmail, name string) error {
	content, err := templates.GetWelcomeEmailContent(templates.WelcomeEmailProps{
		Name:     name,
		SiteName: c.cfg.SiteName,
		AppURL:   c.cfg.AppURL,
	})
	if err != nil {
		return err
	}

	htmlContent, err := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: fmt.Sprintf("Welcome to %s", c.cfg.SiteName),
		Content:   content,
		SiteName:  c.cfg.SiteName,
		SiteURL:   c.cfg.AppURL,
	})
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromEmail),
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Welcome to %s", c.cfg.SiteName),
		Html:    htmlContent,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send welcome email via Resend: %w", err)
	}
	return nil
}

// SendWelcomeEmail logs the skipped send.
func (n *NoopService) SendWelcomeEmail(toEmail, name string) error {
	n.logger.Auth().Debug("Welcome email skipped, email disabled", "to", toEmail)
	return nil
}
