// Package email provides the email client for sending transactional emails.
package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resendlabs/resend-go"
	"github.com/studio-one/portfolio-api/internal/infrastructure/email/templates"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/pkg/config"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("RESEND_API_KEY environment variable is required")

// ContactReply is a reply to a contact form submission.
type ContactReply struct {
	RecipientEmail string
	RecipientName  string
	ReplyText      string
}

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	// SendContactReply returns the provider message id.
	SendContactReply(ctx context.Context, reply ContactReply) (string, error)
}

// Settings holds sender identity and links used in outgoing mail.
type Settings struct {
	FromEmail    string
	FromName     string
	OwnerName    string
	PortfolioURL string
}

// SettingsFromEnv reads Settings from pkg/config.
func SettingsFromEnv() Settings {
	return Settings{
		FromEmail:    config.EmailFrom,
		FromName:     config.EmailFromName,
		OwnerName:    config.OwnerName,
		PortfolioURL: config.PortfolioURL,
	}
}

type sendFunc func(req *resend.SendEmailRequest) (string, error)

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	send     sendFunc
	settings Settings
	logger   *logging.ChanneledLogger
}

// NewService creates a new email service client, returning the Service interface.
func NewService(apiKey string, settings Settings, logger *logging.ChanneledLogger) (Service, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	client := resend.NewClient(apiKey)
	send := func(req *resend.SendEmailRequest) (string, error) {
		sent, err := client.Emails.Send(req)
		if err != nil {
			return "", err
		}
		return sent.Id, nil
	}
	return newResendClient(send, settings, logger), nil
}

func newResendClient(send sendFunc, settings Settings, logger *logging.ChanneledLogger) *ResendClient {
	return &ResendClient{
		send:     send,
		settings: settings,
		logger:   logger,
	}
}

// SendContactReply composes and sends the reply email.
func (c *ResendClient) SendContactReply(ctx context.Context, reply ContactReply) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	owner := c.settings.OwnerName
	subject := fmt.Sprintf("Re: Your Inquiry - %s", owner)

	content := templates.GetContactReplyContent(templates.ContactReplyProps{
		RecipientName: reply.RecipientName,
		ReplyText:     reply.ReplyText,
		OwnerName:     owner,
		PortfolioURL:  c.settings.PortfolioURL,
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Title:        fmt.Sprintf("Reply from %s", owner),
		OwnerName:    owner,
		ContactEmail: c.settings.FromEmail,
		PortfolioURL: c.settings.PortfolioURL,
		Content:      content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.settings.FromName, c.settings.FromEmail),
		To:      []string{reply.RecipientEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	messageID, err := c.send(params)
	if err != nil {
		c.logger.Email().Error("Contact reply send failed", "error", err.Error())
		return "", fmt.Errorf("failed to send contact reply via Resend: %w", err)
	}

	c.logger.Email().Info("Contact reply sent", "messageId", messageID)
	return messageID, nil
}
