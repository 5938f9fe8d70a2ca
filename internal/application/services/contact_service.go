package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studio-one/portfolio-api/internal/domain/activity"
	"github.com/studio-one/portfolio-api/internal/domain/repositories"
	"github.com/studio-one/portfolio-api/internal/infrastructure/email"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
)

var (
	ErrMissingReplyFields = errors.New("missing required parameters: submissionId, replyText, recipientEmail, recipientName are required")

	ErrSubmissionNotFound = errors.New("contact submission not found")

	ErrEmailNotConfigured = errors.New("email delivery is not configured")
)

// ContactReplyRequest is the admin's reply to one contact submission.
type ContactReplyRequest struct {
	SubmissionID   string `json:"submissionId"`
	ReplyText      string `json:"replyText"`
	RecipientEmail string `json:"recipientEmail"`
	RecipientName  string `json:"recipientName"`
}

// ContactReplyResult reports what happened after the email went out.
type ContactReplyResult struct {
	Message       string `json:"message"`
	MessageID     string `json:"messageId,omitempty"`
	StatusUpdated bool   `json:"statusUpdated"`
}

// ContactService sends replies to contact form submissions.
type ContactService struct {
	contacts repositories.ContactRepository
	mailer   email.Service
	audit    *AuditRecorder
	logger   *logging.ChanneledLogger
	now      func() time.Time
}

// NewContactService creates a new contact service. mailer may be nil when
// email is not configured; replies then fail with ErrEmailNotConfigured.
func NewContactService(contacts repositories.ContactRepository, mailer email.Service, audit *AuditRecorder, logger *logging.ChanneledLogger) *ContactService {
	return &ContactService{
		contacts: contacts,
		mailer:   mailer,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

// SendReply emails the reply, then marks the submission as replied. A failed
// status update is logged but does not fail the call since the email is
// already out.
func (s *ContactService) SendReply(ctx context.Context, actorID string, req ContactReplyRequest) (*ContactReplyResult, error) {
	if strings.TrimSpace(req.SubmissionID) == "" || strings.TrimSpace(req.ReplyText) == "" ||
		strings.TrimSpace(req.RecipientEmail) == "" || strings.TrimSpace(req.RecipientName) == "" {
		return nil, ErrMissingReplyFields
	}
	if s.mailer == nil {
		return nil, ErrEmailNotConfigured
	}

	submission, err := s.contacts.FindByID(ctx, req.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact submission: %w", err)
	}
	if submission == nil {
		return nil, fmt.Errorf("%w: %s", ErrSubmissionNotFound, req.SubmissionID)
	}
	if !strings.EqualFold(submission.Email, req.RecipientEmail) {
		s.logger.Email().Warn("Reply recipient differs from submission email", "submissionId", req.SubmissionID)
	}

	messageID, err := s.mailer.SendContactReply(ctx, email.ContactReply{
		RecipientEmail: req.RecipientEmail,
		RecipientName:  req.RecipientName,
		ReplyText:      req.ReplyText,
	})
	if err != nil {
		return nil, err
	}

	notes := fmt.Sprintf("(Replied via Resend) %s:\n\n%s", s.now().UTC().Format(time.RFC3339Nano), req.ReplyText)
	result := &ContactReplyResult{
		Message:   "Reply sent successfully and submission status updated.",
		MessageID: messageID,
	}
	affected, err := s.contacts.MarkReplied(ctx, req.SubmissionID, notes)
	switch {
	case err != nil:
		s.logger.Email().Error("Reply sent but submission status update failed", "submissionId", req.SubmissionID, "error", err.Error())
		result.Message = "Reply sent successfully, but the submission status could not be updated."
	case affected == 0:
		s.logger.Email().Warn("Reply sent but no submission row was updated", "submissionId", req.SubmissionID)
		result.Message = "Reply sent successfully, but the submission status could not be updated."
	default:
		result.StatusUpdated = true
	}

	s.audit.Record(ctx, activity.ActionContactReplySent,
		fmt.Sprintf("Admin replied to contact submission from %s.", req.RecipientName),
		actorID,
		activity.ContactReplyDetails{
			SubmissionID:   req.SubmissionID,
			RecipientEmail: req.RecipientEmail,
			MessageID:      messageID,
			StatusUpdated:  result.StatusUpdated,
		})
	return result, nil
}
