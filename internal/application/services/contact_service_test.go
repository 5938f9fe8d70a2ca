package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studio-one/portfolio-api/internal/domain/activity"
	"github.com/studio-one/portfolio-api/internal/domain/repositories"
	"github.com/studio-one/portfolio-api/internal/infrastructure/email"
	"github.com/studio-one/portfolio-api/internal/infrastructure/persistence/content"
)

type fakeMailer struct {
	sent []email.ContactReply
	err  error
}

func (m *fakeMailer) SendContactReply(_ context.Context, reply email.ContactReply) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, reply)
	return "msg-123", nil
}

// failingReplyStore finds every submission but cannot update it.
type failingReplyStore struct{}

func (failingReplyStore) FindByID(_ context.Context, id string) (*repositories.ContactSubmission, error) {
	return &repositories.ContactSubmission{ID: id, Email: "ada@example.com"}, nil
}

func (failingReplyStore) MarkReplied(context.Context, string, string) (int64, error) {
	return 0, errBoom
}

func validReply() ContactReplyRequest {
	return ContactReplyRequest{
		SubmissionID:   "sub-1",
		ReplyText:      "Thanks for reaching out.\nTalk soon.",
		RecipientEmail: "ada@example.com",
		RecipientName:  "Ada",
	}
}

func newContactFixture(t *testing.T) (*ContactService, *fakeMailer, *memActivityLog, *fakeClock) {
	t.Helper()
	db := newPortfolioDB(t)
	exec(t, db, `INSERT INTO contact_submissions (id, name, email, message, status) VALUES (?, ?, ?, ?, 'New')`,
		"sub-1", "Ada", "ada@example.com", "Hello")

	mailer := &fakeMailer{}
	log := &memActivityLog{}
	clock := newFakeClock()
	svc := NewContactService(content.NewContactRepository(db, discardLogger()), mailer, NewAuditRecorder(log, discardLogger()), discardLogger())
	svc.now = clock.Now

	return svc, mailer, log, clock
}

func TestContactService_SendReply(t *testing.T) {
	svc, mailer, log, clock := newContactFixture(t)
	ctx := context.Background()

	result, err := svc.SendReply(ctx, "admin-1", validReply())
	require.NoError(t, err)

	assert.True(t, result.StatusUpdated)
	assert.Equal(t, "msg-123", result.MessageID)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Ada", mailer.sent[0].RecipientName)

	stored, err := svc.contacts.FindByID(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, content.StatusReplied, stored.Status)
	assert.Equal(t, "(Replied via Resend) "+clock.Now().UTC().Format(time.RFC3339Nano)+":\n\nThanks for reaching out.\nTalk soon.", stored.Notes)

	entries := log.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, activity.ActionContactReplySent, entries[0].ActionType)
	assert.Equal(t, "admin-1", entries[0].UserIdentifier)
	details, ok := entries[0].Details.(activity.ContactReplyDetails)
	require.True(t, ok)
	assert.True(t, details.StatusUpdated)
	assert.Equal(t, "msg-123", details.MessageID)
}

func TestContactService_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ContactReplyRequest)
		wantErr error
	}{
		{"missing submission id", func(r *ContactReplyRequest) { r.SubmissionID = "" }, ErrMissingReplyFields},
		{"blank reply text", func(r *ContactReplyRequest) { r.ReplyText = "   " }, ErrMissingReplyFields},
		{"missing recipient email", func(r *ContactReplyRequest) { r.RecipientEmail = "" }, ErrMissingReplyFields},
		{"missing recipient name", func(r *ContactReplyRequest) { r.RecipientName = "" }, ErrMissingReplyFields},
		{"unknown submission", func(r *ContactReplyRequest) { r.SubmissionID = "nope" }, ErrSubmissionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mailer, log, _ := newContactFixture(t)
			req := validReply()
			tt.mutate(&req)

			_, err := svc.SendReply(context.Background(), "admin-1", req)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, mailer.sent)
			assert.Empty(t, log.snapshot())
		})
	}
}

func TestContactService_MailerFailureLeavesSubmissionUntouched(t *testing.T) {
	svc, mailer, log, _ := newContactFixture(t)
	mailer.err = errBoom

	_, err := svc.SendReply(context.Background(), "admin-1", validReply())
	require.ErrorIs(t, err, errBoom)

	stored, err := svc.contacts.FindByID(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "New", stored.Status)
	assert.Empty(t, log.snapshot())
}

func TestContactService_StatusUpdateFailureStillSucceeds(t *testing.T) {
	mailer := &fakeMailer{}
	log := &memActivityLog{}
	svc := NewContactService(failingReplyStore{}, mailer, NewAuditRecorder(log, discardLogger()), discardLogger())

	result, err := svc.SendReply(context.Background(), "admin-1", validReply())
	require.NoError(t, err)

	assert.False(t, result.StatusUpdated)
	assert.Contains(t, result.Message, "could not be updated")
	assert.Len(t, mailer.sent, 1)
	require.Len(t, log.snapshot(), 1)
}

func TestContactService_NoMailer(t *testing.T) {
	svc := NewContactService(failingReplyStore{}, nil, NewAuditRecorder(&memActivityLog{}, discardLogger()), discardLogger())

	_, err := svc.SendReply(context.Background(), "admin-1", validReply())
	assert.ErrorIs(t, err, ErrEmailNotConfigured)
}
