package email

import (
	"context"
	"errors"
	"testing"

	"github.com/resendlabs/resend-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
)

var testSettings = Settings{
	FromEmail:    "me@example.com",
	FromName:     "Sam",
	OwnerName:    "Sam Doe",
	PortfolioURL: "https://portfolio.example.com",
}

func TestNewService_RequiresAPIKey(t *testing.T) {
	_, err := NewService("", testSettings, logging.NewDiscardLogger())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestResendClient_SendContactReply(t *testing.T) {
	var captured *resend.SendEmailRequest
	client := newResendClient(func(req *resend.SendEmailRequest) (string, error) {
		captured = req
		return "msg_123", nil
	}, testSettings, logging.NewDiscardLogger())

	id, err := client.SendContactReply(context.Background(), ContactReply{
		RecipientEmail: "ada@example.com",
		RecipientName:  "Ada",
		ReplyText:      "Hello\nthere",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)

	require.NotNil(t, captured)
	assert.Equal(t, "Sam <me@example.com>", captured.From)
	assert.Equal(t, []string{"ada@example.com"}, captured.To)
	assert.Equal(t, "Re: Your Inquiry - Sam Doe", captured.Subject)
	assert.Contains(t, captured.Html, "Hello<br>there")
	assert.Contains(t, captured.Html, "Hi Ada,")
}

func TestResendClient_SendContactReplyError(t *testing.T) {
	boom := errors.New("rate limited")
	client := newResendClient(func(*resend.SendEmailRequest) (string, error) {
		return "", boom
	}, testSettings, logging.NewDiscardLogger())

	_, err := client.SendContactReply(context.Background(), ContactReply{RecipientEmail: "a@b.c"})
	assert.ErrorIs(t, err, boom)
}

func TestResendClient_CancelledContext(t *testing.T) {
	client := newResendClient(func(*resend.SendEmailRequest) (string, error) {
		t.Fatal("send should not be called")
		return "", nil
	}, testSettings, logging.NewDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.SendContactReply(ctx, ContactReply{RecipientEmail: "a@b.c"})
	assert.ErrorIs(t, err, context.Canceled)
}
