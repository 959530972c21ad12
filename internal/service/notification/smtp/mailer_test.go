package smtp

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func newTestMailer(fake *fakeSender) *Mailer {
	return &Mailer{
		cfg: Config{
			Host: "smtp.example.com",
			Port: 587,
			From: "bot@example.com",
			To:   "ops@example.com",
		},
		dialer: fake,
	}
}

func TestMailerSendText(t *testing.T) {
	fake := &fakeSender{}
	mailer := newTestMailer(fake)

	err := mailer.SendText(context.Background(), "trader@example.com", "fills", "all rungs resting")
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)

	msg := fake.sent[0]
	assert.Equal(t, []string{"bot@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"trader@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"fills"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "all rungs resting")
	assert.Contains(t, buf.String(), "text/plain")
}

func TestMailerSendHTML(t *testing.T) {
	fake := &fakeSender{}
	mailer := newTestMailer(fake)

	err := mailer.SendHTML(context.Background(), "trader@example.com", "report", "<b>flat</b>")
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)

	var buf bytes.Buffer
	_, err = fake.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
	assert.Contains(t, buf.String(), "<b>flat</b>")
}

func TestMailerAlertUsesDefaultRecipient(t *testing.T) {
	fake := &fakeSender{}
	mailer := newTestMailer(fake)

	err := mailer.Alert(context.Background(), "balance floor", "wallet below floor")
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)
	assert.Equal(t, []string{"ops@example.com"}, fake.sent[0].GetHeader("To"))
}

func TestMailerAlertWithoutRecipient(t *testing.T) {
	mailer := &Mailer{cfg: Config{From: "bot@example.com"}, dialer: &fakeSender{}}

	err := mailer.Alert(context.Background(), "subject", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no default alert recipient")
}

func TestMailerHonorsCanceledContext(t *testing.T) {
	fake := &fakeSender{}
	mailer := newTestMailer(fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mailer.SendText(ctx, "trader@example.com", "s", "b")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.sent)
}
