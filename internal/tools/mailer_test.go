package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSendMissingCredentials(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587}, zap.NewNop())

	out := m.Send(context.Background(), "alice@example.com", "Report", "body")

	assert.False(t, out.Succeeded)
	assert.Equal(t, "alice@example.com", out.To)
	assert.Equal(t, "SMTP credentials not configured", out.Error)
}

func TestMailerDefaults(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{User: "bot@example.com", Pass: "secret"}, zap.NewNop())

	assert.Equal(t, "smtp.gmail.com", m.cfg.Host)
	assert.Equal(t, 587, m.cfg.Port)
	assert.Equal(t, "bot@example.com", m.cfg.From)
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("bot@example.com", "alice@example.com", "Weekly Report", "Line one.\nLine two."))

	assert.True(t, strings.HasPrefix(msg, "From: bot@example.com\r\n"))
	assert.Contains(t, msg, "To: alice@example.com\r\n")
	assert.Contains(t, msg, "Subject: Weekly Report\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=\"utf-8\"\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nLine one.\nLine two."))
}

func TestBuildMessageStripsHeaderInjection(t *testing.T) {
	msg := string(buildMessage("bot@example.com", "alice@example.com", "Hi\r\nBcc: evil@example.com", "body"))

	assert.Contains(t, msg, "Subject: HiBcc: evil@example.com\r\n")
	assert.NotContains(t, msg, "\r\nBcc:")
}
