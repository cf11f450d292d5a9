package tools

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// SMTPConfig configures report delivery. User and Pass come from the
// environment, never from config files.
type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	User string `mapstructure:"-"`
	Pass string `mapstructure:"-"`
	From string `mapstructure:"from"`
}

// DeliveryResult is the outcome of one send attempt.
type DeliveryResult struct {
	Succeeded bool
	To        string
	Error     string
}

// SMTPMailer delivers plain-text reports over SMTP with STARTTLS.
type SMTPMailer struct {
	cfg    SMTPConfig
	logger *zap.Logger
}

func NewSMTPMailer(cfg SMTPConfig, logger *zap.Logger) *SMTPMailer {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers one message. Missing credentials or transport failures are
// reported in the result, not as an error, so the pipeline can fold the
// outcome into the final response text.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) DeliveryResult {
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return DeliveryResult{To: to, Error: "SMTP credentials not configured"}
	}

	addr := net.JoinHostPort(m.cfg.Host, fmt.Sprintf("%d", m.cfg.Port))
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	msg := buildMessage(m.cfg.From, to, subject, body)

	// smtp.SendMail negotiates STARTTLS when the server advertises it.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		m.logger.Warn("Email delivery failed",
			zap.String("to", to),
			zap.Error(err),
		)
		return DeliveryResult{To: to, Error: fmt.Sprintf("Failed to send email: %v", err)}
	}

	m.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return DeliveryResult{Succeeded: true, To: to}
}

// buildMessage assembles an RFC 5322 plain-text message. Header values have
// CR/LF stripped so caller-supplied subjects cannot inject extra headers.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + sanitizeHeader(from) + "\r\n")
	b.WriteString("To: " + sanitizeHeader(to) + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func sanitizeHeader(v string) string {
	v = strings.ReplaceAll(v, "\r", "")
	return strings.ReplaceAll(v, "\n", "")
}
