package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/selllocal/campaigner/internal/core"
)

// Provider implements the core.Provider interface for a generic SMTP server.
type Provider struct {
	config core.ProviderSettings
}

// NewProvider creates a new SMTP provider.
func NewProvider(settings core.ProviderSettings) (core.Provider, error) {
	host := settings.Get("host")
	if host == "" {
		return nil, core.NewValidationError("host", "SMTP host is required")
	}

	port := settings.Get("port")
	if port == "" {
		return nil, core.NewValidationError("port", "SMTP port is required")
	}

	if _, err := strconv.Atoi(port); err != nil {
		return nil, core.NewValidationError("port", "invalid port number: "+port)
	}

	return &Provider{config: settings}, nil
}

// Send sends a single message over SMTP.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	host := p.config.Get("host")
	port := p.config.Get("port")
	username := p.config.Get("username")
	password := p.config.Get("password")

	addr := host + ":" + port

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	payload := p.buildMessage(msg)

	// smtp.SendMail expects the bare envelope sender, not a display-name form.
	envelopeFrom := envelopeAddress(msg.From)

	if err := smtp.SendMail(addr, auth, envelopeFrom, []string{msg.To}, payload); err != nil {
		return nil, core.WrapProviderError("smtp", "send_error", err)
	}

	// SMTP does not return a message ID; synthesize one.
	messageID := fmt.Sprintf("%d@%s", time.Now().UnixNano(), host)

	return &core.SendResult{
		MessageID: messageID,
		Provider:  p.Name(),
		Timestamp: time.Now(),
	}, nil
}

// ValidateConfig validates the provider configuration.
func (p *Provider) ValidateConfig() error {
	if p.config.Get("host") == "" {
		return core.NewValidationError("host", "SMTP host is required")
	}

	port := p.config.Get("port")
	if port == "" {
		return core.NewValidationError("port", "SMTP port is required")
	}

	if _, err := strconv.Atoi(port); err != nil {
		return core.NewValidationError("port", "invalid port number: "+port)
	}

	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "smtp"
}

// buildMessage builds the message in RFC 5322 format.
func (p *Provider) buildMessage(msg *core.Message) []byte {
	var b strings.Builder

	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	if msg.ReplyTo != "" {
		b.WriteString("Reply-To: " + msg.ReplyTo + "\r\n")
	}
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	for key, value := range msg.Headers {
		b.WriteString(key + ": " + value + "\r\n")
	}

	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML + "\r\n")

	return []byte(b.String())
}

// envelopeAddress extracts the bare address from "Name <email@domain>" form.
func envelopeAddress(addr string) string {
	if start := strings.LastIndex(addr, "<"); start >= 0 {
		if end := strings.LastIndex(addr, ">"); end > start {
			return addr[start+1 : end]
		}
	}
	return addr
}
