package sendgrid

import (
	"context"
	netmail "net/mail"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/selllocal/campaigner/internal/core"
)

// Provider implements the core.Provider interface for SendGrid.
type Provider struct {
	client *sendgrid.Client
	config core.ProviderSettings
}

// NewProvider creates a new SendGrid provider.
func NewProvider(settings core.ProviderSettings) (core.Provider, error) {
	apiKey := settings.Get("api_key")
	if apiKey == "" {
		return nil, core.NewValidationError("api_key", "SendGrid API key is required")
	}

	provider := &Provider{
		client: sendgrid.NewSendClient(apiKey),
		config: settings,
	}

	return provider, nil
}

// Send sends a single message using SendGrid.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	from := parseAddress(msg.From)
	to := parseAddress(msg.To)

	message := mail.NewSingleEmail(from, msg.Subject, to, "", msg.HTML)

	if msg.ReplyTo != "" {
		message.SetReplyTo(parseAddress(msg.ReplyTo))
	}

	if len(msg.Headers) > 0 {
		if message.Headers == nil {
			message.Headers = make(map[string]string)
		}
		for key, value := range msg.Headers {
			message.Headers[key] = value
		}
	}

	response, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return nil, core.WrapProviderError("sendgrid", "send_error", err)
	}

	if response.StatusCode >= 400 {
		return nil, &core.ProviderError{
			Provider:   "sendgrid",
			Code:       "api_error",
			Message:    "SendGrid API error: " + response.Body,
			StatusCode: response.StatusCode,
		}
	}

	// SendGrid reports the assigned ID via the X-Message-Id header.
	messageID := "unknown"
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}

	return &core.SendResult{
		MessageID: messageID,
		Provider:  p.Name(),
		Timestamp: time.Now(),
	}, nil
}

// ValidateConfig validates the provider configuration.
func (p *Provider) ValidateConfig() error {
	if p.config.Get("api_key") == "" {
		return core.NewValidationError("api_key", "SendGrid API key is required")
	}
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "sendgrid"
}

// parseAddress splits an RFC 5322 formatted address into SendGrid's
// name/email pair. Bare addresses pass through with an empty name.
func parseAddress(addr string) *mail.Email {
	if parsed, err := netmail.ParseAddress(addr); err == nil {
		return mail.NewEmail(parsed.Name, parsed.Address)
	}
	return mail.NewEmail("", addr)
}
