package resend

import (
	"context"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/selllocal/campaigner/internal/core"
)

// Provider implements the core.Provider interface for the Resend API.
type Provider struct {
	client *resend.Client
	config core.ProviderSettings
}

// NewProvider creates a new Resend provider.
func NewProvider(settings core.ProviderSettings) (core.Provider, error) {
	apiKey := settings.Get("api_key")
	if apiKey == "" {
		return nil, core.NewValidationError("api_key", "Resend API key is required")
	}

	provider := &Provider{
		client: resend.NewClient(apiKey),
		config: settings,
	}

	return provider, nil
}

// Send sends a single message using the Resend API.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}

	if len(msg.Headers) > 0 {
		req.Headers = msg.Headers
	}

	sent, err := p.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return nil, core.WrapProviderError("resend", "send_error", err)
	}

	return &core.SendResult{
		MessageID: sent.Id,
		Provider:  p.Name(),
		Timestamp: time.Now(),
	}, nil
}

// ValidateConfig validates the provider configuration.
func (p *Provider) ValidateConfig() error {
	if p.config.Get("api_key") == "" {
		return core.NewValidationError("api_key", "Resend API key is required")
	}
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "resend"
}
