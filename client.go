package campaigner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/selllocal/campaigner/internal/core"
	"github.com/selllocal/campaigner/internal/providers/resend"
	"github.com/selllocal/campaigner/internal/providers/sendgrid"
	"github.com/selllocal/campaigner/internal/providers/ses"
	"github.com/selllocal/campaigner/internal/providers/smtp"
)

// Type aliases to re-export core types for the public API. This keeps the
// provider implementations internal while letting callers supply their own
// Provider (the test doubles do exactly that).
type (
	Provider         = core.Provider
	ProviderSettings = core.ProviderSettings
	Message          = core.Message
	ProviderError    = core.ProviderError
	ValidationError  = core.ValidationError
)

// Error constructor functions re-exported from core.
var (
	NewProviderError   = core.NewProviderError
	NewValidationError = core.NewValidationError
)

// Status classifies the outcome of one contact in a run.
type Status string

const (
	// StatusSent means the provider accepted the message.
	StatusSent Status = "sent"

	// StatusFailed means the provider rejected the message; the reason is
	// recorded and the run continues.
	StatusFailed Status = "failed"

	// StatusSkipped means dry-run mode suppressed the delivery call.
	StatusSkipped Status = "skipped"
)

// SendResult is the per-contact outcome of a run. Results are reported to
// the caller only; nothing is persisted.
type SendResult struct {
	// Email is the contact's address.
	Email string

	// Status is the outcome classification.
	Status Status

	// MessageID is the provider-assigned ID for sent messages.
	MessageID string

	// Subject is the rendered subject, kept for preview output.
	Subject string

	// Err is the delivery failure, nil unless Status is StatusFailed.
	Err error
}

// RunSummary aggregates the results of one campaign run.
type RunSummary struct {
	// Campaign is the campaign name.
	Campaign string

	// Results holds one entry per contact, in send order.
	Results []SendResult

	// Sent, Failed and Skipped count the outcomes.
	Sent    int
	Failed  int
	Skipped int
}

// RunOptions control a single campaign run.
type RunOptions struct {
	// DryRun renders every message but never calls the provider.
	DryRun bool

	// Delay is the pause between consecutive send attempts, respected to
	// stay under provider rate limits. It is not applied after the final
	// contact, and not at all in dry-run mode.
	Delay time.Duration
}

// Client sends campaigns through a configured delivery provider.
// A Client is safe for sequential reuse across campaigns.
type Client struct {
	config   Config
	provider Provider
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New creates a new campaign client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	client := &Client{
		config: cfg,
		logger: slog.Default(),
		tracer: otel.Tracer("github.com/selllocal/campaigner"),
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := client.config.Validate(); err != nil {
		return nil, err
	}

	// An injected provider (tests, custom transports) wins over config.
	if client.provider == nil {
		provider, err := createProvider(cfg.Provider, cfg.providerSettings())
		if err != nil {
			return nil, fmt.Errorf("failed to create %s provider: %w", cfg.Provider, err)
		}
		client.provider = provider
	}

	return client, nil
}

// ProviderName returns the name of the configured delivery provider.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// Run iterates the campaign's contact list in order, rendering and sending
// one message per contact. A per-contact delivery failure is logged and
// recorded, never aborts the loop. Run returns an error only for conditions
// outside the sending phase: ErrNoContacts for an empty list, or context
// cancellation. The summary is valid in both cases and reflects progress
// so far.
//
// Reruns have no memory: a second Run sends to every contact again,
// including those that already succeeded.
func (c *Client) Run(ctx context.Context, campaign *Campaign, opts RunOptions) (*RunSummary, error) {
	ctx, span := c.tracer.Start(ctx, "campaigner.Client.Run",
		trace.WithAttributes(
			attribute.String("campaign.name", campaign.Name),
			attribute.Int("campaign.contacts", campaign.Contacts.Len()),
			attribute.Bool("campaign.dry_run", opts.DryRun),
			attribute.String("campaign.provider", c.provider.Name()),
		),
	)
	defer span.End()

	summary := &RunSummary{Campaign: campaign.Name}

	if campaign.Contacts.Len() == 0 {
		span.SetStatus(codes.Ok, "no contacts")
		return summary, ErrNoContacts
	}

	last := campaign.Contacts.Len() - 1
	for i, contact := range campaign.Contacts.Contacts {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "run interrupted")
			return summary, err
		}

		result := c.sendOne(ctx, campaign, contact, opts.DryRun)
		summary.Results = append(summary.Results, result)

		switch result.Status {
		case StatusSent:
			summary.Sent++
			c.logger.Info("sent", "campaign", campaign.Name, "to", result.Email, "id", result.MessageID)
		case StatusFailed:
			summary.Failed++
			c.logger.Error("send failed", "campaign", campaign.Name, "to", result.Email, "reason", result.Err)
		case StatusSkipped:
			summary.Skipped++
			c.logger.Info("dry run, would send", "campaign", campaign.Name, "to", result.Email, "subject", result.Subject)
		}

		// No pause after the final contact, and none in dry-run mode.
		if opts.DryRun || opts.Delay <= 0 || i == last {
			continue
		}
		select {
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			span.SetStatus(codes.Error, "run interrupted")
			return summary, ctx.Err()
		case <-time.After(opts.Delay):
		}
	}

	span.SetAttributes(
		attribute.Int("campaign.sent", summary.Sent),
		attribute.Int("campaign.failed", summary.Failed),
		attribute.Int("campaign.skipped", summary.Skipped),
	)
	span.SetStatus(codes.Ok, "run completed")

	return summary, nil
}

// sendOne renders and, unless dryRun, delivers the message for one contact.
func (c *Client) sendOne(ctx context.Context, campaign *Campaign, contact Contact, dryRun bool) SendResult {
	subject, body := RenderMessage(campaign.Template, contact)

	result := SendResult{
		Email:   contact.Email(),
		Subject: subject,
	}

	if dryRun {
		result.Status = StatusSkipped
		return result
	}

	msg := &Message{
		From:    c.config.From(),
		To:      contact.Email(),
		ReplyTo: c.config.ReplyTo,
		Subject: subject,
		HTML:    body,
		Headers: map[string]string{
			"List-Unsubscribe": c.listUnsubscribe(),
		},
	}

	ctx, span := c.tracer.Start(ctx, "campaigner.Client.send",
		trace.WithAttributes(
			attribute.String("mail.to", msg.To),
			attribute.String("mail.provider", c.provider.Name()),
		),
	)
	defer span.End()

	sendCtx, cancel := context.WithTimeout(ctx, c.config.SendTimeout)
	defer cancel()

	sent, err := c.provider.Send(sendCtx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	span.SetAttributes(attribute.String("mail.message_id", sent.MessageID))
	span.SetStatus(codes.Ok, "sent")

	result.Status = StatusSent
	result.MessageID = sent.MessageID
	return result
}

// listUnsubscribe builds the List-Unsubscribe mailto header value.
func (c *Client) listUnsubscribe() string {
	target := c.config.ReplyTo
	if target == "" {
		target = c.config.FromEmail
	}
	return "<mailto:" + target + "?subject=Unsubscribe>"
}

// createProvider creates a provider instance based on type and settings.
func createProvider(providerType ProviderType, settings ProviderSettings) (Provider, error) {
	switch providerType {
	case ProviderResend:
		return resend.NewProvider(settings)
	case ProviderAWSSES:
		return ses.NewProvider(settings)
	case ProviderSendGrid:
		return sendgrid.NewProvider(settings)
	case ProviderSMTP:
		return smtp.NewProvider(settings)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
