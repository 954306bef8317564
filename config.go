package campaigner

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/selllocal/campaigner/internal/core"
)

// ProviderType represents the configured delivery provider.
type ProviderType string

const (
	// ProviderResend represents the Resend email service (default).
	ProviderResend ProviderType = "resend"

	// ProviderAWSSES represents Amazon Simple Email Service.
	ProviderAWSSES ProviderType = "aws_ses"

	// ProviderSendGrid represents the SendGrid email service.
	ProviderSendGrid ProviderType = "sendgrid"

	// ProviderSMTP represents a generic SMTP server.
	ProviderSMTP ProviderType = "smtp"
)

// String returns the string representation of the provider type.
func (pt ProviderType) String() string {
	return string(pt)
}

// Valid checks if the provider type is supported.
func (pt ProviderType) Valid() bool {
	switch pt {
	case ProviderResend, ProviderAWSSES, ProviderSendGrid, ProviderSMTP:
		return true
	default:
		return false
	}
}

// Config holds the complete sender configuration. It is constructed once at
// startup from the environment and passed explicitly; core logic performs no
// ambient lookups.
type Config struct {
	// Provider selects the delivery provider.
	Provider ProviderType `env:"CAMPAIGNER_PROVIDER" envDefault:"resend"`

	// FromEmail is the sender address for all campaign messages.
	FromEmail string `env:"FROM_EMAIL"`

	// FromName is an optional sender display name.
	FromName string `env:"FROM_NAME"`

	// ReplyTo is an optional reply-to address; it also becomes the
	// List-Unsubscribe mailto target.
	ReplyTo string `env:"REPLY_TO"`

	// CampaignsDir is the root folder holding campaign folders.
	CampaignsDir string `env:"CAMPAIGNS_DIR" envDefault:"campaigns"`

	// SendTimeout bounds each individual provider call.
	SendTimeout time.Duration `env:"CAMPAIGNER_SEND_TIMEOUT" envDefault:"30s"`

	// ResendAPIKey authenticates Resend delivery calls.
	ResendAPIKey string `env:"RESEND_API_KEY"`

	// AWSRegion is the region for the aws_ses provider.
	AWSRegion string `env:"AWS_REGION"`

	// SendGridAPIKey authenticates SendGrid delivery calls.
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`

	// SMTP settings for the smtp provider.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
}

// LoadConfig populates a Config from the process environment.
// Callers wanting .env support load it beforehand (the CLI does).
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, NewConfigError("environment", "could not be parsed: "+err.Error())
	}
	return cfg, nil
}

// Validate checks that the configuration is complete for the selected
// provider. Errors name the environment variable at fault.
func (c Config) Validate() error {
	if !c.Provider.Valid() {
		return NewConfigError("CAMPAIGNER_PROVIDER", "has unsupported value "+string(c.Provider))
	}

	if c.FromEmail == "" {
		return NewConfigError("FROM_EMAIL", "is not set")
	}

	if c.SendTimeout <= 0 {
		return NewConfigError("CAMPAIGNER_SEND_TIMEOUT", "must be greater than 0")
	}

	switch c.Provider {
	case ProviderResend:
		if c.ResendAPIKey == "" {
			return NewConfigError("RESEND_API_KEY", "is not set")
		}
	case ProviderAWSSES:
		if c.AWSRegion == "" {
			return NewConfigError("AWS_REGION", "is not set")
		}
	case ProviderSendGrid:
		if c.SendGridAPIKey == "" {
			return NewConfigError("SENDGRID_API_KEY", "is not set")
		}
	case ProviderSMTP:
		if c.SMTPHost == "" {
			return NewConfigError("SMTP_HOST", "is not set")
		}
	}

	return nil
}

// From returns the RFC 5322 formatted sender address.
func (c Config) From() string {
	return core.FormatAddress(c.FromName, c.FromEmail)
}

// providerSettings maps the config onto the selected provider's settings.
func (c Config) providerSettings() core.ProviderSettings {
	switch c.Provider {
	case ProviderResend:
		return core.ProviderSettings{"api_key": c.ResendAPIKey}
	case ProviderAWSSES:
		return core.ProviderSettings{"region": c.AWSRegion}
	case ProviderSendGrid:
		return core.ProviderSettings{"api_key": c.SendGridAPIKey}
	case ProviderSMTP:
		return core.ProviderSettings{
			"host":     c.SMTPHost,
			"port":     c.SMTPPort,
			"username": c.SMTPUsername,
			"password": c.SMTPPassword,
		}
	default:
		return core.ProviderSettings{}
	}
}
