package core

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Provider defines the interface for email delivery providers.
// Implementations handle provider-specific logic for submitting a single
// message; the send loop treats them as an opaque capability.
type Provider interface {
	// Send submits a single message using the provider's API.
	Send(ctx context.Context, msg *Message) (*SendResult, error)

	// ValidateConfig validates the provider configuration.
	// Returns an error if the configuration is invalid or incomplete.
	ValidateConfig() error

	// Name returns the provider's name for identification and logging.
	Name() string
}

// ProviderSettings represents configuration settings for delivery providers.
type ProviderSettings map[string]string

// Get retrieves a configuration value by key.
func (ps ProviderSettings) Get(key string) string {
	return ps[key]
}

// Set sets a configuration value.
func (ps ProviderSettings) Set(key, value string) {
	ps[key] = value
}

// FormatAddress formats a display name and email address in RFC 5322 form.
// Returns "Name <email@domain>" when a name is given, the bare address
// otherwise.
func FormatAddress(name, email string) string {
	if name == "" {
		return email
	}
	return name + " <" + email + ">"
}

// Message represents a single fully-rendered email ready for delivery.
// Campaign sends are strictly one recipient per message.
type Message struct {
	// From is the RFC 5322 formatted sender address.
	From string

	// To is the single recipient address.
	To string

	// ReplyTo is an optional reply-to address.
	ReplyTo string

	// Subject is the rendered subject line.
	Subject string

	// HTML is the rendered HTML body.
	HTML string

	// Headers contains custom headers such as List-Unsubscribe.
	Headers map[string]string
}

// Validate checks that the message has valid structure and required fields.
func (m *Message) Validate() error {
	if m.From == "" {
		return &ValidationError{Field: "from", Message: "sender address is required"}
	}
	if _, err := mail.ParseAddress(m.From); err != nil {
		return &ValidationError{Field: "from", Message: "invalid sender address", Value: m.From}
	}

	if m.To == "" {
		return &ValidationError{Field: "to", Message: "recipient address is required"}
	}
	if _, err := mail.ParseAddress(m.To); err != nil {
		return &ValidationError{Field: "to", Message: "invalid recipient address", Value: m.To}
	}

	if m.ReplyTo != "" {
		if _, err := mail.ParseAddress(m.ReplyTo); err != nil {
			return &ValidationError{Field: "reply_to", Message: "invalid reply-to address", Value: m.ReplyTo}
		}
	}

	if strings.TrimSpace(m.Subject) == "" {
		return &ValidationError{Field: "subject", Message: "subject is required"}
	}

	if strings.TrimSpace(m.HTML) == "" {
		return &ValidationError{Field: "html", Message: "HTML body is required"}
	}

	return nil
}

// SendResult contains the result of delivering a single message.
type SendResult struct {
	// MessageID is the unique identifier assigned by the provider.
	MessageID string

	// Provider is the name of the provider that accepted the message.
	Provider string

	// Timestamp when the message was accepted by the provider.
	Timestamp time.Time
}

// ValidationError represents a validation error with specific field information.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string

	// Message is the validation error message.
	Message string

	// Value is the invalid value (optional).
	Value interface{}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error in %s: %s (value: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Is implements error matching for errors.Is.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// ProviderError represents an error from a delivery provider. The Message
// carries the provider-specific reason string surfaced to the operator.
type ProviderError struct {
	// Provider is the name of the provider that generated the error.
	Provider string

	// Code is the provider-specific error code.
	Code string

	// Message is the error message from the provider.
	Message string

	// StatusCode is the HTTP status code (for HTTP-based providers).
	StatusCode int

	// Cause is the underlying error that caused this provider error.
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s error [%s] (status: %d): %s",
			e.Provider, e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s error [%s]: %s", e.Provider, e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is.
func (e *ProviderError) Is(target error) bool {
	pe, ok := target.(*ProviderError)
	if !ok {
		return false
	}
	return e.Provider == pe.Provider && e.Code == pe.Code
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewProviderError creates a new provider error.
func NewProviderError(provider, code, message string) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
	}
}

// WrapProviderError creates a provider error wrapping an underlying cause.
func WrapProviderError(provider, code string, cause error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Code:     code,
		Message:  cause.Error(),
		Cause:    cause,
	}
}

// IsProviderError reports whether err carries a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
