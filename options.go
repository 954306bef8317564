package campaigner

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring the client.
type Option func(*Client)

// WithLogger sets the structured logger used for per-contact send logging.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProvider injects a delivery provider, bypassing the config-driven
// provider construction. Tests use this to substitute a counting double.
func WithProvider(p Provider) Option {
	return func(c *Client) {
		c.provider = p
	}
}

// WithTracer sets the tracer used for run and send spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithSendTimeout overrides the per-send provider call timeout.
func WithSendTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.config.SendTimeout = timeout
		}
	}
}
