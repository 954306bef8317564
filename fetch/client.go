// Package fetch builds campaign contact lists by querying the tenant store.
//
// It is an independent collaborator of the sender: it writes a contacts.csv
// in the same column layout an operator would author by hand, and the sender
// has no dependency on it. The opt-in filter (email_opt_in = true) is
// enforced here, in every query, never by the send loop.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-resty/resty/v2"

	"github.com/selllocal/campaigner"
)

// tenantsTable is the PostgREST resource holding tenant records.
const tenantsTable = "sell_local_tenants"

// Config holds the tenant store access configuration.
type Config struct {
	// SupabaseURL is the project base URL, e.g. https://xyz.supabase.co.
	SupabaseURL string `env:"SUPABASE_URL"`

	// ServiceRoleKey authenticates store queries. It bypasses row level
	// security, so it must never ship in client-side code.
	ServiceRoleKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`

	// Timeout bounds each store query.
	Timeout time.Duration `env:"CAMPAIGNER_FETCH_TIMEOUT" envDefault:"30s"`
}

// LoadConfig populates a Config from the process environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, campaigner.NewConfigError("environment", "could not be parsed: "+err.Error())
	}
	return cfg, nil
}

// Validate checks that the configuration is complete.
func (c Config) Validate() error {
	if c.SupabaseURL == "" {
		return campaigner.NewConfigError("SUPABASE_URL", "is not set")
	}
	if _, err := url.Parse(c.SupabaseURL); err != nil {
		return campaigner.NewConfigError("SUPABASE_URL", "is not a valid URL")
	}
	if c.ServiceRoleKey == "" {
		return campaigner.NewConfigError("SUPABASE_SERVICE_ROLE_KEY", "is not set")
	}
	return nil
}

// Tenant is one tenant record as returned by the store.
type Tenant struct {
	OwnerEmail         string `json:"owner_email"`
	Name               string `json:"name"`
	Slug               string `json:"slug"`
	Domain             string `json:"domain"`
	SubscriptionStatus string `json:"subscription_status"`
	TrialEndsAt        string `json:"trial_ends_at,omitempty"`
	SubscriptionEndsAt string `json:"subscription_ends_at,omitempty"`
}

// Client queries the tenant store over its PostgREST API.
type Client struct {
	http *resty.Client
	now  func() time.Time
}

// New creates a new tenant store client.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	http := resty.New().
		SetBaseURL(cfg.SupabaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.ServiceRoleKey).
		SetHeader("Authorization", "Bearer "+cfg.ServiceRoleKey).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", campaigner.GetVersionInfo().UserAgent())

	return &Client{
		http: http,
		now:  time.Now,
	}, nil
}

// FetchSegment returns the opted-in tenants matching the segment's filters,
// in store order.
func (c *Client) FetchSegment(ctx context.Context, seg Segment) ([]Tenant, error) {
	if !seg.Valid() {
		return nil, fmt.Errorf("unknown segment: %q", seg)
	}

	var tenants []Tenant
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(seg.query(c.now().UTC())).
		SetResult(&tenants).
		Get("/rest/v1/" + tenantsTable)
	if err != nil {
		return nil, fmt.Errorf("tenant store query failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tenant store query failed (status %d): %s", resp.StatusCode(), resp.String())
	}

	return tenants, nil
}
