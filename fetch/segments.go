package fetch

import (
	"encoding/csv"
	"fmt"
	"net/url"
	"os"
	"time"
)

// Segment selects which tenants a fetch targets. Each segment mirrors a
// recurring campaign audience; all of them require email_opt_in = true.
type Segment string

const (
	// SegmentActive targets tenants with an active subscription.
	SegmentActive Segment = "active"

	// SegmentExpired targets tenants whose subscription is not active and
	// whose trial or subscription end date is in the past.
	SegmentExpired Segment = "expired"

	// SegmentFreeTier targets tenants whose trial expired without
	// subscribing, now live on the free tier.
	SegmentFreeTier Segment = "free-tier"
)

// Segments lists the known segments.
func Segments() []Segment {
	return []Segment{SegmentActive, SegmentExpired, SegmentFreeTier}
}

// String returns the string representation of the segment.
func (s Segment) String() string {
	return string(s)
}

// Valid checks if the segment is known.
func (s Segment) Valid() bool {
	switch s {
	case SegmentActive, SegmentExpired, SegmentFreeTier:
		return true
	default:
		return false
	}
}

// query builds the PostgREST query parameters for the segment. The opt-in
// filter is part of every query.
func (s Segment) query(now time.Time) url.Values {
	nowStr := now.Format(time.RFC3339)

	q := url.Values{}
	q.Set("email_opt_in", "eq.true")

	switch s {
	case SegmentActive:
		q.Set("select", "owner_email,name,slug,domain,subscription_status")
		q.Set("subscription_status", "eq.active")
	case SegmentExpired:
		q.Set("select", "owner_email,name,slug,domain,subscription_status,subscription_ends_at")
		q.Set("subscription_status", "neq.active")
		q.Set("or", fmt.Sprintf("(trial_ends_at.lt.%s,subscription_ends_at.lt.%s)", nowStr, nowStr))
	case SegmentFreeTier:
		q.Set("select", "owner_email,name,slug,domain,subscription_status,trial_ends_at")
		q.Set("subscription_status", "neq.active")
		q.Set("trial_ends_at", "lt."+nowStr)
	}

	return q
}

// Columns returns the contact file header for the segment. The first column
// is always email, matching what the sender requires.
func (s Segment) Columns() []string {
	switch s {
	case SegmentActive:
		return []string{"email", "name", "slug", "domain", "subscription_status"}
	case SegmentExpired:
		return []string{"email", "name", "slug", "domain", "subscription_status", "subscription_ends_at"}
	case SegmentFreeTier:
		return []string{"email", "name", "slug", "domain"}
	default:
		return []string{"email"}
	}
}

// Row maps a tenant onto the segment's column layout.
func (s Segment) Row(t Tenant) []string {
	switch s {
	case SegmentActive:
		return []string{t.OwnerEmail, t.Name, t.Slug, t.Domain, t.SubscriptionStatus}
	case SegmentExpired:
		return []string{t.OwnerEmail, t.Name, t.Slug, t.Domain, t.SubscriptionStatus, t.SubscriptionEndsAt}
	case SegmentFreeTier:
		// Free-tier stores fall back to their subdomain when no custom
		// domain is configured.
		domain := t.Domain
		if domain == "" {
			domain = t.Slug + ".selllocal.app"
		}
		return []string{t.OwnerEmail, t.Name, t.Slug, domain}
	default:
		return []string{t.OwnerEmail}
	}
}

// WriteContacts writes the tenants to path in the segment's contact file
// layout, ready for the sender to load.
func WriteContacts(path string, seg Segment, tenants []Tenant) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create contact file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(seg.Columns()); err != nil {
		return fmt.Errorf("failed to write contact file header: %w", err)
	}
	for _, t := range tenants {
		if err := w.Write(seg.Row(t)); err != nil {
			return fmt.Errorf("failed to write contact row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush contact file: %w", err)
	}

	return nil
}
