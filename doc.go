// Package campaigner sends templated marketing email campaigns to curated
// contact lists through a transactional email provider.
//
// A campaign is a folder containing a template.html and a contacts.csv. The
// template's first line declares the subject:
//
//	<!--subject: Hi {{name}} -->
//	<p>Hello {{name}}, visit {{domain}}</p>
//
// The contact file is plain CSV with a mandatory email column; every other
// column becomes a {{placeholder}} variable of the same name. Placeholders
// without a matching column render as the empty string, and no HTML escaping
// is applied to substituted values.
//
// # Basic Usage
//
//	cfg, err := campaigner.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := campaigner.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	campaign, err := campaigner.LoadCampaign(cfg.CampaignsDir, "expired-store")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	summary, err := client.Run(context.Background(), campaign, campaigner.RunOptions{
//		Delay: 500 * time.Millisecond,
//	})
//
// Sends are strictly sequential with a fixed delay between attempts. A
// failure for one contact is recorded in the summary and never aborts the
// loop. There is no checkpointing: rerunning a campaign resends to every
// contact in the list, including those already delivered.
//
// # Supported Providers
//
//   - Resend (default)
//   - AWS SES
//   - SendGrid
//   - Generic SMTP
//
// # Features
//
//   - Subject-marker HTML templates with per-contact placeholder substitution
//   - CSV contact lists with free-form columns
//   - Dry-run mode that renders everything and sends nothing
//   - Per-contact failure isolation with a sent/failed/skipped summary
//   - Distributed tracing with OpenTelemetry
//   - Context-aware operations
package campaigner
