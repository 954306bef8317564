package campaigner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/selllocal/campaigner/internal/core"
)

// fakeProvider counts calls and fails selected recipients.
type fakeProvider struct {
	calls    int
	sent     []*core.Message
	failWhen func(to string) error
}

func (f *fakeProvider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	f.calls++
	if f.failWhen != nil {
		if err := f.failWhen(msg.To); err != nil {
			return nil, err
		}
	}
	f.sent = append(f.sent, msg)
	return &core.SendResult{
		MessageID: "msg-" + msg.To,
		Provider:  f.Name(),
		Timestamp: time.Now(),
	}, nil
}

func (f *fakeProvider) ValidateConfig() error { return nil }

func (f *fakeProvider) Name() string { return "fake" }

func testConfig() Config {
	return Config{
		Provider:     ProviderResend,
		ResendAPIKey: "re_test",
		FromEmail:    "news@selllocal.app",
		FromName:     "SellLocal",
		ReplyTo:      "hello@selllocal.app",
		SendTimeout:  time.Second,
	}
}

func testCampaign(t *testing.T, contactsCSV string) *Campaign {
	t.Helper()

	tmpl, err := ParseTemplate([]byte("<!--subject: Hi {{name}} -->\n<p>Hello {{name}}, visit {{domain}}</p>"))
	require.NoError(t, err)

	list, err := ReadContacts(strings.NewReader(contactsCSV))
	require.NoError(t, err)

	return &Campaign{
		Name:     "test",
		Dir:      "campaigns/test",
		Template: tmpl,
		Contacts: list,
	}
}

func TestClient_Run_SendsInOrder(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{}
	client, err := New(testConfig(), WithProvider(fake))
	require.NoError(t, err)

	campaign := testCampaign(t, "email,name,domain\na@x.com,Ann,x.com\nb@y.com,Bob,y.com\n")

	summary, err := client.Run(context.Background(), campaign, RunOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Sent)
	require.Zero(t, summary.Failed)
	require.Zero(t, summary.Skipped)

	require.Equal(t, 2, fake.calls)
	require.Equal(t, "a@x.com", fake.sent[0].To)
	require.Equal(t, "b@y.com", fake.sent[1].To)
}

func TestClient_Run_MessageConstruction(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{}
	client, err := New(testConfig(), WithProvider(fake))
	require.NoError(t, err)

	campaign := testCampaign(t, "email,name,domain\na@x.com,Ann,x.com\n")

	_, err = client.Run(context.Background(), campaign, RunOptions{})
	require.NoError(t, err)

	msg := fake.sent[0]
	require.Equal(t, "SellLocal <news@selllocal.app>", msg.From)
	require.Equal(t, "hello@selllocal.app", msg.ReplyTo)
	require.Equal(t, "Hi Ann", msg.Subject)
	require.Equal(t, "<p>Hello Ann, visit x.com</p>", msg.HTML)
	require.Equal(t, "<mailto:hello@selllocal.app?subject=Unsubscribe>", msg.Headers["List-Unsubscribe"])
	require.NoError(t, msg.Validate())
}

func TestClient_Run_DryRunNeverCallsProvider(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{}
	client, err := New(testConfig(), WithProvider(fake))
	require.NoError(t, err)

	campaign := testCampaign(t, "email,name,domain\na@x.com,Ann,x.com\nb@y.com,Bob,y.com\n")

	summary, err := client.Run(context.Background(), campaign, RunOptions{DryRun: true, Delay: time.Minute})
	require.NoError(t, err)
	require.Zero(t, fake.calls)
	require.Zero(t, summary.Sent)
	require.Zero(t, summary.Failed)
	require.Equal(t, 2, summary.Skipped)

	// Dry run renders exactly what a live run would send.
	require.Equal(t, "Hi Ann", summary.Results[0].Subject)
	require.Equal(t, "Hi Bob", summary.Results[1].Subject)
}

func TestClient_Run_FailureIsolation(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{
		failWhen: func(to string) error {
			if to == "b@y.com" {
				return core.NewProviderError("fake", "bounce", "mailbox unavailable")
			}
			return nil
		},
	}
	client, err := New(testConfig(), WithProvider(fake))
	require.NoError(t, err)

	campaign := testCampaign(t, "email\na@x.com\nb@y.com\nc@z.com\n")

	summary, err := client.Run(context.Background(), campaign, RunOptions{})
	require.NoError(t, err, "per-contact failures must not fail the run")
	require.Equal(t, 2, summary.Sent)
	require.Equal(t, 1, summary.Failed)
	require.Equal(t, 3, fake.calls, "the loop continues past a failure")

	require.Equal(t, StatusFailed, summary.Results[1].Status)
	require.ErrorContains(t, summary.Results[1].Err, "mailbox unavailable")
	require.Equal(t, StatusSent, summary.Results[2].Status)
}

func TestClient_Run_EmptyContactList(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{}
	client, err := New(testConfig(), WithProvider(fake))
	require.NoError(t, err)

	campaign := testCampaign(t, "email\n")

	_, err = client.Run(context.Background(), campaign, RunOptions{})
	require.ErrorIs(t, err, ErrNoContacts)
	require.Zero(t, fake.calls)
}

func TestClient_Run_ContextCancelled(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{}
	client, err := New(testConfig(), WithProvider(fake))
	require.NoError(t, err)

	campaign := testCampaign(t, "email\na@x.com\nb@y.com\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := client.Run(ctx, campaign, RunOptions{})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, fake.calls)
	require.Empty(t, summary.Results)
}

func TestClient_Run_RerunResendsEverything(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{}
	client, err := New(testConfig(), WithProvider(fake))
	require.NoError(t, err)

	campaign := testCampaign(t, "email\na@x.com\n")

	_, err = client.Run(context.Background(), campaign, RunOptions{})
	require.NoError(t, err)
	_, err = client.Run(context.Background(), campaign, RunOptions{})
	require.NoError(t, err)

	// No checkpointing: the second run repeats the whole list.
	require.Equal(t, 2, fake.calls)
}

func TestNew_ValidatesConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		envVar string
	}{
		{"missing from", func(c *Config) { c.FromEmail = "" }, "FROM_EMAIL"},
		{"missing resend key", func(c *Config) { c.ResendAPIKey = "" }, "RESEND_API_KEY"},
		{"bad provider", func(c *Config) { c.Provider = "pigeon-post" }, "CAMPAIGNER_PROVIDER"},
		{"zero timeout", func(c *Config) { c.SendTimeout = 0 }, "CAMPAIGNER_SEND_TIMEOUT"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			tt.mutate(&cfg)

			_, err := New(cfg)
			require.Error(t, err)

			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			require.Equal(t, tt.envVar, ce.Var)
		})
	}
}
