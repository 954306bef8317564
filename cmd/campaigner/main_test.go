package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCampaign(t *testing.T, root, name, contactsCSV string) {
	t.Helper()

	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "template.html"),
		[]byte("<!--subject: Hi {{name}} -->\n<p>Hello {{name}}</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contacts.csv"),
		[]byte(contactsCSV), 0o644))
}

func setSendEnv(t *testing.T, campaignsDir string) {
	t.Helper()

	t.Setenv("CAMPAIGNS_DIR", campaignsDir)
	t.Setenv("CAMPAIGNER_PROVIDER", "resend")
	t.Setenv("FROM_EMAIL", "news@selllocal.app")
	t.Setenv("RESEND_API_KEY", "re_test")
}

func TestRunList_UsesConfiguredDir(t *testing.T) {
	root := t.TempDir()
	writeCampaign(t, root, "newsletter", "email\na@x.com\n")
	setSendEnv(t, root)

	require.Equal(t, 0, runList())
}

func TestRunSend_UnknownCampaign(t *testing.T) {
	setSendEnv(t, t.TempDir())

	require.Equal(t, 1, runSend([]string{"nonexistent"}))
}

func TestRunSend_EmptyContactListExitsZero(t *testing.T) {
	root := t.TempDir()
	writeCampaign(t, root, "newsletter", "email\n")
	setSendEnv(t, root)

	require.Equal(t, 0, runSend([]string{"newsletter"}))
}

func TestRunSend_DryRunExitsZero(t *testing.T) {
	root := t.TempDir()
	writeCampaign(t, root, "newsletter", "email,name\na@x.com,Ann\n")
	setSendEnv(t, root)

	require.Equal(t, 0, runSend([]string{"--dry-run", "newsletter"}))
}
