// Command campaigner sends templated email campaigns.
//
//	campaigner list
//	campaigner send <campaign> [--dry-run] [--delay SECONDS]
//	campaigner fetch <segment> [--campaign NAME] [--dry-run]
//	campaigner version
//
// Configuration comes from the environment, optionally via a .env file in
// the working directory. A campaign is a folder under the campaigns root
// (CAMPAIGNS_DIR, default "campaigns") holding template.html and
// contacts.csv.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/selllocal/campaigner"
	"github.com/selllocal/campaigner/fetch"
)

func main() {
	// A missing .env is fine; the OS environment still applies.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "list":
		os.Exit(runList())
	case "send":
		os.Exit(runSend(os.Args[2:]))
	case "fetch":
		os.Exit(runFetch(os.Args[2:]))
	case "version":
		fmt.Println(campaigner.GetVersionInfo().String())
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage:
  campaigner list                                        list available campaigns
  campaigner send <campaign> [--dry-run] [--delay SEC]   send a campaign
  campaigner fetch <segment> [--campaign NAME] [--dry-run]
                                                         fetch contacts from the tenant store
  campaigner version                                     print version info

Segments: active, expired, free-tier`)
}

func printAvailable(root string) {
	names, err := campaigner.ListCampaigns(root)
	if err != nil || len(names) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "Available campaigns: %s\n", strings.Join(names, ", "))
}

func runList() int {
	cfg, err := campaigner.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	root := cfg.CampaignsDir
	names, err := campaigner.ListCampaigns(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	if len(names) == 0 {
		fmt.Printf("No campaigns found under %s\n", root)
		return 0
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return 0
}

func runSend(args []string) int {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "Preview without sending")
	delay := fs.Float64("delay", 0.5, "Seconds between sends")
	_ = fs.Parse(args)

	cfg, err := campaigner.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: campaign name is required")
		printAvailable(cfg.CampaignsDir)
		return 2
	}
	name := fs.Arg(0)

	client, err := campaigner.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	campaign, err := campaigner.LoadCampaign(cfg.CampaignsDir, name)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		printAvailable(cfg.CampaignsDir)
		return 1
	}

	fmt.Printf("Campaign:  %s\n", campaign.Name)
	fmt.Printf("Provider:  %s\n", client.ProviderName())
	fmt.Printf("Subject:   %s\n", campaign.Template.Subject)
	fmt.Printf("Contacts:  %d\n", campaign.Contacts.Len())
	if vars := campaign.Template.Placeholders(); len(vars) > 0 {
		fmt.Printf("Variables: %s\n", strings.Join(vars, ", "))
	}
	if *dryRun {
		fmt.Println("Mode:      DRY RUN (no emails will be sent)")

		// Preview the first rendered message so template mistakes are
		// visible before a real run.
		if campaign.Contacts.Len() > 0 {
			subject, body := campaigner.RenderMessage(campaign.Template, campaign.Contacts.Contacts[0])
			fmt.Printf("\n--- Preview (%s) ---\n", campaign.Contacts.Contacts[0].Email())
			fmt.Printf("Subject: %s\n\n%s\n", subject, body)
			fmt.Println("---------------------")
		}
	}
	fmt.Println()

	summary, err := client.Run(context.Background(), campaign, campaigner.RunOptions{
		DryRun: *dryRun,
		Delay:  time.Duration(*delay * float64(time.Second)),
	})
	switch {
	case errors.Is(err, campaigner.ErrNoContacts):
		// An empty list is not a failure; fall through to the zero counts.
	case err != nil:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	// Per-contact failures are intentional non-errors at the process
	// level: the summary reports them and the exit status stays zero.
	fmt.Printf("\nDone. Sent: %d, Failed: %d, Skipped: %d\n", summary.Sent, summary.Failed, summary.Skipped)
	return 0
}

func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	campaignName := fs.String("campaign", "", "Campaign folder to write contacts.csv into (defaults to the segment name)")
	dryRun := fs.Bool("dry-run", false, "Preview results without writing")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: segment is required (one of: %s)\n", segmentNames())
		return 2
	}
	seg := fetch.Segment(fs.Arg(0))
	if !seg.Valid() {
		fmt.Fprintf(os.Stderr, "Error: unknown segment %q (one of: %s)\n", seg, segmentNames())
		return 2
	}

	appCfg, err := campaigner.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	cfg, err := fetch.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	client, err := fetch.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	fmt.Printf("Fetching %s tenants from the store...\n", seg)
	tenants, err := client.FetchSegment(context.Background(), seg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	if len(tenants) == 0 {
		fmt.Println("No eligible tenants found.")
		return 0
	}

	fmt.Printf("Found %d eligible tenant(s):\n\n", len(tenants))
	for _, t := range tenants {
		fmt.Printf("  %-40s  %-12s  %s\n", t.OwnerEmail, t.SubscriptionStatus, t.Slug)
	}

	if *dryRun {
		fmt.Println("\n[DRY RUN] No file written.")
		return 0
	}

	target := *campaignName
	if target == "" {
		target = seg.String()
	}
	dir := filepath.Join(appCfg.CampaignsDir, target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	out := filepath.Join(dir, campaigner.ContactsFileName)
	if err := fetch.WriteContacts(out, seg, tenants); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	fmt.Printf("\nWritten to %s\n", out)
	return 0
}

func segmentNames() string {
	segs := fetch.Segments()
	names := make([]string, len(segs))
	for i, s := range segs {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
