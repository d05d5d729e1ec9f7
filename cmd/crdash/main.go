/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/diwanliwe/crtournamentdashboard/crdash"
	"github.com/diwanliwe/crtournamentdashboard/dashboard"
	"github.com/diwanliwe/crtournamentdashboard/internal"
	"github.com/diwanliwe/crtournamentdashboard/royaleweb"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":       handleHelp,
	"version":    handleVersion,
	"tournament": handleTournament,
	"analyze":    handleAnalyze,
	"player":     handlePlayer,
	"classify":   handleClassify,
	"watch":      handleWatch,
	"discover":   handleDiscover,
	"cachestats": handleCacheStats,
	"cacheclear": handleCacheClear,
}

func main() {
	ctx := context.Background()

	// a .env may carry CRDASH_API_BASE and the AWS cache settings
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

func handleVersion(ctx context.Context, args []string) {
	fmt.Printf("crdash version %v\n", internal.Version)
}

func newClient(ctx context.Context) *crdash.Client {
	client, err := crdash.NewClient(ctx, "")
	if err != nil {
		log.Fatalf("Error initializing client: %v", err)
	}

	return client
}

func handleTournament(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("tournament", flag.ExitOnError)
	tag := fs.String("tag", "", "Tournament tag (e.g. #2JYLU8YQ)")
	full := fs.Bool("full", false, "Include the full member list")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tag == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tag.")
		fs.Usage()
		os.Exit(1)
	}

	client := newClient(ctx)
	tourn, err := client.GetTournament(ctx, *tag)
	if err != nil {
		log.Fatalf("Error fetching tournament %v: %v", *tag, err)
	}
	fmt.Print(crdash.BuildTournamentOutput(tourn))

	if !*full {
		return
	}
	detail, err := client.GetTournamentDetail(ctx, *tag)
	if err != nil {
		log.Fatalf("Error fetching tournament detail %v: %v", *tag, err)
	}
	fmt.Printf("\nMembers:\n")
	for _, m := range detail.Members {
		fmt.Printf("%4d. %v (%v) score %v\n", m.Rank, m.Name,
			crdash.DisplayTag(m.Tag), m.Score)
	}
}

func handleAnalyze(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	tag := fs.String("tag", "", "Tournament tag (e.g. #2JYLU8YQ)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tag == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tag.")
		fs.Usage()
		os.Exit(1)
	}

	sess := dashboard.NewSession(newClient(ctx), func(msg string) {
		fmt.Println(msg)
	})
	if err := sess.SearchAndAnalyze(ctx, *tag); err != nil {
		log.Fatalf("Error analyzing tournament %v: %v", *tag, err)
	}

	view := sess.Snapshot()
	fmt.Println()
	fmt.Print(crdash.BuildAnalysisOutput(view.Analysis))
	if cd := sess.Countdown(); cd != nil {
		p := cd.ProgressAt(time.Now())
		if p.Ended {
			fmt.Printf("Progress: 100%% (%v)\n", p.Label)
		} else {
			fmt.Printf("Progress: %.0f%% (%v remaining)\n", p.Percent, p.Label)
		}
	}
}

func handlePlayer(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("player", flag.ExitOnError)
	tag := fs.String("tag", "", "Player tag (e.g. #9C8RV0LL)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tag == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tag.")
		fs.Usage()
		os.Exit(1)
	}

	player, err := newClient(ctx).GetPlayer(ctx, *tag)
	if err != nil {
		log.Fatalf("Error fetching player %v: %v", *tag, err)
	}
	fmt.Print(crdash.BuildPlayerOutput(player))
}

func handleClassify(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	tag := fs.String("tag", "", "Player tag (e.g. #9C8RV0LL)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tag == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tag.")
		fs.Usage()
		os.Exit(1)
	}

	result, err := newClient(ctx).ClassifyPlayer(ctx, *tag)
	if err != nil {
		log.Fatalf("Error classifying player %v: %v", *tag, err)
	}
	fmt.Print(crdash.BuildClassifyOutput(result))
}

// tagList collects repeated --tag flags.
type tagList []string

func (tl *tagList) String() string {
	return strings.Join(*tl, ",")
}

func (tl *tagList) Set(v string) error {
	*tl = append(*tl, v)
	return nil
}

func handleWatch(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	var tags tagList
	fs.Var(&tags, "tag", "Tournament tag to watch (repeatable, up to 3)")
	interval := fs.Duration("interval", dashboard.DefaultPollInterval,
		"Polling interval (minimum 3s)")
	count := fs.Int("count", 0,
		"Number of refreshes before exiting (0 runs until interrupted)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if len(tags) == 0 {
		fmt.Fprintln(os.Stderr, "Please provide at least one --tag.")
		fs.Usage()
		os.Exit(1)
	}
	if len(tags) > dashboard.MaxSlots {
		tags = tags[:dashboard.MaxSlots]
	}

	m := dashboard.NewMonitor(newClient(ctx), *interval, nil)
	for idx, tag := range tags {
		if err := m.SetSlot(idx, tag); err != nil {
			log.Fatalf("Error configuring slot %v: %v", idx, err)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	m.Start(ctx)
	defer m.Stop()

	render := func() {
		fmt.Printf("--- %v\n%v", time.Now().Format("15:04:05"),
			dashboard.BuildMonitorOutput(m.Views()))
	}

	// the monitor's first batch is underway; show the starting state
	render()
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	renders := 0
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case <-ticker.C:
			render()
			renders++
			if *count > 0 && renders >= *count {
				return
			}
		}
	}
}

func handleDiscover(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	listings, err := royaleweb.NewClient(ctx).FetchOpenTournaments(ctx)
	if err != nil {
		log.Fatalf("Error fetching open tournaments: %v", err)
	}
	fmt.Print(royaleweb.BuildListingOutput(listings))
	if len(listings) > 0 {
		fmt.Printf("\nRun '%s analyze --tag <Tag>' to analyze a specific tournament\n",
			os.Args[0])
	}
}

func handleCacheStats(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("cachestats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	stats, err := newClient(ctx).GetCacheStats(ctx)
	if err != nil {
		log.Fatalf("Error fetching cache stats: %v", err)
	}
	fmt.Printf("Cached players: %v\n", stats.TotalPlayers)
	for _, tag := range stats.Players {
		fmt.Printf("  %v\n", crdash.DisplayTag(tag))
	}
	if stats.Message != "" {
		fmt.Printf("%v\n", stats.Message)
	}
}

func handleCacheClear(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("cacheclear", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	msg, err := newClient(ctx).ClearCache(ctx)
	if err != nil {
		log.Fatalf("Error clearing cache: %v", err)
	}
	fmt.Println(msg)
}
