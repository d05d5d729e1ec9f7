/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/diwanliwe/crtournamentdashboard/crdash"
)

// this program exists just to seed the player cache for tournaments we
// expect to analyze soon

//go:embed seedtags.txt
var seedTagsText string

func main() {
	// a .env may carry CRDASH_API_BASE and the AWS cache settings
	_ = godotenv.Load()

	ctx := context.Background()
	client, err := crdash.NewClient(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "cacheseed: %v\n", err)
		os.Exit(1)
	}

	seeded := 0
	for _, tag := range seedTags() {
		detail, err := client.GetTournamentDetail(ctx, tag)
		if err != nil {
			// best effort
			fmt.Printf("skipped %v: %v\n", crdash.DisplayTag(tag), err)
			continue
		}

		count := seedMembers(ctx, client, detail)
		fmt.Printf("seeded %v/%v players from %v\n", count,
			len(detail.Members), detail.Name)
		if count > 0 {
			seeded++
		}
		time.Sleep(2 * time.Second) // avoid pegging the dashboard backend
	}

	if seeded == 0 {
		fmt.Fprintln(os.Stderr, "cacheseed: nothing seeded")
		os.Exit(1)
	}
}

// seedTags parses the embedded seed list. Tags are listed bare, one per
// line; '#' starts a comment.
func seedTags() []string {
	var tags []string
	scanner := bufio.NewScanner(strings.NewReader(seedTagsText))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tags = append(tags, line)
	}

	return tags
}

// seedMembers classifies every member of the tournament, which pulls
// each profile through the 7 day cache. Returns how many succeeded.
func seedMembers(ctx context.Context, client *crdash.Client,
	detail *crdash.TournamentDetail) int {

	var mu sync.Mutex
	count := 0
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(30) // the backend classifies with 30 workers; stay within that
	for _, member := range detail.Members {
		g.Go(func() error {
			if _, err := client.ClassifyPlayer(ctx, member.Tag); err != nil {
				// best effort
				return nil
			}
			mu.Lock()
			count++
			mu.Unlock()

			return nil
		})
	}
	_ = g.Wait()

	return count
}
