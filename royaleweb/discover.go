/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package royaleweb

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/diwanliwe/crtournamentdashboard/internal"
)

// Client fetches public tournament listings from the RoyaleAPI website.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a Client whose fetches go through the shared web
// cache. Listings churn quickly, so entries expire after ten minutes.
func NewClient(ctx context.Context) *Client {
	return &Client{
		httpClient: internal.NewCachedHttpClient(ctx, 10*time.Minute),
	}
}

// Listing is one row from the RoyaleAPI tournament browser.
type Listing struct {
	Tag        string
	Name       string
	Members    int
	MaxMembers int
	Status     string
}

// FetchOpenTournaments scrapes the tournament browser for joinable
// tournaments. Rows without a usable tag are skipped rather than failing
// the whole listing.
func (client *Client) FetchOpenTournaments(ctx context.Context) ([]Listing, error) {
	doc, err := client.fetchDoc(ctx, internal.RoyaleWebBase+"/tournaments")
	if err != nil {
		return nil, fmt.Errorf("unable to fetch tournament listing: %w", err)
	}

	return parseListings(doc), nil
}

// fetchDoc gets the HTML document at the given URL using the configured
// User-Agent.
func (client *Client) fetchDoc(ctx context.Context,
	url string) (*goquery.Document, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// parseListings extracts Listing entries from the tournament table in the
// document.
func parseListings(doc *goquery.Document) []Listing {
	var listings []Listing

	doc.Find("table#tournaments tbody tr").Each(func(_ int, s *goquery.Selection) {
		cells := s.Find("td")
		if cells.Length() < 3 {
			return
		}

		link := cells.Eq(0).Find("a").First()
		tag := tagFromHref(link.AttrOr("href", ""))
		if tag == "" {
			return
		}
		name := strings.TrimSpace(link.Text())
		if name == "" {
			name = strings.TrimSpace(cells.Eq(0).Text())
		}

		members, maxMembers := parseMembers(strings.TrimSpace(cells.Eq(1).Text()))

		listings = append(listings, Listing{
			Tag:        tag,
			Name:       name,
			Members:    members,
			MaxMembers: maxMembers,
			Status:     strings.TrimSpace(cells.Eq(2).Text()),
		})
	})

	return listings
}

// tagFromHref extracts the tournament tag from links like
// /tournament/ABC123 or /tournament/ABC123/live.
func tagFromHref(href string) string {
	const marker = "/tournament/"
	idx := strings.Index(href, marker)
	if idx == -1 {
		return ""
	}
	tag := href[idx+len(marker):]
	if slash := strings.Index(tag, "/"); slash != -1 {
		tag = tag[:slash]
	}

	return strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(tag)), "#")
}

// parseMembers splits a "5/50" cell into current and max counts.
func parseMembers(text string) (int, int) {
	parts := strings.SplitN(text, "/", 2)
	members := 0
	maxMembers := 0
	if len(parts) >= 1 {
		if v, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
			members = v
		}
	}
	if len(parts) == 2 {
		if v, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			maxMembers = v
		}
	}

	return members, maxMembers
}

// BuildListingOutput formats tournament listings into an aligned table.
func BuildListingOutput(listings []Listing) string {
	if len(listings) == 0 {
		return "no open tournaments found\n"
	}

	type row struct {
		tag     string
		name    string
		players string
		status  string
	}

	rows := make([]row, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, row{
			tag:     "#" + l.Tag,
			name:    l.Name,
			players: fmt.Sprintf("%v/%v", l.Members, l.MaxMembers),
			status:  l.Status,
		})
	}

	tagWidth := len("Tag")
	nameWidth := len("Name")
	playersWidth := len("Players")
	for _, r := range rows {
		if len(r.tag) > tagWidth {
			tagWidth = len(r.tag)
		}
		if len(r.name) > nameWidth {
			nameWidth = len(r.name)
		}
		if len(r.players) > playersWidth {
			playersWidth = len(r.players)
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*v  %-*v  %-*v  %v\n", tagWidth, "Tag",
		nameWidth, "Name", playersWidth, "Players", "Status"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*v  %-*v  %-*v  %v\n", tagWidth, r.tag,
			nameWidth, r.name, playersWidth, r.players, r.status))
	}

	return sb.String()
}
