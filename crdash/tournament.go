/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package crdash

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/diwanliwe/crtournamentdashboard/internal"
)

// vended by /api/tournament/<tag>
// Tournament is the dashboard summary of one tournament. On the summary
// endpoint membersList arrives as a count; the raw Clash Royale payload
// carries a member array instead, and both decode to MemberCount.
type Tournament struct {
	Tag         string `json:"tag"`
	Name        string `json:"name"`
	Status      Status `json:"status"`
	Capacity    int    `json:"capacity"`
	MaxCapacity int    `json:"maxCapacity"`
	MemberCount int    `json:"-"`

	// StartedTime preserves the wire-format compact timestamp; StartedAt
	// is its parsed form, zero until the tournament starts.
	StartedTime string    `json:"-"`
	StartedAt   time.Time `json:"-"`
	// Duration is in seconds.
	Duration int `json:"duration"`
}

// Custom unmarshaller for Tournament to handle the count-or-array
// membersList field and the compact start timestamp.
func (t *Tournament) UnmarshalJSON(data []byte) error {
	type Alias Tournament
	aux := &struct {
		MembersList json.RawMessage `json:"membersList"`
		StartedTime string          `json:"startedTime"`
		*Alias
	}{
		Alias: (*Alias)(t),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("Tournament unmarshal: %w", err)
	}

	if len(aux.MembersList) > 0 {
		var count int
		if err := json.Unmarshal(aux.MembersList, &count); err == nil {
			t.MemberCount = count
		} else {
			var members []json.RawMessage
			if err := json.Unmarshal(aux.MembersList, &members); err != nil {
				return fmt.Errorf("parsing Tournament.MembersList: %w", err)
			}
			t.MemberCount = len(members)
		}
	}

	t.StartedTime = aux.StartedTime
	if started, ok := internal.ParseCompactTime(aux.StartedTime); ok {
		t.StartedAt = started
	}

	return nil
}

// DisplayTag returns the tournament's tag in its '#'-prefixed form.
func (t *Tournament) DisplayTag() string {
	return DisplayTag(t.Tag)
}

// Countdown builds the live-progress countdown for this tournament.
// Fails with ErrNoStartTime for tournaments that have not started.
func (t *Tournament) Countdown() (*Countdown, error) {
	return NewCountdown(t.StartedTime, t.Duration)
}

// Member is one participant entry from the full tournament payload.
type Member struct {
	Tag   string `json:"tag"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"`
}

// vended by /api/tournament/<tag>/full
// TournamentDetail is the raw Clash Royale tournament payload proxied
// through the backend, member list included.
type TournamentDetail struct {
	Tag         string   `json:"tag"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Capacity    int      `json:"capacity"`
	MaxCapacity int      `json:"maxCapacity"`
	Duration    int      `json:"duration"`
	Members     []Member `json:"membersList"`

	StartedTime string    `json:"-"`
	StartedAt   time.Time `json:"-"`
	CreatedAt   time.Time `json:"-"`
}

// Custom unmarshaller for TournamentDetail to handle compact timestamps.
func (td *TournamentDetail) UnmarshalJSON(data []byte) error {
	type Alias TournamentDetail
	aux := &struct {
		StartedTime string `json:"startedTime"`
		CreatedTime string `json:"createdTime"`
		*Alias
	}{
		Alias: (*Alias)(td),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("TournamentDetail unmarshal: %w", err)
	}

	td.StartedTime = aux.StartedTime
	if started, ok := internal.ParseCompactTime(aux.StartedTime); ok {
		td.StartedAt = started
	}
	if created, ok := internal.ParseCompactTime(aux.CreatedTime); ok {
		td.CreatedAt = created
	}

	return nil
}

// GetTournament fetches the dashboard summary for the given tag.
func (client *Client) GetTournament(ctx context.Context,
	tag string) (*Tournament, error) {

	return client.getTournament(ctx, tag, false)
}

// PollTournament fetches the same summary with a cache-busting timestamp
// parameter appended; monitor refreshes must never be served a stale
// intermediary copy.
func (client *Client) PollTournament(ctx context.Context,
	tag string) (*Tournament, error) {

	return client.getTournament(ctx, tag, true)
}

func (client *Client) getTournament(ctx context.Context, tag string,
	bustCaches bool) (*Tournament, error) {

	norm := NormalizeTag(tag)
	if norm == "" {
		return nil, ErrEmptyTag
	}

	tournURL := client.endpointURL("/api/tournament/" + url.PathEscape(norm))
	if bustCaches {
		q := tournURL.Query()
		q.Set("_", strconv.FormatInt(time.Now().UnixMilli(), 10))
		tournURL.RawQuery = q.Encode()
	}

	var tourn Tournament
	if err := client.getJSON(ctx, client.httpClient, tournURL, &tourn); err != nil {
		return nil, fmt.Errorf("unable to fetch tournament %v: %w",
			DisplayTag(norm), err)
	}

	return &tourn, nil
}

// GetTournamentDetail fetches the full tournament payload including the
// complete member list.
func (client *Client) GetTournamentDetail(ctx context.Context,
	tag string) (*TournamentDetail, error) {

	norm := NormalizeTag(tag)
	if norm == "" {
		return nil, ErrEmptyTag
	}

	detailURL := client.endpointURL("/api/tournament/" + url.PathEscape(norm) + "/full")
	var detail TournamentDetail
	if err := client.getJSON(ctx, client.httpClient, detailURL, &detail); err != nil {
		return nil, fmt.Errorf("unable to fetch tournament detail %v: %w",
			DisplayTag(norm), err)
	}

	return &detail, nil
}

// BuildTournamentOutput formats a tournament summary into aligned text,
// with either a live countdown line or the textual status.
func BuildTournamentOutput(t *Tournament) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%v (%v)\n", t.Name, t.DisplayTag()))
	sb.WriteString(fmt.Sprintf("Status:  %v\n", t.Status.Label()))
	sb.WriteString(fmt.Sprintf("Players: %v\n",
		buildCapacityBar(t.MemberCount, t.MaxCapacity, 20)))

	cd, err := t.Countdown()
	if err != nil {
		// no countdown without a start time; the status line covers it
		return sb.String()
	}
	p := cd.ProgressAt(time.Now())
	if p.Ended {
		sb.WriteString(fmt.Sprintf("Progress: 100%% (%v)\n", p.Label))
	} else {
		sb.WriteString(fmt.Sprintf("Progress: %.0f%% (%v remaining)\n",
			p.Percent, p.Label))
	}

	return sb.String()
}
