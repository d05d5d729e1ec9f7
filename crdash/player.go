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
	"strings"
	"time"

	"github.com/diwanliwe/crtournamentdashboard/internal"
)

// SeasonResult is one Path of Legends season entry. Rank 0 means the
// player never placed on the leaderboard that season.
type SeasonResult struct {
	LeagueNumber int `json:"leagueNumber"`
	Trophies     int `json:"trophies"`
	Rank         int `json:"rank"`
}

// vended by /api/player/<tag>
// Player is a Clash Royale player profile proxied through the backend.
// FromCache reports whether the backend served its stored copy.
type Player struct {
	Tag           string       `json:"tag"`
	Name          string       `json:"name"`
	ExpLevel      int          `json:"expLevel"`
	Trophies      int          `json:"trophies"`
	BestTrophies  int          `json:"bestTrophies"`
	Wins          int          `json:"wins"`
	Losses        int          `json:"losses"`
	BattleCount   int          `json:"battleCount"`
	CurrentSeason SeasonResult `json:"currentPathOfLegendSeasonResult"`
	LastSeason    SeasonResult `json:"lastPathOfLegendSeasonResult"`
	BestSeason    SeasonResult `json:"bestPathOfLegendSeasonResult"`
	FromCache     bool         `json:"_cached"`
	CachedAt      time.Time    `json:"-"`
}

// Custom unmarshaller for Player to handle flexible date parsing.
func (p *Player) UnmarshalJSON(data []byte) error {
	type Alias Player
	aux := &struct {
		CachedAt string `json:"_cachedAt"`
		*Alias
	}{
		Alias: (*Alias)(p),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("Player unmarshal: %w", err)
	}
	var err error
	p.CachedAt, err = internal.ParseDateOrZero(aux.CachedAt)
	if err != nil {
		return fmt.Errorf("parsing Player.CachedAt: %w", err)
	}

	return nil
}

// DisplayTag returns the player's tag in its '#'-prefixed form.
func (p *Player) DisplayTag() string {
	return DisplayTag(p.Tag)
}

// GetPlayer fetches a player profile. Profiles change slowly, so this
// goes through the 7 day cached client.
func (client *Client) GetPlayer(ctx context.Context,
	tag string) (*Player, error) {

	norm := NormalizeTag(tag)
	if norm == "" {
		return nil, ErrEmptyTag
	}

	playerURL := client.endpointURL("/api/player/" + url.PathEscape(norm))
	var player Player
	if err := client.getJSON(ctx, client.httpClient7day, playerURL, &player); err != nil {
		return nil, fmt.Errorf("unable to fetch player %v: %w",
			DisplayTag(norm), err)
	}

	return &player, nil
}

// vended by /api/player/<tag>/classify
// ClassifyResult is the backend's skill-tier verdict for one player.
type ClassifyResult struct {
	Tag            string               `json:"tag"`
	Name           string               `json:"name"`
	Trophies       int                  `json:"trophies"`
	Classification PlayerClassification `json:"classification"`
	PathOfLegend   struct {
		Current SeasonResult `json:"current"`
		Last    SeasonResult `json:"last"`
		Best    SeasonResult `json:"best"`
	} `json:"pathOfLegend"`
	FromCache bool `json:"_cached"`
}

// ClassifyPlayer fetches a player's profile and skill-tier
// classification. Classifications ride the same 7 day cache the
// backend applies to player data.
func (client *Client) ClassifyPlayer(ctx context.Context,
	tag string) (*ClassifyResult, error) {

	norm := NormalizeTag(tag)
	if norm == "" {
		return nil, ErrEmptyTag
	}

	classifyURL := client.endpointURL("/api/player/" + url.PathEscape(norm) + "/classify")
	var res ClassifyResult
	if err := client.getJSON(ctx, client.httpClient7day, classifyURL, &res); err != nil {
		return nil, fmt.Errorf("unable to classify player %v: %w",
			DisplayTag(norm), err)
	}

	return &res, nil
}

// BuildPlayerOutput formats a player profile into aligned text.
func BuildPlayerOutput(p *Player) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%v (%v)\n", p.Name, p.DisplayTag()))
	sb.WriteString(fmt.Sprintf("Level:    %v\n", p.ExpLevel))
	sb.WriteString(fmt.Sprintf("Trophies: %v (best %v)\n", p.Trophies,
		p.BestTrophies))
	sb.WriteString(fmt.Sprintf("Battles:  %v (%v wins, %v losses)\n",
		p.BattleCount, p.Wins, p.Losses))
	if rank := bestSeasonRank(p); rank > 0 {
		sb.WriteString(fmt.Sprintf("Best Path of Legends rank: %v\n", rank))
	}
	if p.FromCache && !p.CachedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("(cached %v)\n",
			p.CachedAt.Format("2006-01-02 15:04")))
	}

	return sb.String()
}

// bestSeasonRank mirrors the analyzer's best-of-three rank rule: lowest
// rank across current, last, and best seasons; 0 when never ranked.
func bestSeasonRank(p *Player) int {
	best := 0
	for _, season := range []SeasonResult{p.CurrentSeason, p.LastSeason,
		p.BestSeason} {
		if season.Rank <= 0 {
			continue
		}
		if best == 0 || season.Rank < best {
			best = season.Rank
		}
	}

	return best
}

// BuildClassifyOutput formats a classification verdict into text.
func BuildClassifyOutput(res *ClassifyResult) string {
	var sb strings.Builder

	entry := LookupTier(res.Classification.Tier)
	sb.WriteString(fmt.Sprintf("%v (%v): %v", res.Name, DisplayTag(res.Tag),
		entry.Label))
	if entry.SubLabel != "" {
		sb.WriteString(fmt.Sprintf(" [%v]", entry.SubLabel))
	}
	sb.WriteString("\n")

	if res.Classification.Rank > 0 {
		sb.WriteString(fmt.Sprintf("Path of Legends rank: %v\n",
			res.Classification.Rank))
	} else {
		sb.WriteString(fmt.Sprintf("Trophies: %v\n", res.Trophies))
	}
	if res.FromCache {
		sb.WriteString("(served from cache)\n")
	}

	return sb.String()
}
