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

// TierCount is one tier's share of an analysis summary. Percent arrives
// pre-rounded from the analyzer and is displayed as-is.
type TierCount struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// TierSummary maps tier ids to their share of analyzed players.
type TierSummary map[string]TierCount

// AnalysisStats are the analyzer's bookkeeping counters. Diagnostic
// only; they are logged, never surfaced into presentation flow.
type AnalysisStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Errors     int `json:"errors"`
	Cached     int `json:"cached"`
	Fetched    int `json:"fetched"`
}

// PlayerClassification is the analyzer's verdict for one player. Rank is
// set for Path of Legends tiers, Trophies for trophy tiers.
type PlayerClassification struct {
	Tier     string `json:"tier"`
	Label    string `json:"label"`
	Rank     int    `json:"rank,omitempty"`
	Trophies int    `json:"trophies,omitempty"`
	Priority int    `json:"priority"`
}

// AnalyzedPlayer is one classified tournament participant.
type AnalyzedPlayer struct {
	Tag             string               `json:"tag"`
	Name            string               `json:"name"`
	TournamentRank  int                  `json:"tournamentRank"`
	TournamentScore int                  `json:"tournamentScore"`
	Classification  PlayerClassification `json:"classification"`
}

// PlayerError is one failed player fetch; the analyzer reports at most
// the first ten.
type PlayerError struct {
	Tag   string `json:"tag"`
	Error string `json:"error"`
}

// Analysis is the per-player and per-tier breakdown of one tournament.
type Analysis struct {
	Players []AnalyzedPlayer `json:"players"`
	Summary TierSummary      `json:"summary"`
	Stats   AnalysisStats    `json:"stats"`
	Errors  []PlayerError    `json:"errors"`
}

// vended by /api/tournament/<tag>/analyze
type AnalyzeResult struct {
	Tournament     Tournament `json:"tournament"`
	Analysis       Analysis   `json:"analysis"`
	ElapsedSeconds float64    `json:"elapsed_seconds"`
}

// AnalyzeTournament runs the backend's full player classification for
// the given tournament. A 1000 player tournament can take the backend
// 20-30 seconds on a cold cache; callers should budget their context
// accordingly and may poll GetAnalysisProgress meanwhile.
func (client *Client) AnalyzeTournament(ctx context.Context,
	tag string) (*AnalyzeResult, error) {

	norm := NormalizeTag(tag)
	if norm == "" {
		return nil, ErrEmptyTag
	}

	analyzeURL := client.endpointURL("/api/tournament/" + url.PathEscape(norm) + "/analyze")
	var res AnalyzeResult
	if err := client.getJSON(ctx, client.httpClient, analyzeURL, &res); err != nil {
		return nil, fmt.Errorf("unable to analyze tournament %v: %w",
			DisplayTag(norm), err)
	}

	return &res, nil
}

// vended by /api/analysis/progress/<tag>
// AnalysisProgress tracks a server-side analysis run.
type AnalysisProgress struct {
	Status    string    `json:"status"`
	Total     int       `json:"total"`
	Processed int       `json:"processed"`
	Cached    int       `json:"cached"`
	Fetched   int       `json:"fetched"`
	Errors    int       `json:"errors"`
	StartedAt time.Time `json:"-"`
}

// Custom unmarshaller for AnalysisProgress to handle flexible date
// parsing.
func (ap *AnalysisProgress) UnmarshalJSON(data []byte) error {
	type Alias AnalysisProgress
	aux := &struct {
		StartedAt string `json:"started_at"`
		*Alias
	}{
		Alias: (*Alias)(ap),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("AnalysisProgress unmarshal: %w", err)
	}
	var err error
	ap.StartedAt, err = internal.ParseDateOrZero(aux.StartedAt)
	if err != nil {
		return fmt.Errorf("parsing AnalysisProgress.StartedAt: %w", err)
	}

	return nil
}

// GetAnalysisProgress fetches the progress of an in-flight analysis.
// The backend answers 404 once a run completes and ages out.
func (client *Client) GetAnalysisProgress(ctx context.Context,
	tag string) (*AnalysisProgress, error) {

	norm := NormalizeTag(tag)
	if norm == "" {
		return nil, ErrEmptyTag
	}

	progURL := client.endpointURL("/api/analysis/progress/" + url.PathEscape(norm))
	var prog AnalysisProgress
	if err := client.getJSON(ctx, client.httpClient, progURL, &prog); err != nil {
		return nil, fmt.Errorf("unable to fetch analysis progress %v: %w",
			DisplayTag(norm), err)
	}

	return &prog, nil
}

// BuildAnalysisOutput formats a full analysis into text: header line,
// tier distribution table, and a diagnostic stats line.
func BuildAnalysisOutput(res *AnalyzeResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%v (%v): %v\n\n", res.Tournament.Name,
		res.Tournament.DisplayTag(), res.Tournament.Status.Label()))
	sb.WriteString(BuildDistributionOutput(BuildDistribution(res.Analysis.Summary)))

	stats := res.Analysis.Stats
	sb.WriteString(fmt.Sprintf("\nAnalyzed %v/%v players in %.1fs (%v cached, %v fetched, %v errors)\n",
		stats.Successful, stats.Total, res.ElapsedSeconds, stats.Cached,
		stats.Fetched, stats.Errors))

	return sb.String()
}
