/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package crdash

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetPlayer(t *testing.T) {
	ctx := context.Background()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/player/ABC123" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Player not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"tag": "#ABC123",
			"name": "alpha",
			"expLevel": 50,
			"trophies": 11234,
			"bestTrophies": 12050,
			"wins": 3100,
			"losses": 2400,
			"battleCount": 6200,
			"currentPathOfLegendSeasonResult": {"leagueNumber": 10, "trophies": 120, "rank": 0},
			"lastPathOfLegendSeasonResult": {"leagueNumber": 10, "trophies": 300, "rank": 8500},
			"bestPathOfLegendSeasonResult": {"leagueNumber": 10, "trophies": 450, "rank": 4100},
			"_cached": true,
			"_cachedAt": "2026-08-20T09:30:00"
		}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts)
	player, err := c.GetPlayer(ctx, "#abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if player.Name != "alpha" || player.Trophies != 11234 {
		t.Errorf("unexpected decode: %+v", player)
	}
	if !player.FromCache {
		t.Errorf("FromCache not decoded")
	}
	if player.CachedAt.IsZero() {
		t.Errorf("CachedAt not parsed")
	}
	if got := bestSeasonRank(player); got != 4100 {
		t.Errorf("bestSeasonRank == %v, want 4100", got)
	}
}

func TestBestSeasonRankNeverRanked(t *testing.T) {
	player := &Player{}
	if got := bestSeasonRank(player); got != 0 {
		t.Errorf("bestSeasonRank == %v, want 0 for unranked player", got)
	}
}

func TestClassifyPlayer(t *testing.T) {
	ctx := context.Background()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/player/ABC123/classify" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Player not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"tag": "#ABC123",
			"name": "alpha",
			"trophies": 11234,
			"classification": {"tier":"top_10k","label":"Top 10K","rank":4100,"priority":2},
			"pathOfLegend": {
				"current": {"leagueNumber":10,"trophies":120,"rank":0},
				"last": null,
				"best": {"leagueNumber":10,"trophies":450,"rank":4100}
			},
			"_cached": false
		}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts)
	res, err := c.ClassifyPlayer(ctx, "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Classification.Tier != "top_10k" || res.Classification.Rank != 4100 {
		t.Errorf("unexpected classification: %+v", res.Classification)
	}
	if res.PathOfLegend.Best.Rank != 4100 {
		t.Errorf("pathOfLegend.best not decoded: %+v", res.PathOfLegend)
	}

	out := BuildClassifyOutput(res)
	if !strings.Contains(out, "alpha (#ABC123): Top 10K") {
		t.Errorf("missing verdict line:\n%v", out)
	}
	if !strings.Contains(out, "Path of Legends rank: 4100") {
		t.Errorf("missing rank line:\n%v", out)
	}
}

func TestBuildPlayerOutput(t *testing.T) {
	player := &Player{
		Tag:          "#ABC123",
		Name:         "alpha",
		ExpLevel:     50,
		Trophies:     11234,
		BestTrophies: 12050,
		Wins:         3100,
		Losses:       2400,
		BattleCount:  6200,
		LastSeason:   SeasonResult{Rank: 8500},
	}

	out := BuildPlayerOutput(player)
	if !strings.Contains(out, "alpha (#ABC123)") {
		t.Errorf("missing header:\n%v", out)
	}
	if !strings.Contains(out, "11234 (best 12050)") {
		t.Errorf("missing trophies line:\n%v", out)
	}
	if !strings.Contains(out, "Best Path of Legends rank: 8500") {
		t.Errorf("missing rank line:\n%v", out)
	}
}
