/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package crdash

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DistRow is one rendered line of a tier distribution.
type DistRow struct {
	Label    string
	SubLabel string
	Color    string
	Count    int
	Percent  float64

	// Placeholder marks the single "no data" row an empty summary
	// renders to.
	Placeholder bool

	order int
}

const noDataLabel = "no player data available"

// BuildDistribution turns an analysis summary into ordered display rows:
// zero-count tiers are dropped, ids resolve against the registry (with
// unknowns sinking to the bottom), and rows sort by ascending tier
// order. An empty result renders exactly one placeholder row. The input
// summary is never modified, and percentages display exactly as the
// analyzer reported them.
func BuildDistribution(summary TierSummary) []DistRow {
	rows := make([]DistRow, 0, len(summary))
	for id, tc := range summary {
		if tc.Count == 0 {
			continue
		}
		entry := LookupTier(id)
		rows = append(rows, DistRow{
			Label:    entry.Label,
			SubLabel: entry.SubLabel,
			Color:    entry.Color,
			Count:    tc.Count,
			Percent:  tc.Percent,
			order:    entry.Order,
		})
	}

	if len(rows) == 0 {
		return []DistRow{{Label: noDataLabel, Color: neutralTierColor,
			Placeholder: true}}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].order < rows[j].order
	})

	return rows
}

// BuildDistributionOutput formats distribution rows into an aligned
// text table.
func BuildDistributionOutput(rows []DistRow) string {
	var sb strings.Builder

	if len(rows) == 1 && rows[0].Placeholder {
		sb.WriteString(rows[0].Label)
		sb.WriteString("\n")
		return sb.String()
	}

	type row struct{ tier, players, share string }
	var tblRows []row
	for _, r := range rows {
		tblRows = append(tblRows, row{
			tier:    r.Label,
			players: strconv.Itoa(r.Count),
			share:   formatPercent(r.Percent),
		})
	}

	// Compute column widths
	maxT, maxP, maxS := len("Tier"), len("Players"), len("Share")
	for _, r := range tblRows {
		if l := len(r.tier); l > maxT {
			maxT = l
		}
		if l := len(r.players); l > maxP {
			maxP = l
		}
		if l := len(r.share); l > maxS {
			maxS = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %*s  %*s\n", maxT, "Tier", maxP,
		"Players", maxS, "Share"))
	for _, r := range tblRows {
		sb.WriteString(fmt.Sprintf("%-*s  %*s  %*s\n", maxT, r.tier,
			maxP, r.players, maxS, r.share))
	}

	return sb.String()
}
