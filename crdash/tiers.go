/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package crdash

import "sort"

// TierEntry is the display metadata for one skill tier. Lower Order
// means higher skill and sorts first.
type TierEntry struct {
	ID       string
	Label    string
	SubLabel string
	Color    string
	Order    int
}

// UnknownTierOrder is the sort order assigned to tier ids the registry
// does not know; they always sink below every known tier.
const UnknownTierOrder = 99

const neutralTierColor = "#9e9e9e"

// tierRegistry is the canonical taxonomy, on the trophy thresholds in
// effect since the December 2024 trophy road revision. Path of Legends
// ranks outrank everything trophy based.
var tierRegistry = map[string]TierEntry{
	"top_1k":         {ID: "top_1k", Label: "Top 1K", SubLabel: "Path of Legends rank 1-1000", Color: "#ffd700", Order: 1},
	"top_10k":        {ID: "top_10k", Label: "Top 10K", SubLabel: "Path of Legends rank 1001-10000", Color: "#ff9800", Order: 2},
	"top_50k":        {ID: "top_50k", Label: "Top 50K", SubLabel: "Path of Legends rank 10001-50000", Color: "#e91e63", Order: 3},
	"ever_ranked":    {ID: "ever_ranked", Label: "Ranked", SubLabel: "Path of Legends rank above 50K", Color: "#9c27b0", Order: 4},
	"final_league":   {ID: "final_league", Label: "Final League", SubLabel: "Path of Legends, never ranked", Color: "#3f51b5", Order: 5},
	"reached_12k":    {ID: "reached_12k", Label: "12K+", SubLabel: "12000+ trophies", Color: "#2196f3", Order: 6},
	"trophy_10k_12k": {ID: "trophy_10k_12k", Label: "10K-12K", SubLabel: "10000-11999 trophies", Color: "#00bcd4", Order: 7},
	"casual":         {ID: "casual", Label: "Casual", SubLabel: "8000-9999 trophies", Color: "#4caf50", Order: 8},
	"beginner":       {ID: "beginner", Label: "Beginner", SubLabel: "below 8000 trophies", Color: "#8bc34a", Order: 9},
}

// LookupTier resolves a tier id against the registry. Unknown ids get a
// neutral fallback entry that reuses the id as its label.
func LookupTier(id string) TierEntry {
	entry, ok := tierRegistry[id]
	if ok {
		return entry
	}

	return TierEntry{
		ID:    id,
		Label: id,
		Color: neutralTierColor,
		Order: UnknownTierOrder,
	}
}

// Tiers returns every registry entry in display order.
func Tiers() []TierEntry {
	entries := make([]TierEntry, 0, len(tierRegistry))
	for _, entry := range tierRegistry {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})

	return entries
}
