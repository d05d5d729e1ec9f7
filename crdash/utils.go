/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package crdash

import (
	"strconv"
	"strings"
)

// NormalizeTag returns the canonical form of a Clash Royale tag for use
// as an API path segment: trimmed, upper-cased, leading '#' removed.
func NormalizeTag(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "#")
	return strings.ToUpper(s)
}

// DisplayTag returns the normalized tag with its '#' prefix restored,
// the way tags are shown to players in game.
func DisplayTag(raw string) string {
	s := NormalizeTag(raw)
	if s == "" {
		return ""
	}
	return "#" + s
}

// formatPercent renders a percentage the way the dashboard does: one
// decimal at most, trailing ".0" dropped (50.0 displays as "50").
func formatPercent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// buildCapacityBar renders tournament fill as a fixed-width ASCII bar,
// e.g. [#####---------------] 250/1000.
func buildCapacityBar(count, capacity, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := 0
	if capacity > 0 {
		filled = count * width / capacity
		if filled > width {
			filled = width
		}
		if filled < 0 {
			filled = 0
		}
	}

	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(strings.Repeat("#", filled))
	sb.WriteString(strings.Repeat("-", width-filled))
	sb.WriteString("] ")
	sb.WriteString(strconv.Itoa(count))
	sb.WriteString("/")
	sb.WriteString(strconv.Itoa(capacity))

	return sb.String()
}
