/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package crdash

// Status is a tournament lifecycle state as reported by the backend. The
// raw wire value is preserved; use ParseStatus for comparisons and Label
// for display.
type Status string

const (
	StatusInPreparation Status = "inPreparation"
	StatusInProgress    Status = "inProgress"
	StatusEnded         Status = "ended"
	StatusUnknown       Status = "unknown"
)

// ParseStatus maps a wire status onto its canonical value. The live
// Clash Royale API spells states camelCase while older dashboard
// deployments used snake_case; both normalize identically.
func ParseStatus(raw string) Status {
	switch raw {
	case "inPreparation", "in_preparation":
		return StatusInPreparation
	case "inProgress", "in_progress":
		return StatusInProgress
	case "ended":
		return StatusEnded
	}

	return StatusUnknown
}

// Label returns the human readable form of a status. Unrecognized values
// display as-is rather than being hidden; an absent status displays as
// "unknown".
func (s Status) Label() string {
	switch ParseStatus(string(s)) {
	case StatusInPreparation:
		return "in preparation"
	case StatusInProgress:
		return "in progress"
	case StatusEnded:
		return "ended"
	}

	if s != "" {
		return string(s)
	}
	return "unknown"
}
