/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
func ParseDateOrZero(s string) (time.Time, error) {
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

// ParseCompactTime parses the Clash Royale API's compact timestamp format
// (e.g. 20250823T145530.000Z). The compact form carries no separators, so
// it is first rewritten into delimited ISO and then handed to the generic
// parser. Returns ok=false for missing or malformed input; callers that
// need a countdown must decline to start rather than guess.
func ParseCompactTime(s string) (time.Time, bool) {
	if s == "" || s == "null" {
		return time.Time{}, false
	}
	if len(s) >= 15 && s[8] == 'T' && allDigits(s[:8]) && allDigits(s[9:15]) {
		iso := s[0:4] + "-" + s[4:6] + "-" + s[6:8] + "T" +
			s[9:11] + ":" + s[11:13] + ":" + s[13:15] + s[15:]
		t, err := dateparse.ParseAny(iso)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	// Not in compact form; some intermediaries hand back already
	// delimited timestamps.
	t, err := dateparse.ParseAny(s)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
