/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"testing"
	"time"
)

func TestParseCompactTime(t *testing.T) {
	cases := []struct {
		in     string
		wantOk bool
		want   time.Time
	}{
		{"20250823T145530.000Z", true,
			time.Date(2025, 8, 23, 14, 55, 30, 0, time.UTC)},
		{"20250101T000000.000Z", true,
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		// already delimited forms still parse
		{"2025-08-23T14:55:30Z", true,
			time.Date(2025, 8, 23, 14, 55, 30, 0, time.UTC)},
		{"", false, time.Time{}},
		{"null", false, time.Time{}},
		{"garbage", false, time.Time{}},
		{"2025-99-99T00:00:00Z", false, time.Time{}},
		{"99999999T999999.000Z", false, time.Time{}},
	}

	for _, c := range cases {
		got, ok := ParseCompactTime(c.in)
		if ok != c.wantOk {
			t.Errorf("ParseCompactTime(%q) ok == %v, want %v", c.in, ok, c.wantOk)
			continue
		}
		if !c.wantOk {
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("ParseCompactTime(%q) == %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseCompactTimeNoZone(t *testing.T) {
	got, ok := ParseCompactTime("20250823T145530")
	if !ok {
		t.Fatalf("ParseCompactTime declined a zoneless compact timestamp")
	}
	if got.IsZero() {
		t.Errorf("ParseCompactTime returned zero time for a valid input")
	}
}

func TestParseDateOrZero(t *testing.T) {
	got, err := ParseDateOrZero("")
	if err != nil || !got.IsZero() {
		t.Errorf("ParseDateOrZero(\"\") == %v, %v; want zero, nil", got, err)
	}
	got, err = ParseDateOrZero("null")
	if err != nil || !got.IsZero() {
		t.Errorf("ParseDateOrZero(\"null\") == %v, %v; want zero, nil", got, err)
	}
	got, err = ParseDateOrZero("2026-02-03T04:05:06Z")
	if err != nil {
		t.Fatalf("ParseDateOrZero returned error: %v", err)
	}
	want := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDateOrZero == %v, want %v", got, want)
	}
}
