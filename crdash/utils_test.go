/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package crdash

import (
	"testing"
)

func TestNormalizeTag(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"#2JYLU8YQ", "2JYLU8YQ"},
		{"#2jyLU8yq", "2JYLU8YQ"},
		{"2jylu8yq", "2JYLU8YQ"},
		{"  #2JYLU8YQ  ", "2JYLU8YQ"},
		{"#", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, c := range cases {
		got := NormalizeTag(c.in)
		if got != c.want {
			t.Errorf("NormalizeTag(%q) == %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDisplayTag(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2JYLU8YQ", "#2JYLU8YQ"},
		{"#2jyLU8yq", "#2JYLU8YQ"},
		{"", ""},
		{"#", ""},
	}

	for _, c := range cases {
		got := DisplayTag(c.in)
		if got != c.want {
			t.Errorf("DisplayTag(%q) == %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{50.0, "50%"},
		{33.3, "33.3%"},
		{0.0, "0%"},
		{100.0, "100%"},
	}

	for _, c := range cases {
		got := formatPercent(c.in)
		if got != c.want {
			t.Errorf("formatPercent(%v) == %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildCapacityBar(t *testing.T) {
	got := buildCapacityBar(5, 10, 10)
	if got != "[#####-----] 5/10" {
		t.Errorf("buildCapacityBar(5, 10, 10) == %q", got)
	}

	got = buildCapacityBar(0, 10, 10)
	if got != "[----------] 0/10" {
		t.Errorf("buildCapacityBar(0, 10, 10) == %q", got)
	}

	// over-full tournaments clamp rather than overflow the bar
	got = buildCapacityBar(15, 10, 10)
	if got != "[##########] 15/10" {
		t.Errorf("buildCapacityBar(15, 10, 10) == %q", got)
	}

	// zero capacity renders an empty bar instead of dividing by zero
	got = buildCapacityBar(5, 0, 10)
	if got != "[----------] 5/0" {
		t.Errorf("buildCapacityBar(5, 0, 10) == %q", got)
	}
}
