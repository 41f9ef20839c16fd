// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package compliance

import "testing"

func TestLetterGrade_Bands(t *testing.T) {
	cases := []struct {
		name                string
		critical, high, cs  int
		want                string
	}{
		{"perfect", 0, 0, 100, "A+"},
		{"a-plus boundary", 0, 2, 95, "A+"},
		{"falls to a", 0, 3, 95, "A"},
		{"a boundary", 0, 5, 90, "A"},
		{"falls to b", 1, 5, 90, "B"},
		{"b boundary", 1, 10, 80, "B"},
		{"falls to c", 2, 10, 80, "C"},
		{"c boundary", 3, 20, 70, "C"},
		{"falls to d", 4, 20, 70, "D"},
		{"d boundary", 5, 30, 60, "D"},
		{"falls to f on critical", 6, 0, 100, "F"},
		{"falls to f on compliance", 0, 0, 10, "F"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := letterGrade(c.critical, c.high, c.cs); got != c.want {
				t.Errorf("letterGrade(%d, %d, %d) = %q, want %q", c.critical, c.high, c.cs, got, c.want)
			}
		})
	}
}
