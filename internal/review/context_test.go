// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package review

import (
	"strings"
	"testing"
)

func TestTruncateDiff_KeepsHeadersAndAddedRemovedLines(t *testing.T) {
	var b strings.Builder
	b.WriteString("diff --git a/x.go b/x.go\n")
	b.WriteString("index 111..222 100644\n")
	b.WriteString("--- a/x.go\n")
	b.WriteString("+++ b/x.go\n")
	b.WriteString("@@ -1,3 +1,3 @@\n")
	for i := 0; i < 10; i++ {
		b.WriteString(" unchanged context line\n")
	}
	b.WriteString("+added line\n")
	b.WriteString("-removed line\n")

	out := truncateDiff(b.String(), 3)

	if !strings.Contains(out, "diff --git") {
		t.Error("file header dropped")
	}
	if !strings.Contains(out, "+added line") || !strings.Contains(out, "-removed line") {
		t.Error("added/removed lines dropped")
	}
	if !strings.Contains(out, "truncated") {
		t.Error("expected truncation marker when context exceeds cap")
	}
}

func TestTruncateDiff_NoMarkerWhenUnderCap(t *testing.T) {
	diff := "diff --git a/x.go b/x.go\n+added\n"
	out := truncateDiff(diff, DefaultDiffMaxLines)
	if strings.Contains(out, "truncated") {
		t.Error("unexpected truncation marker for a small diff")
	}
}

func TestPrimaryLanguage_MajorityWins(t *testing.T) {
	files := []ChangedFile{
		{Filename: "a.go", Language: "go"},
		{Filename: "b.go", Language: "go"},
		{Filename: "c.py", Language: "python"},
	}
	if got := primaryLanguage(files); got != "go" {
		t.Errorf("primaryLanguage = %q, want go", got)
	}
}

func TestPrimaryLanguage_EmptyInput(t *testing.T) {
	if got := primaryLanguage(nil); got != "" {
		t.Errorf("primaryLanguage(nil) = %q, want empty", got)
	}
}
