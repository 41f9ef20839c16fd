// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package fabric

import "testing"

func TestLockKey(t *testing.T) {
	if got, want := lockKey("pr:42"), "lock:pr:42"; got != want {
		t.Errorf("lockKey = %q, want %q", got, want)
	}
}

func TestSessionKey(t *testing.T) {
	if got, want := sessionKey("user-7"), "session:user-7"; got != want {
		t.Errorf("sessionKey = %q, want %q", got, want)
	}
}

func TestAnalysisResultKey(t *testing.T) {
	if got, want := analysisResultKey("pr-9"), "analysis:pr-9"; got != want {
		t.Errorf("analysisResultKey = %q, want %q", got, want)
	}
}

func TestGraphQueryKey_StableAcrossParamOrder(t *testing.T) {
	query := "?[x] := *file{id: x}"
	a := graphQueryKey("proj-1", query, map[string]any{"a": 1, "b": 2})
	b := graphQueryKey("proj-1", query, map[string]any{"b": 2, "a": 1})
	if a != b {
		t.Errorf("graphQueryKey not stable across map iteration order: %q != %q", a, b)
	}
}

func TestGraphQueryKey_DiffersByQueryAndProject(t *testing.T) {
	base := graphQueryKey("proj-1", "query-a", nil)
	diffQuery := graphQueryKey("proj-1", "query-b", nil)
	diffProject := graphQueryKey("proj-2", "query-a", nil)
	if base == diffQuery {
		t.Error("different queries produced the same cache key")
	}
	if base == diffProject {
		t.Error("different projects produced the same cache key")
	}
}
