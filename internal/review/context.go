// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package review

import (
	"fmt"
	"strings"

	"github.com/kraklabs/cie-review/pkg/analytics"
	"github.com/kraklabs/cie-review/pkg/graphstore"
)

// DefaultDiffMaxLines is the diff truncation policy's total-line cap (spec
// §4.4 step 6, overridable via the DIFF_MAX_LINES environment variable).
const DefaultDiffMaxLines = 800

const maxExampleCycles = 5

// buildContextBundle formats cycle/violation/coupling analytics into the
// terse plain-text block spec §4.4 step 5 feeds into the review prompt. idx
// is the task's cycle index (nil if unavailable), shared across every
// analytics call this bundle makes so they don't each re-derive an adjacency
// from snap.
func buildContextBundle(snap *graphstore.GraphSnapshot, schema *analytics.LayerSchema, idx *analytics.CycleIndex) string {
	var b strings.Builder

	cycles := analytics.FindCircularDependencies(snap, 0, 0, 0, idx)
	fmt.Fprintf(&b, "Circular dependencies: %d found", len(cycles.Cycles))
	if cycles.Truncated {
		b.WriteString(" (truncated)")
	}
	b.WriteString("\n")
	for i, c := range cycles.Cycles {
		if i >= maxExampleCycles {
			break
		}
		fmt.Fprintf(&b, "  - [%s] %s\n", c.Severity, strings.Join(c.Nodes, " -> "))
	}

	if schema != nil {
		violations := analytics.FindLayerViolations(snap, *schema, idx)
		fmt.Fprintf(&b, "Layer violations: %d found\n", len(violations.Violations))
	}

	coupling := analytics.ComputeCoupling(snap, idx)
	unstable := 0
	var complexitySum, complexityCount int
	for _, m := range coupling.Modules {
		if m.Instability > analytics.HighlyUnstableThreshold {
			unstable++
		}
	}
	for _, fn := range snap.Functions {
		complexitySum += fn.Complexity
		complexityCount++
	}
	avgComplexity := 0.0
	if complexityCount > 0 {
		avgComplexity = float64(complexitySum) / float64(complexityCount)
	}
	fmt.Fprintf(&b, "Highly unstable modules: %d\n", unstable)
	fmt.Fprintf(&b, "Average function complexity: %.1f\n", avgComplexity)

	return b.String()
}

// truncateDiff applies the policy from spec §4.4 step 6: retain every file
// header and every added/removed line unconditionally; interleaved context
// lines are kept only until the total line count reaches maxLines. A single
// marker line is appended if truncation occurred.
func truncateDiff(diff string, maxLines int) string {
	if maxLines <= 0 {
		maxLines = DefaultDiffMaxLines
	}
	lines := strings.Split(diff, "\n")

	var kept []string
	contextBudget := maxLines
	truncated := false
	for _, line := range lines {
		isStructural := strings.HasPrefix(line, "diff --git") ||
			strings.HasPrefix(line, "index ") ||
			strings.HasPrefix(line, "---") ||
			strings.HasPrefix(line, "+++") ||
			strings.HasPrefix(line, "@@") ||
			strings.HasPrefix(line, "+") ||
			strings.HasPrefix(line, "-")

		if isStructural || contextBudget > 0 {
			kept = append(kept, line)
			contextBudget--
		} else {
			truncated = true
		}
	}

	out := strings.Join(kept, "\n")
	if truncated {
		out += "\n... [diff truncated: context lines beyond the cap omitted] ...\n"
	}
	return out
}
