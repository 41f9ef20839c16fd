// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package review

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kraklabs/cie-review/pkg/graphstore"
)

// projectChangedFiles fetches, parses, and upserts every added/modified/
// renamed file (spec §4.4 step 4). Parse failures are logged and skipped,
// never abort the run; a file with no registered parser is skipped without
// being counted. Removed files are skipped too: their nodes are not deleted
// from the graph, here or anywhere else in the orchestrator.
func (o *Orchestrator) projectChangedFiles(ctx context.Context, projectID, commitSHA string, files []ChangedFile) (parsedCount, failedCount int) {
	for _, f := range files {
		if f.Status == "removed" {
			continue
		}
		content, err := o.host.FetchFileContent(ctx, projectID, f.Filename, commitSHA)
		if err != nil {
			o.logger.Warn("review.project.fetch_failed", "project_id", projectID, "file", f.Filename, "err", err)
			failedCount++
			continue
		}

		pf, err := o.parsers.ParseFile(projectID, f.Filename, content)
		if err != nil {
			o.logger.Warn("review.project.parse_failed", "project_id", projectID, "file", f.Filename, "err", err)
			failedCount++
			continue
		}
		if pf == nil {
			continue // no parser registered for this extension
		}

		if err := o.graph.UpsertParsedFile(ctx, projectID, pf); err != nil {
			o.logger.Warn("review.project.upsert_failed", "project_id", projectID, "file", f.Filename, "err", err)
			failedCount++
			continue
		}
		parsedCount++
	}
	return parsedCount, failedCount
}

// snapshotGraph loads the project's current graph for analytics. An adapter
// error is returned as is; Run treats it as a failed step.
func (o *Orchestrator) snapshotGraph(ctx context.Context, projectID string) (*graphstore.GraphSnapshot, error) {
	return o.graph.GetDependencyGraph(ctx, projectID)
}

// cycleIndexDir returns the scratch directory a task's CycleIndex is opened
// under — one badger instance per project, reused across tasks rather than
// recreated, since the index is rebuilt from the latest snapshot at the
// start of every task anyway.
func cycleIndexDir(projectID string) string {
	return filepath.Join(os.TempDir(), "cie-review-cycle-index", projectID)
}

// primaryLanguage reports the primary language of a changed-file set,
// used in the review prompt (spec §4.4 step 6 "primary language").
func primaryLanguage(files []ChangedFile) string {
	counts := map[string]int{}
	for _, f := range files {
		if f.Language != "" {
			counts[f.Language]++
		}
	}
	best := ""
	bestCount := 0
	for lang, n := range counts {
		if n > bestCount {
			best, bestCount = lang, n
		}
	}
	return best
}
