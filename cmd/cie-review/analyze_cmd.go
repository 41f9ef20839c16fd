// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/cie-review/internal/output"
	"github.com/kraklabs/cie-review/pkg/ast"
	"github.com/kraklabs/cie-review/pkg/graphstore"
)

// analyzeSummary is the machine-readable shape emitted by --json, for
// callers scripting the analyze subcommand (e.g. a CI step that wants to
// assert on skipped/failed counts rather than scrape stdout text).
type analyzeSummary struct {
	Dir     string `json:"dir"`
	Total   int    `json:"total"`
	Parsed  int    `json:"parsed"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// runAnalyzeCmd parses every source file under a local directory tree and
// upserts it into the graph store directly — a local, offline counterpart
// to the Analyze API (internal/httpapi's POST /projects/{id}/analyze) for
// operators who want a one-shot scan without running the HTTP server.
func runAnalyzeCmd(ctx context.Context, cfg Config, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	projectID := fs.String("project", "", "Project ID to tag upserted graph entities with")
	dir := fs.String("dir", ".", "Directory to scan")
	jsonOut := fs.Bool("json", false, "Print the summary as JSON instead of plain text")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cie-review analyze --project <id> [--dir <path>]

Parses every recognized source file under --dir and upserts it into the
configured graph store, reporting progress as it goes.
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *projectID == "" {
		return fmt.Errorf("--project is required")
	}

	backend, err := graphstore.New(cfg.graphConfig())
	if err != nil {
		return fmt.Errorf("open graph store: %w", err)
	}
	defer backend.Close()
	graph := graphstore.NewAdapter(backend)

	registry := ast.NewRegistry(ast.ModeAuto, 0, nil)

	var paths []string
	err = filepath.WalkDir(*dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", *dir, err)
	}

	bar := newFileProgressBar(len(paths), "analyzing")

	parsed, failed, skipped := 0, 0, 0
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			failed++
			if bar != nil {
				_ = bar.Add(1)
			}
			continue
		}

		pf, err := registry.ParseFile(*projectID, path, content)
		if err != nil {
			failed++
		} else if pf == nil {
			skipped++ // no parser registered for this extension
		} else if err := graph.UpsertParsedFile(ctx, *projectID, pf); err != nil {
			failed++
		} else {
			parsed++
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	summary := analyzeSummary{Dir: *dir, Total: len(paths), Parsed: parsed, Skipped: skipped, Failed: failed}
	if *jsonOut {
		return output.JSON(summary)
	}
	fmt.Printf("analyzed %d files (%d parsed, %d skipped, %d failed)\n", summary.Total, summary.Parsed, summary.Skipped, summary.Failed)
	return nil
}
