// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package main implements the cie-review server: a gin HTTP surface for
// webhook intake and the Analyze/Review/Compliance APIs, plus a worker that
// drains the Task Fabric's analysis queue through the Review Orchestrator.
//
// Usage:
//
//	cie-review serve --config cie-review.yaml    Run the HTTP API
//	cie-review worker --config cie-review.yaml   Run the review worker loop
//	cie-review migrate --config cie-review.yaml  Apply pending schema migrations and exit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/cie-review/internal/relstore"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configPath  = flag.StringP("config", "c", "", "Path to cie-review.yaml (defaults are used when omitted)")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `cie-review - AI code review and architectural drift server

Usage:
  cie-review <command> [options]

Commands:
  serve     Run the HTTP API (webhook intake, Analyze/Review/Compliance APIs)
  worker    Run the review worker loop against the Task Fabric queue
  migrate   Apply pending relational schema migrations and exit
  analyze   One-shot local directory scan into the graph store

Global Options:
  --config, -c   Path to cie-review.yaml
  --version      Show version and exit
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("cie-review version %s (commit %s)\n", version, commit)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ctx := context.Background()
	command := args[0]

	switch command {
	case "serve":
		err = runServe(ctx, cfg, logger)
	case "worker":
		err = runWorker(ctx, cfg, logger)
	case "migrate":
		err = runMigrate(ctx, cfg, logger)
	case "analyze":
		err = runAnalyzeCmd(ctx, cfg, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("cie-review.fatal", "command", command, "err", err)
		os.Exit(1)
	}
}

// runMigrate opens the store (which applies pending migrations on connect)
// and closes it again; there is no separate migration runner to invoke.
func runMigrate(ctx context.Context, cfg Config, logger *slog.Logger) error {
	store, err := relstore.Open(ctx, relstore.Config{DSN: cfg.PostgresDSN})
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("migrate.complete")
	return nil
}
