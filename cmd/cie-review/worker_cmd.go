// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/kraklabs/cie-review/internal/fabric"
	"github.com/kraklabs/cie-review/internal/relstore"
	"github.com/kraklabs/cie-review/internal/review"
	"github.com/kraklabs/cie-review/pkg/ast"
	"github.com/kraklabs/cie-review/pkg/graphstore"
	"github.com/kraklabs/cie-review/pkg/llm"
)

// runWorker drives the Review Orchestrator against whatever the Task
// Fabric queue hands it until interrupted.
func runWorker(ctx context.Context, cfg Config, logger *slog.Logger) error {
	store, err := relstore.Open(ctx, relstore.Config{DSN: cfg.PostgresDSN})
	if err != nil {
		return fmt.Errorf("open relational store: %w", err)
	}
	defer store.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisDSN)
	if err != nil {
		return fmt.Errorf("parse redis dsn: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	fab := fabric.New(redisClient)

	backend, err := graphstore.New(cfg.graphConfig())
	if err != nil {
		return fmt.Errorf("open graph store: %w", err)
	}
	defer backend.Close()
	graph := graphstore.NewAdapter(backend)

	provider, err := llm.NewProvider(cfg.llmProviderConfig())
	if err != nil {
		return fmt.Errorf("construct llm provider: %w", err)
	}

	parsers := ast.NewRegistry(ast.ModeAuto, 0, logger)
	orch := review.New(store, graph, parsers, provider, unconfiguredHost{}, fab, logger)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker.started")
	err = runWorkerLoop(runCtx, store, fab, orch, logger)
	if err == context.Canceled {
		logger.Info("worker.stopped")
		return nil
	}
	return err
}
