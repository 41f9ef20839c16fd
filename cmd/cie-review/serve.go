// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kraklabs/cie-review/internal/compliance"
	"github.com/kraklabs/cie-review/internal/fabric"
	"github.com/kraklabs/cie-review/internal/httpapi"
	"github.com/kraklabs/cie-review/internal/relstore"
	"github.com/kraklabs/cie-review/pkg/graphstore"
)

// runServe starts the HTTP surface: webhook intake, Analyze/Review/
// Compliance APIs. It never runs the Review Orchestrator directly — see
// runWorker for that — so it can be scaled as a stateless replica set in
// front of however many workers are consuming the Task Fabric queue.
func runServe(ctx context.Context, cfg Config, logger *slog.Logger) error {
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

	svc := compliance.New(store)
	secrets := staticSecretResolver(cfg.ProjectSecrets)

	srv := httpapi.NewServer(store, fab, svc, graph, secrets, logger)

	httpSrv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("httpapi.listening", "addr", cfg.ListenAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-shutdownCtx.Done():
		logger.Info("httpapi.shutting_down")
		shutdownTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownTimeout)
	}
}
