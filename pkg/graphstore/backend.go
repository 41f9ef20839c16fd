// Copyright 2026 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package graphstore

import (
	"context"

	cozo "github.com/kraklabs/cie-review/pkg/cozodb"
)

// Backend is the interface every graph store implementation must satisfy.
// Query is read-only; Execute performs mutations. Errors returned by either
// should be classified by the caller into StoreUnavailable (retryable),
// StoreConstraint (fatal for the calling task), or Timeout (retryable with
// jitter) — see ClassifyError.
type Backend interface {
	Query(ctx context.Context, datalog string) (*QueryResult, error)
	Execute(ctx context.Context, datalog string) error
	Close() error
}

// QueryResult is a store-agnostic row set.
type QueryResult struct {
	Headers []string
	Rows    [][]any
}

func (r *QueryResult) ToNamedRows() cozo.NamedRows {
	return cozo.NamedRows{Headers: r.Headers, Rows: r.Rows}
}

func FromNamedRows(nr cozo.NamedRows) *QueryResult {
	return &QueryResult{Headers: nr.Headers, Rows: nr.Rows}
}
