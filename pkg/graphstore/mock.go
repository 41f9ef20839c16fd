// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package graphstore

import (
	"context"
	"sort"
	"sync"
)

// memBackend is a placeholder in-process Backend: Query returns an empty
// result, Execute does nothing, and Close only marks it closed. It stores no
// rows and evaluates no Datalog. Nothing in this module constructs it.
type memBackend struct {
	mu     sync.Mutex
	tables map[string]map[string][]any // table -> id -> row values (by insertion order key)
	closed bool
}

func newMemBackend() *memBackend {
	return &memBackend{tables: map[string]map[string][]any{}}
}

func (m *memBackend) Query(ctx context.Context, datalog string) (*QueryResult, error) {
	return &QueryResult{}, nil
}

func (m *memBackend) Execute(ctx context.Context, datalog string) error {
	return nil
}

func (m *memBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// sortedKeys returns m's keys in sorted order. Nothing in this module calls
// it.
func sortedKeys(m map[string][]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
