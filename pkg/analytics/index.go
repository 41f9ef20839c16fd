// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/kraklabs/cie-review/pkg/graphstore"
)

// CycleIndex is an in-process adjacency scratch cache, rebuilt from a
// getDependencyGraph snapshot once per Review Orchestrator task so that the
// cycle/coupling/drift calls that task makes don't each re-query the graph
// store — the same caching motive as the teacher's trace.go callee cache,
// just backed by badger instead of a plain map so large projects don't hold
// the whole adjacency list resident for the run's lifetime. It caches both
// the forward (DEPENDS_ON) edges FindCircularDependencies walks and the
// reverse edges ComputeCoupling needs for afferent counts.
type CycleIndex struct {
	db        *badger.DB
	projectID string
}

// OpenCycleIndex opens (or creates) an on-disk badger instance at dir.
// Callers should Close it when the analytics run for this project is done.
func OpenCycleIndex(dir, projectID string) (*CycleIndex, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cycle index: %w", err)
	}
	return &CycleIndex{db: db, projectID: projectID}, nil
}

// Rebuild replaces the cached forward and reverse adjacency with the
// current snapshot.
func (c *CycleIndex) Rebuild(snap *graphstore.GraphSnapshot) error {
	g := buildModuleAdjacency(snap)
	in := map[string][]string{}
	for _, node := range g.nodes {
		for _, tgt := range g.out[node] {
			in[tgt] = append(in[tgt], node)
		}
	}

	return c.db.Update(func(txn *badger.Txn) error {
		for _, node := range g.nodes {
			if err := c.put(txn, c.outKey(node), g.out[node]); err != nil {
				return err
			}
			if err := c.put(txn, c.inKey(node), in[node]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *CycleIndex) put(txn *badger.Txn, key []byte, list []string) error {
	payload, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return txn.Set(key, payload)
}

// Neighbors returns the cached outgoing DEPENDS_ON targets for a node, or
// nil if the node has none cached.
func (c *CycleIndex) Neighbors(nodeID string) ([]string, error) {
	return c.get(c.outKey(nodeID))
}

// Dependents returns the cached incoming DEPENDS_ON sources for a node —
// the afferent side of coupling that Neighbors' forward edges can't answer.
func (c *CycleIndex) Dependents(nodeID string) ([]string, error) {
	return c.get(c.inKey(nodeID))
}

func (c *CycleIndex) get(key []byte) ([]string, error) {
	var out []string
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	return out, err
}

func (c *CycleIndex) outKey(nodeID string) []byte {
	return []byte(c.projectID + "::out::" + nodeID)
}

func (c *CycleIndex) inKey(nodeID string) []byte {
	return []byte(c.projectID + "::in::" + nodeID)
}

// Close releases the underlying badger instance.
func (c *CycleIndex) Close() error {
	return c.db.Close()
}
