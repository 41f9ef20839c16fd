// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package relstore is the relational plane: pull requests, review results,
// the append-only audit log, and project baseline snapshots. It owns its
// own schema migrations and exposes one store type per table family so
// callers never hand-write SQL outside this package.
package relstore
