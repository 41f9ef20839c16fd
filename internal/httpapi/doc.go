// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package httpapi exposes the external interfaces from spec §6 over gin:
// webhook intake, the Analyze API, the Review Result API, and the
// Compliance API. Handlers call internal/compliance's service,
// internal/relstore's accessors, the Task Fabric, and (for the Analyze API)
// pkg/ast and pkg/graphstore; none of them runs internal/review's
// orchestrator, which runs in the worker process.
package httpapi
