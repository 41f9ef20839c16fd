// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package analytics implements the stateless Graph Analytics algorithms:
// bounded simple-cycle detection, layer classification and violation
// detection against a declared schema, coupling metrics, drift scoring, and
// longest-path listing. Every function here is a pure read over a
// graphstore.GraphSnapshot; none of them touch the store directly.
package analytics
