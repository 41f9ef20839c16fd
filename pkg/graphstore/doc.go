// Copyright 2026 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

// Package graphstore persists AST Projector output and answers the
// analytical queries Graph Analytics and the Review Orchestrator need. It
// hides all store query-language syntax behind the Backend interface; the
// only implementation shipped here is a CozoDB-backed embedded backend, but
// callers depend only on Backend.
package graphstore
