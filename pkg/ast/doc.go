// Copyright 2026 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package ast projects source file text into the uniform graph element set
// consumed by the graph store: Files, Classes, Functions, Imports, and the
// edges between them (CONTAINS, CALLS, INHERITS_FROM, DEPENDS_ON).
//
// Each supported language implements the Parser interface independently;
// adding a language means adding an implementation and registering it with
// NewRegistry, nothing else in the pipeline changes.
//
// Parsing never touches the graph store and never fails outright on bad
// syntax: partial results are returned alongside a SyntaxError list, and a
// parser only returns a bare error when it cannot produce any output at all
// (ParseFailed).
package ast
