// Copyright 2026 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// normalizePath normalizes a file path for consistent identifier generation:
// removes a leading "./", cleans redundant separators, and forces forward
// slashes so identifiers are stable across operating systems.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	path = filepath.Clean(path)
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "/")
	return path
}

// FileID builds the File node identifier: "{projectId}::{path}".
func FileID(projectID, path string) string {
	return fmt.Sprintf("%s::%s", projectID, normalizePath(path))
}

// ClassID builds the Class node identifier: "{projectId}::{path}::{name}",
// disambiguated with an appended start line when a name collides within the
// same file (multiple declarations of the same name in one file).
func ClassID(projectID, path, name string, startLine int, collision bool) string {
	id := fmt.Sprintf("%s::%s::%s", projectID, normalizePath(path), name)
	if collision {
		id += "::" + strconv.Itoa(startLine)
	}
	return id
}

// FunctionID builds the Function node identifier. A top-level function uses
// "{projectId}::{path}::{name}"; a method uses "{classId}::{name}". Either
// form is disambiguated with an appended start line on collision, per the
// same-name-in-one-scope tie-break.
func FunctionID(projectID, path, classID, name string, startLine int, collision bool) string {
	var id string
	if classID != "" {
		id = fmt.Sprintf("%s::%s", classID, name)
	} else {
		id = fmt.Sprintf("%s::%s::%s", projectID, normalizePath(path), name)
	}
	if collision {
		id += "::" + strconv.Itoa(startLine)
	}
	return id
}

// ImportID builds the Import node identifier: "{projectId}::{path}::{name}".
func ImportID(projectID, path, name string, startLine int, collision bool) string {
	id := fmt.Sprintf("%s::%s::%s", projectID, normalizePath(path), name)
	if collision {
		id += "::" + strconv.Itoa(startLine)
	}
	return id
}

// ModuleID resolves an import's declared name to a module node identifier.
// Relative imports are resolved against the importing file's directory;
// absolute imports are left as the declared name, matching spec §4.1 step 5.
func ModuleID(filePath, importPath string) string {
	if strings.HasPrefix(importPath, ".") {
		dir := filepath.Dir(normalizePath(filePath))
		resolved := filepath.ToSlash(filepath.Clean(filepath.Join(dir, importPath)))
		return resolved
	}
	return importPath
}

// collisionTracker disambiguates repeated declarations of the same name
// within one file, per spec §4.1: "Multiple declarations of the same name in
// one file produce distinct nodes disambiguated by startLine appended to the
// identifier."
type collisionTracker struct {
	seen map[string]int
}

func newCollisionTracker() *collisionTracker {
	return &collisionTracker{seen: make(map[string]int)}
}

// Observe returns whether name has already been seen in this file.
func (c *collisionTracker) Observe(name string) bool {
	c.seen[name]++
	return c.seen[name] > 1
}
