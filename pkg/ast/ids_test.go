// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileID_StableAcrossPathForms(t *testing.T) {
	a := FileID("proj", "./src/a.go")
	b := FileID("proj", "src/a.go")
	assert.Equal(t, a, b)
	assert.Equal(t, "proj::src/a.go", a)
}

func TestFunctionID_MethodUsesClassScope(t *testing.T) {
	classID := ClassID("proj", "src/a.go", "Server", 10, false)
	fnID := FunctionID("proj", "src/a.go", classID, "Start", 12, false)
	assert.Equal(t, classID+"::Start", fnID)
}

func TestFunctionID_CollisionAppendsStartLine(t *testing.T) {
	first := FunctionID("proj", "src/a.go", "", "helper", 5, false)
	second := FunctionID("proj", "src/a.go", "", "helper", 20, true)
	assert.NotEqual(t, first, second)
	assert.Contains(t, second, "::20")
}

func TestModuleID_RelativeResolvesAgainstDir(t *testing.T) {
	resolved := ModuleID("src/pkg/a.py", "./sibling")
	assert.Equal(t, "src/pkg/sibling", resolved)
}

func TestModuleID_AbsoluteLeftAsDeclared(t *testing.T) {
	resolved := ModuleID("src/pkg/a.go", "github.com/org/repo/util")
	assert.Equal(t, "github.com/org/repo/util", resolved)
}

func TestCollisionTracker_FirstObservationIsNotACollision(t *testing.T) {
	ct := newCollisionTracker()
	assert.False(t, ct.Observe("foo"))
	assert.True(t, ct.Observe("foo"))
	assert.True(t, ct.Observe("foo"))
	assert.False(t, ct.Observe("bar"))
}
