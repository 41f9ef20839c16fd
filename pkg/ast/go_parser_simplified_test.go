// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoParser_Simplified_ExtractsFunctionAndComplexity(t *testing.T) {
	src := `package main

func Add(a, b int) int {
	if a > 0 {
		return a + b
	}
	return b
}
`
	p := newGoParser(nil, false)
	pf, err := p.ParseFile("proj", "main.go", []byte(src))
	require.NoError(t, err)
	require.Len(t, pf.Functions, 1)
	fn := pf.Functions[0]
	assert.Equal(t, "Add", fn.Name)
	assert.GreaterOrEqual(t, fn.Complexity, 2)
	assert.Equal(t, "proj::main.go::Add", fn.ID)
}

func TestGoParser_Simplified_SameInputIsDeterministic(t *testing.T) {
	src := "package main\n\nfunc Foo() {\n\tbar()\n}\n"
	p := newGoParser(nil, false)
	pf1, err := p.ParseFile("proj", "a.go", []byte(src))
	require.NoError(t, err)
	pf2, err := p.ParseFile("proj", "a.go", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, pf1.Functions, pf2.Functions)
}

func TestRegistry_RejectsOversizedFile(t *testing.T) {
	r := NewRegistry(ModeSimplified, 10, nil)
	_, err := r.ParseFile("proj", "a.go", make([]byte, 11))
	require.Error(t, err)
	var tooLarge *ErrInputTooLarge
	assert.ErrorAs(t, err, &tooLarge)
}

func TestRegistry_RejectsBinaryContent(t *testing.T) {
	r := NewRegistry(ModeSimplified, 0, nil)
	_, err := r.ParseFile("proj", "a.go", []byte{0xff, 0xfe, 0x00, 0x01})
	require.Error(t, err)
	var unsupported *ErrUnsupportedInput
	assert.ErrorAs(t, err, &unsupported)
}

func TestRegistry_UnknownExtensionSkippedSilently(t *testing.T) {
	r := NewRegistry(ModeSimplified, 0, nil)
	pf, err := r.ParseFile("proj", "README.md", []byte("# hi"))
	require.NoError(t, err)
	assert.Nil(t, pf)
}

func TestComplexity_AlwaysAtLeastOne(t *testing.T) {
	complexity := simplifiedComplexity([]string{"func Foo() {", "return nil", "}"})
	assert.GreaterOrEqual(t, complexity, 1)
}
