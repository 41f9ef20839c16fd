// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package graphstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCozoStr_EscapesQuotesAndBackslashes(t *testing.T) {
	assert.Equal(t, `"plain"`, cozoStr("plain"))
	assert.Equal(t, `"has \"quotes\""`, cozoStr(`has "quotes"`))
	assert.Equal(t, `"back\\slash"`, cozoStr(`back\slash`))
}

func TestCozoRow_MixedTypes(t *testing.T) {
	got := cozoRow("a", 3, true, 1.5)
	assert.Equal(t, `"a", 3, true, 1.5`, got)
}

func TestCozoRow_EmptyString(t *testing.T) {
	assert.Equal(t, `""`, cozoRow("")[0:2])
}
