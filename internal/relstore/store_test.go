// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package relstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbed_ContainsUpAndDown(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	var hasUp, hasDown bool
	for _, e := range entries {
		if e.Name() == "0001_init.up.sql" {
			hasUp = true
		}
		if e.Name() == "0001_init.down.sql" {
			hasDown = true
		}
	}
	assert.True(t, hasUp, "expected 0001_init.up.sql to be embedded")
	assert.True(t, hasDown, "expected 0001_init.down.sql to be embedded")
}
