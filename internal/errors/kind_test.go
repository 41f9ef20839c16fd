// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_RetryablePolicy(t *testing.T) {
	assert.True(t, KindStoreUnavailable.Retryable())
	assert.True(t, KindTimeout.Retryable())
	assert.True(t, KindLockUnavailable.Retryable())
	assert.False(t, KindInvalidInput.Retryable())
	assert.False(t, KindStoreConstraint.Retryable())
	assert.False(t, KindLLMFailed.Retryable())
}

func TestWithKind_NilPassesThrough(t *testing.T) {
	assert.Nil(t, WithKind(KindTimeout, nil))
}

func TestWithKind_UnwrapsToCause(t *testing.T) {
	cause := errors.New("deadline")
	err := WithKind(KindTimeout, cause)
	assert.ErrorIs(t, err, cause)
	var ke *KindedError
	assert.ErrorAs(t, err, &ke)
	assert.Equal(t, KindTimeout, ke.Kind)
}
