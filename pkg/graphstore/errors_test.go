// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package graphstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError_Nil(t *testing.T) {
	assert.Nil(t, ClassifyError(nil))
}

func TestClassifyError_Timeout(t *testing.T) {
	err := ClassifyError(context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrTimeout)

	err = ClassifyError(errors.New("query timeout after 5s"))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClassifyError_Constraint(t *testing.T) {
	err := ClassifyError(errors.New("relation already exists: function"))
	assert.ErrorIs(t, err, ErrStoreConstraint)

	err = ClassifyError(errors.New("unique constraint violated"))
	assert.ErrorIs(t, err, ErrStoreConstraint)
}

func TestClassifyError_DefaultsToUnavailable(t *testing.T) {
	err := ClassifyError(errors.New("connection reset by peer"))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestClassifyError_CausePreserved(t *testing.T) {
	cause := errors.New("disk full")
	err := ClassifyError(cause)
	var ce *classifiedError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, cause, ce.Cause())
}
