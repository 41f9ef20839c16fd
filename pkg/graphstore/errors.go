// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package graphstore

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrStoreUnavailable wraps transient DB/graph I/O failures (spec §7);
	// callers should retry with exponential backoff.
	ErrStoreUnavailable = errors.New("graph store unavailable")
	// ErrStoreConstraint wraps unique/FK-style violations; the calling task
	// must fail rather than retry.
	ErrStoreConstraint = errors.New("graph store constraint violation")
	// ErrTimeout wraps a context-deadline/store-timeout failure; retryable
	// with jitter.
	ErrTimeout = errors.New("graph store timeout")
)

// ClassifyError maps a raw store error to one of the three kinds the fabric
// branches retry behavior on, per spec §4.2's "Guarantees" paragraph.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return wrap(ErrTimeout, err)
	case strings.Contains(msg, "already exists") || strings.Contains(msg, "constraint") || strings.Contains(msg, "unique"):
		return wrap(ErrStoreConstraint, err)
	default:
		return wrap(ErrStoreUnavailable, err)
	}
}

func wrap(sentinel, cause error) error {
	return &classifiedError{sentinel: sentinel, cause: cause}
}

type classifiedError struct {
	sentinel error
	cause    error
}

func (e *classifiedError) Error() string { return e.sentinel.Error() + ": " + e.cause.Error() }
func (e *classifiedError) Unwrap() error { return e.sentinel }
func (e *classifiedError) Cause() error  { return e.cause }
