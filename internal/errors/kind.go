// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package errors

import stderrors "errors"

// Kind classifies a runtime error for the Task Fabric and Review
// Orchestrator so they can branch on retry/fail/fallback policy without
// inspecting error strings. Distinct from the CLI-facing ExitCode family
// above: Kind travels with server-side errors that are never printed
// straight to a terminal.
type Kind string

const (
	KindInvalidInput     Kind = "InvalidInput"
	KindNotFound         Kind = "NotFound"
	KindSignatureInvalid Kind = "SignatureInvalid"
	KindStoreUnavailable Kind = "StoreUnavailable"
	KindStoreConstraint  Kind = "StoreConstraint"
	KindParseFailed      Kind = "ParseFailed"
	KindLLMFailed        Kind = "LLMFailed"
	KindTimeout          Kind = "Timeout"
	KindLockUnavailable  Kind = "LockUnavailable"
)

// Retryable reports whether the fabric should retry a task that failed with
// this kind, per the error-kind policy table.
func (k Kind) Retryable() bool {
	switch k {
	case KindStoreUnavailable, KindTimeout, KindLockUnavailable:
		return true
	default:
		return false
	}
}

// KindedError pairs a Kind with the underlying cause, letting callers use
// errors.As to recover the kind from an error chain.
type KindedError struct {
	Kind Kind
	Err  error
}

func (e *KindedError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *KindedError) Unwrap() error { return e.Err }

// WithKind wraps err with a Kind, or returns nil if err is nil.
func WithKind(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &KindedError{Kind: kind, Err: err}
}

// KindOf recovers the Kind from an error chain, or "" if err was never
// wrapped with WithKind.
func KindOf(err error) Kind {
	var ke *KindedError
	if stderrors.As(err, &ke) {
		return ke.Kind
	}
	return ""
}
