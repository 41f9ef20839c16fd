// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package httpapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestValidSignature_AcceptsCorrectDigest(t *testing.T) {
	body := []byte(`{"action":"opened"}`)
	header := sign("shhh", body)

	if !validSignature("shhh", body, header) {
		t.Fatal("expected valid signature to be accepted")
	}
}

func TestValidSignature_RejectsWrongSecret(t *testing.T) {
	body := []byte(`{"action":"opened"}`)
	header := sign("shhh", body)

	if validSignature("other", body, header) {
		t.Fatal("expected signature signed with a different secret to be rejected")
	}
}

func TestValidSignature_RejectsTamperedBody(t *testing.T) {
	header := sign("shhh", []byte(`{"action":"opened"}`))

	if validSignature("shhh", []byte(`{"action":"closed"}`), header) {
		t.Fatal("expected signature mismatch after body tampering to be rejected")
	}
}

func TestValidSignature_RejectsMissingPrefix(t *testing.T) {
	body := []byte(`{"action":"opened"}`)
	mac := hmac.New(sha256.New, []byte("shhh"))
	mac.Write(body)
	bare := hex.EncodeToString(mac.Sum(nil))

	if validSignature("shhh", body, bare) {
		t.Fatal("expected a header without the sha256= prefix to be rejected")
	}
}

func TestValidSignature_RejectsEmptyHeader(t *testing.T) {
	if validSignature("shhh", []byte("{}"), "") {
		t.Fatal("expected an empty signature header to be rejected")
	}
}

func TestRecognizedActions(t *testing.T) {
	for _, action := range []string{"opened", "synchronize", "reopened", "closed"} {
		if !recognizedActions[action] {
			t.Fatalf("expected %q to be a recognized webhook action", action)
		}
	}
	for _, action := range []string{"labeled", "assigned", "ready_for_review"} {
		if recognizedActions[action] {
			t.Fatalf("expected %q to not be a recognized webhook action", action)
		}
	}
}
