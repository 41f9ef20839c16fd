// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package fabric

import (
	"context"
	"encoding/json"
	"fmt"
)

// SetSession stores user session data under session:{userId} with the
// default 24h TTL (spec §4.5 "Session management").
func (f *Fabric) SetSession(ctx context.Context, userID string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}
	if err := f.redis.Set(ctx, sessionKey(userID), payload, sessionTTL).Err(); err != nil {
		return f.classify(err)
	}
	return nil
}

// GetSession loads session data into out, reporting ok=false if the session
// has expired or was never set.
func (f *Fabric) GetSession(ctx context.Context, userID string, out any) (ok bool, err error) {
	data, err := f.redis.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if isRedisNil(err) {
			f.recordMiss()
			return false, nil
		}
		return false, f.classify(err)
	}
	f.recordHit()
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("unmarshal session data: %w", err)
	}
	return true, nil
}

// DeleteSession ends a session (logout).
func (f *Fabric) DeleteSession(ctx context.Context, userID string) error {
	if err := f.redis.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return f.classify(err)
	}
	return nil
}

// ExtendSession refreshes a session's TTL on activity, keeping an active
// user logged in past the default 24h window.
func (f *Fabric) ExtendSession(ctx context.Context, userID string) error {
	if err := f.redis.Expire(ctx, sessionKey(userID), sessionTTL).Err(); err != nil {
		return f.classify(err)
	}
	return nil
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}
