// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package fabric

import (
	"context"
	"fmt"
)

// SeenDelivery records a webhook delivery ID the first time it is observed
// and reports whether this call was the first. Guards against the source
// host's own retry behavior (spec §4.5 "De-duplication").
func (f *Fabric) SeenDelivery(ctx context.Context, deliveryID string) (firstTime bool, err error) {
	key := fmt.Sprintf("webhook:delivery:%s", deliveryID)
	ok, err := f.redis.SetNX(ctx, key, 1, webhookDedupTTL).Result()
	if err != nil {
		return false, f.classify(err)
	}
	return ok, nil
}
