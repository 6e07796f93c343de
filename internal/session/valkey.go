// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"flyerly/internal/flyer"
)

// keyPrefix namespaces flyer sessions in Valkey.
const keyPrefix = "flyer:session:"

// ValkeyStore keeps snapshots in Valkey as JSON with a TTL, so several app
// instances can serve the same browser session. Entries expire with the
// session like the in-memory store's.
type ValkeyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValkeyStore creates a store backed by client. A non-positive ttl uses
// DefaultTTL.
func NewValkeyStore(client *redis.Client, ttl time.Duration) *ValkeyStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ValkeyStore{client: client, ttl: ttl}
}

func (s *ValkeyStore) Load(ctx context.Context, id string) (flyer.Snapshot, bool, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return flyer.Snapshot{}, false, nil
	}
	if err != nil {
		return flyer.Snapshot{}, false, fmt.Errorf("session get: %w", err)
	}

	var snap flyer.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return flyer.Snapshot{}, false, fmt.Errorf("session unmarshal: %w", err)
	}
	return snap, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, id string, snap flyer.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
