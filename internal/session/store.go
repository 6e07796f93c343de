// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"time"

	"flyerly/internal/flyer"
)

// DefaultTTL is how long an idle flyer session is kept.
const DefaultTTL = 24 * time.Hour

// Store keeps the current snapshot of each session. Snapshots live only as
// long as the session; nothing is written to durable storage.
type Store interface {
	// Load returns the snapshot for id. ok is false when the session is
	// unknown or expired.
	Load(ctx context.Context, id string) (snap flyer.Snapshot, ok bool, err error)

	// Save replaces the snapshot for id and refreshes its TTL.
	Save(ctx context.Context, id string, snap flyer.Snapshot) error

	// Delete drops the session.
	Delete(ctx context.Context, id string) error
}
