// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"flyerly/internal/flyer"
)

// DefaultSweepSpec is the cron schedule for evicting expired sessions.
const DefaultSweepSpec = "@every 5m"

type memoryEntry struct {
	snap    flyer.Snapshot
	expires time.Time
}

// MemoryStore is an in-process Store. Expired entries are invisible to Load
// immediately and reclaimed by Sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose sessions expire after ttl of
// inactivity. A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (flyer.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok || !s.now().Before(e.expires) {
		return flyer.Snapshot{}, false, nil
	}
	return e.snap, true, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, snap flyer.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{snap: snap, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// StartSweeper runs Sweep on the given cron schedule (DefaultSweepSpec when
// empty). Call the returned function to stop it.
func (s *MemoryStore) StartSweeper(spec string) (stop func(), err error) {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if n := s.Sweep(); n > 0 {
			slog.Debug("expired sessions swept", "count", n)
		}
	}); err != nil {
		return nil, fmt.Errorf("session sweeper: %w", err)
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
