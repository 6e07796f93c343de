// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"testing"
	"time"

	"flyerly/internal/flyer"
)

func TestMemoryStoreExpiry(t *testing.T) {
	now := testNow
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if err := s.Save(ctx, "a", flyer.NewSnapshot(now)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok, _ := s.Load(ctx, "a"); !ok {
		t.Fatal("expected session before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := s.Load(ctx, "a"); ok {
		t.Error("expired session still visible")
	}
	if s.Len() != 1 {
		t.Errorf("expired entry should linger until swept, Len = %d", s.Len())
	}
	if n := s.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if s.Len() != 0 {
		t.Errorf("Len after sweep = %d", s.Len())
	}
}

func TestMemoryStoreSaveRefreshesTTL(t *testing.T) {
	now := testNow
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Save(ctx, "a", flyer.NewSnapshot(now))
	now = now.Add(50 * time.Second)
	_ = s.Save(ctx, "a", flyer.NewSnapshot(now))
	now = now.Add(50 * time.Second)

	if _, ok, _ := s.Load(ctx, "a"); !ok {
		t.Error("Save should extend the session")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	_ = s.Save(ctx, "a", flyer.Snapshot{})
	_ = s.Delete(ctx, "a")
	if _, ok, _ := s.Load(ctx, "a"); ok {
		t.Error("deleted session still visible")
	}
}

func TestStartSweeper(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	if _, err := s.StartSweeper("not a schedule"); err == nil {
		t.Error("expected error for invalid schedule")
	}

	stop, err := s.StartSweeper("")
	if err != nil {
		t.Fatalf("StartSweeper: %v", err)
	}
	stop()
}
