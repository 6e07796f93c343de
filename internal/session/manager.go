// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session is the single authority over flyer state. Each browser
// session owns a chain of immutable snapshots; every change goes through a
// Command applied by the Manager, which stores the new snapshot and tells
// subscribers about it.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"flyerly/internal/flyer"
)

// Catalog looks up templates by id.
type Catalog interface {
	Lookup(id string) (flyer.Template, bool)
}

// Op names a long-running control of the flyer UI.
type Op string

const (
	OpTagline Op = "tagline"
	OpImage   Op = "image"
	OpExport  Op = "export"
)

// Change is published after every applied command.
type Change struct {
	SessionID string
	Command   string
	Snapshot  flyer.Snapshot
}

// Options tune a Manager. The zero value is usable.
type Options struct {
	Location *time.Location
	Now      func() time.Time
}

// Manager applies commands to session snapshots. Commands on one session
// are serialized; different sessions proceed in parallel.
type Manager struct {
	store   Store
	catalog Catalog
	loc     *time.Location
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock

	busyMu sync.Mutex
	busy   map[busyKey]struct{}

	subMu   sync.RWMutex
	subs    map[int]func(Change)
	nextSub int
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

type busyKey struct {
	id string
	op Op
}

// NewManager creates a manager over store and catalog.
func NewManager(store Store, catalog Catalog, opts Options) *Manager {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		store:   store,
		catalog: catalog,
		loc:     opts.Location,
		now:     opts.Now,
		locks:   make(map[string]*sessionLock),
		busy:    make(map[busyKey]struct{}),
		subs:    make(map[int]func(Change)),
	}
}

// Location is the time zone used for parsing and formatting dates.
func (m *Manager) Location() *time.Location { return m.loc }

// Snapshot returns the current snapshot of session id, creating the seed
// snapshot for a new session.
func (m *Manager) Snapshot(ctx context.Context, id string) (flyer.Snapshot, error) {
	unlock := m.lock(id)
	defer unlock()
	return m.load(ctx, id)
}

func (m *Manager) load(ctx context.Context, id string) (flyer.Snapshot, error) {
	snap, ok, err := m.store.Load(ctx, id)
	if err != nil {
		return flyer.Snapshot{}, fmt.Errorf("session load: %w", err)
	}
	if ok {
		return snap, nil
	}

	snap = flyer.NewSnapshot(m.now())
	if err := m.store.Save(ctx, id, snap); err != nil {
		return flyer.Snapshot{}, fmt.Errorf("session seed: %w", err)
	}
	slog.Debug("session started", "session", id)
	return snap, nil
}

// Apply runs cmd against session id. On success the new snapshot is stored,
// its notices go to n, and subscribers are told. On error nothing changes.
func (m *Manager) Apply(ctx context.Context, id string, cmd Command, n flyer.Notifier) (flyer.Snapshot, error) {
	unlock := m.lock(id)
	defer unlock()

	current, err := m.load(ctx, id)
	if err != nil {
		return flyer.Snapshot{}, err
	}

	next, notices, err := cmd.apply(env{catalog: m.catalog, location: m.loc, now: m.now()}, current)
	if err != nil {
		return current, err
	}
	if err := m.store.Save(ctx, id, next); err != nil {
		return current, fmt.Errorf("session save: %w", err)
	}

	if n != nil {
		for _, notice := range notices {
			n.Notify(notice)
		}
	}
	m.publish(Change{SessionID: id, Command: cmd.Name(), Snapshot: next})
	return next, nil
}

// End drops session id.
func (m *Manager) End(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	return m.store.Delete(ctx, id)
}

// lock takes the per-session mutex. Mutexes are reference counted and
// dropped once nobody holds or waits for them.
func (m *Manager) lock(id string) (unlock func()) {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// Begin marks op as in flight for session id. A second Begin for the same
// session and op fails with flyer.ErrBusy until done is called. Different
// ops never block each other.
func (m *Manager) Begin(id string, op Op) (done func(), err error) {
	key := busyKey{id: id, op: op}
	m.busyMu.Lock()
	defer m.busyMu.Unlock()
	if _, running := m.busy[key]; running {
		return nil, flyer.ErrBusy
	}
	m.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.busyMu.Lock()
			delete(m.busy, key)
			m.busyMu.Unlock()
		})
	}, nil
}

// Busy returns the ops currently in flight for session id, sorted.
func (m *Manager) Busy(id string) []Op {
	m.busyMu.Lock()
	defer m.busyMu.Unlock()
	var ops []Op
	for k := range m.busy {
		if k.id == id {
			ops = append(ops, k.op)
		}
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Subscribe registers fn for every Change. fn runs synchronously while the
// session is locked, so changes of one session arrive in version order; it
// must not block or call back into the Manager. Call the returned function
// to unsubscribe.
func (m *Manager) Subscribe(fn func(Change)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) publish(c Change) {
	m.subMu.RLock()
	fns := make([]func(Change), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}
