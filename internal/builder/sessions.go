// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoSession is returned by With when no editing session is open for
// the key (never opened, explicitly closed, or swept after idling).
var ErrNoSession = errors.New("no builder session open")

// Sessions holds the live builder controllers, one per editing session.
// Controllers are plain single-threaded state machines; Sessions
// serializes access so HTTP mutations within one session apply strictly
// in the order issued. Idle sessions are evicted after IdleTTL.
type Sessions struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu         sync.Mutex
	controller *Controller
	lastUsed   time.Time
}

// IdleTTL is how long an editing session survives without activity
// before Sweep evicts it. Unsaved history is lost on eviction; the
// design itself lives in the database.
const IdleTTL = 2 * time.Hour

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{entries: make(map[string]*entry)}
}

// Open registers a controller under the given key, replacing any
// existing session for that key.
func (s *Sessions) Open(key string, c *Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{controller: c, lastUsed: time.Now()}
}

// Close discards the session for a key.
func (s *Sessions) Close(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// With runs fn against the session's controller under its lock. Returns
// an error when no session is open for the key.
func (s *Sessions) With(key string, fn func(*Controller) error) error {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok {
		e.lastUsed = time.Now()
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w for %q", ErrNoSession, key)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.controller)
}

// Sweep evicts sessions idle longer than IdleTTL and returns how many
// were removed. Intended to be called periodically from main.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-IdleTTL)
	removed := 0
	for key, e := range s.entries {
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}
