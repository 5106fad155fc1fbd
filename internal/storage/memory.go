// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryEntry is a stored value with its expiration.
type memoryEntry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

// MemoryTier is a thread-safe in-process tier with lazy TTL expiry. It
// backs the ephemeral tiers when Redis is disabled and serves as the test
// double for every component that takes a Tier.
//
// Expired entries become invisible immediately (checked on Get) and are
// physically removed by Sweep, which the supervisor runs periodically.
type MemoryTier struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryTier creates an empty in-process tier.
func NewMemoryTier() *MemoryTier {
	return &MemoryTier{entries: make(map[string]memoryEntry)}
}

// Get returns the value for key, or ErrNotFound when absent or expired.
// An expired entry is deleted on the way out.
func (m *MemoryTier) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, exists := m.entries[key]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}
	if entry.expired(time.Now()) {
		m.mu.Lock()
		// Re-check under the write lock; a Set may have raced.
		if current, ok := m.entries[key]; ok && current.expired(time.Now()) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	return entry.data, nil
}

// Set writes value under key with the given ttl (zero = no expiry).
func (m *MemoryTier) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{data: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Delete removes keys and reports how many live entries were removed.
func (m *MemoryTier) Delete(_ context.Context, keys ...string) (int, error) {
	now := time.Now()
	removed := 0
	m.mu.Lock()
	for _, key := range keys {
		if entry, ok := m.entries[key]; ok {
			if !entry.expired(now) {
				removed++
			}
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
	return removed, nil
}

// Ping always succeeds; the process's own memory is never unavailable.
func (m *MemoryTier) Ping(_ context.Context) error { return nil }

// Close drops all entries.
func (m *MemoryTier) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

// Sweep physically removes expired entries and returns how many it evicted.
func (m *MemoryTier) Sweep() int {
	now := time.Now()
	evicted := 0
	m.mu.Lock()
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
			evicted++
		}
	}
	m.mu.Unlock()
	return evicted
}

// Scan invokes fn for every live key under prefix.
func (m *MemoryTier) Scan(_ context.Context, prefix string, fn func(key string, value []byte) error) error {
	now := time.Now()
	m.mu.RLock()
	keys := make([]string, 0, len(m.entries))
	for key, entry := range m.entries {
		if strings.HasPrefix(key, prefix) && !entry.expired(now) {
			keys = append(keys, key)
		}
	}
	m.mu.RUnlock()
	sort.Strings(keys)

	for _, key := range keys {
		m.mu.RLock()
		entry, ok := m.entries[key]
		m.mu.RUnlock()
		if !ok {
			continue
		}
		if err := fn(key, entry.data); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of entries, expired included.
func (m *MemoryTier) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}
