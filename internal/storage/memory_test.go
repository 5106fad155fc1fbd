// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryTierBasicOperations(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryTier()

	if err := m.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := m.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "value1" {
		t.Errorf("Expected value1, got %q", got)
	}

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing key, got %v", err)
	}
}

func TestMemoryTierExpiration(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryTier()

	if err := m.Set(ctx, "key1", []byte("value1"), 30*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := m.Get(ctx, "key1"); err != nil {
		t.Errorf("Expected key1 before expiry, got %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if _, err := m.Get(ctx, "key1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after expiry, got %v", err)
	}
}

func TestMemoryTierDeleteCount(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryTier()

	_ = m.Set(ctx, "a", []byte("1"), 0)
	_ = m.Set(ctx, "b", []byte("2"), 0)

	n, err := m.Delete(ctx, "a", "b", "missing")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 removed, got %d", n)
	}

	// Deleting again is a no-op, not an error.
	n, err = m.Delete(ctx, "a")
	if err != nil || n != 0 {
		t.Errorf("Expected (0, nil) on repeat delete, got (%d, %v)", n, err)
	}
}

func TestMemoryTierSweep(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryTier()

	_ = m.Set(ctx, "stale", []byte("x"), time.Millisecond)
	_ = m.Set(ctx, "fresh", []byte("y"), time.Hour)
	time.Sleep(10 * time.Millisecond)

	if evicted := m.Sweep(); evicted != 1 {
		t.Errorf("Expected 1 eviction, got %d", evicted)
	}
	if m.Len() != 1 {
		t.Errorf("Expected 1 remaining entry, got %d", m.Len())
	}
}

func TestMemoryTierScan(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryTier()

	_ = m.Set(ctx, "saved:u1:pasta", []byte("1"), 0)
	_ = m.Set(ctx, "saved:u1:soup", []byte("2"), 0)
	_ = m.Set(ctx, "saved:u2:salad", []byte("3"), 0)

	var keys []string
	err := m.Scan(ctx, "saved:u1:", func(key string, _ []byte) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("Expected 2 keys under prefix, got %v", keys)
	}
}

func TestGetJSONSelfHealsCorruptedKey(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryTier()

	// Seed an unparsable value under a known key.
	_ = m.Set(ctx, "session:results", []byte("{not json"), 0)

	var dest map[string]any
	err := GetJSON(ctx, m, "session:results", &dest)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for corrupted value, got %v", err)
	}

	// The offending key must have been deleted.
	if _, err := m.Get(ctx, "session:results"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected corrupted key to be deleted, got %v", err)
	}
}

func TestSetJSONGetJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryTier()

	in := map[string]any{"name": "Chicken Rice Bowl", "servings": float64(2)}
	if err := SetJSON(ctx, m, "k", in, time.Minute); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var out map[string]any
	if err := GetJSON(ctx, m, "k", &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if out["name"] != "Chicken Rice Bowl" || out["servings"] != float64(2) {
		t.Errorf("Round trip mismatch: %v", out)
	}
}
