// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package storage

import (
	"testing"
)

type closeCountTier struct {
	*MemoryTier
	closes int
}

func (c *closeCountTier) Close() error {
	c.closes++
	return nil
}

func TestCloseSharedBackendClosedOnce(t *testing.T) {
	shared := &closeCountTier{MemoryTier: NewMemoryTier()}
	durable := &closeCountTier{MemoryTier: NewMemoryTier()}

	tiers := &Tiers{
		Nav:     Instrument("nav", shared),
		Session: Instrument("session", shared),
		Saved:   Instrument("saved", durable),
	}

	if err := tiers.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if shared.closes != 1 {
		t.Errorf("Shared backend closed %d times, want 1", shared.closes)
	}
	if durable.closes != 1 {
		t.Errorf("Durable backend closed %d times, want 1", durable.closes)
	}
}

func TestCloseToleratesNilTiers(t *testing.T) {
	tiers := &Tiers{Saved: Instrument("saved", NewMemoryTier())}
	if err := tiers.Close(); err != nil {
		t.Errorf("Close with nil ephemeral tiers failed: %v", err)
	}
}
