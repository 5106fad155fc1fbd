// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ladle-app/ladle/internal/config"
	"github.com/ladle-app/ladle/internal/logging"
	"github.com/ladle-app/ladle/internal/metrics"
)

// PrefixScanner is implemented by backends that can iterate keys under a
// prefix. The saved-recipes registry requires it for listing.
type PrefixScanner interface {
	Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error
}

// Tiers bundles the three stores the application components own.
type Tiers struct {
	// Nav carries one recipe's detail across a page boundary (short TTL).
	Nav Tier

	// Session holds the last search's constraints and results (~1h TTL).
	Session Tier

	// Saved is the durable saved-recipes store (no TTL, prefix scans).
	Saved Tier

	// memory tiers needing periodic sweeps, badger handle for GC.
	memories []*MemoryTier
	badger   *BadgerTier
}

// NewTiers wires the tier backends per configuration: Redis for the
// ephemeral tiers when enabled (in-process memory otherwise), badger for
// the durable tier.
func NewTiers(ctx context.Context, cfg *config.Config) (*Tiers, error) {
	t := &Tiers{}

	badgerTier, err := NewBadgerTier(&cfg.Badger)
	if err != nil {
		return nil, err
	}
	t.badger = badgerTier
	t.Saved = Instrument("saved", badgerTier)

	if cfg.Redis.Enabled {
		redisTier, err := NewRedisTier(ctx, &cfg.Redis)
		if err != nil {
			_ = badgerTier.Close()
			return nil, err
		}
		t.Nav = Instrument("nav", redisTier)
		t.Session = Instrument("session", redisTier)
		logging.Info().Str("addr", cfg.Redis.Addr).Msg("Ephemeral tiers backed by Redis")
		return t, nil
	}

	navMem := NewMemoryTier()
	sessMem := NewMemoryTier()
	t.memories = append(t.memories, navMem, sessMem)
	t.Nav = Instrument("nav", navMem)
	t.Session = Instrument("session", sessMem)
	logging.Info().Msg("Ephemeral tiers backed by in-process memory (redis disabled)")
	return t, nil
}

// Sweep removes expired entries from the memory-backed tiers.
func (t *Tiers) Sweep() int {
	evicted := 0
	for _, m := range t.memories {
		evicted += m.Sweep()
	}
	return evicted
}

// RunBadgerGC runs one garbage-collection round on the durable store.
func (t *Tiers) RunBadgerGC(discardRatio float64) error {
	if t.badger == nil {
		return nil
	}
	return t.badger.RunGC(discardRatio)
}

// Close releases every backend. The ephemeral tiers may share a backend;
// each distinct backend is closed once. Instrumentation wrappers are
// peeled first so two wrappers around one backend dedup to that backend.
func (t *Tiers) Close() error {
	var errs []error
	seen := map[Tier]bool{}
	for _, tier := range []Tier{t.Nav, t.Session, t.Saved} {
		backend := unwrap(tier)
		if backend == nil || seen[backend] {
			continue
		}
		seen[backend] = true
		if err := backend.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// unwrap peels instrumentation wrappers down to the raw backend.
func unwrap(tier Tier) Tier {
	for {
		w, ok := tier.(*instrumentedTier)
		if !ok {
			return tier
		}
		tier = w.backend
	}
}

// instrumentedTier wraps a backend with per-tier Prometheus counters.
// It forwards Scan when the backend supports it.
type instrumentedTier struct {
	name    string
	backend Tier
}

// Instrument wraps backend so every operation is counted under the given
// tier name. Not-found reads count as "miss" rather than "error".
func Instrument(name string, backend Tier) Tier {
	return &instrumentedTier{name: name, backend: backend}
}

func (i *instrumentedTier) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := i.backend.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.TierOps.WithLabelValues(i.name, "get", "miss").Inc()
	default:
		metrics.RecordTierOp(i.name, "get", err)
	}
	return data, err
}

func (i *instrumentedTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := i.backend.Set(ctx, key, value, ttl)
	metrics.RecordTierOp(i.name, "set", err)
	return err
}

func (i *instrumentedTier) Delete(ctx context.Context, keys ...string) (int, error) {
	n, err := i.backend.Delete(ctx, keys...)
	metrics.RecordTierOp(i.name, "delete", err)
	return n, err
}

func (i *instrumentedTier) Ping(ctx context.Context) error {
	return i.backend.Ping(ctx)
}

func (i *instrumentedTier) Close() error {
	return i.backend.Close()
}

// Scan forwards to the backend's scanner. Tiers whose backend cannot scan
// report ErrUnavailable; only the saved tier is expected to scan.
func (i *instrumentedTier) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	scanner, ok := i.backend.(PrefixScanner)
	if !ok {
		return ErrUnavailable
	}
	err := scanner.Scan(ctx, prefix, fn)
	metrics.RecordTierOp(i.name, "scan", err)
	return err
}
