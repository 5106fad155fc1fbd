// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package services

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/ladle-app/ladle/internal/logging"
	"github.com/ladle-app/ladle/internal/storage"
)

// SweeperService periodically evicts expired entries from the in-memory
// tier backends. Without it, expired entries linger until their next Get.
type SweeperService struct {
	tiers    *storage.Tiers
	interval time.Duration
}

// NewSweeperService creates a sweeper running at the given interval.
func NewSweeperService(tiers *storage.Tiers, interval time.Duration) *SweeperService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweeperService{tiers: tiers, interval: interval}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := s.tiers.Sweep(); removed > 0 {
				logging.Debug().Int("removed", removed).Msg("Swept expired tier entries")
			}
		}
	}
}

func (s *SweeperService) String() string {
	return "memory-sweeper"
}

// BadgerGCService runs badger value-log garbage collection for the
// durable tier on a fixed interval.
type BadgerGCService struct {
	tiers    *storage.Tiers
	interval time.Duration
}

// NewBadgerGCService creates the GC loop.
func NewBadgerGCService(tiers *storage.Tiers, interval time.Duration) *BadgerGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &BadgerGCService{tiers: tiers, interval: interval}
}

// Serve implements suture.Service. badger.ErrNoRewrite simply means
// there was nothing to collect.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.tiers.RunBadgerGC(0.5)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn().Err(err).Msg("Badger GC failed")
			}
		}
	}
}

func (s *BadgerGCService) String() string {
	return "badger-gc"
}

// ProbeService pings a tier on an interval and logs availability
// transitions, so a Redis outage shows up in the logs once rather than
// on every degraded request.
type ProbeService struct {
	name     string
	tier     storage.Tier
	interval time.Duration
}

// NewProbeService creates a liveness probe for the named tier.
func NewProbeService(name string, tier storage.Tier, interval time.Duration) *ProbeService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ProbeService{name: name, tier: tier, interval: interval}
}

// Serve implements suture.Service.
func (s *ProbeService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	available := true
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.tier.Ping(ctx)
			switch {
			case err != nil && available:
				available = false
				logging.Warn().Err(err).Str("tier", s.name).Msg("Tier became unavailable")
			case err == nil && !available:
				available = true
				logging.Info().Str("tier", s.name).Msg("Tier recovered")
			}
		}
	}
}

func (s *ProbeService) String() string {
	return "probe-" + s.name
}
