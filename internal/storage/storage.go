// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// Package storage implements Ladle's tiered state store: a uniform
// get/set/delete-with-expiry contract over independent key/value backends
// (in-process memory, Redis, BadgerDB), plus the payload size guard applied
// before every write.
//
// Each tier is logically owned by exactly one component: the search session
// owns the session keys, the navigation handoff owns the per-navigation
// keys, and the saved-recipes registry owns the saved keys. No two
// components write the same key, so atomic per-key operations are the only
// concurrency discipline required.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/ladle-app/ladle/internal/logging"
	"github.com/ladle-app/ladle/internal/sanitize"
)

// Storage errors.
var (
	// ErrNotFound is returned by Get when the key is absent or expired.
	ErrNotFound = errors.New("storage: key not found")

	// ErrUnavailable is returned when a tier's backend is unreachable.
	ErrUnavailable = errors.New("storage: tier unavailable")

	// ErrCapacityExceeded is returned by the size guard when even the
	// degraded form of a record exceeds the tier's budget.
	ErrCapacityExceeded = errors.New("storage: payload exceeds tier budget")
)

// Tier is one key/value backend with its own budget, expiry semantics, and
// availability characteristics.
type Tier interface {
	// Get returns the raw value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys and reports how many existed.
	Delete(ctx context.Context, keys ...string) (int, error)

	// Ping probes backend liveness. Embedded backends always succeed.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// GetJSON reads key from t and unmarshals it into dest.
//
// A value that fails to parse is treated as corruption: the key is deleted
// so the broken state cannot wedge the application, and ErrNotFound is
// returned. Backend unavailability also degrades to ErrNotFound, wrapped so
// callers that must distinguish can errors.Is against ErrUnavailable.
func GetJSON(ctx context.Context, t Tier, key string, dest any) error {
	raw, err := t.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logging.Warn().Str("key", key).Err(err).Msg("Corrupted record, self-healing by deletion")
		if _, delErr := t.Delete(ctx, key); delErr != nil {
			logging.Error().Str("key", key).Err(delErr).Msg("Failed to delete corrupted record")
		}
		return ErrNotFound
	}
	return nil
}

// SetJSON sanitizes v, marshals it, and writes it under key.
func SetJSON(ctx context.Context, t Tier, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(sanitize.Sanitize(v))
	if err != nil {
		return err
	}
	return t.Set(ctx, key, data, ttl)
}
