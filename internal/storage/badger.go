// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/ladle-app/ladle/internal/config"
)

// BadgerTier is the durable tier backing the saved-recipes registry. It
// also serves the ephemeral tiers when Redis is disabled, using badger's
// entry TTLs for emulated expiry.
type BadgerTier struct {
	db *badger.DB
}

// NewBadgerTier opens (or creates) the badger database per cfg.
func NewBadgerTier(cfg *config.BadgerConfig) (*BadgerTier, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", cfg.Path, err)
	}
	return &BadgerTier{db: db}, nil
}

// Get returns the value for key, or ErrNotFound.
func (b *BadgerTier) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return out, nil
}

// Set writes value under key. A positive ttl uses badger's entry expiry.
func (b *BadgerTier) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("badger set: %w", err)
	}
	return nil
}

// Delete removes keys and reports how many existed.
func (b *BadgerTier) Delete(_ context.Context, keys ...string) (int, error) {
	removed := 0
	err := b.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if _, err := txn.Get([]byte(key)); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("badger delete: %w", err)
	}
	return removed, nil
}

// Scan invokes fn for every key under prefix. Used by the saved-recipes
// registry to list a user's entries.
func (b *BadgerTier) Scan(_ context.Context, prefix string, fn func(key string, value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(string(item.Key()), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ping always succeeds; badger is embedded.
func (b *BadgerTier) Ping(_ context.Context) error { return nil }

// Close flushes and closes the database.
func (b *BadgerTier) Close() error {
	return b.db.Close()
}

// RunGC runs one round of badger value-log garbage collection. Returns
// badger.ErrNoRewrite when there was nothing to reclaim; callers treat
// that as success.
func (b *BadgerTier) RunGC(discardRatio float64) error {
	return b.db.RunValueLogGC(discardRatio)
}
