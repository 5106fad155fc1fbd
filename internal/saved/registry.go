// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// Package saved implements the durable saved-recipes registry. Recipes
// are keyed by owner and name slug; saving an already-present name
// overwrites it and removing an absent one succeeds, so both operations
// are safe to retry.
package saved

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/ladle-app/ladle/internal/handoff"
	"github.com/ladle-app/ladle/internal/logging"
	"github.com/ladle-app/ladle/internal/metrics"
	"github.com/ladle-app/ladle/internal/models"
	"github.com/ladle-app/ladle/internal/storage"
)

const keyPrefix = "saved:"

// ErrUnnamed rejects recipes whose name yields an empty slug, since the
// slug is the registry identity.
var ErrUnnamed = errors.New("saved: recipe has no usable name")

// Registry is the saved-recipes store for all owners. Entries are
// written without TTL; they live until removed.
type Registry struct {
	tier  storage.Tier
	guard storage.SizeGuard
}

// NewRegistry creates a registry on the durable tier. The guard carries
// the durable tier's budget.
func NewRegistry(tier storage.Tier, guard storage.SizeGuard) *Registry {
	return &Registry{tier: tier, guard: guard}
}

func ownerPrefix(owner string) string {
	return keyPrefix + owner + ":"
}

func entryKey(owner, name string) string {
	return ownerPrefix(owner) + handoff.Slug(name)
}

// Save upserts recipe under the owner's namespace. The record is
// size-guarded against the durable budget first; unlike the ephemeral
// tiers, a write that still cannot fit or a tier failure is surfaced to
// the caller because silently losing an explicit save is unacceptable.
func (r *Registry) Save(ctx context.Context, owner string, recipe models.RecipeItem) error {
	slug := handoff.Slug(recipe.Name)
	if slug == "" {
		return ErrUnnamed
	}

	fitted, omitted, err := r.guard.FitToBudget(recipe)
	if err != nil {
		metrics.SavedOps.WithLabelValues("save", "capacity_exceeded").Inc()
		return err
	}
	if omitted {
		logging.Debug().Str("name", recipe.Name).Msg("Saved recipe image dropped to fit durable budget")
	}

	if err := storage.SetJSON(ctx, r.tier, ownerPrefix(owner)+slug, fitted, 0); err != nil {
		metrics.SavedOps.WithLabelValues("save", "error").Inc()
		return fmt.Errorf("saved: write %q: %w", recipe.Name, err)
	}
	metrics.SavedOps.WithLabelValues("save", "success").Inc()
	return nil
}

// Remove deletes the entry for name. Removing a name that is not present
// is a success.
func (r *Registry) Remove(ctx context.Context, owner, name string) error {
	if _, err := r.tier.Delete(ctx, entryKey(owner, name)); err != nil {
		metrics.SavedOps.WithLabelValues("remove", "error").Inc()
		return fmt.Errorf("saved: remove %q: %w", name, err)
	}
	metrics.SavedOps.WithLabelValues("remove", "success").Inc()
	return nil
}

// Has reports whether a recipe with the given name is saved. A corrupted
// entry counts as absent after the underlying self-heal delete.
func (r *Registry) Has(ctx context.Context, owner, name string) (bool, error) {
	var rec models.RecipeItem
	err := storage.GetJSON(ctx, r.tier, entryKey(owner, name), &rec)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// List returns every recipe saved by owner, in key order. Entries that
// fail to parse are deleted in place and skipped. An unavailable tier
// degrades to an empty list so the caller's view stays usable.
func (r *Registry) List(ctx context.Context, owner string) ([]models.RecipeItem, error) {
	scanner, ok := r.tier.(storage.PrefixScanner)
	if !ok {
		return nil, storage.ErrUnavailable
	}

	recipes := make([]models.RecipeItem, 0)
	var corrupted []string
	err := scanner.Scan(ctx, ownerPrefix(owner), func(key string, value []byte) error {
		var rec models.RecipeItem
		if err := json.Unmarshal(value, &rec); err != nil {
			logging.Warn().Str("key", key).Err(err).Msg("Deleting corrupted saved recipe")
			corrupted = append(corrupted, key)
			return nil
		}
		recipes = append(recipes, rec)
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			metrics.SavedOps.WithLabelValues("list", "degraded").Inc()
			return []models.RecipeItem{}, nil
		}
		metrics.SavedOps.WithLabelValues("list", "error").Inc()
		return nil, fmt.Errorf("saved: list: %w", err)
	}

	for _, key := range corrupted {
		if _, err := r.tier.Delete(ctx, key); err != nil {
			logging.Warn().Str("key", key).Err(err).Msg("Failed to delete corrupted saved recipe")
		}
	}

	metrics.SavedOps.WithLabelValues("list", "success").Inc()
	return recipes, nil
}
