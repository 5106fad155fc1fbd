// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package saved

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ladle-app/ladle/internal/models"
	"github.com/ladle-app/ladle/internal/storage"
)

func testRegistry() (*Registry, *storage.MemoryTier) {
	tier := storage.NewMemoryTier()
	return NewRegistry(tier, storage.SizeGuard{Budget: 5 << 20, TruncateLimit: 2000}), tier
}

func TestSaveAndList(t *testing.T) {
	reg, _ := testRegistry()
	ctx := context.Background()

	recipes := []models.RecipeItem{
		{Name: "Lentil Soup", Ingredients: "lentils, carrots", Instructions: "simmer"},
		{Name: "Apple Pie", Ingredients: "apples, pastry", Instructions: "bake"},
	}
	for _, rec := range recipes {
		if err := reg.Save(ctx, "alice", rec); err != nil {
			t.Fatalf("Save(%q) failed: %v", rec.Name, err)
		}
	}

	got, err := reg.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 recipes, got %d", len(got))
	}
	// MemoryTier scans in key order: apple-pie before lentil-soup.
	if got[0].Name != "Apple Pie" || got[1].Name != "Lentil Soup" {
		t.Errorf("Unexpected order: %q, %q", got[0].Name, got[1].Name)
	}
}

func TestSaveIsIdempotentUpsert(t *testing.T) {
	reg, tier := testRegistry()
	ctx := context.Background()

	if err := reg.Save(ctx, "alice", models.RecipeItem{Name: "Pancakes", Time: "10 min"}); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := reg.Save(ctx, "alice", models.RecipeItem{Name: "Pancakes", Time: "15 min"}); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	if tier.Len() != 1 {
		t.Fatalf("Expected a single entry after re-save, got %d", tier.Len())
	}
	got, err := reg.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got[0].Time != "15 min" {
		t.Errorf("Re-save must overwrite, got time %q", got[0].Time)
	}
}

func TestRemoveAbsentSucceeds(t *testing.T) {
	reg, _ := testRegistry()
	if err := reg.Remove(context.Background(), "alice", "Never Saved"); err != nil {
		t.Errorf("Removing an absent recipe must succeed, got %v", err)
	}
}

func TestSaveThenRemoveThenHas(t *testing.T) {
	reg, _ := testRegistry()
	ctx := context.Background()

	if err := reg.Save(ctx, "alice", models.RecipeItem{Name: "Miso Ramen"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	has, err := reg.Has(ctx, "alice", "Miso Ramen")
	if err != nil || !has {
		t.Fatalf("Has = (%v, %v), want (true, nil)", has, err)
	}

	if err := reg.Remove(ctx, "alice", "Miso Ramen"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	has, err = reg.Has(ctx, "alice", "Miso Ramen")
	if err != nil || has {
		t.Fatalf("Has after remove = (%v, %v), want (false, nil)", has, err)
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	reg, _ := testRegistry()
	ctx := context.Background()

	if err := reg.Save(ctx, "alice", models.RecipeItem{Name: "Shakshuka"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	has, err := reg.Has(ctx, "bob", "Shakshuka")
	if err != nil || has {
		t.Fatalf("Bob must not see Alice's recipe, Has = (%v, %v)", has, err)
	}
	got, err := reg.List(ctx, "bob")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty list for bob, got %d entries", len(got))
	}
}

func TestSaveRejectsUnnamedRecipe(t *testing.T) {
	reg, _ := testRegistry()
	err := reg.Save(context.Background(), "alice", models.RecipeItem{Name: "!!!"})
	if !errors.Is(err, ErrUnnamed) {
		t.Errorf("Expected ErrUnnamed, got %v", err)
	}
}

func TestSaveSurfacesCapacityExceeded(t *testing.T) {
	tier := storage.NewMemoryTier()
	reg := NewRegistry(tier, storage.SizeGuard{Budget: 50, TruncateLimit: 5})

	err := reg.Save(context.Background(), "alice", models.RecipeItem{
		Name:         "Encyclopedia Stew",
		Ingredients:  strings.Repeat("x", 500),
		Instructions: strings.Repeat("y", 500),
	})
	if !errors.Is(err, storage.ErrCapacityExceeded) {
		t.Errorf("Expected ErrCapacityExceeded, got %v", err)
	}
	if tier.Len() != 0 {
		t.Error("Failed save must not leave an entry behind")
	}
}

func TestListDeletesCorruptedEntries(t *testing.T) {
	reg, tier := testRegistry()
	ctx := context.Background()

	if err := reg.Save(ctx, "alice", models.RecipeItem{Name: "Good Curry"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := tier.Set(ctx, "saved:alice:bad-entry", []byte("{not json"), 0); err != nil {
		t.Fatalf("Seeding corrupted entry failed: %v", err)
	}

	got, err := reg.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Good Curry" {
		t.Fatalf("Expected only the valid recipe, got %+v", got)
	}
	if tier.Len() != 1 {
		t.Errorf("Corrupted entry must be deleted, tier has %d entries", tier.Len())
	}
}

func TestListOnNonScanningTierReportsUnavailable(t *testing.T) {
	reg := NewRegistry(noScanTier{}, storage.SizeGuard{Budget: 5 << 20, TruncateLimit: 2000})
	if _, err := reg.List(context.Background(), "alice"); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

// noScanTier is a Tier without prefix iteration.
type noScanTier struct{}

func (noScanTier) Get(context.Context, string) ([]byte, error) { return nil, storage.ErrNotFound }
func (noScanTier) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
func (noScanTier) Delete(context.Context, ...string) (int, error) { return 0, nil }
func (noScanTier) Ping(context.Context) error                     { return nil }
func (noScanTier) Close() error                                   { return nil }
