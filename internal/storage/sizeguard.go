// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package storage

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/ladle-app/ladle/internal/models"
)

// SizeGuard enforces a tier's byte budget on recipe records before they
// are written. Embedded images dominate payload size, so the image is
// always the first field sacrificed; cheap structural fields are kept
// intact until nothing else remains.
type SizeGuard struct {
	// Budget is the byte-length ceiling for the serialized record.
	Budget int

	// TruncateLimit is the prefix length kept when free-text fields are
	// degraded as a last resort.
	TruncateLimit int
}

// ellipsis marks truncated free-text fields.
const ellipsis = "…"

// FitToBudget returns a copy of rec whose serialized form fits the budget,
// and whether the embedded image was dropped to get there.
//
// Degradation precedence:
//  1. A record already within budget is returned unchanged.
//  2. An embedded (data-URI) image is removed and ImageOmitted set.
//  3. Ingredients and Instructions are truncated to TruncateLimit runes.
//  4. If the degraded form still exceeds the budget, ErrCapacityExceeded
//     is returned and the caller decides whether to skip persistence or
//     surface the failure.
func (g SizeGuard) FitToBudget(rec models.RecipeItem) (models.RecipeItem, bool, error) {
	size, err := serializedSize(rec)
	if err != nil {
		return models.RecipeItem{}, false, err
	}
	if size <= g.Budget {
		return rec, false, nil
	}

	omitted := false
	if rec.HasEmbeddedImage() {
		rec.Image = ""
		rec.ImageOmitted = true
		omitted = true

		size, err = serializedSize(rec)
		if err != nil {
			return models.RecipeItem{}, omitted, err
		}
		if size <= g.Budget {
			return rec, omitted, nil
		}
	}

	rec.Ingredients = truncate(rec.Ingredients, g.TruncateLimit)
	rec.Instructions = truncate(rec.Instructions, g.TruncateLimit)

	size, err = serializedSize(rec)
	if err != nil {
		return models.RecipeItem{}, omitted, err
	}
	if size > g.Budget {
		return models.RecipeItem{}, omitted,
			fmt.Errorf("record %q is %d bytes after degradation, budget %d: %w",
				rec.Name, size, g.Budget, ErrCapacityExceeded)
	}
	return rec, omitted, nil
}

// serializedSize measures the byte length of the record's stored form.
func serializedSize(rec models.RecipeItem) (int, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// truncate caps s to limit runes, appending an ellipsis marker when
// anything was cut.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}
