// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// Package handoff carries one recipe's full detail from a list context to
// a detail context that shares no in-memory state with it. Small scalar
// fields travel as URL parameters; bulky fields (the image above all) ride
// in a short-lived per-navigation tier record keyed by a slug of the
// recipe name.
//
// The per-navigation keys are owned exclusively by this package.
package handoff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/ladle-app/ladle/internal/logging"
	"github.com/ladle-app/ladle/internal/metrics"
	"github.com/ladle-app/ladle/internal/models"
	"github.com/ladle-app/ladle/internal/sanitize"
	"github.com/ladle-app/ladle/internal/storage"
)

// URL parameter names. imageState tells the detail view where to find the
// image: "inline" (the image param carries a short URL), "stored" (merge
// the tier record), or "unavailable".
const (
	ParamName        = "name"
	ParamTime        = "time"
	ParamDifficulty  = "difficulty"
	ParamLanguage    = "language"
	ParamNutrition   = "nutrition"
	ParamDietNotes   = "dietNotes"
	ParamImage       = "image"
	ParamImageState  = "imageState"
	ParamStorageKey  = "storageKey"
	ParamIngredients = "ingredients"
	ParamInstr       = "instructions"
)

// imageState values.
const (
	ImageInline      = "inline"
	ImageStored      = "stored"
	ImageUnavailable = "unavailable"
)

// keyPrefix namespaces per-navigation records in the tier.
const keyPrefix = "handoff:"

// ErrVerifyFailed is returned when the verification read after a tier
// write does not return what was written (silent quota failure or a
// racing eviction). The returned handoff is still usable, degraded.
var ErrVerifyFailed = errors.New("handoff: storage write verification failed")

// Handoff is the prepared navigation payload: URL parameters for the
// detail view plus the tier key of the stored record, when one was
// written.
type Handoff struct {
	URLParams  map[string]string
	StorageKey string
}

// Manager prepares and resolves navigation handoffs against the
// per-navigation tier.
type Manager struct {
	tier  storage.Tier
	guard storage.SizeGuard

	// imageCeiling bounds embedded images stored without degradation;
	// urlValueLimit bounds values passed directly as URL parameters.
	imageCeiling  int
	urlValueLimit int
	ttl           time.Duration
}

// NewManager creates a handoff manager. The guard carries the navigation
// tier's budget.
func NewManager(tier storage.Tier, guard storage.SizeGuard, imageCeiling, urlValueLimit int, ttl time.Duration) *Manager {
	return &Manager{
		tier:          tier,
		guard:         guard,
		imageCeiling:  imageCeiling,
		urlValueLimit: urlValueLimit,
		ttl:           ttl,
	}
}

// Prepare builds the navigation payload for recipe.
//
// Image policy, in order:
//   - no image: marked unavailable, no storage write for it
//   - conventional URL within the URL limit: passed inline as a parameter
//   - embedded image within the ceiling: carried via the tier record
//   - anything larger: carried via the tier only if it survives
//     size-guarding, otherwise dropped; large payloads never travel as
//     URL parameters
//
// Free-text fields longer than the URL limit also force a tier record so
// the detail view keeps the full text.
//
// A written record is read back and compared before the handoff is
// declared good. On verification failure the storage-dependent parameters
// are stripped so the detail view never chases a phantom record, and
// ErrVerifyFailed is returned alongside the degraded handoff; navigation
// proceeds without the image rather than being blocked.
func (m *Manager) Prepare(ctx context.Context, recipe models.RecipeItem) (Handoff, error) {
	slug := Slug(recipe.Name)
	params := map[string]string{ParamName: recipe.Name}
	putIfSet(params, ParamTime, recipe.Time)
	putIfSet(params, ParamDifficulty, recipe.Difficulty)
	putIfSet(params, ParamLanguage, recipe.Language)
	putIfSet(params, ParamNutrition, recipe.Nutrition)
	putIfSet(params, ParamDietNotes, recipe.DietNotes)

	needsRecord := false
	if fitsURL(recipe.Ingredients, m.urlValueLimit) {
		putIfSet(params, ParamIngredients, recipe.Ingredients)
	} else {
		needsRecord = true
	}
	if fitsURL(recipe.Instructions, m.urlValueLimit) {
		putIfSet(params, ParamInstr, recipe.Instructions)
	} else {
		needsRecord = true
	}

	stored := recipe
	switch {
	case recipe.Image == "":
		params[ParamImageState] = ImageUnavailable

	case !recipe.HasEmbeddedImage() && len(recipe.Image) <= m.urlValueLimit:
		params[ParamImage] = recipe.Image
		params[ParamImageState] = ImageInline

	case recipe.HasEmbeddedImage() && len(recipe.Image) <= m.imageCeiling:
		params[ParamImageState] = ImageStored
		needsRecord = true

	default:
		// Oversized embedded image or an absurdly long URL: keep it only
		// if the size guard lets the record through with the image intact.
		fitted, _, err := m.guard.FitToBudget(stored)
		if err == nil && fitted.Image != "" {
			stored = fitted
			params[ParamImageState] = ImageStored
			needsRecord = true
		} else {
			stored.Image = ""
			stored.ImageOmitted = true
			params[ParamImageState] = ImageUnavailable
		}
	}

	// A name that slugs to empty has no distinct per-navigation key; a
	// record under the bare prefix would be shared by every such recipe.
	// Degrade to URL-only params instead.
	if needsRecord && slug == "" {
		if params[ParamImageState] == ImageStored {
			params[ParamImageState] = ImageUnavailable
		}
		needsRecord = false
	}

	if !needsRecord {
		metrics.HandoffsTotal.WithLabelValues("inline").Inc()
		return Handoff{URLParams: params}, nil
	}

	key := keyPrefix + slug
	if err := m.writeVerified(ctx, key, stored); err != nil {
		// Strip storage-dependent parameters so the detail view does not
		// attempt to read a nonexistent record.
		delete(params, ParamStorageKey)
		if params[ParamImageState] == ImageStored {
			params[ParamImageState] = ImageUnavailable
		}
		metrics.HandoffsTotal.WithLabelValues("failed").Inc()
		return Handoff{URLParams: params}, err
	}

	params[ParamStorageKey] = key
	metrics.HandoffsTotal.WithLabelValues("stored").Inc()
	return Handoff{URLParams: params, StorageKey: key}, nil
}

// writeVerified writes the record and reads it back to detect silent
// write failures before the handoff is declared good.
func (m *Manager) writeVerified(ctx context.Context, key string, rec models.RecipeItem) error {
	data, err := json.Marshal(sanitize.Sanitize(rec))
	if err != nil {
		return fmt.Errorf("handoff: marshal record: %w", err)
	}
	if err := m.tier.Set(ctx, key, data, m.ttl); err != nil {
		return fmt.Errorf("handoff: write record: %w", err)
	}

	readBack, err := m.tier.Get(ctx, key)
	if err != nil {
		return errors.Join(ErrVerifyFailed, err)
	}
	if !bytes.Equal(readBack, data) {
		logging.Warn().Str("key", key).Msg("Handoff verification read returned different value")
		return ErrVerifyFailed
	}
	return nil
}

// Resolve reconstructs a recipe from the detail view's URL parameters,
// merging in the stored record when one was referenced. An expired or
// evicted record degrades to "image unavailable" rather than failing.
func (m *Manager) Resolve(ctx context.Context, params map[string]string) (models.RecipeItem, error) {
	rec := models.RecipeItem{
		Name:         params[ParamName],
		Time:         params[ParamTime],
		Difficulty:   params[ParamDifficulty],
		Language:     params[ParamLanguage],
		Nutrition:    params[ParamNutrition],
		DietNotes:    params[ParamDietNotes],
		Ingredients:  params[ParamIngredients],
		Instructions: params[ParamInstr],
	}
	if rec.Name == "" {
		return models.RecipeItem{}, fmt.Errorf("handoff: missing name parameter")
	}

	if params[ParamImageState] == ImageInline {
		rec.Image = params[ParamImage]
	}

	key := params[ParamStorageKey]
	if key == "" {
		if params[ParamImageState] == ImageUnavailable {
			rec.ImageOmitted = true
		}
		return rec, nil
	}

	var stored models.RecipeItem
	err := storage.GetJSON(ctx, m.tier, key, &stored)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrUnavailable) {
		rec.ImageOmitted = true
		return rec, nil
	}
	if err != nil {
		return models.RecipeItem{}, err
	}

	mergeStored(&rec, stored)
	return rec, nil
}

// mergeStored fills rec's gaps from the stored record. Stored free-text
// and image fields win over their (possibly truncated or absent) URL
// counterparts.
func mergeStored(rec *models.RecipeItem, stored models.RecipeItem) {
	if stored.Image != "" {
		rec.Image = stored.Image
		rec.ImageOmitted = false
	} else if stored.ImageOmitted {
		rec.ImageOmitted = true
	}
	if stored.Ingredients != "" {
		rec.Ingredients = stored.Ingredients
	}
	if stored.Instructions != "" {
		rec.Instructions = stored.Instructions
	}
	if rec.Nutrition == "" {
		rec.Nutrition = stored.Nutrition
	}
	if rec.DietNotes == "" {
		rec.DietNotes = stored.DietNotes
	}
	if rec.ImagePrompt == "" {
		rec.ImagePrompt = stored.ImagePrompt
	}
}

func putIfSet(params map[string]string, key, value string) {
	if value != "" {
		params[key] = value
	}
}

func fitsURL(value string, limit int) bool {
	return len(value) <= limit
}
