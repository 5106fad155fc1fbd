// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// Package search orchestrates a single recipe search: validate the
// constraints, clear the prior session record, await the AI result,
// sanitize and size-guard it, persist it to the session tier, and hand it
// back for rendering.
//
// A search progresses Idle -> Submitting -> Populated (or Failed); a new
// submission overwrites the previous result wholesale. The session tier
// keys are owned exclusively by this package. Racing completions are not
// serialized; the last writer wins, which is acceptable for the
// single-user, low-concurrency domain.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/ladle-app/ladle/internal/logging"
	"github.com/ladle-app/ladle/internal/metrics"
	"github.com/ladle-app/ladle/internal/models"
	"github.com/ladle-app/ladle/internal/storage"
	"github.com/ladle-app/ladle/internal/suggest"
)

// Session key suffixes. The pair is always written and cleared together.
const (
	keyConstraints = ":constraints"
	keyResults     = ":results"
	keyPrefix      = "search:"
)

// Session orchestrates recipe searches against the session tier.
type Session struct {
	tier  storage.Tier
	ai    suggest.Suggester
	guard storage.SizeGuard
	ttl   time.Duration
}

// New creates a search session orchestrator. The guard carries the session
// tier's budget; ttl bounds how long a completed search survives reloads.
func New(tier storage.Tier, ai suggest.Suggester, guard storage.SizeGuard, ttl time.Duration) *Session {
	return &Session{tier: tier, ai: ai, guard: guard, ttl: ttl}
}

// Submit runs one search for owner.
//
// The prior session record is cleared before the AI call is dispatched, so
// a reload during the pending call never shows stale results. An empty AI
// result is returned to the caller but not persisted: "no results" is not
// a result set. Storage failures during persistence degrade silently; the
// session tier is best-effort caching, not the source of truth.
func (s *Session) Submit(ctx context.Context, owner string, constraints models.SearchConstraints) ([]models.RecipeItem, error) {
	if err := suggest.ValidateConstraints(constraints); err != nil {
		metrics.SearchesTotal.WithLabelValues("validation_error").Inc()
		return nil, err
	}

	// Clear strictly before the AI call begins.
	if err := s.Reset(ctx, owner); err != nil {
		logging.Warn().Err(err).Str("owner", owner).Msg("Failed to clear prior session record")
	}

	recipes, err := s.ai.Suggest(ctx, constraints)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("ai_error").Inc()
		return nil, err
	}
	if len(recipes) == 0 {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		return nil, nil
	}

	s.persist(ctx, owner, constraints, recipes)
	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	return recipes, nil
}

// persist writes the constraints/results pair. Items whose degraded form
// still exceeds the budget are dropped from the stored copy only; the
// caller has already received the full result.
func (s *Session) persist(ctx context.Context, owner string, constraints models.SearchConstraints, recipes []models.RecipeItem) {
	stored := make([]models.RecipeItem, 0, len(recipes))
	for _, rec := range recipes {
		fitted, omitted, err := s.guard.FitToBudget(rec)
		if err != nil {
			logging.Warn().Err(err).Str("recipe", rec.Name).Msg("Recipe skipped from session record")
			continue
		}
		if omitted {
			metrics.ImagesOmitted.Inc()
		}
		stored = append(stored, fitted)
	}

	if err := storage.SetJSON(ctx, s.tier, keyPrefix+owner+keyConstraints, constraints, s.ttl); err != nil {
		logging.Warn().Err(err).Msg("Failed to persist search constraints")
		return
	}
	if err := storage.SetJSON(ctx, s.tier, keyPrefix+owner+keyResults, stored, s.ttl); err != nil {
		logging.Warn().Err(err).Msg("Failed to persist search results")
	}
}

// Last returns the owner's most recent completed search, or nil when none
// survives (expired, never written, or the tier is unavailable).
func (s *Session) Last(ctx context.Context, owner string) (*models.SearchResult, error) {
	var constraints models.SearchConstraints
	err := storage.GetJSON(ctx, s.tier, keyPrefix+owner+keyConstraints, &constraints)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrUnavailable) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var recipes []models.RecipeItem
	err = storage.GetJSON(ctx, s.tier, keyPrefix+owner+keyResults, &recipes)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrUnavailable) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &models.SearchResult{Constraints: constraints, Recipes: recipes}, nil
}

// Reset deletes the owner's session record pair.
func (s *Session) Reset(ctx context.Context, owner string) error {
	_, err := s.tier.Delete(ctx, keyPrefix+owner+keyConstraints, keyPrefix+owner+keyResults)
	return err
}
