// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// Package suggest abstracts the generative-AI collaborator that proposes
// recipes for a set of search constraints. The concrete backend is Gemini;
// components depend only on the Suggester interface so tests substitute an
// in-memory fake.
//
// All collaborator failures are classified into the package's sentinel
// errors before they cross a component boundary; no raw SDK errors leak to
// the presentation layer.
package suggest

import (
	"context"
	"errors"

	"github.com/ladle-app/ladle/internal/models"
)

// Classified suggestion errors.
var (
	// ErrValidation marks constraints rejected before any AI call.
	ErrValidation = errors.New("suggest: invalid constraints")

	// ErrUnavailable marks the AI collaborator unreachable, erroring, or
	// shed by the circuit breaker. Never auto-retried; retry is a
	// user-initiated re-submit.
	ErrUnavailable = errors.New("suggest: service unavailable")

	// ErrBadResponse marks a response the collaborator produced but that
	// could not be interpreted as recipes.
	ErrBadResponse = errors.New("suggest: malformed response")
)

// Suggester proposes recipes for the given constraints. An empty slice
// with a nil error means "no suitable recipes", which is a valid outcome,
// not a failure.
type Suggester interface {
	Suggest(ctx context.Context, constraints models.SearchConstraints) ([]models.RecipeItem, error)
}

// ValidateConstraints applies the basic shape rules that must hold before
// an AI call is dispatched.
func ValidateConstraints(c models.SearchConstraints) error {
	if c.Ingredients == "" {
		return errors.Join(ErrValidation, errors.New("ingredients are required"))
	}
	if c.Servings < 0 {
		return errors.Join(ErrValidation, errors.New("servings must be positive"))
	}
	return nil
}
