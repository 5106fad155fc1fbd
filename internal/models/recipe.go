// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// Package models defines the domain types shared across Ladle components:
// AI-produced recipe suggestions, user search constraints, and the
// standardized API response envelope.
package models

import "strings"

// RecipeItem is one AI-produced recipe suggestion.
//
// Identity for save/unsave and navigation purposes is the Name string.
// This is a known weak invariant: two distinct recipes sharing a name
// collide (last writer wins). The upstream data carries no stronger id.
//
// Image holds either an embedded data-URI payload or a conventional URL,
// never both. A RecipeItem crossing a storage boundary never carries both
// image data and ImageOmitted=true: when the embedded image exceeded the
// tier's budget the field is cleared and the flag set instead.
type RecipeItem struct {
	Name         string `json:"name" validate:"required"`
	Ingredients  string `json:"ingredients,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Time         string `json:"time,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`

	// ImagePrompt is the English-only prompt used to generate an image.
	ImagePrompt string `json:"imagePrompt,omitempty"`

	// Image is a data URI (embedded base64) or a conventional URL.
	Image string `json:"image,omitempty"`

	Nutrition string `json:"nutrition,omitempty"`
	DietNotes string `json:"dietNotes,omitempty"`

	// Language is attached post-generation, not by the AI.
	Language string `json:"language,omitempty"`

	// ImageOmitted is set during persistence when the embedded image was
	// dropped for size reasons.
	ImageOmitted bool `json:"imageOmitted,omitempty"`
}

// HasEmbeddedImage reports whether Image holds an embedded data-URI payload
// rather than a conventional URL.
func (r *RecipeItem) HasEmbeddedImage() bool {
	return strings.HasPrefix(r.Image, "data:")
}

// SearchConstraints is a user-submitted recipe search request. It is
// constructed per submission, sent to the AI collaborator, and persisted
// alongside the resulting recipe list so a reload can show the last search.
type SearchConstraints struct {
	Ingredients string   `json:"ingredients" validate:"required"`
	Diet        string   `json:"diet,omitempty"`
	Preferences string   `json:"preferences,omitempty"`
	Servings    int      `json:"servings,omitempty" validate:"omitempty,gt=0"`
	Cuisines    []string `json:"cuisines,omitempty"`
	Methods     []string `json:"methods,omitempty"`

	// Extended requests nutrition and diet-suitability summaries.
	Extended bool `json:"extended,omitempty"`

	Language string `json:"language,omitempty"`
}

// SearchResult pairs the constraints of a completed search with its recipes.
// It is the unit persisted to the session tier for reload resilience.
type SearchResult struct {
	Constraints SearchConstraints `json:"constraints"`
	Recipes     []RecipeItem      `json:"recipes"`
}
