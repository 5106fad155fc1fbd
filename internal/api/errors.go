// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// errors.go - mapping from component errors to API error responses.
package api

import (
	"errors"
	"net/http"

	"github.com/ladle-app/ladle/internal/i18n"
	"github.com/ladle-app/ladle/internal/storage"
	"github.com/ladle-app/ladle/internal/suggest"
)

// classify maps a component error to an HTTP status, an error code, and
// a localized message. Component boundaries already convert backend
// failures to the sentinel kinds, so anything unrecognized here is an
// internal error.
func classify(err error, msgs i18n.Messages) (int, string, string) {
	switch {
	case errors.Is(err, suggest.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", msgs.ValidationFailed
	case errors.Is(err, suggest.ErrUnavailable), errors.Is(err, suggest.ErrBadResponse):
		return http.StatusServiceUnavailable, "AI_UNAVAILABLE", msgs.AIUnavailable
	case errors.Is(err, storage.ErrCapacityExceeded):
		return http.StatusRequestEntityTooLarge, "CAPACITY_EXCEEDED", msgs.CapacityExceeded
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable, "STORAGE_ERROR", msgs.StorageError
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", msgs.RecipeNotFound
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", msgs.StorageError
	}
}
