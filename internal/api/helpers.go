// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/ladle-app/ladle/internal/logging"
	"github.com/ladle-app/ladle/internal/models"
	"github.com/ladle-app/ladle/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent
// log injection via attacker-controlled request fields.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondSuccess wraps data in the standard envelope.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			ElapsedMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil when valid, or a models.APIError with VALIDATION_ERROR code.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}
	return &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: validationErr.Error(),
		Details: validationErr.Details(),
	}
}

// respondValidation sends a VALIDATION_ERROR response whose message is a
// localized user-facing string, with the per-field detail preserved.
func respondValidation(w http.ResponseWriter, message string, apiErr *models.APIError) {
	var details map[string]interface{}
	if apiErr != nil {
		details = apiErr.Details
		if details == nil {
			details = map[string]interface{}{"error": apiErr.Message}
		} else {
			details["error"] = apiErr.Message
		}
	}

	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: message,
			Details: details,
		},
	})
}

// decodeJSONBody decodes the request body into dest with a size cap.
// The cap keeps a hostile client from feeding multi-megabyte constraint
// documents into the AI prompt builder.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dest interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// requestLanguage picks the response language: explicit lang query
// parameter first, then the first Accept-Language entry.
func requestLanguage(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	accept := r.Header.Get("Accept-Language")
	if accept == "" {
		return ""
	}
	first, _, _ := strings.Cut(accept, ",")
	lang, _, _ := strings.Cut(strings.TrimSpace(first), ";")
	return lang
}
