// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package models

import "time"

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints.
//
// Status is "success" or "error". Data carries the payload on success;
// Error carries structured details when Status is "error".
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "ingredients are required"},
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`

	// ElapsedMS is how long the upstream work (AI call, store reads) took.
	ElapsedMS int64 `json:"elapsed_ms,omitempty"`

	// Cached is set when the response was served from a storage tier
	// rather than a fresh AI call.
	Cached bool `json:"cached,omitempty"`
}

// APIError carries a machine-readable code alongside a human-readable,
// localized message.
//
// Codes: VALIDATION_ERROR, AI_UNAVAILABLE, STORAGE_ERROR,
// CAPACITY_EXCEEDED, NOT_FOUND, RATE_LIMIT_EXCEEDED, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
