// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

/*
Package middleware provides HTTP middleware for the API layer.

Components:

  - RequestID: UUID-based request tracking, echoed as X-Request-ID
  - PrometheusMetrics: per-request counters and latency histograms
  - Compression: gzip response compression when the client accepts it

CORS and rate limiting come straight from go-chi/cors and go-chi/httprate
and are wired in the router rather than here.
*/
package middleware
