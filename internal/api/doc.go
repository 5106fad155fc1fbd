// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

/*
Package api provides HTTP routing and handlers using the Chi router.

All responses use the models.APIResponse envelope. Error codes:
VALIDATION_ERROR, AI_UNAVAILABLE, STORAGE_ERROR, CAPACITY_EXCEEDED,
NOT_FOUND, INTERNAL_ERROR. Messages are localized from the request's
lang parameter with an English fallback.

Routes:

	POST   /api/v1/search            run a recipe search
	GET    /api/v1/search/last       last search for this caller
	DELETE /api/v1/search            clear the caller's search state
	POST   /api/v1/handoff           prepare a navigation handoff
	GET    /api/v1/recipes/{slug}    resolve a recipe detail view
	GET    /api/v1/saved             list saved recipes
	POST   /api/v1/saved             save a recipe
	DELETE /api/v1/saved/{name}      remove a saved recipe
	GET    /api/v1/saved/{name}/state  membership check
	GET    /api/v1/health            liveness + tier readiness
	GET    /metrics                  Prometheus metrics
*/
package api
