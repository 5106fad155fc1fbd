// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ladle-app/ladle/internal/config"
	"github.com/ladle-app/ladle/internal/middleware"
)

// Router wires handlers into the Chi routing tree.
type Router struct {
	handler *Handler
	cfg     *config.Config
}

// NewRouter creates a router over the handler set.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup builds the full HTTP handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept-Language"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, router.cfg.Server.RateLimitWindow))
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(router.cfg.Server.RateLimitReqs, router.cfg.Server.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Post("/search", router.handler.Search)
		r.Get("/search/last", router.handler.SearchLast)
		r.Delete("/search", router.handler.SearchClear)

		r.Post("/handoff", router.handler.Handoff)
		r.Get("/recipes/{slug}", router.handler.Recipe)

		r.Route("/saved", func(r chi.Router) {
			r.Get("/", router.handler.SavedList)
			r.Post("/", router.handler.SavedSave)
			r.Delete("/{name}", router.handler.SavedRemove)
			r.Get("/{name}/state", router.handler.SavedState)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
