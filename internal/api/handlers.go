// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package api

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ladle-app/ladle/internal/handoff"
	"github.com/ladle-app/ladle/internal/i18n"
	"github.com/ladle-app/ladle/internal/identity"
	"github.com/ladle-app/ladle/internal/logging"
	"github.com/ladle-app/ladle/internal/models"
	"github.com/ladle-app/ladle/internal/saved"
	"github.com/ladle-app/ladle/internal/search"
	"github.com/ladle-app/ladle/internal/storage"
)

const (
	// maxConstraintsBody caps search submissions; constraints are small
	// text fields.
	maxConstraintsBody = 64 << 10

	// maxRecipeBody caps recipe submissions, which may carry an embedded
	// base64 image.
	maxRecipeBody = 4 << 20
)

// Handler holds the application components the HTTP layer drives.
type Handler struct {
	session  *search.Session
	handoffs *handoff.Manager
	registry *saved.Registry
	identity *identity.Provider
	tiers    *storage.Tiers
}

// NewHandler creates the handler set.
func NewHandler(session *search.Session, handoffs *handoff.Manager, registry *saved.Registry, ident *identity.Provider, tiers *storage.Tiers) *Handler {
	return &Handler{
		session:  session,
		handoffs: handoffs,
		registry: registry,
		identity: ident,
		tiers:    tiers,
	}
}

type searchResponse struct {
	Recipes []models.RecipeItem `json:"recipes"`
	Message string              `json:"message,omitempty"`
}

// Search runs a recipe search for the caller and returns the suggestions.
// An empty result list is a success, not an error.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	msgs := i18n.For(requestLanguage(r))

	var constraints models.SearchConstraints
	if err := decodeJSONBody(w, r, &constraints, maxConstraintsBody); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", msgs.ValidationFailed, err)
		return
	}
	if apiErr := validateRequest(&constraints); apiErr != nil {
		respondValidation(w, msgs.ValidationFailed, apiErr)
		return
	}

	owner := h.identity.Resolve(w, r)
	recipes, err := h.session.Submit(r.Context(), owner, constraints)
	if err != nil {
		status, code, message := classify(err, msgs)
		respondError(w, status, code, message, err)
		return
	}

	resp := searchResponse{Recipes: recipes}
	if resp.Recipes == nil {
		resp.Recipes = []models.RecipeItem{}
		resp.Message = msgs.NoRecipesFound
	}
	respondSuccess(w, http.StatusOK, resp, start)
}

// SearchLast returns the caller's last persisted search, if any.
func (h *Handler) SearchLast(w http.ResponseWriter, r *http.Request) {
	msgs := i18n.For(requestLanguage(r))
	owner := h.identity.Resolve(w, r)

	result, err := h.session.Last(r.Context(), owner)
	if err != nil {
		status, code, message := classify(err, msgs)
		respondError(w, status, code, message, err)
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", msgs.RecipeNotFound, nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			Cached:    true,
		},
	})
}

// SearchClear discards the caller's session search state.
func (h *Handler) SearchClear(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	msgs := i18n.For(requestLanguage(r))
	owner := h.identity.Resolve(w, r)

	if err := h.session.Reset(r.Context(), owner); err != nil {
		status, code, message := classify(err, msgs)
		respondError(w, status, code, message, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": msgs.SearchCleared}, start)
}

type handoffResponse struct {
	URLParams  map[string]string `json:"urlParams"`
	StorageKey string            `json:"storageKey,omitempty"`

	// Degraded is set when the navigation record could not be verified;
	// the detail view will render without the stored fields.
	Degraded bool   `json:"degraded,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

// Handoff prepares the URL parameters and tier record that carry one
// recipe's detail to its detail view. A verification failure does not
// block navigation: the response carries the degraded parameter set
// plus a warning.
func (h *Handler) Handoff(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	msgs := i18n.For(requestLanguage(r))

	var recipe models.RecipeItem
	if err := decodeJSONBody(w, r, &recipe, maxRecipeBody); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", msgs.ValidationFailed, err)
		return
	}
	if apiErr := validateRequest(&recipe); apiErr != nil {
		respondValidation(w, msgs.ValidationFailed, apiErr)
		return
	}

	prepared, err := h.handoffs.Prepare(r.Context(), recipe)
	if err != nil {
		if errors.Is(err, handoff.ErrVerifyFailed) || errors.Is(err, storage.ErrUnavailable) || errors.Is(err, storage.ErrCapacityExceeded) {
			logging.Warn().Err(err).Str("recipe", sanitizeLogValue(recipe.Name)).Msg("Handoff degraded")
			respondSuccess(w, http.StatusOK, handoffResponse{
				URLParams: prepared.URLParams,
				Degraded:  true,
				Warning:   msgs.StorageError,
			}, start)
			return
		}
		status, code, message := classify(err, msgs)
		respondError(w, status, code, message, err)
		return
	}

	respondSuccess(w, http.StatusOK, handoffResponse{
		URLParams:  prepared.URLParams,
		StorageKey: prepared.StorageKey,
	}, start)
}

// Recipe resolves a detail view from its handoff URL parameters. The
// slug path segment names the recipe for logging; resolution uses the
// query parameters, merging in the stored record when one is referenced.
func (h *Handler) Recipe(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	msgs := i18n.For(requestLanguage(r))

	params := flattenQuery(r.URL.Query())
	if params[handoff.ParamName] == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", msgs.ValidationFailed, nil)
		return
	}

	recipe, err := h.handoffs.Resolve(r.Context(), params)
	if err != nil {
		status, code, message := classify(err, msgs)
		respondError(w, status, code, message, err)
		return
	}

	logging.Debug().Str("slug", sanitizeLogValue(chi.URLParam(r, "slug"))).Msg("Resolved recipe detail")
	respondSuccess(w, http.StatusOK, recipe, start)
}

// SavedList returns every recipe the caller has saved.
func (h *Handler) SavedList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	msgs := i18n.For(requestLanguage(r))
	owner := h.identity.Resolve(w, r)

	recipes, err := h.registry.List(r.Context(), owner)
	if err != nil {
		status, code, message := classify(err, msgs)
		respondError(w, status, code, message, err)
		return
	}
	respondSuccess(w, http.StatusOK, searchResponse{Recipes: recipes}, start)
}

// SavedSave stores a recipe in the caller's durable registry. Saving a
// name already present overwrites it.
func (h *Handler) SavedSave(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	msgs := i18n.For(requestLanguage(r))

	var recipe models.RecipeItem
	if err := decodeJSONBody(w, r, &recipe, maxRecipeBody); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", msgs.ValidationFailed, err)
		return
	}
	if apiErr := validateRequest(&recipe); apiErr != nil {
		respondValidation(w, msgs.ValidationFailed, apiErr)
		return
	}

	owner := h.identity.Resolve(w, r)
	if err := h.registry.Save(r.Context(), owner, recipe); err != nil {
		if errors.Is(err, saved.ErrUnnamed) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", msgs.ValidationFailed, err)
			return
		}
		status, code, message := classify(err, msgs)
		respondError(w, status, code, message, err)
		return
	}
	respondSuccess(w, http.StatusCreated, map[string]string{"message": msgs.RecipeSaved}, start)
}

// SavedRemove deletes a saved recipe by name. Removing an absent name
// succeeds.
func (h *Handler) SavedRemove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	msgs := i18n.For(requestLanguage(r))
	owner := h.identity.Resolve(w, r)

	name := pathValue(r, "name")
	if err := h.registry.Remove(r.Context(), owner, name); err != nil {
		status, code, message := classify(err, msgs)
		respondError(w, status, code, message, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": msgs.RecipeRemoved}, start)
}

// SavedState reports whether a recipe name is in the caller's registry.
func (h *Handler) SavedState(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	msgs := i18n.For(requestLanguage(r))
	owner := h.identity.Resolve(w, r)

	has, err := h.registry.Has(r.Context(), owner, pathValue(r, "name"))
	if err != nil {
		status, code, message := classify(err, msgs)
		respondError(w, status, code, message, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]bool{"saved": has}, start)
}

type tierHealth struct {
	Nav     string `json:"nav"`
	Session string `json:"session"`
	Saved   string `json:"saved"`
}

// HealthLive is a trivial liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady probes every storage tier. Degraded ephemeral tiers do not
// fail readiness since the application runs without them; an unavailable
// durable tier does.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	health := tierHealth{Nav: "ok", Session: "ok", Saved: "ok"}
	status := http.StatusOK

	ctx := r.Context()
	if err := h.tiers.Nav.Ping(ctx); err != nil {
		health.Nav = "unavailable"
	}
	if err := h.tiers.Session.Ping(ctx); err != nil {
		health.Session = "unavailable"
	}
	if err := h.tiers.Saved.Ping(ctx); err != nil {
		health.Saved = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusOK {
		respondSuccess(w, status, health, start)
		return
	}
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    &models.APIError{Code: "STORAGE_ERROR", Message: "durable tier unavailable"},
	})
}

// flattenQuery keeps the first value of each query parameter.
func flattenQuery(values url.Values) map[string]string {
	params := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}

// pathValue reads a chi path parameter, tolerating URL escaping.
func pathValue(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}
