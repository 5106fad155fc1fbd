// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package suggest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/ladle-app/ladle/internal/config"
	"github.com/ladle-app/ladle/internal/logging"
	"github.com/ladle-app/ladle/internal/metrics"
	"github.com/ladle-app/ladle/internal/models"
)

// GeminiClient implements Suggester against the Gemini API.
type GeminiClient struct {
	model   *genai.GenerativeModel
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewGeminiClient creates a Gemini-backed suggester. Outgoing calls are
// bounded by a client-side rate limiter so a misbehaving UI cannot burn
// through the API quota.
func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{
		model:   client.GenerativeModel(cfg.Model),
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		timeout: cfg.Timeout,
	}, nil
}

// Suggest asks Gemini for recipes matching the constraints. The response
// is expected to be a JSON array; anything the model wraps around it
// (markdown fences, prose) is stripped before unmarshalling.
func (g *GeminiClient) Suggest(ctx context.Context, constraints models.SearchConstraints) ([]models.RecipeItem, error) {
	if err := ValidateConstraints(constraints); err != nil {
		return nil, err
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(constraints)))
	metrics.AIRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logging.Warn().Err(err).Msg("Gemini call failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty candidate", ErrBadResponse)
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected part type %T", ErrBadResponse, resp.Candidates[0].Content.Parts[0])
	}

	recipes, err := parseRecipes(string(text))
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		recipes[i].Language = constraints.Language
	}
	return recipes, nil
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// buildPrompt renders the constraints into the suggestion prompt. The
// prompt is English-only by contract; the requested language only tags
// the result.
func buildPrompt(c models.SearchConstraints) string {
	var b strings.Builder
	b.WriteString("Suggest up to 5 recipes using these available ingredients: ")
	b.WriteString(c.Ingredients)
	b.WriteString(".")

	if c.Diet != "" {
		fmt.Fprintf(&b, " Dietary restrictions: %s.", c.Diet)
	}
	if c.Preferences != "" {
		fmt.Fprintf(&b, " Preferences: %s.", c.Preferences)
	}
	if c.Servings > 0 {
		fmt.Fprintf(&b, " Scale quantities for %d servings.", c.Servings)
	}
	if len(c.Cuisines) > 0 {
		fmt.Fprintf(&b, " Preferred cuisines: %s.", strings.Join(c.Cuisines, ", "))
	}
	if len(c.Methods) > 0 {
		fmt.Fprintf(&b, " Preferred cooking methods: %s.", strings.Join(c.Methods, ", "))
	}

	b.WriteString(" Respond with a single clean JSON array, no markdown formatting.")
	b.WriteString(" Each element must have these string keys:")
	b.WriteString(" 'name', 'ingredients', 'instructions', 'time', 'difficulty', 'imagePrompt'")
	if c.Extended {
		b.WriteString(", 'nutrition' (estimated facts per serving), 'dietNotes' (diet suitability summary)")
	}
	b.WriteString(". 'imagePrompt' is a short English prompt describing a photo of the finished dish.")
	return b.String()
}

// parseRecipes extracts the JSON array from the model's response text,
// tolerating markdown fences and surrounding prose.
func parseRecipes(text string) ([]models.RecipeItem, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || start > end {
		return nil, fmt.Errorf("%w: no JSON array in response", ErrBadResponse)
	}

	var recipes []models.RecipeItem
	if err := json.Unmarshal([]byte(text[start:end+1]), &recipes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	// Drop nameless entries; name is the identity key downstream.
	kept := recipes[:0]
	for _, r := range recipes {
		if strings.TrimSpace(r.Name) != "" {
			kept = append(kept, r)
		}
	}
	return kept, nil
}
