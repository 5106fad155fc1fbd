// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ladle-app/ladle/internal/models"
)

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// fakeSuggester scripts Suggest outcomes for breaker tests.
type fakeSuggester struct {
	recipes []models.RecipeItem
	err     error
	calls   int
}

func (f *fakeSuggester) Suggest(_ context.Context, _ models.SearchConstraints) ([]models.RecipeItem, error) {
	f.calls++
	return f.recipes, f.err
}

func TestValidateConstraints(t *testing.T) {
	tests := []struct {
		name        string
		constraints models.SearchConstraints
		wantErr     bool
	}{
		{"valid", models.SearchConstraints{Ingredients: "chicken, rice"}, false},
		{"empty ingredients", models.SearchConstraints{}, true},
		{"negative servings", models.SearchConstraints{Ingredients: "rice", Servings: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConstraints(tt.constraints)
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected nil, got %v", err)
			}
		})
	}
}

func TestParseRecipesStripsMarkdown(t *testing.T) {
	text := "Here are your recipes:\n```json\n" +
		`[{"name": "Chicken Rice Bowl", "ingredients": "chicken, rice", "time": "30 min"}]` +
		"\n```\nEnjoy!"

	recipes, err := parseRecipes(text)
	if err != nil {
		t.Fatalf("parseRecipes failed: %v", err)
	}
	if len(recipes) != 1 || recipes[0].Name != "Chicken Rice Bowl" {
		t.Errorf("Unexpected parse result: %+v", recipes)
	}
}

func TestParseRecipesDropsNamelessEntries(t *testing.T) {
	recipes, err := parseRecipes(`[{"name": "Soup"}, {"name": "  "}, {"ingredients": "x"}]`)
	if err != nil {
		t.Fatalf("parseRecipes failed: %v", err)
	}
	if len(recipes) != 1 {
		t.Errorf("Expected 1 recipe after filtering, got %d", len(recipes))
	}
}

func TestParseRecipesRejectsNonArray(t *testing.T) {
	tests := []string{
		"no json here",
		`{"name": "object not array"}`,
		"[{broken",
	}
	for _, text := range tests {
		if _, err := parseRecipes(text); !errors.Is(err, ErrBadResponse) {
			t.Errorf("parseRecipes(%q): expected ErrBadResponse, got %v", text, err)
		}
	}
}

func TestBuildPromptIncludesConstraints(t *testing.T) {
	prompt := buildPrompt(models.SearchConstraints{
		Ingredients: "chicken, rice",
		Diet:        "gluten-free",
		Servings:    4,
		Cuisines:    []string{"thai"},
		Extended:    true,
	})

	for _, want := range []string{"chicken, rice", "gluten-free", "4 servings", "thai", "nutrition", "dietNotes"} {
		if !containsFold(prompt, want) {
			t.Errorf("Prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptOmitsExtendedFieldsByDefault(t *testing.T) {
	prompt := buildPrompt(models.SearchConstraints{Ingredients: "rice"})
	if containsFold(prompt, "dietNotes") {
		t.Error("Non-extended prompt must not request diet notes")
	}
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	fake := &fakeSuggester{recipes: []models.RecipeItem{{Name: "Soup"}}}
	b := NewBreakerSuggester(fake)

	got, err := b.Suggest(context.Background(), models.SearchConstraints{Ingredients: "rice"})
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Soup" {
		t.Errorf("Unexpected result: %+v", got)
	}
}

func TestBreakerRejectsInvalidConstraintsWithoutCall(t *testing.T) {
	fake := &fakeSuggester{}
	b := NewBreakerSuggester(fake)

	_, err := b.Suggest(context.Background(), models.SearchConstraints{})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
	if fake.calls != 0 {
		t.Errorf("Validation failures must not reach the collaborator, got %d calls", fake.calls)
	}
}

func TestBreakerSettingsWindowAndRecovery(t *testing.T) {
	s := breakerSettings("gemini")
	if s.Interval != time.Minute {
		t.Errorf("Closed-state count window = %s, want 1m", s.Interval)
	}
	if s.Timeout != 2*time.Minute {
		t.Errorf("Open-state recovery probe delay = %s, want 2m", s.Timeout)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	fake := &fakeSuggester{err: ErrUnavailable}
	b := NewBreakerSuggester(fake)
	constraints := models.SearchConstraints{Ingredients: "rice"}

	// Drive enough failures to trip the breaker (>=5 requests, >=60%).
	for i := 0; i < 6; i++ {
		_, _ = b.Suggest(context.Background(), constraints)
	}

	callsBefore := fake.calls
	_, err := b.Suggest(context.Background(), constraints)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable from open circuit, got %v", err)
	}
	if fake.calls != callsBefore {
		t.Error("Open circuit must shed load without calling the collaborator")
	}
}
