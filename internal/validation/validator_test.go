// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package validation

import (
	"strings"
	"testing"

	"github.com/ladle-app/ladle/internal/models"
)

func TestValidateStructPasses(t *testing.T) {
	c := models.SearchConstraints{Ingredients: "rice, beans", Servings: 2}
	if err := ValidateStruct(&c); err != nil {
		t.Errorf("Expected valid constraints, got %v", err)
	}
}

func TestValidateStructRequiredField(t *testing.T) {
	c := models.SearchConstraints{}
	err := ValidateStruct(&c)
	if err == nil {
		t.Fatal("Expected validation error for empty ingredients")
	}
	fields := err.Fields()
	if len(fields) != 1 {
		t.Fatalf("Expected one field error, got %d", len(fields))
	}
	if fields[0].Field != "Ingredients" || fields[0].Tag != "required" {
		t.Errorf("Unexpected field error: %+v", fields[0])
	}
	if !strings.Contains(err.Error(), "Ingredients is required") {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

func TestValidateStructNegativeServings(t *testing.T) {
	c := models.SearchConstraints{Ingredients: "rice", Servings: -1}
	err := ValidateStruct(&c)
	if err == nil {
		t.Fatal("Expected validation error for negative servings")
	}
	if !strings.Contains(err.Error(), "greater than 0") {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

func TestValidateStructZeroServingsIsOptional(t *testing.T) {
	c := models.SearchConstraints{Ingredients: "rice"}
	if err := ValidateStruct(&c); err != nil {
		t.Errorf("Servings omitted must be accepted, got %v", err)
	}
}

func TestDetailsSingleVsMultiple(t *testing.T) {
	single := ValidateStruct(&models.SearchConstraints{})
	if single == nil {
		t.Fatal("Expected error")
	}
	if _, ok := single.Details()["field"]; !ok {
		t.Error("Single failure must expose a field detail")
	}

	multi := ValidateStruct(&models.SearchConstraints{Servings: -3})
	if multi == nil {
		t.Fatal("Expected errors")
	}
	if len(multi.Fields()) != 2 {
		t.Fatalf("Expected two field errors, got %d", len(multi.Fields()))
	}
	if _, ok := multi.Details()["fields"]; !ok {
		t.Error("Multiple failures must expose a fields list")
	}
}

func TestGetValidatorIsSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator must return the same instance")
	}
}
