// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package i18n

import (
	"reflect"
	"testing"
)

func TestForKnownLanguage(t *testing.T) {
	if got := For("de").RecipeSaved; got != "Rezept gespeichert." {
		t.Errorf("Unexpected German message: %q", got)
	}
}

func TestForFallsBackToEnglish(t *testing.T) {
	for _, lang := range []string{"", "xx", "ja", "Klingon"} {
		if got := For(lang); got != english {
			t.Errorf("For(%q) did not fall back to English", lang)
		}
	}
}

func TestForStripsRegionSubtag(t *testing.T) {
	if got := For("de-AT"); got != tables["de"] {
		t.Error("Expected de-AT to resolve to the de table")
	}
	if got := For("EN-us"); got != english {
		t.Error("Expected EN-us to resolve to English")
	}
}

func TestAllTablesAreComplete(t *testing.T) {
	for lang, msgs := range tables {
		v := reflect.ValueOf(msgs)
		for i := 0; i < v.NumField(); i++ {
			if v.Field(i).String() == "" {
				t.Errorf("Language %q is missing %s", lang, v.Type().Field(i).Name)
			}
		}
	}
}

func TestSupportedCoversAllTables(t *testing.T) {
	langs := Supported()
	if len(langs) != len(tables) {
		t.Errorf("Supported() returned %d tags, have %d tables", len(langs), len(tables))
	}
	for _, tag := range langs {
		if _, ok := tables[tag]; !ok {
			t.Errorf("Supported() lists unknown tag %q", tag)
		}
	}
}
