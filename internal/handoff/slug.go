// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package handoff

import (
	"regexp"
	"strings"
)

// slugMaxLen caps derived slugs to keep keys and URLs bounded.
const slugMaxLen = 100

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9_-]`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// Slug derives a stable storage/URL key from a recipe name: lowercase,
// whitespace to hyphens, non-word characters stripped, hyphen runs
// collapsed, trimmed, capped at 100 characters.
//
// Slug is deterministic but not injective: distinct names can normalize
// to the same slug. That collision is a documented property of using the
// recipe name as identity, not a failure mode.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > slugMaxLen {
		s = strings.Trim(s[:slugMaxLen], "-")
	}
	return s
}
