// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package identity

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ladle-app/ladle/internal/config"
)

func testConfig(secret string) config.SecurityConfig {
	return config.SecurityConfig{
		JWTSecret:      secret,
		IdentityCookie: "ladle_identity",
		GuestCookie:    "ladle_guest",
	}
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func TestResolveValidIdentityCookie(t *testing.T) {
	p := NewProvider(testConfig("test-secret"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "ladle_identity", Value: signToken(t, "test-secret", "user-42")})
	w := httptest.NewRecorder()

	if got := p.Resolve(w, r); got != "user:user-42" {
		t.Errorf("Expected user:user-42, got %q", got)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("No guest cookie should be issued for an authenticated caller")
	}
}

func TestResolveBadSignatureFallsBackToGuest(t *testing.T) {
	p := NewProvider(testConfig("test-secret"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "ladle_identity", Value: signToken(t, "wrong-secret", "user-42")})
	w := httptest.NewRecorder()

	got := p.Resolve(w, r)
	if !strings.HasPrefix(got, "guest:") {
		t.Fatalf("Expected guest fallback, got %q", got)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(got, "guest:")); err != nil {
		t.Errorf("Guest id is not a uuid: %v", err)
	}
}

func TestResolveExpiredTokenFallsBackToGuest(t *testing.T) {
	p := NewProvider(testConfig("test-secret"))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "ladle_identity", Value: signed})
	w := httptest.NewRecorder()

	if got := p.Resolve(w, r); !strings.HasPrefix(got, "guest:") {
		t.Errorf("Expected guest fallback for expired token, got %q", got)
	}
}

func TestResolveIssuesGuestCookieOnce(t *testing.T) {
	p := NewProvider(testConfig(""))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	first := p.Resolve(w, r)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "ladle_guest" {
		t.Fatalf("Expected one guest cookie, got %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("Guest cookie must be HttpOnly")
	}

	// The echoed cookie keeps the same identity on the next request.
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	second := p.Resolve(w2, r2)

	if first != second {
		t.Errorf("Guest identity not stable: %q then %q", first, second)
	}
	if len(w2.Result().Cookies()) != 0 {
		t.Error("No new cookie should be issued when one is echoed")
	}
}

func TestResolveRejectsMalformedGuestCookie(t *testing.T) {
	p := NewProvider(testConfig(""))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "ladle_guest", Value: "not-a-uuid"})
	w := httptest.NewRecorder()

	got := p.Resolve(w, r)
	if strings.TrimPrefix(got, "guest:") == "not-a-uuid" {
		t.Error("Malformed guest cookie must be replaced")
	}
	if len(w.Result().Cookies()) != 1 {
		t.Error("A replacement guest cookie must be issued")
	}
}

func TestResolveIgnoresIdentityCookieWithoutSecret(t *testing.T) {
	p := NewProvider(testConfig(""))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "ladle_identity", Value: signToken(t, "any", "user-42")})
	w := httptest.NewRecorder()

	if got := p.Resolve(w, r); !strings.HasPrefix(got, "guest:") {
		t.Errorf("Without a secret every caller is a guest, got %q", got)
	}
}
