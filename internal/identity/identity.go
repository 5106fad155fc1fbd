// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// Package identity resolves each request to an opaque owner id used to
// namespace per-user state. Authenticated callers carry a signed JWT
// cookie issued elsewhere; everyone else gets a guest uuid cookie. The
// id only selects storage namespaces, it grants nothing.
package identity

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ladle-app/ladle/internal/config"
	"github.com/ladle-app/ladle/internal/logging"
)

const guestCookieTTL = 365 * 24 * time.Hour

// Provider resolves requests to owner ids.
type Provider struct {
	secret         []byte
	identityCookie string
	guestCookie    string
}

// NewProvider builds a provider from security config. An empty JWT
// secret disables authenticated identities entirely.
func NewProvider(cfg config.SecurityConfig) *Provider {
	return &Provider{
		secret:         []byte(cfg.JWTSecret),
		identityCookie: cfg.IdentityCookie,
		guestCookie:    cfg.GuestCookie,
	}
}

// Resolve returns the owner id for the request. A valid identity cookie
// yields "user:<subject>". Otherwise the guest cookie is echoed, or a
// fresh guest id is issued and set on the response. An invalid identity
// cookie falls back to guest rather than failing the request.
func (p *Provider) Resolve(w http.ResponseWriter, r *http.Request) string {
	if len(p.secret) > 0 {
		if cookie, err := r.Cookie(p.identityCookie); err == nil {
			subject, err := p.verify(cookie.Value)
			if err != nil {
				logging.Debug().Err(err).Msg("Identity cookie rejected, treating as guest")
			} else if subject != "" {
				return "user:" + subject
			}
		}
	}

	if cookie, err := r.Cookie(p.guestCookie); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return "guest:" + cookie.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     p.guestCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(guestCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return "guest:" + id
}

// verify parses the identity cookie and returns its subject claim.
func (p *Provider) verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	return claims.Subject, nil
}
