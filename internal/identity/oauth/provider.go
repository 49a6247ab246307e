// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

/*
Package oauth implements third-party identity federation.

It handles the authorization-code flow against external providers (Google,
TikTok, Instagram): CSRF-protected initiation, code exchange, profile fetch,
account linking, and session issuance.

# Architecture

  - Provider: A small adapter per external service hiding its wire quirks.
  - Registry: Name-indexed provider lookup, built from configuration.
  - Service: Orchestrates the callback into the identity domain.
*/
package oauth

import (
	"context"
	"net/http"
	"time"
)

// httpTimeout bounds every outbound call to a provider.
const httpTimeout = 10 * time.Second

// # Provider Contract

// TokenResponse is the normalized result of an authorization-code exchange.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the token lifetime in seconds; 0 when the provider does
	// not report one.
	ExpiresIn int64
}

// UserProfile is the normalized identity payload fetched from a provider.
type UserProfile struct {
	ProviderUserID string
	Email          string
	Name           string
	AvatarURL      string
}

// Provider adapts one external identity service to the platform.
//
// Implementations hide every provider-specific quirk (parameter names,
// response envelopes, missing emails) behind this uniform surface.
type Provider interface {
	// Name returns the registry key (e.g. "google").
	Name() string

	// AuthorizationURL builds the user-facing consent URL carrying the
	// signed CSRF state.
	AuthorizationURL(state string) string

	// ExchangeCode trades an authorization code for provider tokens.
	ExchangeCode(ctx context.Context, code string) (*TokenResponse, error)

	// FetchUserProfile resolves the external identity behind an access token.
	FetchUserProfile(ctx context.Context, accessToken string) (*UserProfile, error)
}

// Credentials holds the client registration for one provider.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// configured reports whether the provider can actually be used.
func (c Credentials) configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// # Registry

// Registry maps provider names to their adapters.
type Registry map[string]Provider

// NewRegistry builds a registry from per-provider credentials. Providers
// without a client id/secret pair are silently skipped, so a deployment can
// enable any subset.
func NewRegistry(google, tiktok, instagram Credentials) Registry {
	registry := make(Registry, 3)

	if google.configured() {
		registry.add(NewGoogleProvider(google))
	}
	if tiktok.configured() {
		registry.add(NewTikTokProvider(tiktok))
	}
	if instagram.configured() {
		registry.add(NewInstagramProvider(instagram))
	}

	return registry
}

func (r Registry) add(provider Provider) {
	r[provider.Name()] = provider
}

// Get returns the named provider; ok is false when the name is unknown or
// the provider was not configured.
func (r Registry) Get(name string) (Provider, bool) {
	provider, ok := r[name]
	return provider, ok
}

// newHTTPClient returns the shared outbound client configuration.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
