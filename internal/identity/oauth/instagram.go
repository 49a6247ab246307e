// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Instagram endpoints.
const (
	instagramAuthURL     = "https://api.instagram.com/oauth/authorize"
	instagramTokenURL    = "https://api.instagram.com/oauth/access_token"
	instagramUserInfoURL = "https://graph.instagram.com/me"
)

// InstagramProvider implements [Provider] against the Instagram Basic
// Display API.
//
// Instagram never exposes the account's email address, so a synthetic
// one is derived from the username. Basic Display tokens also have no
// refresh token in the authorization-code grant.
type InstagramProvider struct {
	credentials Credentials
	httpClient  *http.Client
}

// NewInstagramProvider creates an Instagram adapter from client credentials.
func NewInstagramProvider(credentials Credentials) *InstagramProvider {
	return &InstagramProvider{
		credentials: credentials,
		httpClient:  newHTTPClient(),
	}
}

// Name returns the registry key.
func (provider *InstagramProvider) Name() string { return "instagram" }

// AuthorizationURL builds the Instagram consent URL.
func (provider *InstagramProvider) AuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("client_id", provider.credentials.ClientID)
	params.Set("redirect_uri", provider.credentials.RedirectURI)
	params.Set("scope", "instagram_basic")
	params.Set("response_type", "code")
	params.Set("state", state)

	return instagramAuthURL + "?" + params.Encode()
}

/*
ExchangeCode trades an authorization code for an Instagram access token.

Parameters:
  - ctx: context.Context
  - code: string (authorization code from the callback)

Returns:
  - *TokenResponse: Normalized token set (RefreshToken always empty)
  - error: Transport failures or provider-side rejections
*/
func (provider *InstagramProvider) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", provider.credentials.ClientID)
	form.Set("client_secret", provider.credentials.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", provider.credentials.RedirectURI)
	form.Set("code", code)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, instagramTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("instagram_token_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := provider.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("instagram_token_exchange_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("instagram_token_read_failed: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram_token_exchange_failed: status %d: %s", response.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("instagram_token_decode_failed: %w", err)
	}

	if payload.AccessToken == "" {
		return nil, fmt.Errorf("instagram_token_exchange_failed: missing access_token in response")
	}

	return &TokenResponse{
		AccessToken: payload.AccessToken,
		ExpiresIn:   payload.ExpiresIn,
	}, nil
}

/*
FetchUserProfile resolves the Instagram identity behind an access token.

Parameters:
  - ctx: context.Context
  - accessToken: string

Returns:
  - *UserProfile: Normalized identity with a synthetic email
  - error: Transport failures or provider-side rejections
*/
func (provider *InstagramProvider) FetchUserProfile(ctx context.Context, accessToken string) (*UserProfile, error) {
	params := url.Values{}
	params.Set("fields", "id,username")
	params.Set("access_token", accessToken)
	endpoint := instagramUserInfoURL + "?" + params.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("instagram_userinfo_request_failed: %w", err)
	}

	response, err := provider.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("instagram_userinfo_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("instagram_userinfo_read_failed: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram_userinfo_failed: status %d", response.StatusCode)
	}

	var payload struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("instagram_userinfo_decode_failed: %w", err)
	}

	if payload.ID == "" {
		return nil, fmt.Errorf("instagram_userinfo_failed: missing id in response")
	}

	return &UserProfile{
		ProviderUserID: payload.ID,
		Email:          payload.Username + "@instagram.local",
		Name:           payload.Username,
	}, nil
}
