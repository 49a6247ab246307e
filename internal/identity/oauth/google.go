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

// Google endpoints.
const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleProvider implements [Provider] against Google's OAuth 2.0 endpoints.
type GoogleProvider struct {
	credentials Credentials
	httpClient  *http.Client
}

// NewGoogleProvider creates a Google adapter from client credentials.
func NewGoogleProvider(credentials Credentials) *GoogleProvider {
	return &GoogleProvider{
		credentials: credentials,
		httpClient:  newHTTPClient(),
	}
}

// Name returns the registry key.
func (provider *GoogleProvider) Name() string { return "google" }

// AuthorizationURL builds the Google consent URL.
//
// access_type=offline with prompt=consent forces Google to return a refresh
// token on every grant, not just the first one.
func (provider *GoogleProvider) AuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("client_id", provider.credentials.ClientID)
	params.Set("redirect_uri", provider.credentials.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "profile email")
	params.Set("state", state)
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")

	return googleAuthURL + "?" + params.Encode()
}

/*
ExchangeCode trades an authorization code for Google tokens.

Parameters:
  - ctx: context.Context
  - code: string (authorization code from the callback)

Returns:
  - *TokenResponse: Normalized token set
  - error: Transport failures or provider-side rejections
*/
func (provider *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", provider.credentials.ClientID)
	form.Set("client_secret", provider.credentials.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", provider.credentials.RedirectURI)
	form.Set("grant_type", "authorization_code")

	body, err := provider.postForm(ctx, googleTokenURL, form)
	if err != nil {
		return nil, err
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("google_token_decode_failed: %w", err)
	}

	if payload.AccessToken == "" {
		return nil, fmt.Errorf("google_token_exchange_failed: missing access_token in response")
	}

	return &TokenResponse{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresIn:    payload.ExpiresIn,
	}, nil
}

/*
FetchUserProfile resolves the Google identity behind an access token.

Parameters:
  - ctx: context.Context
  - accessToken: string

Returns:
  - *UserProfile: Normalized identity
  - error: Transport failures or provider-side rejections
*/
func (provider *GoogleProvider) FetchUserProfile(ctx context.Context, accessToken string) (*UserProfile, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("google_userinfo_request_failed: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)

	response, err := provider.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("google_userinfo_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("google_userinfo_read_failed: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google_userinfo_failed: status %d", response.StatusCode)
	}

	var payload struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("google_userinfo_decode_failed: %w", err)
	}

	return &UserProfile{
		ProviderUserID: payload.ID,
		Email:          payload.Email,
		Name:           payload.Name,
		AvatarURL:      payload.Picture,
	}, nil
}

// postForm executes an x-www-form-urlencoded POST and returns the raw body.
func (provider *GoogleProvider) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("google_token_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := provider.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("google_token_exchange_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("google_token_read_failed: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google_token_exchange_failed: status %d: %s", response.StatusCode, string(body))
	}

	return body, nil
}
