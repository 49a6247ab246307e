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

// TikTok endpoints.
const (
	tiktokAuthURL     = "https://www.tiktok.com/v1/oauth/authorize"
	tiktokTokenURL    = "https://open.tiktokapis.com/v2/oauth/token"
	tiktokUserInfoURL = "https://open.tiktokapis.com/v2/user/info"
)

// TikTokProvider implements [Provider] against TikTok's open API.
//
// TikTok deviates from the usual OAuth shape in two ways: the client
// identifier parameter is named client_key, and all token and user
// responses arrive wrapped in a "data" envelope.
type TikTokProvider struct {
	credentials Credentials
	httpClient  *http.Client
}

// NewTikTokProvider creates a TikTok adapter from client credentials.
func NewTikTokProvider(credentials Credentials) *TikTokProvider {
	return &TikTokProvider{
		credentials: credentials,
		httpClient:  newHTTPClient(),
	}
}

// Name returns the registry key.
func (provider *TikTokProvider) Name() string { return "tiktok" }

// AuthorizationURL builds the TikTok consent URL.
func (provider *TikTokProvider) AuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("client_key", provider.credentials.ClientID)
	params.Set("redirect_uri", provider.credentials.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "user.info.basic")
	params.Set("state", state)

	return tiktokAuthURL + "?" + params.Encode()
}

/*
ExchangeCode trades an authorization code for TikTok tokens.

Parameters:
  - ctx: context.Context
  - code: string (authorization code from the callback)

Returns:
  - *TokenResponse: Normalized token set
  - error: Transport failures or provider-side rejections
*/
func (provider *TikTokProvider) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_key", provider.credentials.ClientID)
	form.Set("client_secret", provider.credentials.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", provider.credentials.RedirectURI)
	form.Set("grant_type", "authorization_code")

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, tiktokTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("tiktok_token_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := provider.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("tiktok_token_exchange_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("tiktok_token_read_failed: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tiktok_token_exchange_failed: status %d: %s", response.StatusCode, string(body))
	}

	var payload struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			ExpiresIn    int64  `json:"expires_in"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("tiktok_token_decode_failed: %w", err)
	}

	if payload.Data.AccessToken == "" {
		return nil, fmt.Errorf("tiktok_token_exchange_failed: missing access_token in response")
	}

	return &TokenResponse{
		AccessToken:  payload.Data.AccessToken,
		RefreshToken: payload.Data.RefreshToken,
		ExpiresIn:    payload.Data.ExpiresIn,
	}, nil
}

/*
FetchUserProfile resolves the TikTok identity behind an access token.

The stable identifier is open_id with union_id as a fallback. The email
field is only populated when the scope grants it, so it may be empty.

Parameters:
  - ctx: context.Context
  - accessToken: string

Returns:
  - *UserProfile: Normalized identity
  - error: Transport failures or provider-side rejections
*/
func (provider *TikTokProvider) FetchUserProfile(ctx context.Context, accessToken string) (*UserProfile, error) {
	endpoint := tiktokUserInfoURL + "?fields=open_id,union_id,avatar_url,display_name,email"

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("tiktok_userinfo_request_failed: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)

	response, err := provider.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("tiktok_userinfo_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("tiktok_userinfo_read_failed: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tiktok_userinfo_failed: status %d", response.StatusCode)
	}

	var payload struct {
		Data struct {
			User struct {
				OpenID      string `json:"open_id"`
				UnionID     string `json:"union_id"`
				AvatarURL   string `json:"avatar_url"`
				DisplayName string `json:"display_name"`
				Email       string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("tiktok_userinfo_decode_failed: %w", err)
	}

	user := payload.Data.User

	providerUserID := user.OpenID
	if providerUserID == "" {
		providerUserID = user.UnionID
	}
	if providerUserID == "" {
		return nil, fmt.Errorf("tiktok_userinfo_failed: missing open_id and union_id")
	}

	return &UserProfile{
		ProviderUserID: providerUserID,
		Email:          user.Email,
		Name:           user.DisplayName,
		AvatarURL:      user.AvatarURL,
	}, nil
}
