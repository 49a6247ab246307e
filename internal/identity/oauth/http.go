// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package oauth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crealink/crealink/internal/identity/auth"
	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/internal/platform/constants"
	requestutil "github.com/crealink/crealink/internal/platform/request"
	"github.com/crealink/crealink/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the provider login HTTP endpoints.
type Handler struct {
	oauthService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{oauthService: service}
}

// Routes returns a [chi.Router] configured with the provider login routes.
//
// # Endpoints
//   - GET /{provider}/initiate : 302 redirect to the provider consent page.
//   - GET /{provider}/callback : Completes the flow, opens a session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{provider}/initiate", handler.initiate)
	router.Get("/{provider}/callback", handler.callback)

	return router
}

// setRefreshCookie injects the refresh token as a scoped HttpOnly cookie.
// The cookie is scoped to the auth path so it also reaches /auth/refresh.
func setRefreshCookie(writer http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  expiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// # Handlers

/*
Initiate redirects the user to the provider consent page.

GET /api/v1/auth/oauth/{provider}/initiate

Response:
  - 302: Location header pointing at the provider
  - 404: Unknown or unconfigured provider
*/
func (handler *Handler) initiate(writer http.ResponseWriter, request *http.Request) {
	providerName := requestutil.Param(request, "provider")

	consentURL, err := handler.oauthService.Initiate(request.Context(), providerName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.Redirect(writer, request, consentURL, http.StatusFound)
}

/*
Callback completes the provider flow and opens a platform session.

GET /api/v1/auth/oauth/{provider}/callback?code=...&state=...

Description: Validates the signed state, exchanges the code, links or
creates the account, and issues the token pair with a refresh cookie.

Response:
  - 200: User, access token and is_new_user flag
  - 401: InvalidOAuthState
  - 502: OAuthProviderError: Exchange or profile fetch failed upstream
*/
func (handler *Handler) callback(writer http.ResponseWriter, request *http.Request) {
	providerName := requestutil.Param(request, "provider")
	code := request.URL.Query().Get("code")
	state := request.URL.Query().Get("state")

	if code == "" || state == "" {
		respond.Error(writer, request, apperr.ValidationError("code and state query parameters are required"))
		return
	}

	result, err := handler.oauthService.Callback(request.Context(), providerName, code, state)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, result.Tokens.RefreshToken, result.Tokens.RefreshExpiresAt)

	respond.OK(writer, map[string]any{
		auth.FieldUser:        result.User,
		auth.FieldAccessToken: result.Tokens.AccessToken,
		auth.FieldIsNewUser:   result.IsNewUser,
	})
}
