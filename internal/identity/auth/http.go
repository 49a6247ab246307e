// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

/*
Package auth provides the HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle—from account
creation to session rotation and password recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles JWT orchestration and refresh token cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/internal/platform/constants"
	"github.com/crealink/crealink/internal/platform/middleware"
	requestutil "github.com/crealink/crealink/internal/platform/request"
	"github.com/crealink/crealink/internal/platform/respond"
	"github.com/crealink/crealink/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, Session rotation, Password recovery, Role changes).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register           : Creates a new account and opens a session.
//   - POST /login              : Authenticates and returns a JWT pair.
//   - POST /refresh            : Rotates the refresh session.
//   - POST /logout             : Best-effort session revocation.
//   - POST /forgot-password    : Starts the password reset flow.
//   - POST /verify-reset-token : Non-consuming reset token probe.
//   - POST /reset-password     : Consumes the token, replaces the password.
//   - PATCH /users/{id}/role   : Admin role reassignment.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/verify-reset-token", handler.verifyResetToken)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Patch("/users/{id}/role", handler.updateUserRole)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type verifyResetTokenRequest struct {
	Token string `json:"token"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// # Cookie Helpers

// setRefreshCookie injects the refresh token as a scoped HttpOnly cookie.
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

// clearRefreshCookie removes the refresh token cookie from the client.
func clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// refreshTokenFrom resolves the refresh token from the scoped cookie first,
// falling back to the JSON body for cookie-less API clients.
func refreshTokenFrom(request *http.Request) string {
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err == nil {
		return input.RefreshToken
	}

	return ""
}

// # Handlers

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, persists the
account + profile, and opens an authenticated session.

Request:
  - Body: registerRequest (Email, Password, DisplayName, Role)

Response:
  - 201: User and access token, refresh cookie injected
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: UserAlreadyExists: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, pair, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		Role:        input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, pair.RefreshToken, pair.RefreshExpiresAt)

	respond.Created(writer, map[string]any{
		FieldUser:        user,
		FieldAccessToken: pair.AccessToken,
	})
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials behind the brute-force lockout gate,
generates a JWT pair, and injects a secure refresh token cookie.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Access token and user profile
  - 401: InvalidPassword
  - 404: UserNotFound
  - 429: TooManyAttempts (locked_until in meta)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, pair, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, pair.RefreshToken, pair.RefreshExpiresAt)

	respond.OK(writer, map[string]any{
		FieldUser:        user,
		FieldAccessToken: pair.AccessToken,
	})
}

/*
Refresh rotates the session and issues a new token pair.

POST /api/v1/auth/refresh

Description: Validates the presented refresh token (cookie or body), revokes
its server-side session, and returns fresh credentials.

Response:
  - 200: New access token, refresh cookie rotated
  - 401: InvalidToken: Missing, expired, wrong kind, or revoked token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	refreshToken := refreshTokenFrom(request)
	if refreshToken == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
		return
	}

	user, pair, err := handler.authService.RefreshSession(request.Context(), refreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, pair.RefreshToken, pair.RefreshExpiresAt)

	respond.OK(writer, map[string]any{
		FieldUser:        user,
		FieldAccessToken: pair.AccessToken,
	})
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Best-effort revocation of the refresh session and removal of the
security cookie. Always succeeds.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if refreshToken := refreshTokenFrom(request); refreshToken != "" {
		_ = handler.authService.Logout(request.Context(), refreshToken)
	}

	clearRefreshCookie(writer)

	respond.NoContent(writer)
}

/*
ForgotPassword starts the password reset flow.

POST /api/v1/auth/forgot-password

Description: Enumeration-safe — the response is identical whether or not the
email belongs to an account.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Generic acknowledgement
  - 400: ErrInvalidJSON or validation failure
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "If the email exists, a reset link has been sent",
	})
}

/*
VerifyResetToken probes a reset token without consuming it.

POST /api/v1/auth/verify-reset-token

Request:
  - Body: verifyResetTokenRequest (Token)

Response:
  - 200: {valid: bool}
*/
func (handler *Handler) verifyResetToken(writer http.ResponseWriter, request *http.Request) {
	var input verifyResetTokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	valid, err := handler.authService.VerifyResetToken(request.Context(), input.Token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldValid: valid,
	})
}

/*
ResetPassword consumes a reset token and replaces the account password.

POST /api/v1/auth/reset-password

Request:
  - Body: resetPasswordRequest (Token, NewPassword)

Response:
  - 200: Confirmation message
  - 400: InvalidResetToken or validation failure
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Password has been reset",
	})
}

/*
UpdateUserRole reassigns a member's role.

PATCH /api/v1/auth/users/{id}/role

Description: Admin only; the service enforces the actor's role.

Request:
  - Body: updateRoleRequest (Role)

Response:
  - 200: Updated user
  - 403: Forbidden: Actor is not an admin
  - 404: UserNotFound: Unknown target user
*/
func (handler *Handler) updateUserRole(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	targetID := requestutil.ID(request, "id")

	user, err := handler.authService.UpdateUserRole(request.Context(), actorID, targetID, input.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
