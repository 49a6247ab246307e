// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crealink/crealink/internal/platform/middleware"
	requestutil "github.com/crealink/crealink/internal/platform/request"
	"github.com/crealink/crealink/internal/platform/respond"
	"github.com/crealink/crealink/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the profile HTTP endpoints.
type Handler struct {
	profileService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{profileService: service}
}

// Routes returns a [chi.Router] configured with profile routes.
// Every route requires an authenticated caller.
//
// # Endpoints
//   - GET /  : Returns the caller's profile.
//   - PUT /  : Replaces the caller's profile fields.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.get)
	router.Put("/", handler.update)

	return router
}

// # Request Payloads

type updateRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
}

// # Handlers

/*
Get returns the authenticated user's profile.

GET /api/v1/profile

Response:
  - 200: Profile entity
  - 401: Missing or invalid access token
  - 404: Profile row missing
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.profileService.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldProfile: entity})
}

/*
Update replaces the authenticated user's profile fields.

PUT /api/v1/profile

Request:
  - Body: updateRequest (DisplayName, Bio, AvatarURL)

Response:
  - 200: Updated profile entity
  - 400: ErrInvalidJSON or validation failure
  - 401: Missing or invalid access token
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.profileService.Update(request.Context(), userID, UpdateInput{
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
		AvatarURL:   input.AvatarURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldProfile: entity})
}
