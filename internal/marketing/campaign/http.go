// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package campaign

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crealink/crealink/internal/platform/middleware"
	requestutil "github.com/crealink/crealink/internal/platform/request"
	"github.com/crealink/crealink/internal/platform/respond"
	"github.com/crealink/crealink/internal/platform/validate"
	"github.com/crealink/crealink/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the campaign HTTP endpoints.
type Handler struct {
	campaignService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{campaignService: service}
}

// Routes returns a [chi.Router] configured with campaign routes.
// Every route requires an authenticated caller.
//
// # Endpoints
//   - POST /               : Creates a draft campaign.
//   - GET  /               : Lists the caller's campaigns (paginated).
//   - GET  /{id}           : Returns one owned campaign.
//   - POST /{id}/activate  : Transitions a draft campaign to active.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Post("/{id}/activate", handler.activate)

	return router
}

// # Request Payloads

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// # Handlers

/*
Create registers a new draft campaign owned by the caller.

POST /api/v1/campaigns

Request:
  - Body: createRequest (Name, Description)

Response:
  - 201: Campaign entity
  - 400: ErrInvalidJSON or validation failure
  - 401: Missing or invalid access token
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.campaignService.Create(request.Context(), ownerID, CreateInput{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{FieldCampaign: entity})
}

/*
List returns one page of the caller's campaigns.

GET /api/v1/campaigns?page=N&limit=M

Response:
  - 200: Campaign list and pagination metadata
  - 401: Missing or invalid access token
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	campaigns, meta, err := handler.campaignService.List(request.Context(), ownerID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldCampaigns:  campaigns,
		FieldPagination: meta,
	})
}

/*
Get returns one campaign owned by the caller.

GET /api/v1/campaigns/{id}

Response:
  - 200: Campaign entity
  - 401: Missing or invalid access token
  - 404: Unknown id, or a campaign owned by someone else
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.campaignService.Get(request.Context(), ownerID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldCampaign: entity})
}

/*
Activate transitions a draft campaign to active.

POST /api/v1/campaigns/{id}/activate

Response:
  - 200: Updated campaign entity
  - 401: Missing or invalid access token
  - 404: Unknown id, or a campaign owned by someone else
  - 422: Campaign is not a draft
*/
func (handler *Handler) activate(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.campaignService.Activate(request.Context(), ownerID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldCampaign: entity})
}
