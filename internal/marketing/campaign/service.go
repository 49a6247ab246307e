// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package campaign

import (
	"context"
	"log/slog"

	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/internal/platform/ctxutil"
	"github.com/crealink/crealink/internal/platform/validate"
	"github.com/crealink/crealink/pkg/pagination"
	"github.com/crealink/crealink/pkg/slug"
)

// # Service Definition

// Service exposes the campaign use cases to the delivery layer.
type Service struct {
	repository Repository
}

// NewService creates the campaign service.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// CreateInput carries the fields for a new campaign.
type CreateInput struct {
	Name        string
	Description string
}

// # Operations

/*
Create validates and persists a new draft campaign owned by the caller.
The URL slug is derived from the name.

Parameters:
  - context: context.Context
  - ownerID: string (authenticated caller)
  - input: CreateInput

Returns:
  - *Campaign: Persisted entity
  - error: Validation failures or persistence failures
*/
func (service *Service) Create(context context.Context, ownerID string, input CreateInput) (*Campaign, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, maxNameLength).
		MaxLen(FieldDescription, input.Description, maxDescriptionLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entity := &Campaign{
		OwnerID:     ownerID,
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		Description: input.Description,
		Status:      StatusDraft,
	}

	if err := service.repository.Create(context, entity); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("campaign created",
		slog.String("campaign_id", entity.ID),
		slog.String("owner_id", ownerID))

	return entity, nil
}

/*
Get returns one campaign, restricted to its owner.

Parameters:
  - context: context.Context
  - ownerID: string (authenticated caller)
  - id: string

Returns:
  - *Campaign: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, ownerID, id string) (*Campaign, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// Foreign campaigns are indistinguishable from absent ones.
	if entity.OwnerID != ownerID {
		return nil, apperr.NotFound("Campaign")
	}

	return entity, nil
}

/*
List returns one page of the caller's campaigns with pagination metadata.

Parameters:
  - context: context.Context
  - ownerID: string (authenticated caller)
  - params: pagination.Params

Returns:
  - []*Campaign: Page of entities
  - pagination.Meta: Page metadata
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, ownerID string, params pagination.Params) ([]*Campaign, pagination.Meta, error) {
	campaigns, total, err := service.repository.ListByOwner(context, ownerID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return campaigns, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Activate transitions a draft campaign to active.

Parameters:
  - context: context.Context
  - ownerID: string (authenticated caller)
  - id: string

Returns:
  - *Campaign: Updated entity
  - error: apperr.NotFound, apperr.Unprocessable for non-draft campaigns,
    persistence failures
*/
func (service *Service) Activate(context context.Context, ownerID, id string) (*Campaign, error) {
	entity, err := service.Get(context, ownerID, id)
	if err != nil {
		return nil, err
	}

	if !entity.IsDraft() {
		return nil, apperr.Unprocessable("only draft campaigns can be activated")
	}

	if err := service.repository.UpdateStatus(context, id, StatusActive); err != nil {
		return nil, err
	}
	entity.Status = StatusActive

	ctxutil.GetLogger(context).Info("campaign activated",
		slog.String("campaign_id", id),
		slog.String("owner_id", ownerID))

	return entity, nil
}
