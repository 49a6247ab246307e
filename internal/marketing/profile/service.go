// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package profile

import (
	"context"

	"github.com/crealink/crealink/internal/platform/validate"
)

// # Service Definition

// Service exposes the profile use cases to the delivery layer.
type Service struct {
	repository Repository
}

// NewService creates the profile service.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// UpdateInput carries the mutable profile fields.
type UpdateInput struct {
	DisplayName string
	Bio         string
	AvatarURL   string
}

// # Operations

/*
Get returns the profile owned by the authenticated account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Profile: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, userID string) (*Profile, error) {
	return service.repository.FindByUserID(context, userID)
}

/*
Update validates and replaces the mutable profile fields, returning the
updated entity.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateInput

Returns:
  - *Profile: Updated entity
  - error: Validation failures, apperr.NotFound or persistence failures
*/
func (service *Service) Update(context context.Context, userID string, input UpdateInput) (*Profile, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldDisplayName, input.DisplayName).
		MaxLen(FieldDisplayName, input.DisplayName, maxDisplayNameLength).
		MaxLen(FieldBio, input.Bio, maxBioLength).
		MaxLen(FieldAvatarURL, input.AvatarURL, maxAvatarURLLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	current, err := service.repository.FindByUserID(context, userID)
	if err != nil {
		return nil, err
	}

	current.DisplayName = input.DisplayName
	current.Bio = input.Bio
	current.AvatarURL = input.AvatarURL

	if err := service.repository.Update(context, current); err != nil {
		return nil, err
	}

	return current, nil
}
