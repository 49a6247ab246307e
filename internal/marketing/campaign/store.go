// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package campaign

import (
	"context"

	"github.com/crealink/crealink/pkg/pagination"
)

// Repository defines the data access contract for campaigns.
type Repository interface {

	/*
		Create persists a new campaign.

		Parameters:
		  - context: context.Context
		  - campaign: *Campaign

		Returns:
		  - error: Constraint violations or connectivity errors
	*/
	Create(context context.Context, campaign *Campaign) error

	/*
		FindByID returns the campaign with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Campaign: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Campaign, error)

	/*
		ListByOwner returns one page of the owner's campaigns, newest first.

		Parameters:
		  - context: context.Context
		  - ownerID: string
		  - params: pagination.Params

		Returns:
		  - []*Campaign: Page of entities
		  - int: Total campaign count for the owner
		  - error: Database retrieval failures
	*/
	ListByOwner(context context.Context, ownerID string, params pagination.Params) ([]*Campaign, int, error)

	/*
		UpdateStatus replaces the campaign status.

		Parameters:
		  - context: context.Context
		  - id: string
		  - status: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	UpdateStatus(context context.Context, id, status string) error
}
