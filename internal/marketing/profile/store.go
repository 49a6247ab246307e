// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package profile

import "context"

// Repository defines the data access contract for profiles.
type Repository interface {

	/*
		FindByUserID returns the profile owned by the given account.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - *Profile: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUserID(context context.Context, userID string) (*Profile, error)

	/*
		Update replaces the mutable profile fields.

		Parameters:
		  - context: context.Context
		  - profile: *Profile (UserID selects the row)

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Update(context context.Context, profile *Profile) error
}
