// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

// Package profile: PostgreSQL storage layer for the profile domain.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindByUserID retrieves the profile owned by an account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Profile: Hydrated entity
  - error: apperr.NotFound or connectivity errors
*/
func (repository *PostgresRepository) FindByUserID(context context.Context, userID string) (*Profile, error) {
	query := `
		SELECT user_id, display_name, COALESCE(bio, ''), COALESCE(avatar_url, ''), created_at, updated_at
		FROM marketing.profile
		WHERE user_id = $1`

	var profile Profile
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Profile")
		}
		return nil, fmt.Errorf("postgres_profile_repo_find_failed: %w", err)
	}

	return &profile, nil
}

/*
Update replaces the mutable profile fields.

Parameters:
  - context: context.Context
  - profile: *Profile

Returns:
  - error: apperr.NotFound when the row does not exist, persistence failures
*/
func (repository *PostgresRepository) Update(context context.Context, profile *Profile) error {
	query := `
		UPDATE marketing.profile
		SET display_name = $2, bio = $3, avatar_url = $4, updated_at = NOW()
		WHERE user_id = $1`

	tag, err := repository.pool.Exec(context, query,
		profile.UserID,
		profile.DisplayName,
		profile.Bio,
		profile.AvatarURL,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_profile_repo_update")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Profile")
	}

	return nil
}
