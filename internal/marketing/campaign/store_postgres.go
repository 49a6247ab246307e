// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

// Package campaign: PostgreSQL storage layer for the campaign domain.
package campaign

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/internal/platform/dberr"
	"github.com/crealink/crealink/pkg/pagination"
	"github.com/crealink/crealink/pkg/uuid"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const campaignColumns = `id, owner_id, name, slug, COALESCE(description, ''), status, created_at, updated_at`

func scanCampaign(row pgx.Row) (*Campaign, error) {
	var entity Campaign
	err := row.Scan(
		&entity.ID,
		&entity.OwnerID,
		&entity.Name,
		&entity.Slug,
		&entity.Description,
		&entity.Status,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

/*
Create persists a new campaign, assigning its ID when absent.

Parameters:
  - context: context.Context
  - campaign: *Campaign

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, campaign *Campaign) error {
	if campaign.ID == "" {
		campaign.ID = uuid.New()
	}

	query := `
		INSERT INTO marketing.campaign (id, owner_id, name, slug, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := repository.pool.QueryRow(context, query,
		campaign.ID,
		campaign.OwnerID,
		campaign.Name,
		campaign.Slug,
		campaign.Description,
		campaign.Status,
	).Scan(&campaign.CreatedAt, &campaign.UpdatedAt)
	if err != nil {
		// Classifies unique and foreign-key violations (owner deleted mid
		// flight) as client errors instead of internal ones
		return dberr.Wrap(err, "postgres_campaign_repo_create")
	}

	return nil
}

/*
FindByID retrieves a campaign by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Campaign: Hydrated entity
  - error: apperr.NotFound or connectivity errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM marketing.campaign WHERE id = $1`

	entity, err := scanCampaign(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Campaign")
		}
		return nil, fmt.Errorf("postgres_campaign_repo_find_failed: %w", err)
	}

	return entity, nil
}

/*
ListByOwner returns one page of the owner's campaigns, newest first.

Parameters:
  - context: context.Context
  - ownerID: string
  - params: pagination.Params

Returns:
  - []*Campaign: Page of entities
  - int: Total campaign count for the owner
  - error: Connectivity errors
*/
func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string, params pagination.Params) ([]*Campaign, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM marketing.campaign WHERE owner_id = $1`
	if err := repository.pool.QueryRow(context, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_campaign_repo_count_failed: %w", err)
	}

	query := `SELECT ` + campaignColumns + `
		FROM marketing.campaign
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, ownerID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_campaign_repo_list_failed: %w", err)
	}
	defer rows.Close()

	campaigns := make([]*Campaign, 0, params.Limit)
	for rows.Next() {
		entity, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_campaign_repo_scan_failed: %w", err)
		}
		campaigns = append(campaigns, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_campaign_repo_rows_failed: %w", err)
	}

	return campaigns, total, nil
}

/*
UpdateStatus replaces the campaign status.

Parameters:
  - context: context.Context
  - id: string
  - status: string

Returns:
  - error: apperr.NotFound when the row does not exist, persistence failures
*/
func (repository *PostgresRepository) UpdateStatus(context context.Context, id, status string) error {
	query := `UPDATE marketing.campaign SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, status)
	if err != nil {
		return fmt.Errorf("postgres_campaign_repo_update_status_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Campaign")
	}

	return nil
}
