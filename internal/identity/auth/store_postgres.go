// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

// Package auth: PostgreSQL storage layer for the identity domain.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/internal/platform/dberr"
	"github.com/crealink/crealink/pkg/uuid"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the shared projection for account queries, joining the role
// name so services never see the raw role id.
const userColumns = `
	a.id, a.email, a.password_hash, COALESCE(a.role_id, 0), COALESCE(r.name, ''), a.created_at, a.updated_at
	FROM identity.account a
	LEFT JOIN identity.role r ON r.id = a.role_id`

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.RoleID,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

/*
FindByID retrieves a user record by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Hydrated entity
  - error: apperr.UserNotFound or connectivity errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` WHERE a.id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.UserNotFound()
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated entity
  - error: apperr.UserNotFound or connectivity errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` WHERE a.email = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.UserNotFound()
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
ExistsByEmail reports whether an account with the given email exists.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - bool: Existence flag
  - error: Connectivity errors
*/
func (repository *PostgresUserRepository) ExistsByEmail(context context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM identity.account WHERE email = $1)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_user_repo_exists_failed: %w", err)
	}

	return exists, nil
}

/*
CreateWithProfile persists a new account and its profile row in one transaction.

Description: Either both rows land or neither does — a user without a profile
is not a valid state anywhere in the platform.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist; RoleID must be resolved)
  - displayName: string (initial profile display name)

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) CreateWithProfile(context context.Context, user *User, displayName string) error {
	const accountQuery = `
		INSERT INTO identity.account (
			id, email, password_hash, role_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	const profileQuery = `
		INSERT INTO marketing.profile (
			user_id, display_name, created_at, updated_at
		) VALUES ($1, $2, $3, $4)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	_, err = transaction.Exec(context, accountQuery,
		user.ID,
		user.Email,
		user.PasswordHash,
		nullableRoleID(user.RoleID),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// A unique violation here is a registration race past the email
		// pre-check; surface it as a conflict, not an internal error
		return dberr.Wrap(err, "postgres_user_repo_create")
	}

	_, err = transaction.Exec(context, profileQuery,
		user.ID,
		displayName,
		now,
		now,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_create_profile")
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_user_repo_commit_failed: %w", err)
	}

	return nil
}

// nullableRoleID maps the zero value to SQL NULL.
func nullableRoleID(roleID int64) *int64 {
	if roleID == 0 {
		return nil
	}
	return &roleID
}

/*
UpdatePassword replaces only the user's password hash.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: apperr.UserNotFound or connectivity errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE identity.account
		SET password_hash = $2, updated_at = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.UserNotFound()
	}

	return nil
}

/*
UpdateRole reassigns the user's role.

Parameters:
  - context: context.Context
  - userID: string
  - roleID: int64

Returns:
  - error: apperr.UserNotFound or connectivity errors
*/
func (repository *PostgresUserRepository) UpdateRole(context context.Context, userID string, roleID int64) error {
	const query = `
		UPDATE identity.account
		SET role_id = $2, updated_at = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, roleID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_role_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.UserNotFound()
	}

	return nil
}

// # Role Repository

// PostgresRoleRepository implements the RoleRepository interface using pgx.
type PostgresRoleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository creates a new PostgreSQL implementation of the RoleRepository.
func NewRoleRepository(pool *pgxpool.Pool) *PostgresRoleRepository {
	return &PostgresRoleRepository{pool: pool}
}

/*
EnsureByName returns the id of the named role, creating the row on first use.

Description: The upsert makes role bootstrap unnecessary — a fresh database
grows its role rows on demand.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - int64: Role row id
  - error: Connectivity errors
*/
func (repository *PostgresRoleRepository) EnsureByName(context context.Context, name string) (int64, error) {
	const query = `
		INSERT INTO identity.role (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	var id int64
	if err := repository.pool.QueryRow(context, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("postgres_role_repo_ensure_failed: %w", err)
	}

	return id, nil
}

// # OAuth Account Repository

// PostgresOAuthAccountRepository implements OAuthAccountRepository using pgx.
type PostgresOAuthAccountRepository struct {
	pool *pgxpool.Pool
}

// NewOAuthAccountRepository creates a new PostgreSQL implementation of the OAuthAccountRepository.
func NewOAuthAccountRepository(pool *pgxpool.Pool) *PostgresOAuthAccountRepository {
	return &PostgresOAuthAccountRepository{pool: pool}
}

/*
FindByProvider returns the link for an external (provider, providerUserID) identity.

Parameters:
  - context: context.Context
  - provider: string
  - providerUserID: string

Returns:
  - *OAuthAccount: Hydrated entity
  - error: apperr.NotFound or connectivity errors
*/
func (repository *PostgresOAuthAccountRepository) FindByProvider(context context.Context, provider, providerUserID string) (*OAuthAccount, error) {
	const query = `
		SELECT id, user_id, provider, provider_user_id, is_verified, created_at, updated_at
		FROM identity.oauth_account
		WHERE provider = $1 AND provider_user_id = $2`

	var account OAuthAccount
	err := repository.pool.QueryRow(context, query, provider, providerUserID).Scan(
		&account.ID,
		&account.UserID,
		&account.Provider,
		&account.ProviderUserID,
		&account.IsVerified,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("OAuth account")
		}
		return nil, fmt.Errorf("postgres_oauth_repo_find_failed: %w", err)
	}

	return &account, nil
}

/*
Create persists a new provider link.

Parameters:
  - context: context.Context
  - account: *OAuthAccount

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresOAuthAccountRepository) Create(context context.Context, account *OAuthAccount) error {
	const query = `
		INSERT INTO identity.oauth_account (
			id, user_id, provider, provider_user_id, is_verified, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if account.ID == "" {
		account.ID = uuid.New()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.UserID,
		account.Provider,
		account.ProviderUserID,
		account.IsVerified,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		// Concurrent linking of the same (provider, provider_user_id) trips
		// the unique constraint; the loser gets a conflict
		return dberr.Wrap(err, "postgres_oauth_repo_create")
	}

	return nil
}
