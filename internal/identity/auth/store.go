// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package auth

import (
	"context"
	"time"

	"github.com/crealink/crealink/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.UserNotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.UserNotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		ExistsByEmail reports whether an account with the given email exists.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - bool: Existence flag
		  - error: Database retrieval failures
	*/
	ExistsByEmail(context context.Context, email string) (bool, error)

	/*
		CreateWithProfile persists a new user and its profile row atomically.

		Parameters:
		  - context: context.Context
		  - user: *User
		  - displayName: string (initial profile display name)

		Returns:
		  - error: Constraint violations or connectivity errors
	*/
	CreateWithProfile(context context.Context, user *User, displayName string) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		UpdateRole reassigns the user's role.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - roleID: int64 (resolved role row id)

		Returns:
		  - error: Persistence failures
	*/
	UpdateRole(context context.Context, userID string, roleID int64) error
}

// RoleRepository resolves role names to their relational ids.
type RoleRepository interface {

	/*
		EnsureByName returns the id of the named role, creating the row if it
		does not exist yet.

		Parameters:
		  - context: context.Context
		  - name: string (creator|brand|admin)

		Returns:
		  - int64: Role row id
		  - error: Persistence failures
	*/
	EnsureByName(context context.Context, name string) (int64, error)
}

// OAuthAccountRepository defines the data access contract for provider links.
type OAuthAccountRepository interface {

	/*
		FindByProvider returns the link for an external identity.

		Parameters:
		  - context: context.Context
		  - provider: string
		  - providerUserID: string

		Returns:
		  - *OAuthAccount: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByProvider(context context.Context, provider, providerUserID string) (*OAuthAccount, error)

	/*
		Create persists a new provider link.

		Parameters:
		  - context: context.Context
		  - account: *OAuthAccount

		Returns:
		  - error: Constraint violations or connectivity errors
	*/
	Create(context context.Context, account *OAuthAccount) error
}

// # Volatile Data Access

// SessionRepository defines the contract for server-side refresh sessions.
//
// A refresh token is only honorable while its session record exists; revoking
// the record invalidates the token regardless of its signature validity.
type SessionRepository interface {

	/*
		Put stores a session under its token id with a TTL matching expiresAt
		and registers the id in the per-user index.

		Parameters:
		  - context: context.Context
		  - tokenID: string (jti)
		  - userID: string
		  - expiresAt: time.Time (must be in the future)

		Returns:
		  - error: Expired window or persistence failures
	*/
	Put(context context.Context, tokenID, userID string, expiresAt time.Time) error

	/*
		Exists reports whether the session record is still live.

		Parameters:
		  - context: context.Context
		  - tokenID: string

		Returns:
		  - bool: Liveness flag
		  - error: Connectivity errors
	*/
	Exists(context context.Context, tokenID string) (bool, error)

	/*
		Revoke deletes one session and removes it from the user index.
		Revoking an absent session is not an error.

		Parameters:
		  - context: context.Context
		  - tokenID: string

		Returns:
		  - bool: Whether this call deleted a live record. Under concurrent
		    revocation of the same id exactly one caller observes true.
		  - error: Connectivity errors
	*/
	Revoke(context context.Context, tokenID string) (bool, error)

	/*
		RevokeAll deletes every session belonging to the user.
		Stale index entries are tolerated.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Connectivity errors
	*/
	RevokeAll(context context.Context, userID string) error
}

// LockoutRepository defines the contract for brute-force lockout tracking.
type LockoutRepository interface {

	/*
		RecordFailedAttempt increments the failure count for an email and
		slides the lockout window forward. It is a no-op while the email is
		already locked.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - error: Connectivity errors
	*/
	RecordFailedAttempt(context context.Context, email string) error

	/*
		IsLocked reports whether the email is currently locked out.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - bool: Lock flag
		  - time.Time: When the lock expires (zero when unlocked)
		  - error: Connectivity errors
	*/
	IsLocked(context context.Context, email string) (bool, time.Time, error)

	/*
		Clear removes the lockout record after a successful login.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - error: Connectivity errors
	*/
	Clear(context context.Context, email string) error
}

// ResetTokenRepository defines the contract for single-use password reset tokens.
type ResetTokenRepository interface {

	/*
		Set stores a reset token associated with a userID for a limited duration.

		Parameters:
		  - context: context.Context
		  - token: string
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	/*
		Get retrieves the userID associated with a given reset token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: UserID
		  - error: apperr.InvalidResetToken or connectivity errors
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a reset token after successful use.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}

// ProviderTokenVault defines the contract for storing OAuth provider tokens.
type ProviderTokenVault interface {

	/*
		Store saves the provider tokens for a linked account. The record TTL
		is derived from the token expiry (plus buffer) or the fallback.

		Parameters:
		  - context: context.Context
		  - accountID: string (OAuthAccount id)
		  - tokens: ProviderTokens

		Returns:
		  - error: Persistence failures
	*/
	Store(context context.Context, accountID string, tokens ProviderTokens) error

	/*
		Get retrieves the stored provider tokens for an account.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - *ProviderTokens: Stored record
		  - error: apperr.NotFound or connectivity errors
	*/
	Get(context context.Context, accountID string) (*ProviderTokens, error)

	/*
		Delete removes the stored provider tokens for an account.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, accountID string) error
}

// # Token Issuance

// TokenProvider defines the contract for signing and verifying platform tokens.
// [*sec.TokenCodec] is the production implementation.
type TokenProvider interface {
	// IssueAccessToken creates a signed access token for the user.
	IssueAccessToken(userID, email string) (sec.SignedToken, error)

	// IssueRefreshToken creates a signed refresh token and returns its token id.
	IssueRefreshToken(userID, email string) (sec.SignedToken, string, error)

	// Verify checks signature and expiry, returning the embedded claims.
	Verify(tokenString string) (*sec.TokenClaims, error)

	// ExtractTokenID decodes the jti without verification (logout path only).
	ExtractTokenID(tokenString string) string
}
