// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, OAuthAccount) and the records held
in the volatile store (refresh sessions, lockout state, provider tokens).

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import "time"

// # Roles

// Role names understood by the platform. Creators and brands self-select at
// registration; admin is only ever assigned through the role endpoint.
const (
	RoleCreator = "creator"
	RoleBrand   = "brand"
	RoleAdmin   = "admin"
)

// # Domain Entities

// User represents a registered member of the Crealink platform.
//
// PasswordHash is nil for accounts created through an OAuth provider; such
// accounts can never authenticate with a password.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"` // Explicitly omitted from JSON for security.
	Role         string    `json:"role"`
	RoleID       int64     `json:"-"` // Relational role id; resolved via RoleRepository.
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword reports whether the account can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// OAuthAccount links a platform user to an external provider identity.
//
// The (Provider, ProviderUserID) pair is unique: one external identity maps
// to exactly one platform user.
type OAuthAccount struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Provider       string    `json:"provider"`
	ProviderUserID string    `json:"provider_user_id"`
	IsVerified     bool      `json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// # Volatile Records

// RefreshSession is the server-side record mirroring one refresh token,
// keyed by the token id (jti) in the volatile store.
type RefreshSession struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LockoutRecord tracks consecutive failed logins for one email.
type LockoutRecord struct {
	Attempts    int       `json:"attempts"`
	LockedUntil time.Time `json:"locked_until"`
}

// ProviderTokens holds the OAuth tokens received from a provider on behalf
// of a linked account. ExpiresAt is nil when the provider did not report a
// lifetime.
type ProviderTokens struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// IsExpired reports whether the provider access token is past its lifetime.
// Tokens without a reported lifetime are treated as still valid.
func (t *ProviderTokens) IsExpired() bool {
	return t.ExpiresAt != nil && time.Now().After(*t.ExpiresAt)
}

// TokenPair is the credential set issued on every successful authentication.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldNewPassword  = "new_password"
	FieldDisplayName  = "display_name"
	FieldRole         = "role"
	FieldToken        = "token"
	FieldRefreshToken = "refresh_token"
	FieldAccessToken  = "access_token"
	FieldUser         = "user"
	FieldMessage      = "message"
	FieldValid        = "valid"
	FieldIsNewUser    = "is_new_user"
)
