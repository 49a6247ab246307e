// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

/*
Package profile manages the public creator/brand profile attached to every
account.

A profile row is created together with the account and lives for as long as
the account does; the package only ever reads and updates it.
*/
package profile

import "time"

// # Domain Entities

// Profile is the public-facing presence of one account.
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation in the profile domain.
const (
	FieldDisplayName = "display_name"
	FieldBio         = "bio"
	FieldAvatarURL   = "avatar_url"
	FieldProfile     = "profile"
)

// # Value Constraints

const (
	maxDisplayNameLength = 100
	maxBioLength         = 1000
	maxAvatarURLLength   = 2048
)
