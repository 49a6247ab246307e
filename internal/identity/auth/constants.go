// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package auth

import "time"

// # Authentication Constraints

const (
	// ResetTokenLength is the byte length of the random password reset token.
	// Hex encoding makes the wire value 64 characters.
	ResetTokenLength = 32

	// VaultTTLBuffer extends the vault record past the provider's reported
	// token expiry so an expired-but-refreshable token can still be found.
	VaultTTLBuffer = 24 * time.Hour

	// VaultFallbackTTL applies when the provider reports no token lifetime.
	VaultFallbackTTL = 7 * 24 * time.Hour
)
