// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT signing, HMAC
// state signing) from the domain logic. It acts as an Infrastructure service
// injected into the Application layer via small interfaces defined at the
// point of use.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/crealink/crealink/pkg/uuid"
)

// TokenKind distinguishes the two token families issued by the platform.
type TokenKind string

const (
	// TokenKindAccess marks short-lived, stateless request credentials.
	TokenKindAccess TokenKind = "access"

	// TokenKindRefresh marks longer-lived credentials mirrored by a
	// server-side session record keyed on the token id.
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims is the payload embedded inside every signed token.
//
// # Payload Discipline
//
// Only subject, email, and kind are carried — the access path never needs a
// database hit, and the refresh path resolves everything else from the
// session record. The token id (jti) rides in RegisteredClaims.ID and is set
// only for refresh tokens.
type TokenClaims struct {
	jwt.RegisteredClaims

	Email string    `json:"email"`
	Kind  TokenKind `json:"kind"`
}

// TokenID returns the embedded token id (jti), empty for access tokens.
func (c *TokenClaims) TokenID() string { return c.ID }

// SignedToken pairs a signed token string with its expiry instant.
type SignedToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenCodec signs and verifies HMAC-SHA256 (HS256) tokens.
type TokenCodec struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenCodec creates a new TokenCodec.
//
// The secret must be at least 32 characters; anything shorter is a
// construction-time error, mirroring the config-level check so the codec
// stays safe even when wired outside config.Load.
func NewTokenCodec(secret, issuer string, accessTTL, refreshTTL time.Duration) (*TokenCodec, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("sec: token secret must be at least 32 characters")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("sec: token lifetimes must be positive")
	}

	return &TokenCodec{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (codec *TokenCodec) AccessTokenTTL() time.Duration { return codec.accessTTL }

// RefreshTokenTTL returns the configured refresh token lifetime.
func (codec *TokenCodec) RefreshTokenTTL() time.Duration { return codec.refreshTTL }

// IssueAccessToken creates a signed access token for the user.
//
// Access tokens carry no token id: they are never persisted and cannot be
// revoked individually; their short TTL bounds exposure.
func (codec *TokenCodec) IssueAccessToken(userID, email string) (SignedToken, error) {
	return codec.issue(TokenKindAccess, userID, email, "", codec.accessTTL)
}

// IssueRefreshToken creates a signed refresh token with a fresh token id.
//
// # Returns
//   - SignedToken: The signed token and its expiry.
//   - string: The embedded token id (jti) — the caller must persist the
//     matching session under this id for the token to be honorable.
func (codec *TokenCodec) IssueRefreshToken(userID, email string) (SignedToken, string, error) {
	tokenID := uuid.New()
	signed, err := codec.issue(TokenKindRefresh, userID, email, tokenID, codec.refreshTTL)
	if err != nil {
		return SignedToken{}, "", err
	}
	return signed, tokenID, nil
}

// issue signs a token of the given kind with the given lifetime.
func (codec *TokenCodec) issue(kind TokenKind, userID, email, tokenID string, timeToLive time.Duration) (SignedToken, error) {
	currentTime := time.Now()
	expiresAt := currentTime.Add(timeToLive)

	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   userID,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
		Kind:  kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return SignedToken{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return SignedToken{Value: signedToken, ExpiresAt: expiresAt}, nil
}

// Verify checks the signature and validity of a token string.
//
// It rejects bad signatures, expired tokens, and structural garbage alike.
// It does NOT enforce the token kind — callers must check [TokenClaims.Kind]
// against their own expectation.
func (codec *TokenCodec) Verify(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return codec.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}

// ExtractTokenID decodes the token id (jti) without verifying the signature.
//
// Best-effort identification only — suitable for finding which session to
// drop during logout, never for authorization decisions.
func (codec *TokenCodec) ExtractTokenID(tokenString string) string {
	claims := &TokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return ""
	}
	return claims.ID
}
