// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package ctxutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/crealink/crealink/internal/platform/ctxkey"
	"github.com/crealink/crealink/internal/platform/sec"
)

func TestGetAuthUser(t *testing.T) {
	t.Run("returns claims when present", func(t *testing.T) {
		claims := &sec.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
			Email:            "creator@crealink.io",
			Kind:             sec.TokenKindAccess,
		}
		ctx := context.WithValue(context.Background(), ctxkey.KeyUser, claims)

		got := GetAuthUser(ctx)

		assert.Equal(t, claims, got)
	})

	t.Run("returns nil for anonymous context", func(t *testing.T) {
		assert.Nil(t, GetAuthUser(context.Background()))
	})

	t.Run("returns nil for wrong value type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ctxkey.KeyUser, "not-claims")

		assert.Nil(t, GetAuthUser(ctx))
	})
}

func TestGetRequestID(t *testing.T) {
	t.Run("returns stored request ID", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ctxkey.KeyRequestID, "req-123")

		assert.Equal(t, "req-123", GetRequestID(ctx))
	})

	t.Run("returns empty string when absent", func(t *testing.T) {
		assert.Equal(t, "", GetRequestID(context.Background()))
	})
}

func TestGetLogger(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		logger := slog.Default().With("request_id", "req-123")
		ctx := context.WithValue(context.Background(), ctxkey.KeyLogger, logger)

		assert.Same(t, logger, GetLogger(ctx))
	})

	t.Run("falls back to default logger", func(t *testing.T) {
		assert.NotNil(t, GetLogger(context.Background()))
	})
}
