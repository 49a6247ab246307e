// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

// Package ctxutil provides typed accessors for request-scoped values
// stored in the context by middleware.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/crealink/crealink/internal/platform/ctxkey"
	"github.com/crealink/crealink/internal/platform/sec"
)

// WithRequestID returns a copy of ctx carrying the request correlation ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, requestID)
}

// WithLogger returns a copy of ctx carrying the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// WithAuthUser returns a copy of ctx carrying the verified token claims.
func WithAuthUser(ctx context.Context, claims *sec.TokenClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, claims)
}

/*
GetAuthUser extracts the authenticated token claims from the context.

Parameters:
  - ctx: request context populated by the authentication middleware

Returns:
  - *sec.TokenClaims: the verified claims, or nil when the request is anonymous
*/
func GetAuthUser(ctx context.Context) *sec.TokenClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

/*
GetRequestID extracts the request correlation ID from the context.

Parameters:
  - ctx: request context populated by the request ID middleware

Returns:
  - string: the request ID, or "" when absent
*/
func GetRequestID(ctx context.Context) string {
	id, ok := ctx.Value(ctxkey.KeyRequestID).(string)
	if !ok {
		return ""
	}
	return id
}

/*
GetLogger extracts the per-request logger from the context.

Falls back to [slog.Default] so callers never receive nil.

Parameters:
  - ctx: request context populated by the logging middleware

Returns:
  - *slog.Logger: the request-scoped logger, or the process default
*/
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}
