// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/internal/platform/dberr"
)

/*
TestWrap tests the classification of database errors into application errors.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"no_rows", pgx.ErrNoRows, "NOT_FOUND"},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), "NOT_FOUND"},
		{"unique_violation", &pgconn.PgError{Code: "23505", ConstraintName: "account_email_key"}, "CONFLICT"},
		{"foreign_key_violation", &pgconn.PgError{Code: "23503"}, "UNPROCESSABLE"},
		{"other_pg_error", &pgconn.PgError{Code: "42P01"}, "INTERNAL_ERROR"},
		{"plain_error", errors.New("connection reset"), "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "test_action")
			require.Error(t, wrapped)
			assert.True(t, apperr.IsCode(wrapped, tt.wantCode))
		})
	}
}

/*
TestWrap_Nil tests that a nil error passes through untouched.
*/
func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "test_action"))
}

/*
TestWrap_ConflictMessage tests that the action label lands in the conflict
message shown to clients.
*/
func TestWrap_ConflictMessage(t *testing.T) {
	wrapped := dberr.Wrap(&pgconn.PgError{Code: "23505"}, "postgres_user_repo_create")

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "postgres_user_repo_create: resource already exists", ae.Message)
}
