// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crealink/crealink/pkg/pagination"
)

/*
TestFromRequest verifies query parsing and the clamping rules.
*/
func TestFromRequest(t *testing.T) {
	testCases := []struct {
		name          string
		query         string
		expectedPage  int
		expectedLimit int
	}{
		{name: "defaults", query: "", expectedPage: 1, expectedLimit: pagination.DefaultLimit},
		{name: "explicit values", query: "?page=3&limit=25", expectedPage: 3, expectedLimit: 25},
		{name: "negative page clamps", query: "?page=-1", expectedPage: 1, expectedLimit: pagination.DefaultLimit},
		{name: "oversized limit clamps", query: "?limit=9999", expectedPage: 1, expectedLimit: pagination.DefaultLimit},
		{name: "non-numeric values", query: "?page=abc&limit=xyz", expectedPage: 1, expectedLimit: pagination.DefaultLimit},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/campaigns"+testCase.query, nil)

			params := pagination.FromRequest(request)

			assert.Equal(t, testCase.expectedPage, params.Page)
			assert.Equal(t, testCase.expectedLimit, params.Limit)
		})
	}
}

/*
TestOffset verifies the SQL offset derivation.
*/
func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
}

/*
TestNewMeta verifies total page calculation, including partial pages.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 20, 41)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, 41, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	assert.Equal(t, 0, pagination.NewMeta(1, 0, 10).TotalPages)
}
