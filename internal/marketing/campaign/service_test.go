// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package campaign

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/pkg/pagination"
	"github.com/crealink/crealink/pkg/uuid"
)

// # Fakes

type fakeRepo struct {
	rows map[string]*Campaign
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]*Campaign{}}
}

func (r *fakeRepo) Create(_ context.Context, campaign *Campaign) error {
	if campaign.ID == "" {
		campaign.ID = uuid.New()
	}
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	copied := *campaign
	r.rows[campaign.ID] = &copied
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*Campaign, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, apperr.NotFound("Campaign")
	}
	copied := *row
	return &copied, nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, ownerID string, params pagination.Params) ([]*Campaign, int, error) {
	owned := make([]*Campaign, 0)
	for _, row := range r.rows {
		if row.OwnerID == ownerID {
			copied := *row
			owned = append(owned, &copied)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })

	total := len(owned)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	return owned[start:end], total, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id, status string) error {
	row, ok := r.rows[id]
	if !ok {
		return apperr.NotFound("Campaign")
	}
	row.Status = status
	row.UpdatedAt = time.Now()
	return nil
}

// # Tests

/*
TestService_Create verifies draft creation, slug derivation, and the
validation rules.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a draft with a derived slug", func(t *testing.T) {
		service := NewService(newFakeRepo())

		entity, err := service.Create(ctx, "brand-1", CreateInput{
			Name:        "Summer Launch 2026",
			Description: "Creator push for the summer line.",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, entity.ID)
		assert.Equal(t, "brand-1", entity.OwnerID)
		assert.Equal(t, StatusDraft, entity.Status)
		assert.Equal(t, "summer-launch-2026", entity.Slug)
	})

	t.Run("validation failures", func(t *testing.T) {
		service := NewService(newFakeRepo())

		testCases := []struct {
			name  string
			input CreateInput
		}{
			{name: "empty name", input: CreateInput{Name: ""}},
			{name: "name too long", input: CreateInput{Name: strings.Repeat("x", maxNameLength+1)}},
			{name: "description too long", input: CreateInput{Name: "ok", Description: strings.Repeat("x", maxDescriptionLength+1)}},
		}

		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				_, err := service.Create(ctx, "brand-1", testCase.input)

				assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
			})
		}
	})
}

/*
TestService_Get verifies owner scoping: foreign campaigns read as absent.
*/
func TestService_Get(t *testing.T) {
	service := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := service.Create(ctx, "brand-1", CreateInput{Name: "Owned"})
	require.NoError(t, err)

	t.Run("owner sees the campaign", func(t *testing.T) {
		entity, err := service.Get(ctx, "brand-1", created.ID)

		require.NoError(t, err)
		assert.Equal(t, created.ID, entity.ID)
	})

	t.Run("foreign caller gets not found", func(t *testing.T) {
		_, err := service.Get(ctx, "brand-2", created.ID)

		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := service.Get(ctx, "brand-1", uuid.New())

		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}

/*
TestService_List verifies owner filtering and pagination metadata.
*/
func TestService_List(t *testing.T) {
	service := NewService(newFakeRepo())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := service.Create(ctx, "brand-1", CreateInput{Name: "Campaign " + strings.Repeat("I", i+1)})
		require.NoError(t, err)
	}
	_, err := service.Create(ctx, "brand-2", CreateInput{Name: "Foreign"})
	require.NoError(t, err)

	campaigns, meta, err := service.List(ctx, "brand-1", pagination.Params{Page: 1, Limit: 3})

	require.NoError(t, err)
	assert.Len(t, campaigns, 3)
	assert.Equal(t, 5, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)

	for _, entity := range campaigns {
		assert.Equal(t, "brand-1", entity.OwnerID)
	}
}

/*
TestService_Activate verifies the one-way draft to active transition.
*/
func TestService_Activate(t *testing.T) {
	ctx := context.Background()

	t.Run("activates a draft", func(t *testing.T) {
		service := NewService(newFakeRepo())
		created, err := service.Create(ctx, "brand-1", CreateInput{Name: "Launch"})
		require.NoError(t, err)

		entity, err := service.Activate(ctx, "brand-1", created.ID)

		require.NoError(t, err)
		assert.Equal(t, StatusActive, entity.Status)
	})

	t.Run("rejects a second activation", func(t *testing.T) {
		service := NewService(newFakeRepo())
		created, err := service.Create(ctx, "brand-1", CreateInput{Name: "Launch"})
		require.NoError(t, err)

		_, err = service.Activate(ctx, "brand-1", created.ID)
		require.NoError(t, err)

		_, err = service.Activate(ctx, "brand-1", created.ID)

		assert.True(t, apperr.IsCode(err, "UNPROCESSABLE"))
	})

	t.Run("foreign caller cannot activate", func(t *testing.T) {
		service := NewService(newFakeRepo())
		created, err := service.Create(ctx, "brand-1", CreateInput{Name: "Launch"})
		require.NoError(t, err)

		_, err = service.Activate(ctx, "brand-2", created.ID)

		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}
