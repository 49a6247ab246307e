// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package profile

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crealink/crealink/internal/platform/apperr"
)

// # Fakes

type fakeRepo struct {
	rows map[string]*Profile
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]*Profile{}}
}

func (r *fakeRepo) FindByUserID(_ context.Context, userID string) (*Profile, error) {
	row, ok := r.rows[userID]
	if !ok {
		return nil, apperr.NotFound("Profile")
	}
	copied := *row
	return &copied, nil
}

func (r *fakeRepo) Update(_ context.Context, profile *Profile) error {
	if _, ok := r.rows[profile.UserID]; !ok {
		return apperr.NotFound("Profile")
	}
	copied := *profile
	copied.UpdatedAt = time.Now()
	r.rows[profile.UserID] = &copied
	return nil
}

func (r *fakeRepo) seed(userID, displayName string) {
	now := time.Now()
	r.rows[userID] = &Profile{
		UserID:      userID,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// # Tests

/*
TestService_Get verifies profile retrieval and the missing-row error.
*/
func TestService_Get(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("user-1", "Creator One")
	service := NewService(repo)
	ctx := context.Background()

	t.Run("returns the owned profile", func(t *testing.T) {
		entity, err := service.Get(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, "Creator One", entity.DisplayName)
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := service.Get(ctx, "ghost")

		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}

/*
TestService_Update verifies field replacement, validation rules and the
missing-row error.
*/
func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces mutable fields", func(t *testing.T) {
		repo := newFakeRepo()
		repo.seed("user-1", "Creator One")
		service := NewService(repo)

		entity, err := service.Update(ctx, "user-1", UpdateInput{
			DisplayName: "Creator Prime",
			Bio:         "Short-form video, long-form opinions.",
			AvatarURL:   "https://cdn.crealink.io/avatars/user-1.png",
		})

		require.NoError(t, err)
		assert.Equal(t, "Creator Prime", entity.DisplayName)
		assert.Equal(t, "Short-form video, long-form opinions.", entity.Bio)

		persisted, err := repo.FindByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "Creator Prime", persisted.DisplayName)
	})

	t.Run("validation failures", func(t *testing.T) {
		repo := newFakeRepo()
		repo.seed("user-1", "Creator One")
		service := NewService(repo)

		testCases := []struct {
			name  string
			input UpdateInput
		}{
			{name: "empty display name", input: UpdateInput{DisplayName: ""}},
			{name: "display name too long", input: UpdateInput{DisplayName: strings.Repeat("x", maxDisplayNameLength+1)}},
			{name: "bio too long", input: UpdateInput{DisplayName: "ok", Bio: strings.Repeat("x", maxBioLength+1)}},
			{name: "avatar url too long", input: UpdateInput{DisplayName: "ok", AvatarURL: "https://" + strings.Repeat("x", maxAvatarURLLength)}},
		}

		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				_, err := service.Update(ctx, "user-1", testCase.input)

				assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
			})
		}

		// Failed updates must not mutate the stored row.
		persisted, err := repo.FindByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "Creator One", persisted.DisplayName)
	})

	t.Run("missing profile", func(t *testing.T) {
		service := NewService(newFakeRepo())

		_, err := service.Update(ctx, "ghost", UpdateInput{DisplayName: "Anyone"})

		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}
