// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/internal/platform/sec"
)

// # In-Memory Fakes

type fakeUserRepository struct {
	users        map[string]*User // keyed by id
	displayNames map[string]string
	nextRoleName map[int64]string
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users:        make(map[string]*User),
		displayNames: make(map[string]string),
		nextRoleName: make(map[int64]string),
	}
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.UserNotFound()
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.UserNotFound()
}

func (f *fakeUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepository) CreateWithProfile(_ context.Context, user *User, displayName string) error {
	copied := *user
	f.users[user.ID] = &copied
	f.displayNames[user.ID] = displayName
	return nil
}

func (f *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.UserNotFound()
	}
	user.PasswordHash = &newHash
	return nil
}

func (f *fakeUserRepository) UpdateRole(_ context.Context, userID string, roleID int64) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.UserNotFound()
	}
	user.RoleID = roleID
	if name, ok := f.nextRoleName[roleID]; ok {
		user.Role = name
	}
	return nil
}

type fakeRoleRepository struct {
	ids   map[string]int64
	names map[int64]string
	next  int64
	users *fakeUserRepository
}

func newFakeRoleRepository(users *fakeUserRepository) *fakeRoleRepository {
	return &fakeRoleRepository{
		ids:   make(map[string]int64),
		names: make(map[int64]string),
		users: users,
	}
}

func (f *fakeRoleRepository) EnsureByName(_ context.Context, name string) (int64, error) {
	if id, ok := f.ids[name]; ok {
		return id, nil
	}
	f.next++
	f.ids[name] = f.next
	f.names[f.next] = name
	if f.users != nil {
		f.users.nextRoleName[f.next] = name
	}
	return f.next, nil
}

type fakeSessionRepository struct {
	sessions     map[string]RefreshSession // keyed by token id
	beforeRevoke func()                    // runs before each Revoke when set
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: make(map[string]RefreshSession)}
}

func (f *fakeSessionRepository) Put(_ context.Context, tokenID, userID string, expiresAt time.Time) error {
	if !expiresAt.After(time.Now()) {
		return assert.AnError
	}
	f.sessions[tokenID] = RefreshSession{UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeSessionRepository) Exists(_ context.Context, tokenID string) (bool, error) {
	_, ok := f.sessions[tokenID]
	return ok, nil
}

func (f *fakeSessionRepository) Revoke(_ context.Context, tokenID string) (bool, error) {
	if f.beforeRevoke != nil {
		f.beforeRevoke()
	}
	_, ok := f.sessions[tokenID]
	delete(f.sessions, tokenID)
	return ok, nil
}

func (f *fakeSessionRepository) RevokeAll(_ context.Context, userID string) error {
	for id, session := range f.sessions {
		if session.UserID == userID {
			delete(f.sessions, id)
		}
	}
	return nil
}

func (f *fakeSessionRepository) countFor(userID string) int {
	count := 0
	for _, session := range f.sessions {
		if session.UserID == userID {
			count++
		}
	}
	return count
}

type fakeLockoutRepository struct {
	records     map[string]*LockoutRecord
	maxAttempts int
	window      time.Duration
}

func newFakeLockoutRepository(maxAttempts int, window time.Duration) *fakeLockoutRepository {
	return &fakeLockoutRepository{
		records:     make(map[string]*LockoutRecord),
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (f *fakeLockoutRepository) RecordFailedAttempt(_ context.Context, email string) error {
	now := time.Now()
	record := f.records[email]
	if record != nil && record.Attempts >= f.maxAttempts && now.Before(record.LockedUntil) {
		return nil
	}
	attempts := 1
	if record != nil {
		attempts = record.Attempts + 1
	}
	f.records[email] = &LockoutRecord{Attempts: attempts, LockedUntil: now.Add(f.window)}
	return nil
}

func (f *fakeLockoutRepository) IsLocked(_ context.Context, email string) (bool, time.Time, error) {
	record := f.records[email]
	if record == nil {
		return false, time.Time{}, nil
	}
	if !time.Now().Before(record.LockedUntil) {
		delete(f.records, email)
		return false, time.Time{}, nil
	}
	if record.Attempts >= f.maxAttempts {
		return true, record.LockedUntil, nil
	}
	return false, time.Time{}, nil
}

func (f *fakeLockoutRepository) Clear(_ context.Context, email string) error {
	delete(f.records, email)
	return nil
}

type fakeResetTokenRepository struct {
	tokens map[string]string // token -> userID
	lastSet string
}

func newFakeResetTokenRepository() *fakeResetTokenRepository {
	return &fakeResetTokenRepository{tokens: make(map[string]string)}
}

func (f *fakeResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	f.tokens[token] = userID
	f.lastSet = token
	return nil
}

func (f *fakeResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return "", apperr.InvalidResetToken()
	}
	return userID, nil
}

func (f *fakeResetTokenRepository) Delete(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

// # Harness

type serviceFixture struct {
	service  *Service
	users    *fakeUserRepository
	roles    *fakeRoleRepository
	sessions *fakeSessionRepository
	lockouts *fakeLockoutRepository
	resets   *fakeResetTokenRepository
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	codec, err := sec.NewTokenCodec(
		"unit-test-secret-of-at-least-32-chars!!",
		"crealink.io",
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)

	users := newFakeUserRepository()
	roles := newFakeRoleRepository(users)
	sessions := newFakeSessionRepository()
	lockouts := newFakeLockoutRepository(5, 15*time.Minute)
	resets := newFakeResetTokenRepository()

	return &serviceFixture{
		service:  NewService(users, roles, sessions, lockouts, resets, codec, 15*time.Minute),
		users:    users,
		roles:    roles,
		sessions: sessions,
		lockouts: lockouts,
		resets:   resets,
	}
}

func (fx *serviceFixture) registerCreator(t *testing.T, email, password string) *User {
	t.Helper()
	user, _, err := fx.service.Register(context.Background(), RegisterInput{
		Email:       email,
		Password:    password,
		DisplayName: "Test Creator",
		Role:        RoleCreator,
	})
	require.NoError(t, err)
	return user
}

// # Registration

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user, profile, and session", func(t *testing.T) {
		fx := newServiceFixture(t)

		user, pair, err := fx.service.Register(ctx, RegisterInput{
			Email:       "mia@crealink.io",
			Password:    "super-secret-1",
			DisplayName: "Mia",
			Role:        RoleBrand,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, user.ID)
		assert.Equal(t, RoleBrand, user.Role)
		assert.Equal(t, "Mia", fx.users.displayNames[user.ID])
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		// The refresh session must be live server-side
		assert.Equal(t, 1, fx.sessions.countFor(user.ID))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		fx := newServiceFixture(t)
		fx.registerCreator(t, "mia@crealink.io", "super-secret-1")

		_, _, err := fx.service.Register(ctx, RegisterInput{
			Email:       "mia@crealink.io",
			Password:    "another-secret",
			DisplayName: "Mia Again",
			Role:        RoleCreator,
		})

		assert.True(t, apperr.IsCode(err, "USER_ALREADY_EXISTS"))
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		fx := newServiceFixture(t)

		_, _, err := fx.service.Register(ctx, RegisterInput{
			Email:       "mia@crealink.io",
			Password:    "super-secret-1",
			DisplayName: "Mia",
			Role:        "superuser",
		})

		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("rejects weak password", func(t *testing.T) {
		fx := newServiceFixture(t)

		_, _, err := fx.service.Register(ctx, RegisterInput{
			Email:       "mia@crealink.io",
			Password:    "short",
			DisplayName: "Mia",
			Role:        RoleCreator,
		})

		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}

// # Login & Lockout

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds with valid credentials", func(t *testing.T) {
		fx := newServiceFixture(t)
		registered := fx.registerCreator(t, "mia@crealink.io", "super-secret-1")

		user, pair, err := fx.service.Login(ctx, LoginInput{
			Email:    "mia@crealink.io",
			Password: "super-secret-1",
		})
		require.NoError(t, err)

		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("unknown email returns UserNotFound and counts an attempt", func(t *testing.T) {
		fx := newServiceFixture(t)

		_, _, err := fx.service.Login(ctx, LoginInput{
			Email:    "ghost@crealink.io",
			Password: "whatever-pass",
		})

		assert.True(t, apperr.IsCode(err, "USER_NOT_FOUND"))
		assert.Equal(t, 1, fx.lockouts.records["ghost@crealink.io"].Attempts)
	})

	t.Run("locks the email after the attempt threshold", func(t *testing.T) {
		fx := newServiceFixture(t)
		fx.registerCreator(t, "mia@crealink.io", "super-secret-1")

		// Burn through the full attempt budget
		for i := 0; i < 5; i++ {
			_, _, err := fx.service.Login(ctx, LoginInput{
				Email:    "mia@crealink.io",
				Password: "wrong-password",
			})
			assert.True(t, apperr.IsCode(err, "INVALID_PASSWORD"))
		}

		// The sixth attempt hits the gate, even with the RIGHT password
		_, _, err := fx.service.Login(ctx, LoginInput{
			Email:    "mia@crealink.io",
			Password: "super-secret-1",
		})
		require.True(t, apperr.IsCode(err, "TOO_MANY_ATTEMPTS"))

		lockedUntil, ok := apperr.As(err).Meta["locked_until"].(time.Time)
		require.True(t, ok)
		assert.True(t, lockedUntil.After(time.Now()))
	})

	t.Run("successful login clears the failure counter", func(t *testing.T) {
		fx := newServiceFixture(t)
		fx.registerCreator(t, "mia@crealink.io", "super-secret-1")

		for i := 0; i < 4; i++ {
			_, _, _ = fx.service.Login(ctx, LoginInput{
				Email:    "mia@crealink.io",
				Password: "wrong-password",
			})
		}

		_, _, err := fx.service.Login(ctx, LoginInput{
			Email:    "mia@crealink.io",
			Password: "super-secret-1",
		})
		require.NoError(t, err)

		// The slate is clean: the next failure starts from one again
		assert.Nil(t, fx.lockouts.records["mia@crealink.io"])
	})

	t.Run("oauth-only account cannot password-login", func(t *testing.T) {
		fx := newServiceFixture(t)

		// Account with no password hash, as the OAuth path creates them
		fx.users.users["oauth-user"] = &User{
			ID:    "oauth-user",
			Email: "social@crealink.io",
			Role:  RoleCreator,
		}

		_, _, err := fx.service.Login(ctx, LoginInput{
			Email:    "social@crealink.io",
			Password: "any-password-1",
		})

		assert.True(t, apperr.IsCode(err, "INVALID_PASSWORD"))
	})
}

// # Session Rotation

func TestService_RefreshSession(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the session", func(t *testing.T) {
		fx := newServiceFixture(t)
		user := fx.registerCreator(t, "mia@crealink.io", "super-secret-1")

		_, pair, err := fx.service.Login(ctx, LoginInput{
			Email:    "mia@crealink.io",
			Password: "super-secret-1",
		})
		require.NoError(t, err)

		refreshed, newPair, err := fx.service.RefreshSession(ctx, pair.RefreshToken)
		require.NoError(t, err)

		assert.Equal(t, user.ID, refreshed.ID)
		assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)
	})

	t.Run("refresh token is single use", func(t *testing.T) {
		fx := newServiceFixture(t)
		fx.registerCreator(t, "mia@crealink.io", "super-secret-1")

		_, pair, err := fx.service.Login(ctx, LoginInput{
			Email:    "mia@crealink.io",
			Password: "super-secret-1",
		})
		require.NoError(t, err)

		_, _, err = fx.service.RefreshSession(ctx, pair.RefreshToken)
		require.NoError(t, err)

		// Replaying the consumed token must fail
		_, _, err = fx.service.RefreshSession(ctx, pair.RefreshToken)
		assert.True(t, apperr.IsCode(err, "INVALID_TOKEN"))
	})

	t.Run("loser of a concurrent rotation is rejected", func(t *testing.T) {
		fx := newServiceFixture(t)
		user := fx.registerCreator(t, "mia@crealink.io", "super-secret-1")

		_, pair, err := fx.service.Login(ctx, LoginInput{
			Email:    "mia@crealink.io",
			Password: "super-secret-1",
		})
		require.NoError(t, err)

		// A competing rotation commits between the liveness check and the
		// revoke: the session vanishes under this caller's feet
		fx.sessions.beforeRevoke = func() {
			fx.sessions.beforeRevoke = nil
			for id := range fx.sessions.sessions {
				delete(fx.sessions.sessions, id)
			}
		}

		_, _, err = fx.service.RefreshSession(ctx, pair.RefreshToken)
		assert.True(t, apperr.IsCode(err, "INVALID_TOKEN"))
		assert.Zero(t, fx.sessions.countFor(user.ID))
	})

	t.Run("rejects an access token", func(t *testing.T) {
		fx := newServiceFixture(t)
		fx.registerCreator(t, "mia@crealink.io", "super-secret-1")

		_, pair, err := fx.service.Login(ctx, LoginInput{
			Email:    "mia@crealink.io",
			Password: "super-secret-1",
		})
		require.NoError(t, err)

		_, _, err = fx.service.RefreshSession(ctx, pair.AccessToken)
		assert.True(t, apperr.IsCode(err, "INVALID_TOKEN"))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		fx := newServiceFixture(t)

		_, _, err := fx.service.RefreshSession(ctx, "not-a-token")
		assert.True(t, apperr.IsCode(err, "INVALID_TOKEN"))
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the session", func(t *testing.T) {
		fx := newServiceFixture(t)
		user := fx.registerCreator(t, "mia@crealink.io", "super-secret-1")

		_, pair, err := fx.service.Login(ctx, LoginInput{
			Email:    "mia@crealink.io",
			Password: "super-secret-1",
		})
		require.NoError(t, err)
		require.Equal(t, 2, fx.sessions.countFor(user.ID)) // register + login

		require.NoError(t, fx.service.Logout(ctx, pair.RefreshToken))
		assert.Equal(t, 1, fx.sessions.countFor(user.ID))

		// The revoked token can no longer rotate
		_, _, err = fx.service.RefreshSession(ctx, pair.RefreshToken)
		assert.True(t, apperr.IsCode(err, "INVALID_TOKEN"))
	})

	t.Run("is idempotent and tolerant of garbage", func(t *testing.T) {
		fx := newServiceFixture(t)

		assert.NoError(t, fx.service.Logout(ctx, "garbage"))
		assert.NoError(t, fx.service.Logout(ctx, ""))
	})
}

// # Password Reset

func TestService_PasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("full reset flow", func(t *testing.T) {
		fx := newServiceFixture(t)
		user := fx.registerCreator(t, "mia@crealink.io", "old-password-1")

		require.NoError(t, fx.service.RequestPasswordReset(ctx, "mia@crealink.io"))
		token := fx.resets.lastSet
		require.NotEmpty(t, token)

		// Probe does not consume
		valid, err := fx.service.VerifyResetToken(ctx, token)
		require.NoError(t, err)
		assert.True(t, valid)

		require.NoError(t, fx.service.ResetPassword(ctx, token, "new-password-1"))

		// Old password dead, new password lives
		_, _, err = fx.service.Login(ctx, LoginInput{Email: "mia@crealink.io", Password: "old-password-1"})
		assert.True(t, apperr.IsCode(err, "INVALID_PASSWORD"))

		_, _, err = fx.service.Login(ctx, LoginInput{Email: "mia@crealink.io", Password: "new-password-1"})
		assert.NoError(t, err)

		// Reset was the panic button: the pre-reset session is gone.
		// (registerCreator opened one, plus the failed+successful logins above.)
		assert.LessOrEqual(t, fx.sessions.countFor(user.ID), 1)
	})

	t.Run("token is single use", func(t *testing.T) {
		fx := newServiceFixture(t)
		fx.registerCreator(t, "mia@crealink.io", "old-password-1")

		require.NoError(t, fx.service.RequestPasswordReset(ctx, "mia@crealink.io"))
		token := fx.resets.lastSet

		require.NoError(t, fx.service.ResetPassword(ctx, token, "new-password-1"))

		err := fx.service.ResetPassword(ctx, token, "evil-password-1")
		assert.True(t, apperr.IsCode(err, "INVALID_RESET_TOKEN"))
	})

	t.Run("unknown email is indistinguishable from success", func(t *testing.T) {
		fx := newServiceFixture(t)

		assert.NoError(t, fx.service.RequestPasswordReset(ctx, "ghost@crealink.io"))
		assert.Empty(t, fx.resets.tokens)
	})

	t.Run("unknown token is invalid, not an error", func(t *testing.T) {
		fx := newServiceFixture(t)

		valid, err := fx.service.VerifyResetToken(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, valid)
	})
}

// # Role Management

func TestService_UpdateUserRole(t *testing.T) {
	ctx := context.Background()

	t.Run("admin reassigns a role", func(t *testing.T) {
		fx := newServiceFixture(t)
		target := fx.registerCreator(t, "mia@crealink.io", "super-secret-1")

		// Seed an admin directly
		adminRoleID, err := fx.roles.EnsureByName(ctx, RoleAdmin)
		require.NoError(t, err)
		fx.users.users["admin-1"] = &User{
			ID:     "admin-1",
			Email:  "admin@crealink.io",
			Role:   RoleAdmin,
			RoleID: adminRoleID,
		}

		updated, err := fx.service.UpdateUserRole(ctx, "admin-1", target.ID, RoleBrand)
		require.NoError(t, err)
		assert.Equal(t, RoleBrand, updated.Role)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		fx := newServiceFixture(t)
		actor := fx.registerCreator(t, "mia@crealink.io", "super-secret-1")
		target := fx.registerCreator(t, "leo@crealink.io", "super-secret-2")

		_, err := fx.service.UpdateUserRole(ctx, actor.ID, target.ID, RoleAdmin)
		assert.True(t, apperr.IsCode(err, "FORBIDDEN"))
	})
}
