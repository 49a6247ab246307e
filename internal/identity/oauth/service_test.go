// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package oauth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crealink/crealink/internal/identity/auth"
	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/internal/platform/sec"
	"github.com/crealink/crealink/pkg/uuid"
)

const testStateSecret = "oauth-state-secret-of-32-chars-min!!"

// # Fakes

// fakeProvider is a scriptable [Provider] for flow tests.
type fakeProvider struct {
	name        string
	exchangeErr error
	profileErr  error
	tokens      TokenResponse
	profile     UserProfile
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) AuthorizationURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (p *fakeProvider) ExchangeCode(_ context.Context, _ string) (*TokenResponse, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	tokens := p.tokens
	return &tokens, nil
}

func (p *fakeProvider) FetchUserProfile(_ context.Context, _ string) (*UserProfile, error) {
	if p.profileErr != nil {
		return nil, p.profileErr
	}
	profile := p.profile
	return &profile, nil
}

type fakeUserRepo struct {
	byID    map[string]*auth.User
	byEmail map[string]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*auth.User{}, byEmail: map[string]*auth.User{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := r.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.UserNotFound()
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, apperr.UserNotFound()
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *fakeUserRepo) CreateWithProfile(_ context.Context, user *auth.User, _ string) error {
	if user.ID == "" {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := r.byID[userID]
	if !ok {
		return apperr.UserNotFound()
	}
	user.PasswordHash = &newHash
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, userID string, roleID int64) error {
	user, ok := r.byID[userID]
	if !ok {
		return apperr.UserNotFound()
	}
	user.RoleID = roleID
	return nil
}

type fakeRoleRepo struct {
	ids map[string]int64
}

func (r *fakeRoleRepo) EnsureByName(_ context.Context, name string) (int64, error) {
	if r.ids == nil {
		r.ids = map[string]int64{}
	}
	if id, ok := r.ids[name]; ok {
		return id, nil
	}
	id := int64(len(r.ids) + 1)
	r.ids[name] = id
	return id, nil
}

type fakeOAuthRepo struct {
	links map[string]*auth.OAuthAccount // keyed provider + "/" + providerUserID
}

func newFakeOAuthRepo() *fakeOAuthRepo {
	return &fakeOAuthRepo{links: map[string]*auth.OAuthAccount{}}
}

func (r *fakeOAuthRepo) FindByProvider(_ context.Context, provider, providerUserID string) (*auth.OAuthAccount, error) {
	if link, ok := r.links[provider+"/"+providerUserID]; ok {
		return link, nil
	}
	return nil, apperr.NotFound("OAuth account")
}

func (r *fakeOAuthRepo) Create(_ context.Context, account *auth.OAuthAccount) error {
	key := account.Provider + "/" + account.ProviderUserID
	if _, ok := r.links[key]; ok {
		return apperr.Conflict("OAuth account already linked")
	}
	account.ID = uuid.New()
	r.links[key] = account
	return nil
}

type fakeVault struct {
	stored map[string]auth.ProviderTokens
}

func newFakeVault() *fakeVault {
	return &fakeVault{stored: map[string]auth.ProviderTokens{}}
}

func (v *fakeVault) Store(_ context.Context, accountID string, tokens auth.ProviderTokens) error {
	v.stored[accountID] = tokens
	return nil
}

func (v *fakeVault) Get(_ context.Context, accountID string) (*auth.ProviderTokens, error) {
	tokens, ok := v.stored[accountID]
	if !ok {
		return nil, apperr.NotFound("provider tokens")
	}
	return &tokens, nil
}

func (v *fakeVault) Delete(_ context.Context, accountID string) error {
	delete(v.stored, accountID)
	return nil
}

// fakeSessionIssuer hands out deterministic token pairs.
type fakeSessionIssuer struct {
	issued int
}

func (s *fakeSessionIssuer) IssueSession(_ context.Context, user *auth.User) (*auth.TokenPair, error) {
	s.issued++
	return &auth.TokenPair{
		AccessToken:      fmt.Sprintf("access-%s-%d", user.ID, s.issued),
		AccessExpiresAt:  time.Now().Add(15 * time.Minute),
		RefreshToken:     fmt.Sprintf("refresh-%s-%d", user.ID, s.issued),
		RefreshExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}, nil
}

// # Fixture

type oauthFixture struct {
	service  *Service
	provider *fakeProvider
	users    *fakeUserRepo
	links    *fakeOAuthRepo
	vault    *fakeVault
	sessions *fakeSessionIssuer
	signer   *sec.StateSigner
}

func newOAuthFixture(t *testing.T) *oauthFixture {
	t.Helper()

	signer, err := sec.NewStateSigner(testStateSecret)
	require.NoError(t, err)

	provider := &fakeProvider{
		name:   "google",
		tokens: TokenResponse{AccessToken: "provider-access", RefreshToken: "provider-refresh", ExpiresIn: 3600},
		profile: UserProfile{
			ProviderUserID: "ext-123",
			Email:          "creator@example.com",
			Name:           "Creator One",
		},
	}

	users := newFakeUserRepo()
	links := newFakeOAuthRepo()
	vault := newFakeVault()
	sessions := &fakeSessionIssuer{}

	service := NewService(
		Registry{"google": provider},
		signer,
		links,
		users,
		&fakeRoleRepo{},
		vault,
		sessions,
	)

	return &oauthFixture{
		service:  service,
		provider: provider,
		users:    users,
		links:    links,
		vault:    vault,
		sessions: sessions,
		signer:   signer,
	}
}

func (f *oauthFixture) validState() string {
	return f.signer.Sign("test-nonce")
}

// # Tests

/*
TestService_Initiate verifies consent URL construction and the unknown
provider rejection.
*/
func TestService_Initiate(t *testing.T) {
	fixture := newOAuthFixture(t)
	ctx := context.Background()

	t.Run("returns provider consent URL with signed state", func(t *testing.T) {
		consentURL, err := fixture.service.Initiate(ctx, "google")

		require.NoError(t, err)
		assert.Contains(t, consentURL, "https://provider.example/authorize?state=")
		assert.Contains(t, consentURL, ".") // state carries nonce.signature
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		_, err := fixture.service.Initiate(ctx, "myspace")

		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}

/*
TestService_Callback_NewUser verifies that a first-time provider login
creates a passwordless creator account, links it, and opens a session.
*/
func TestService_Callback_NewUser(t *testing.T) {
	fixture := newOAuthFixture(t)
	ctx := context.Background()

	result, err := fixture.service.Callback(ctx, "google", "auth-code", fixture.validState())

	require.NoError(t, err)
	assert.True(t, result.IsNewUser)
	assert.Equal(t, "creator@example.com", result.User.Email)
	assert.Equal(t, auth.RoleCreator, result.User.Role)
	assert.False(t, result.User.HasPassword())
	assert.NotEmpty(t, result.Tokens.AccessToken)

	// The external identity must be linked and verified.
	link, err := fixture.links.FindByProvider(ctx, "google", "ext-123")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, link.UserID)
	assert.False(t, link.IsVerified)

	// Provider tokens land in the vault with a derived expiry.
	stored, err := fixture.vault.Get(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "provider-access", stored.AccessToken)
	require.NotNil(t, stored.ExpiresAt)
	assert.False(t, stored.IsExpired())
}

/*
TestService_Callback_ExistingLink verifies that a repeated provider login
reuses the linked account instead of creating a duplicate.
*/
func TestService_Callback_ExistingLink(t *testing.T) {
	fixture := newOAuthFixture(t)
	ctx := context.Background()

	first, err := fixture.service.Callback(ctx, "google", "auth-code", fixture.validState())
	require.NoError(t, err)

	second, err := fixture.service.Callback(ctx, "google", "auth-code", fixture.validState())
	require.NoError(t, err)

	assert.True(t, first.IsNewUser)
	assert.False(t, second.IsNewUser)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Len(t, fixture.users.byID, 1)
	assert.Len(t, fixture.links.links, 1)
}

/*
TestService_Callback_LinksExistingEmail verifies that a provider identity
whose email matches a registered account links to it rather than creating
a second account.
*/
func TestService_Callback_LinksExistingEmail(t *testing.T) {
	fixture := newOAuthFixture(t)
	ctx := context.Background()

	hash := "$2a$10$existinghash"
	existing := &auth.User{Email: "creator@example.com", PasswordHash: &hash, Role: auth.RoleBrand}
	require.NoError(t, fixture.users.CreateWithProfile(ctx, existing, "Existing"))

	result, err := fixture.service.Callback(ctx, "google", "auth-code", fixture.validState())

	require.NoError(t, err)
	assert.False(t, result.IsNewUser)
	assert.Equal(t, existing.ID, result.User.ID)
	assert.Equal(t, auth.RoleBrand, result.User.Role) // role untouched by linking
	assert.Len(t, fixture.users.byID, 1)
}

/*
TestService_Callback_StateValidation verifies CSRF state enforcement:
tampered, unsigned, and foreign states are all rejected before any
provider traffic.
*/
func TestService_Callback_StateValidation(t *testing.T) {
	fixture := newOAuthFixture(t)
	ctx := context.Background()

	testCases := []struct {
		name  string
		state string
	}{
		{name: "unsigned nonce", state: "bare-nonce"},
		{name: "tampered signature", state: fixture.validState() + "ff"},
		{name: "empty state", state: ""},
		{name: "foreign signer", state: "nonce.0000000000000000000000000000000000000000000000000000000000000000"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := fixture.service.Callback(ctx, "google", "auth-code", testCase.state)

			assert.True(t, apperr.IsCode(err, "INVALID_OAUTH_STATE"))
		})
	}

	// No accounts may exist after rejected callbacks.
	assert.Empty(t, fixture.users.byID)
}

/*
TestService_Callback_ProviderFailure verifies that upstream exchange and
profile failures surface as a provider error without creating accounts.
*/
func TestService_Callback_ProviderFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("exchange failure", func(t *testing.T) {
		fixture := newOAuthFixture(t)
		fixture.provider.exchangeErr = fmt.Errorf("google_token_exchange_failed: status 400")

		_, err := fixture.service.Callback(ctx, "google", "bad-code", fixture.validState())

		assert.True(t, apperr.IsCode(err, "OAUTH_PROVIDER_ERROR"))
		assert.Empty(t, fixture.users.byID)
	})

	t.Run("profile failure", func(t *testing.T) {
		fixture := newOAuthFixture(t)
		fixture.provider.profileErr = fmt.Errorf("google_userinfo_failed: status 401")

		_, err := fixture.service.Callback(ctx, "google", "auth-code", fixture.validState())

		assert.True(t, apperr.IsCode(err, "OAUTH_PROVIDER_ERROR"))
		assert.Empty(t, fixture.users.byID)
	})

	t.Run("unknown provider", func(t *testing.T) {
		fixture := newOAuthFixture(t)

		_, err := fixture.service.Callback(ctx, "myspace", "auth-code", fixture.validState())

		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}
