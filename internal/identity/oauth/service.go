// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package oauth

import (
	"context"
	"log/slog"
	"time"

	"github.com/crealink/crealink/internal/identity/auth"
	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/internal/platform/ctxutil"
	"github.com/crealink/crealink/internal/platform/sec"
	"github.com/crealink/crealink/pkg/uuid"
)

// stateNonceLength is the CSPRNG byte count behind each state nonce.
const stateNonceLength = 32

// SessionIssuer mints a platform token pair for an authenticated user.
// [*auth.Service] is the production implementation.
type SessionIssuer interface {
	IssueSession(context context.Context, user *auth.User) (*auth.TokenPair, error)
}

// CallbackResult is the outcome of a completed provider callback.
type CallbackResult struct {
	User      *auth.User
	Tokens    *auth.TokenPair
	IsNewUser bool
}

// # Service Definition

// Service orchestrates the OAuth authorization-code flow: consent redirect,
// state validation, provider exchange, account linking and session issuance.
type Service struct {
	registry    Registry
	stateSigner *sec.StateSigner
	oauthRepo   auth.OAuthAccountRepository
	userRepo    auth.UserRepository
	roleRepo    auth.RoleRepository
	tokenVault  auth.ProviderTokenVault
	sessions    SessionIssuer
}

/*
NewService creates the OAuth orchestration service.

Parameters:
  - registry: Registry (configured provider adapters)
  - stateSigner: *sec.StateSigner
  - oauthRepo: auth.OAuthAccountRepository
  - userRepo: auth.UserRepository
  - roleRepo: auth.RoleRepository
  - tokenVault: auth.ProviderTokenVault
  - sessions: SessionIssuer

Returns:
  - *Service: Ready to use instance
*/
func NewService(
	registry Registry,
	stateSigner *sec.StateSigner,
	oauthRepo auth.OAuthAccountRepository,
	userRepo auth.UserRepository,
	roleRepo auth.RoleRepository,
	tokenVault auth.ProviderTokenVault,
	sessions SessionIssuer,
) *Service {
	return &Service{
		registry:    registry,
		stateSigner: stateSigner,
		oauthRepo:   oauthRepo,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		tokenVault:  tokenVault,
		sessions:    sessions,
	}
}

// # Flow Initiation

/*
Initiate starts the authorization-code flow for a provider.

A fresh nonce is signed into the state parameter; nothing is persisted.

Parameters:
  - context: context.Context
  - providerName: string (google|tiktok|instagram)

Returns:
  - string: Provider consent URL to redirect the user to
  - error: apperr.NotFound for unknown providers
*/
func (service *Service) Initiate(context context.Context, providerName string) (string, error) {
	provider, ok := service.registry.Get(providerName)
	if !ok {
		return "", apperr.NotFound("OAuth provider")
	}

	nonce, err := sec.GenerateSecureToken(stateNonceLength)
	if err != nil {
		return "", apperr.Internal(err)
	}

	state := service.stateSigner.Sign(nonce)
	return provider.AuthorizationURL(state), nil
}

// # Callback Handling

/*
Callback completes the authorization-code flow.

The state signature is validated first; only then is the code exchanged
and the external identity resolved. An existing (provider, provider user
id) link logs the linked user in. Otherwise the account is matched by
email, or created with the creator role and no password when the email
is unknown.

Parameters:
  - context: context.Context
  - providerName: string
  - code: string (authorization code)
  - state: string (signed state from Initiate)

Returns:
  - *CallbackResult: Authenticated user, token pair and new-user flag
  - error: apperr.InvalidOAuthState, apperr.OAuthProviderError or
    persistence failures
*/
func (service *Service) Callback(context context.Context, providerName, code, state string) (*CallbackResult, error) {
	provider, ok := service.registry.Get(providerName)
	if !ok {
		return nil, apperr.NotFound("OAuth provider")
	}

	// STEP 1: CSRF check before touching the provider.
	if _, valid := service.stateSigner.Validate(state); !valid {
		return nil, apperr.InvalidOAuthState()
	}

	// STEP 2: Exchange the code and resolve the external identity.
	tokens, err := provider.ExchangeCode(context, code)
	if err != nil {
		return nil, apperr.OAuthProviderError(providerName, err)
	}

	profile, err := provider.FetchUserProfile(context, tokens.AccessToken)
	if err != nil {
		return nil, apperr.OAuthProviderError(providerName, err)
	}

	// STEP 3: Resolve or create the platform account.
	user, isNewUser, err := service.resolveUser(context, providerName, profile, tokens)
	if err != nil {
		return nil, err
	}

	// STEP 4: Issue the platform session.
	pair, err := service.sessions.IssueSession(context, user)
	if err != nil {
		return nil, err
	}

	return &CallbackResult{User: user, Tokens: pair, IsNewUser: isNewUser}, nil
}

// resolveUser maps an external identity onto a platform user, creating the
// account and the provider link as needed.
func (service *Service) resolveUser(context context.Context, providerName string, profile *UserProfile, tokens *TokenResponse) (*auth.User, bool, error) {
	logger := ctxutil.GetLogger(context)

	// Fast path: the external identity is already linked.
	link, err := service.oauthRepo.FindByProvider(context, providerName, profile.ProviderUserID)
	if err == nil {
		user, err := service.userRepo.FindByID(context, link.UserID)
		if err != nil {
			return nil, false, err
		}
		service.storeProviderTokens(context, link.ID, tokens, logger)
		return user, false, nil
	}
	if !apperr.IsCode(err, "NOT_FOUND") {
		return nil, false, err
	}

	// Match by email, or create a fresh creator account.
	isNewUser := false
	user, err := service.userRepo.FindByEmail(context, profile.Email)
	if apperr.IsCode(err, "USER_NOT_FOUND") {
		user, err = service.createUser(context, profile)
		if err != nil {
			return nil, false, err
		}
		isNewUser = true
	} else if err != nil {
		return nil, false, err
	}

	account := &auth.OAuthAccount{
		UserID:         user.ID,
		Provider:       providerName,
		ProviderUserID: profile.ProviderUserID,
		// New links start unverified; a later confirmation step flips the flag
		IsVerified: false,
	}
	if err := service.oauthRepo.Create(context, account); err != nil {
		return nil, false, err
	}

	service.storeProviderTokens(context, account.ID, tokens, logger)

	logger.Info("oauth account linked",
		slog.String("provider", providerName),
		slog.String("user_id", user.ID),
		slog.Bool("is_new_user", isNewUser))

	return user, isNewUser, nil
}

// createUser provisions a passwordless creator account from a provider profile.
func (service *Service) createUser(context context.Context, profile *UserProfile) (*auth.User, error) {
	roleID, err := service.roleRepo.EnsureByName(context, auth.RoleCreator)
	if err != nil {
		return nil, err
	}

	displayName := profile.Name
	if displayName == "" {
		displayName = profile.Email
	}

	user := &auth.User{
		ID:     uuid.New(),
		Email:  profile.Email,
		Role:   auth.RoleCreator,
		RoleID: roleID,
	}
	if err := service.userRepo.CreateWithProfile(context, user, displayName); err != nil {
		return nil, err
	}

	return user, nil
}

// storeProviderTokens persists the provider token set for a link.
// Vault failures never fail the login; they are logged and dropped.
func (service *Service) storeProviderTokens(context context.Context, accountID string, tokens *TokenResponse, logger *slog.Logger) {
	if tokens == nil {
		return
	}

	record := auth.ProviderTokens{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	if tokens.ExpiresIn > 0 {
		expiresAt := time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
		record.ExpiresAt = &expiresAt
	}

	if err := service.tokenVault.Store(context, accountID, record); err != nil {
		logger.Warn("provider token vault write failed",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
	}
}
