// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

/*
Package auth implements the core identity and access management (IAM) system.

It handles everything from registration and secure password hashing to the
session lifecycle: short-lived JWT access tokens paired with rotating refresh
tokens whose server-side records live in Redis.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh, Reset).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Sessions).
  - Security: bcrypt hashing, HS256-signed JWTs, brute-force lockout.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/internal/platform/ctxutil"
	"github.com/crealink/crealink/internal/platform/sec"
	"github.com/crealink/crealink/internal/platform/validate"
	"github.com/crealink/crealink/pkg/uuid"
)

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, lockout,
// or session rotation logic must be reviewed by the security team.
type Service struct {
	userRepository       UserRepository
	roleRepository       RoleRepository
	sessionRepository    SessionRepository
	lockoutRepository    LockoutRepository
	resetTokenRepository ResetTokenRepository
	tokenProvider        TokenProvider
	resetTokenTTL        time.Duration
}

// NewService constructs a new [Service] with its storage and token dependencies.
func NewService(
	userRepo UserRepository,
	roleRepo RoleRepository,
	sessionRepo SessionRepository,
	lockoutRepo LockoutRepository,
	resetRepo ResetTokenRepository,
	tokenProv TokenProvider,
	resetTokenTTL time.Duration,
) *Service {
	return &Service{
		userRepository:       userRepo,
		roleRepository:       roleRepo,
		sessionRepository:    sessionRepo,
		lockoutRepository:    lockoutRepo,
		resetTokenRepository: resetRepo,
		tokenProvider:        tokenProv,
		resetTokenTTL:        resetTokenTTL,
	}
}

// # Session Issuance

/*
IssueSession mints a fresh token pair and persists the refresh session.

Description: The single issuance path shared by every successful
authentication (password login, registration, OAuth callback, rotation).
The refresh session record is written BEFORE the pair is returned — a
refresh token whose record failed to persist must never reach a client.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - *TokenPair: Access + refresh credentials
  - error: Signing or persistence failures
*/
func (service *Service) IssueSession(context context.Context, user *User) (*TokenPair, error) {

	// Sign the short-lived access credential
	accessToken, err := service.tokenProvider.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_access_failed: %w", err)
	}

	// Sign the refresh credential with its fresh token id
	refreshToken, tokenID, err := service.tokenProvider.IssueRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_refresh_failed: %w", err)
	}

	// Persist the server-side session; without this record the refresh
	// token is dead on arrival
	if err := service.sessionRepository.Put(context, tokenID, user.ID, refreshToken.ExpiresAt); err != nil {
		return nil, fmt.Errorf("auth_service_session_put_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:      accessToken.Value,
		AccessExpiresAt:  accessToken.ExpiresAt,
		RefreshToken:     refreshToken.Value,
		RefreshExpiresAt: refreshToken.ExpiresAt,
	}, nil
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Creates the account and its profile atomically, then issues a
session immediately so the client lands authenticated.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - *TokenPair: Session credentials
  - error: apperr.UserAlreadyExists, validation, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, *TokenPair, error) {

	// Validate the enrollment payload
	validator := &validate.Validator{}
	err := validator.
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		Password(FieldPassword, input.Password).
		Required(FieldDisplayName, input.DisplayName).
		MaxLen(FieldDisplayName, input.DisplayName, 100).
		OneOf(FieldRole, input.Role, RoleCreator, RoleBrand).
		Err()
	if err != nil {
		return nil, nil, err
	}

	// Verify email uniqueness with a client-safe error
	exists, err := service.userRepository.ExistsByEmail(context, input.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_service_exists_check_failed: %w", err)
	}
	if exists {
		return nil, nil, apperr.UserAlreadyExists()
	}

	// Prevent storing plain-text passwords. Default cost balances security
	// against CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Resolve the role row, creating it on first use
	roleID, err := service.roleRepository.EnsureByName(context, input.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_service_role_resolve_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: &hashedPassword,
		Role:         input.Role,
		RoleID:       roleID,
	}

	// Persist account + profile atomically
	if err := service.userRepository.CreateWithProfile(context, user, input.DisplayName); err != nil {
		return nil, nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Land the new member authenticated
	pair, err := service.IssueSession(context, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// # Login Flow

// LoginInput holds the credentials for a password login.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login authenticates a member with email and password.

Description: The flow is strictly ordered — lockout check, user lookup,
password check, issuance. Failed lookups and failed password checks both
count against the lockout window; a successful login clears it.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *User: Authenticated entity
  - *TokenPair: Session credentials
  - error: apperr.TooManyAttempts, apperr.UserNotFound, apperr.InvalidPassword,
    or storage errors
*/
func (service *Service) Login(context context.Context, input LoginInput) (*User, *TokenPair, error) {

	// Validate the credential payload
	validator := &validate.Validator{}
	err := validator.
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		Err()
	if err != nil {
		return nil, nil, err
	}

	// 1. Lockout gate: a locked email is rejected before any lookup so the
	// attacker learns nothing about account existence while locked
	locked, lockedUntil, err := service.lockoutRepository.IsLocked(context, input.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_service_lockout_check_failed: %w", err)
	}
	if locked {
		return nil, nil, apperr.TooManyAttempts(lockedUntil)
	}

	// 2. Account lookup: unknown emails count as a failed attempt
	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		if apperr.IsCode(err, "USER_NOT_FOUND") {
			service.recordFailure(context, input.Email)
			return nil, nil, apperr.UserNotFound()
		}
		return nil, nil, err
	}

	// 3. Credential check: OAuth-only accounts have no password to check
	if !user.HasPassword() || !sec.CheckPasswordHash(input.Password, *user.PasswordHash) {
		service.recordFailure(context, input.Email)
		return nil, nil, apperr.InvalidPassword()
	}

	// 4. Success: clear the lockout window and issue the session
	if err := service.lockoutRepository.Clear(context, input.Email); err != nil {
		return nil, nil, fmt.Errorf("auth_service_lockout_clear_failed: %w", err)
	}

	pair, err := service.IssueSession(context, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// recordFailure counts a failed attempt, logging rather than failing the
// request when the tracker itself is unreachable.
func (service *Service) recordFailure(context context.Context, email string) {
	if err := service.lockoutRepository.RecordFailedAttempt(context, email); err != nil {
		ctxutil.GetLogger(context).ErrorContext(context, "auth_lockout_record_failed",
			slog.String("error", err.Error()),
		)
	}
}

// # Session Rotation

/*
RefreshSession exchanges a valid refresh token for a brand new token pair.

Description: Single-use rotation. The presented token must verify, be of the
refresh kind, carry a token id, and have a live server-side session. The old
session is revoked BEFORE the new pair is issued, so a replayed token can
never race its own rotation.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *User: Session owner
  - *TokenPair: Fresh credentials
  - error: apperr.InvalidToken or storage errors
*/
func (service *Service) RefreshSession(context context.Context, refreshToken string) (*User, *TokenPair, error) {

	// 1. Signature and expiry
	claims, err := service.tokenProvider.Verify(refreshToken)
	if err != nil {
		return nil, nil, apperr.InvalidToken()
	}

	// 2. Kind: an access token presented here is an attack, not a mistake
	if claims.Kind != sec.TokenKindRefresh {
		return nil, nil, apperr.InvalidToken()
	}

	// 3. Token id
	tokenID := claims.TokenID()
	if tokenID == "" {
		return nil, nil, apperr.InvalidToken()
	}

	// 4. Server-side session must still be live
	exists, err := service.sessionRepository.Exists(context, tokenID)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_service_session_check_failed: %w", err)
	}
	if !exists {
		return nil, nil, apperr.InvalidToken()
	}

	// 5. Owner must still exist. A deleted account yields the same generic
	// error as a bad token — no oracle
	user, err := service.userRepository.FindByID(context, claims.Subject)
	if err != nil {
		if apperr.IsCode(err, "USER_NOT_FOUND") {
			return nil, nil, apperr.InvalidToken()
		}
		return nil, nil, err
	}

	// 6. Revoke before issue: the old token dies first. The delete reply
	// arbitrates concurrent rotations of the same token — the loser finds
	// the record already gone and is rejected like any other replay
	revoked, err := service.sessionRepository.Revoke(context, tokenID)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_service_session_revoke_failed: %w", err)
	}
	if !revoked {
		return nil, nil, apperr.InvalidToken()
	}

	pair, err := service.IssueSession(context, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

/*
Logout revokes the session behind a refresh token.

Description: Best-effort by design — malformed tokens, unknown sessions, and
store hiccups all yield success. Logout must never strand a client in a
logged-in state it cannot leave.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - error: Always nil
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	tokenID := service.tokenProvider.ExtractTokenID(refreshToken)
	if tokenID == "" {
		return nil
	}

	if _, err := service.sessionRepository.Revoke(context, tokenID); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "auth_logout_revoke_failed",
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// # Password Reset Flow

/*
RequestPasswordReset starts the forgot-password flow for an email.

Description: Enumeration-safe — an unknown email returns success without
side effects, exactly like a known one. For known accounts a single-use
token is generated and stored with its TTL; delivery happens out-of-band.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Validation or internal storage errors only (never "not found")
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {

	validator := &validate.Validator{}
	if err := validator.Required(FieldEmail, email).Email(FieldEmail, email).Err(); err != nil {
		return err
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsCode(err, "USER_NOT_FOUND") {
			// Indistinguishable from success
			return nil
		}
		return err
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_reset_token_gen_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, token, user.ID, service.resetTokenTTL); err != nil {
		return fmt.Errorf("auth_service_reset_token_store_failed: %w", err)
	}

	// TODO: hand the token to the notification service once it ships;
	// until then operators read it from the debug log.
	ctxutil.GetLogger(context).DebugContext(context, "auth_reset_token_issued",
		slog.String("user_id", user.ID),
	)

	return nil
}

/*
VerifyResetToken checks whether a reset token is currently valid.

Description: Non-consuming probe used by reset forms before the user types a
new password. The token stays usable afterwards.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - bool: Validity flag
  - error: Connectivity errors only
*/
func (service *Service) VerifyResetToken(context context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	_, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		if apperr.IsCode(err, "INVALID_RESET_TOKEN") {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

/*
ResetPassword consumes a reset token and replaces the account password.

Description: The token is single-use and deleted on success. Every live
session of the account is revoked — a password reset is the panic button
after a suspected compromise.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: apperr.InvalidResetToken, validation, or storage errors
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	validator := &validate.Validator{}
	err := validator.
		Required(FieldToken, token).
		Required(FieldNewPassword, newPassword).
		Password(FieldNewPassword, newPassword).
		Err()
	if err != nil {
		return err
	}

	userID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return err
	}

	// Burn the token
	if err := service.resetTokenRepository.Delete(context, token); err != nil {
		return fmt.Errorf("auth_service_reset_token_delete_failed: %w", err)
	}

	// Kill every session the (possibly compromised) old password opened
	if err := service.sessionRepository.RevokeAll(context, userID); err != nil {
		return fmt.Errorf("auth_service_revoke_all_failed: %w", err)
	}

	return nil
}

// # Role Management

/*
UpdateUserRole reassigns a member's role. Admin only.

Parameters:
  - context: context.Context
  - actorID: string (authenticated caller)
  - targetUserID: string
  - role: string (creator|brand|admin)

Returns:
  - *User: Updated entity
  - error: apperr.Forbidden, apperr.UserNotFound, validation, or storage errors
*/
func (service *Service) UpdateUserRole(context context.Context, actorID, targetUserID, role string) (*User, error) {

	validator := &validate.Validator{}
	err := validator.
		Required(FieldRole, role).
		OneOf(FieldRole, role, RoleCreator, RoleBrand, RoleAdmin).
		Err()
	if err != nil {
		return nil, err
	}

	// Only admins may reassign roles
	actor, err := service.userRepository.FindByID(context, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != RoleAdmin {
		return nil, apperr.Forbidden("Insufficient permissions")
	}

	roleID, err := service.roleRepository.EnsureByName(context, role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_role_resolve_failed: %w", err)
	}

	if err := service.userRepository.UpdateRole(context, targetUserID, roleID); err != nil {
		return nil, err
	}

	return service.userRepository.FindByID(context, targetUserID)
}

// # Middleware Support

// Verify satisfies the middleware TokenVerifier contract by delegating to
// the token provider.
func (service *Service) Verify(tokenString string) (*sec.TokenClaims, error) {
	return service.tokenProvider.Verify(tokenString)
}
