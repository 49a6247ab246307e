// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crealink/crealink/internal/platform/apperr"
	"github.com/crealink/crealink/internal/platform/constants"
)

// # Session Repository

// RedisSessionRepository implements SessionRepository using Redis.
//
// # Key Layout
//
// Each session lives under "auth:refresh:<jti>" as a JSON [RefreshSession]
// whose TTL matches the refresh token expiry. A per-user index under
// "auth:refresh:user:<userID>" holds the JSON array of live token ids so
// RevokeAll never has to scan the keyspace.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func (repository *RedisSessionRepository) sessionKey(tokenID string) string {
	return constants.RedisPrefixSession + tokenID
}

func (repository *RedisSessionRepository) indexKey(userID string) string {
	return constants.RedisPrefixSessionIndex + userID
}

/*
Put stores a session record under its token id and registers it in the
per-user index.

Description: Rejects windows that are already closed — a session that would
expire immediately must never be persisted.

Parameters:
  - context: context.Context
  - tokenID: string (jti)
  - userID: string
  - expiresAt: time.Time

Returns:
  - error: Expired window or execution errors
*/
func (repository *RedisSessionRepository) Put(context context.Context, tokenID, userID string, expiresAt time.Time) error {

	// Never persist a session whose window is already closed
	remaining := time.Until(expiresAt)
	if remaining <= 0 {
		return fmt.Errorf("redis_session_put_failed: expiry %s is not in the future", expiresAt)
	}

	payload, err := json.Marshal(RefreshSession{UserID: userID, ExpiresAt: expiresAt})
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	// Store the session with a TTL matching the token lifetime
	if err := repository.client.Set(context, repository.sessionKey(tokenID), payload, remaining).Err(); err != nil {
		return fmt.Errorf("redis_session_put_failed: %w", err)
	}

	// Register the id in the user index
	return repository.reindex(context, userID, tokenID)
}

/*
Exists reports whether the session record is still live.

Parameters:
  - context: context.Context
  - tokenID: string

Returns:
  - bool: Liveness flag
  - error: Connectivity errors
*/
func (repository *RedisSessionRepository) Exists(context context.Context, tokenID string) (bool, error) {
	count, err := repository.client.Exists(context, repository.sessionKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_session_exists_failed: %w", err)
	}
	return count > 0, nil
}

/*
Revoke deletes one session and removes its id from the user index.

Description: Idempotent — revoking an already-expired or unknown session
succeeds silently with a false flag. The flag is driven by the DEL reply,
so when two callers race on the same id only one observes true.

Parameters:
  - context: context.Context
  - tokenID: string

Returns:
  - bool: Whether this call deleted a live record
  - error: Connectivity errors
*/
func (repository *RedisSessionRepository) Revoke(context context.Context, tokenID string) (bool, error) {

	// Resolve the owning user before deleting so the index can be updated
	payload, err := repository.client.Get(context, repository.sessionKey(tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_session_revoke_failed: %w", err)
	}

	var session RefreshSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		// A corrupt record is unrecoverable; drop the key and move on
		deleted, _ := repository.client.Del(context, repository.sessionKey(tokenID)).Result()
		return deleted > 0, nil
	}

	deleted, err := repository.client.Del(context, repository.sessionKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_session_revoke_failed: %w", err)
	}

	if err := repository.reindex(context, session.UserID); err != nil {
		return deleted > 0, err
	}
	return deleted > 0, nil
}

/*
RevokeAll deletes every session belonging to the user plus the index itself.

Description: Tolerates stale index entries whose session keys already expired.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Connectivity errors
*/
func (repository *RedisSessionRepository) RevokeAll(context context.Context, userID string) error {
	tokenIDs, err := repository.readIndex(context, userID)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(tokenIDs)+1)
	for _, id := range tokenIDs {
		keys = append(keys, repository.sessionKey(id))
	}
	keys = append(keys, repository.indexKey(userID))

	if err := repository.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_session_revoke_all_failed: %w", err)
	}

	return nil
}

// readIndex loads the JSON id array from the user index. A missing or
// corrupt index is treated as empty.
func (repository *RedisSessionRepository) readIndex(context context.Context, userID string) ([]string, error) {
	payload, err := repository.client.Get(context, repository.indexKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_session_index_read_failed: %w", err)
	}

	var tokenIDs []string
	if err := json.Unmarshal([]byte(payload), &tokenIDs); err != nil {
		return nil, nil
	}
	return tokenIDs, nil
}

// reindex rewrites the user index from the sessions that are still live.
//
// # Index TTL
//
// The index expires together with the longest-lived member: its TTL is the
// maximum remaining TTL across all live sessions, so the index can never
// outlive its members nor vanish before them.
func (repository *RedisSessionRepository) reindex(context context.Context, userID string, ensure ...string) error {
	tokenIDs, err := repository.readIndex(context, userID)
	if err != nil {
		return err
	}
	tokenIDs = append(tokenIDs, ensure...)

	// Keep only ids whose session key still exists, tracking the longest
	// remaining lifetime as we go
	live := make([]string, 0, len(tokenIDs))
	seen := make(map[string]bool, len(tokenIDs))
	var maxTTL time.Duration

	for _, id := range tokenIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		ttl, err := repository.client.PTTL(context, repository.sessionKey(id)).Result()
		if err != nil {
			return fmt.Errorf("redis_session_index_ttl_failed: %w", err)
		}
		// PTTL returns a negative duration for missing keys
		if ttl <= 0 {
			continue
		}

		live = append(live, id)
		if ttl > maxTTL {
			maxTTL = ttl
		}
	}

	// An empty index is deleted, not stored
	if len(live) == 0 {
		if err := repository.client.Del(context, repository.indexKey(userID)).Err(); err != nil {
			return fmt.Errorf("redis_session_index_delete_failed: %w", err)
		}
		return nil
	}

	payload, err := json.Marshal(live)
	if err != nil {
		return fmt.Errorf("redis_session_index_marshal_failed: %w", err)
	}

	if err := repository.client.Set(context, repository.indexKey(userID), payload, maxTTL).Err(); err != nil {
		return fmt.Errorf("redis_session_index_write_failed: %w", err)
	}

	return nil
}

// # Lockout Repository

// RedisLockoutRepository implements LockoutRepository using Redis.
//
// Records live under "auth:lockout:<email>" with a TTL equal to the lockout
// window, so abandoned records clean themselves up.
type RedisLockoutRepository struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLockoutRepository creates a new Redis-backed LockoutRepository.
func NewLockoutRepository(client *redis.Client, maxAttempts int, window time.Duration) *RedisLockoutRepository {
	return &RedisLockoutRepository{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (repository *RedisLockoutRepository) key(email string) string {
	return constants.RedisPrefixLockout + email
}

func (repository *RedisLockoutRepository) load(context context.Context, email string) (*LockoutRecord, error) {
	payload, err := repository.client.Get(context, repository.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_lockout_get_failed: %w", err)
	}

	var record LockoutRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		// Corrupt record: treat as absent
		return nil, nil
	}
	return &record, nil
}

/*
RecordFailedAttempt increments the failure counter and slides the lockout
window forward.

Description: While the email is already locked no state changes — repeated
hammering cannot extend a lock that is in force.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Execution errors
*/
func (repository *RedisLockoutRepository) RecordFailedAttempt(context context.Context, email string) error {
	now := time.Now()

	record, err := repository.load(context, email)
	if err != nil {
		return err
	}

	// No-op while the lock is in force
	if record != nil && record.Attempts >= repository.maxAttempts && now.Before(record.LockedUntil) {
		return nil
	}

	attempts := 1
	if record != nil {
		attempts = record.Attempts + 1
	}

	updated := LockoutRecord{
		Attempts:    attempts,
		LockedUntil: now.Add(repository.window),
	}

	payload, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("redis_lockout_marshal_failed: %w", err)
	}

	// The TTL slides with every failure
	if err := repository.client.Set(context, repository.key(email), payload, repository.window).Err(); err != nil {
		return fmt.Errorf("redis_lockout_set_failed: %w", err)
	}

	return nil
}

/*
IsLocked reports whether the email is currently locked out.

Description: A record whose LockedUntil has passed is deleted on sight and
reported as unlocked.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - bool: Lock flag
  - time.Time: Lock expiry (zero when unlocked)
  - error: Connectivity errors
*/
func (repository *RedisLockoutRepository) IsLocked(context context.Context, email string) (bool, time.Time, error) {
	record, err := repository.load(context, email)
	if err != nil {
		return false, time.Time{}, err
	}
	if record == nil {
		return false, time.Time{}, nil
	}

	// Stale lock: clean up eagerly rather than waiting for the TTL
	if !time.Now().Before(record.LockedUntil) {
		_ = repository.client.Del(context, repository.key(email)).Err()
		return false, time.Time{}, nil
	}

	if record.Attempts >= repository.maxAttempts {
		return true, record.LockedUntil, nil
	}

	return false, time.Time{}, nil
}

/*
Clear removes the lockout record after a successful login.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisLockoutRepository) Clear(context context.Context, email string) error {
	if err := repository.client.Del(context, repository.key(email)).Err(); err != nil {
		return fmt.Errorf("redis_lockout_clear_failed: %w", err)
	}
	return nil
}

// # Reset Token Repository

// RedisResetTokenRepository implements ResetTokenRepository using Redis.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository creates a new Redis-backed ResetTokenRepository.
func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

func (repository *RedisResetTokenRepository) key(token string) string {
	return constants.RedisPrefixResetToken + token
}

/*
Set stores a reset token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisResetTokenRepository) Set(context context.Context, token string, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, repository.key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}
	return nil
}

/*
Get retrieves the userID for a given token.

Description: Returns apperr.InvalidResetToken if the token is absent or expired.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: Original UserID
  - error: apperr.InvalidResetToken or connectivity errors
*/
func (repository *RedisResetTokenRepository) Get(context context.Context, token string) (string, error) {
	userID, err := repository.client.Get(context, repository.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.InvalidResetToken()
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}
	return userID, nil
}

/*
Delete removes the token from Redis.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisResetTokenRepository) Delete(context context.Context, token string) error {
	if err := repository.client.Del(context, repository.key(token)).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}
	return nil
}

// # Provider Token Vault

// RedisProviderTokenVault implements ProviderTokenVault using Redis.
//
// # TTL Policy
//
// The record outlives the provider token by [VaultTTLBuffer] so an expired
// access token can still be located for a refresh. Providers that report no
// lifetime get [VaultFallbackTTL].
type RedisProviderTokenVault struct {
	client *redis.Client
}

// NewProviderTokenVault creates a new Redis-backed ProviderTokenVault.
func NewProviderTokenVault(client *redis.Client) *RedisProviderTokenVault {
	return &RedisProviderTokenVault{client: client}
}

func (vault *RedisProviderTokenVault) key(accountID string) string {
	return constants.RedisPrefixOAuthToken + accountID
}

/*
Store saves the provider tokens for a linked account.

Parameters:
  - context: context.Context
  - accountID: string
  - tokens: ProviderTokens

Returns:
  - error: Execution errors
*/
func (vault *RedisProviderTokenVault) Store(context context.Context, accountID string, tokens ProviderTokens) error {
	payload, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("redis_oauth_vault_marshal_failed: %w", err)
	}

	ttl := VaultFallbackTTL
	if tokens.ExpiresAt != nil {
		ttl = time.Until(*tokens.ExpiresAt) + VaultTTLBuffer
		if ttl <= 0 {
			ttl = VaultFallbackTTL
		}
	}

	if err := vault.client.Set(context, vault.key(accountID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_oauth_vault_store_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the stored provider tokens for an account.

Description: Returns apperr.NotFound if nothing is stored (or it expired).

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - *ProviderTokens: Stored record
  - error: apperr.NotFound or connectivity errors
*/
func (vault *RedisProviderTokenVault) Get(context context.Context, accountID string) (*ProviderTokens, error) {
	payload, err := vault.client.Get(context, vault.key(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Provider tokens")
		}
		return nil, fmt.Errorf("redis_oauth_vault_get_failed: %w", err)
	}

	var tokens ProviderTokens
	if err := json.Unmarshal([]byte(payload), &tokens); err != nil {
		return nil, fmt.Errorf("redis_oauth_vault_unmarshal_failed: %w", err)
	}

	return &tokens, nil
}

/*
Delete removes the stored provider tokens for an account.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Deletion failures
*/
func (vault *RedisProviderTokenVault) Delete(context context.Context, accountID string) error {
	if err := vault.client.Del(context, vault.key(accountID)).Err(); err != nil {
		return fmt.Errorf("redis_oauth_vault_delete_failed: %w", err)
	}
	return nil
}
