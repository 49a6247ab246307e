// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// StateSigner signs and validates OAuth state tokens for CSRF protection.
//
// # Statelessness
//
// States are an HMAC-SHA256 signature over a random nonce — nothing is
// persisted. The round trip through the provider proves the callback
// originated from a flow this server started.
type StateSigner struct {
	secret []byte
}

// NewStateSigner creates a StateSigner.
// The secret must be at least 32 characters (construction-time invariant).
func NewStateSigner(secret string) (*StateSigner, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("sec: oauth state secret must be at least 32 characters")
	}
	return &StateSigner{secret: []byte(secret)}, nil
}

// Sign produces a signed state of the form "nonce.hexSignature".
func (signer *StateSigner) Sign(nonce string) string {
	mac := hmac.New(sha256.New, signer.secret)
	mac.Write([]byte(nonce))
	signature := hex.EncodeToString(mac.Sum(nil))
	return nonce + "." + signature
}

// Validate checks a signed state and returns the original nonce on success.
//
// Rejection reasons (wrong shape, length mismatch, signature mismatch) are
// deliberately indistinguishable to the caller: only ok=false comes back.
// The byte comparison is constant time.
func (signer *StateSigner) Validate(signedState string) (string, bool) {
	parts := strings.Split(signedState, ".")
	if len(parts) != 2 {
		return "", false
	}

	nonce, signature := parts[0], parts[1]

	mac := hmac.New(sha256.New, signer.secret)
	mac.Write([]byte(nonce))
	expected := hex.EncodeToString(mac.Sum(nil))

	if len(signature) != len(expected) {
		return "", false
	}

	if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) != 1 {
		return "", false
	}

	return nonce, true
}
