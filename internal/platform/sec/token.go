// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a hex-encoded random string built from
// byteLength bytes of CSPRNG output (so the string is 2*byteLength chars).
//
// Used for password reset tokens and OAuth state nonces.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}
