// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package sec

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// expiryPattern matches the compact <number><unit> expiry form, e.g. "15m", "7d".
var expiryPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseExpiry converts a compact expiry string into a [time.Duration].
//
// # Format
//
// A positive integer followed by a single unit: s (seconds), m (minutes),
// h (hours), or d (days). The day unit is the reason [time.ParseDuration]
// is not used directly.
//
// Malformed strings return an error; callers treat that as a fatal
// configuration problem, not a runtime condition.
func ParseExpiry(expiresIn string) (time.Duration, error) {
	match := expiryPattern.FindStringSubmatch(expiresIn)
	if match == nil {
		return 0, fmt.Errorf("sec: invalid expiry format: %q", expiresIn)
	}

	magnitude, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("sec: invalid expiry magnitude: %q", expiresIn)
	}

	var unit time.Duration
	switch match[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}

	duration := time.Duration(magnitude) * unit
	if duration <= 0 {
		return 0, fmt.Errorf("sec: expiry must be positive: %q", expiresIn)
	}

	return duration, nil
}
