// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crealink/crealink/internal/platform/sec"
)

/*
TestParseExpiry covers the compact <number><unit> expiry grammar.
*/
func TestParseExpiry(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "15m", 15 * time.Minute, false},
		{"hours", "2h", 2 * time.Hour, false},
		{"days", "7d", 7 * 24 * time.Hour, false},
		{"single_day", "1d", 24 * time.Hour, false},
		{"zero_magnitude", "0m", 0, true},
		{"empty", "", 0, true},
		{"missing_unit", "15", 0, true},
		{"unknown_unit", "15w", 0, true},
		{"negative", "-5m", 0, true},
		{"go_duration_syntax", "1h30m", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sec.ParseExpiry(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
