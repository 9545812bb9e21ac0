package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantLen int
	}{
		{name: "Default length", length: 6, wantLen: 6},
		{name: "Four digits", length: 4, wantLen: 4},
		{name: "Eight digits", length: 8, wantLen: 8},
		{name: "Zero falls back to default", length: 0, wantLen: 6},
		{name: "Negative falls back to default", length: -1, wantLen: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := GenerateOTP(tt.length)

			require.NoError(t, err)
			assert.Len(t, code, tt.wantLen)
			for _, c := range code {
				assert.True(t, c >= '0' && c <= '9', "expected digit, got %q", c)
			}
		})
	}
}

func TestGenerateOTP_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP(6)
		require.NoError(t, err)
		seen[code] = true
	}

	// Collisions in 50 draws from a million-value space are vanishingly rare.
	assert.Greater(t, len(seen), 45)
}
