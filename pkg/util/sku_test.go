package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSKU(t *testing.T) {
	tests := []struct {
		name       string
		product    string
		wantPrefix string
	}{
		{name: "Regular name", product: "Wireless Mouse", wantPrefix: "PRD-WIRE-"},
		{name: "Short name padded", product: "TV", wantPrefix: "PRD-TVXX-"},
		{name: "Lowercase uppercased", product: "headphones", wantPrefix: "PRD-HEAD-"},
		{name: "Non-alphanumeric stripped", product: "A/C Unit", wantPrefix: "PRD-ACUN-"},
		{name: "Empty name", product: "", wantPrefix: "PRD-XXXX-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sku, err := GenerateSKU(tt.product)

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(sku, tt.wantPrefix), "got %s", sku)
			assert.Len(t, sku, len(tt.wantPrefix)+6)
		})
	}
}

func TestGenerateSKU_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		sku, err := GenerateSKU("Wireless Mouse")
		require.NoError(t, err)
		assert.False(t, seen[sku], "duplicate SKU %s", sku)
		seen[sku] = true
	}
}
