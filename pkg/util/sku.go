package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateSKU derives a unique product SKU from the product name.
// Format: PRD-<NAME_PREFIX>-<HEX_SUFFIX>, e.g. PRD-WIRE-A3F2C1
func GenerateSKU(name string) (string, error) {
	prefix := strings.ToUpper(name)
	var sb strings.Builder
	for _, r := range prefix {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
		if sb.Len() == 4 {
			break
		}
	}
	cleaned := sb.String()
	for len(cleaned) < 4 {
		cleaned += "X"
	}

	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate SKU suffix: %w", err)
	}

	return fmt.Sprintf("PRD-%s-%s", cleaned, strings.ToUpper(hex.EncodeToString(suffix))), nil
}
