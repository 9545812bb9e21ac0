package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// GenerateOTP generates a random numeric one-time code of the given length
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	max := big.NewInt(10)
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate OTP: %w", err)
		}
		sb.WriteString(n.String())
	}
	return sb.String(), nil
}
