package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewResetToken generates a password reset token: 20 random bytes, hex
// encoded. Both backends use it so tokens look the same everywhere.
func NewResetToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
