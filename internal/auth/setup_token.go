package auth

import (
	"crypto/rand"
	"encoding/hex"
)

const setupTokenBytes = 32

// NewSetupToken returns 32 random bytes, hex encoded.
func NewSetupToken() (string, error) {
	buf := make([]byte, setupTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
