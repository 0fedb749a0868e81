package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewOpaqueToken returns a hex-encoded random token of nBytes entropy
// (256 bits by default). Used for password reset tokens.
func NewOpaqueToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
