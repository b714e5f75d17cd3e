package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// NewRandomToken returns a 64-character hex string with 256 bits of
// entropy, used for verification, reset and refresh tokens.
func NewRandomToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}
