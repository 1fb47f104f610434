package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const sessionTokenBytes = 32

type TokenGenerator interface {
	NewToken() (string, error)
}

// RandomTokenGenerator produces opaque bearer tokens: 32 bytes from the system
// CSPRNG, hex-encoded to a fixed 64 characters.
type RandomTokenGenerator struct{}

func NewRandomTokenGenerator() *RandomTokenGenerator {
	return &RandomTokenGenerator{}
}

func (g *RandomTokenGenerator) NewToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
