package crypto

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes      = 16
	hashIterations = 10000
	hashKeyBytes   = 64
)

type PasswordHasher interface {
	Hash(password string) (hash string, salt string, err error)
	Compare(hash, salt, password string) bool
}

// PBKDF2Hasher derives 64-byte PBKDF2-SHA512 keys over per-user 16-byte salts,
// both hex-encoded for storage. The parameters are part of the stored-data
// format and must not change without rehashing every user.
type PBKDF2Hasher struct{}

func NewPBKDF2Hasher() *PBKDF2Hasher {
	return &PBKDF2Hasher{}
}

func (h *PBKDF2Hasher) Hash(password string) (string, string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, hashIterations, hashKeyBytes, sha512.New)
	return hex.EncodeToString(key), hex.EncodeToString(salt), nil
}

func (h *PBKDF2Hasher) Compare(hash, salt, password string) bool {
	storedKey, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return false
	}

	key := pbkdf2.Key([]byte(password), saltBytes, hashIterations, hashKeyBytes, sha512.New)

	// Constant-time comparison so verification does not leak how many leading
	// bytes of the derived key matched.
	return subtle.ConstantTimeCompare(key, storedKey) == 1
}
