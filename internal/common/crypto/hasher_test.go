package crypto

import (
	"encoding/hex"
	"testing"
)

func TestPBKDF2Hasher_HashAndCompare(t *testing.T) {
	h := NewPBKDF2Hasher()

	hash, salt, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if len(hash) != hashKeyBytes*2 {
		t.Errorf("expected %d hex chars of hash, got %d", hashKeyBytes*2, len(hash))
	}
	if len(salt) != saltBytes*2 {
		t.Errorf("expected %d hex chars of salt, got %d", saltBytes*2, len(salt))
	}
	if _, err := hex.DecodeString(hash); err != nil {
		t.Errorf("hash is not valid hex: %v", err)
	}

	if !h.Compare(hash, salt, "correct horse") {
		t.Error("expected matching password to compare true")
	}
	if h.Compare(hash, salt, "wrong horse") {
		t.Error("expected mismatching password to compare false")
	}
	if h.Compare(hash, "not-hex", "correct horse") {
		t.Error("expected malformed salt to compare false")
	}
}

func TestPBKDF2Hasher_FreshSaltPerHash(t *testing.T) {
	h := NewPBKDF2Hasher()

	hash1, salt1, err := h.Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	hash2, salt2, err := h.Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if salt1 == salt2 {
		t.Error("expected distinct salts for each hash")
	}
	if hash1 == hash2 {
		t.Error("expected distinct hashes under distinct salts")
	}
}

func TestRandomTokenGenerator_Format(t *testing.T) {
	g := NewRandomTokenGenerator()

	token, err := g.NewToken()
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	if len(token) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(token))
	}
	if _, err := hex.DecodeString(token); err != nil {
		t.Errorf("token is not valid hex: %v", err)
	}

	other, err := g.NewToken()
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	if token == other {
		t.Error("expected distinct tokens")
	}
}
