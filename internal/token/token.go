// Package token issues and verifies the opaque bearer tokens that gate
// unauthenticated access to a single reservation. Only the one-way hash is
// ever persisted.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const tokenBytes = 32

// Generate returns a fresh high-entropy plaintext token and its hash.
func Generate() (plain, hash string, err error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	plain = base64.RawURLEncoding.EncodeToString(b)
	return plain, Hash(plain), nil
}

// Hash computes the stored form of a plaintext token.
func Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the hash of plain and compares it against storedHash in
// constant time.
func Verify(plain, storedHash string) bool {
	if plain == "" || storedHash == "" {
		return false
	}
	computed := Hash(plain)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
