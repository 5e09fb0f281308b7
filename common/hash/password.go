package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain password with bcrypt.
// Returns "" for an empty password or if hashing fails.
func HashPassword(plainPassword string) string {
	if plainPassword == "" {
		return ""
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hashed)
}

// VerifyPassword compares a plain password with a stored hash. Rows written
// before the bcrypt migration hold a lowercase SHA-256 hex digest; those are
// still accepted (case-insensitive).
func VerifyPassword(plainPassword, storedHash string) bool {
	if plainPassword == "" || storedHash == "" {
		return false
	}

	if IsLegacyHash(storedHash) {
		return strings.EqualFold(legacySHA256(plainPassword), storedHash)
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plainPassword)) == nil
}

// IsLegacyHash reports whether storedHash is a pre-bcrypt SHA-256 digest
func IsLegacyHash(storedHash string) bool {
	if len(storedHash) != 64 {
		return false
	}
	_, err := hex.DecodeString(storedHash)
	return err == nil
}

func legacySHA256(plainPassword string) string {
	sum := sha256.Sum256([]byte(plainPassword))
	return hex.EncodeToString(sum[:])
}
