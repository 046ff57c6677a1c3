package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the work factor of existing stored hashes.
const DefaultCost = 10

// MaxSecretBytes is how much of a secret bcrypt reads. Longer secrets are
// cut to this length on both hashing and comparison.
const MaxSecretBytes = 72

func clip(secret string) []byte {
	b := []byte(secret)
	if len(b) > MaxSecretBytes {
		b = b[:MaxSecretBytes]
	}
	return b
}

func HashSecret(secret string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword(clip(secret), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareSecret reports whether secret matches the bcrypt hash. A malformed
// hash is treated as a mismatch.
func CompareSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), clip(secret)) == nil
}
