package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the interactive-latency work factor used at registration
// and at password reset.
const bcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt. The salt is generated
// per call, so two hashes of the same password never match byte-for-byte.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the plaintext matches the stored digest.
// Any mismatch or malformed digest returns false.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
