// Package crypt provides one-way hashing for subscriber secrets.
package crypt

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// HashSecret hashes a plaintext secret with a per-call random salt. The
// returned string embeds the algorithm parameters and salt, so no
// external state is needed to verify it later. Two calls with the same
// input always produce different outputs.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash secret")
	}
	return string(hash), nil
}

// VerifySecret reports whether secret matches the stored hash. Malformed
// stored hashes are treated as a verification failure, never a panic.
func VerifySecret(secret, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
}
