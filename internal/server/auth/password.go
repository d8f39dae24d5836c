// Package auth provides the credential primitives of the service:
// bcrypt password hashing and opaque bearer-token generation with
// one-way digests for storage.
package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost the service has always used for stored hashes.
const bcryptCost = 10

// HashPassword returns a salted bcrypt hash of password. A fresh salt is
// generated on every call and embedded in the returned digest.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches the stored bcrypt digest.
// A malformed digest yields false, never a panic.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
