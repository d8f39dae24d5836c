package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// rawTokenEntropy is the number of random bytes behind every issued token.
const rawTokenEntropy = 32

// IssueToken generates a new opaque bearer token and its storage digest.
// The raw token is handed to the client exactly once; only the digest is
// ever persisted or compared.
func IssueToken() (raw string, digest string, err error) {
	b := make([]byte, rawTokenEntropy)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}

	// The raw token is itself a hash of the random bytes, so its length
	// and alphabet are stable regardless of the entropy size.
	sum := sha256.Sum256(b)
	raw = base64.StdEncoding.EncodeToString(sum[:])

	return raw, DigestToken(raw), nil
}

// DigestToken derives the deterministic one-way lookup key for a
// client-presented raw token.
func DigestToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.StdEncoding.EncodeToString(sum[:])
}
