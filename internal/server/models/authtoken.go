package models

// AuthToken links a user to the digest of an issued bearer token.
// The raw token is never persisted, only its digest.
type AuthToken struct {
	UserID int64
	Token  string
}
