// Package common defines shared sentinel errors used across repository,
// service and transport layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorValidation    = errors.New("validation error")

	// Parameter present but not usable (bad clip URL, bad date format).
	ErrorUnprocessable = errors.New("unprocessable parameter")

	// Auth errors. Failed username lookup and failed password check both
	// collapse to ErrorInvalidCredentials so the two cases stay
	// indistinguishable to the caller.
	ErrorInvalidCredentials = errors.New("invalid username or password")

	// Malformed or missing Authorization header. Rejected before any
	// store access.
	ErrorMalformedAuthHeader = errors.New("invalid authorization header format")
)
