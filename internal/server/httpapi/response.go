// Package httpapi exposes the service over HTTP: routing, bearer-token
// middleware and the JSON request/response envelope.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/op47/clipchat/internal/common"
)

// errorResponse is the stable error envelope: a machine-readable kind plus
// a human-readable message. Driver errors and stack traces never appear
// here.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type urlResponse struct {
	URL string `json:"url"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// statusForError maps a sentinel error to its HTTP status and envelope kind.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, common.ErrorUnprocessable):
		return http.StatusUnprocessableEntity, "unprocessable"
	case errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrorMalformedAuthHeader):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "conflict"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, kind := statusForError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		// The cause is already logged server-side.
		message = "something went wrong"
	}

	writeJSON(w, status, errorResponse{Error: kind, Message: message})
}

// writeUnauthorized forces the 401 envelope regardless of the underlying
// error kind. Used where not-found must not be distinguishable from
// invalid, e.g. logout with an already-revoked token.
func writeUnauthorized(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: err.Error()})
}
