package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/op47/clipchat/internal/common"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	return nil
}

type bannerResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, bannerResponse{Service: "clipchat", Version: Version})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// handleLogout revokes the presented token. A token that is already gone is
// reported as 401, the same as any other invalid credential.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	raw, err := extractBearerToken(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.auth.RevokeToken(r.Context(), raw); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeUnauthorized(w, common.ErrorUnauthorized)
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
