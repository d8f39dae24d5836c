package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/op47/clipchat/internal/common"
	"github.com/op47/clipchat/internal/server/models"
)

type ctxKey string

const userCtxKey ctxKey = "user"

// UserFromContext returns the authenticated user stored by requireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userCtxKey).(*models.User)
	return u, ok
}

// extractBearerToken parses the Authorization header without touching the
// token store. The scheme is matched case-insensitively and the header must
// consist of exactly the scheme and one token separated by a single space.
func extractBearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", common.ErrorMalformedAuthHeader
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", common.ErrorMalformedAuthHeader
	}

	return parts[1], nil
}

// requireAuth rejects the request with 401 unless the bearer token resolves
// to a known user. Malformed headers fail before any store lookup.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := extractBearerToken(r)
		if err != nil {
			writeError(w, err)
			return
		}

		user, err := s.auth.ValidateToken(r.Context(), raw)
		if err != nil {
			writeUnauthorized(w, common.ErrorUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger tags every request with an id and logs method, path, status
// and duration once the handler returns.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
