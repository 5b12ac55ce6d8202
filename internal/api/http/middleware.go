package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/logger"
	"hearthshare-backend/internal/security"
)

type contextKey string

const userIDKey contextKey = "user_id"

// userID extracts the authenticated caller from the request context. Zero
// means the auth middleware did not run.
func userID(r *http.Request) int32 {
	id, _ := r.Context().Value(userIDKey).(int32)
	return id
}

// authMiddleware validates the Bearer access token and stashes the caller id
// in the request context.
func authMiddleware(tokenMgr security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, domain.E(domain.KindNotAuthenticated, ""))
				return
			}

			claims, err := tokenMgr.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil || claims.Type != security.TokenTypeAccess {
				writeError(w, domain.E(domain.KindNotAuthenticated, ""))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
