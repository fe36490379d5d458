package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type contextKey struct{}

var userIDKey contextKey

// UserIDFromContext returns the authenticated caller id placed in the
// request context by Middleware. The second return is false on requests
// that did not pass through the guard.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// Middleware returns a middleware that rejects requests without a valid
// bearer token. On success the caller id is attached to the request
// context; on failure the request is answered with 401 and never reaches
// the wrapped handler.
func Middleware(secret []byte, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "Unauthorized access")
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			userID, err := UserIDFromToken(token, secret)
			if err != nil {
				logger.Debugw("token rejected", "err", err)
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
