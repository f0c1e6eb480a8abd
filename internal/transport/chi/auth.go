package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/showroom/internal/logger"
)

// BearerAuthMiddleware guards the admin routes with static API keys.
// If apiKeys has no non-empty key, authentication is disabled (pass-through).
// On success the request logger gets the index of the matching key, never the key itself.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			scheme, token, ok := strings.Cut(auth, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				writeError(w, http.StatusUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			idx := matchKey(keys, []byte(strings.TrimSpace(token)))
			if idx < 0 {
				writeError(w, http.StatusUnauthorized, "invalid api key")
				return
			}

			ctx := logpkg.With(r.Context(), zap.Int("api_key", idx))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// matchKey compares token against every key in constant time and returns the
// index of the match, or -1.
func matchKey(keys [][]byte, token []byte) int {
	found := -1
	for i, k := range keys {
		if subtle.ConstantTimeCompare(k, token) == 1 && found < 0 {
			found = i
		}
	}
	return found
}
