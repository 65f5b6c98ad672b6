package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"webtop/internal/auth"
	"webtop/internal/httputil"
)

// AuthMiddleware verifies the bearer token of every request whose path does
// not start with one of publicPrefixes and stores the user id in the context
func AuthMiddleware(verifier auth.JWTVerifier, logger *slog.Logger, publicPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Pre-flight requests carry no credentials
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			for _, prefix := range publicPrefixes {
				if r.URL.Path == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			claims, err := verifier.VerifyToken(bearerToken(r))
			if err != nil {
				logger.Debug("request rejected", "path", r.URL.Path, "method", r.Method)
				httputil.RespondError(w, http.StatusUnauthorized, "missing or invalid bearer token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
