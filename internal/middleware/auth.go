package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/jbrinkw/luna-ext-coachbyte/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// AuthMiddlewareHandler guards all routes behind a pre-shared API key,
// except for a small set of always-allowed paths (health checks etc.).
type AuthMiddlewareHandler struct {
	apiKey       string
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(apiKey string) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		apiKey: apiKey,
		allowedPaths: map[string]bool{
			"/health": true,
		},
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			// no key configured means auth is off (local development)
			if h.apiKey == "" || h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := r.Header.Get("X-Coachbyte-Token")
			if authToken == "" {
				// also accept the standard bearer form
				bearer := r.Header.Get("Authorization")
				authToken = strings.TrimPrefix(bearer, "Bearer ")
			}

			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			if subtle.ConstantTimeCompare([]byte(authToken), []byte(h.apiKey)) != 1 {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-auth-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
