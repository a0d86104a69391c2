package middleware

import (
	"net/http"
	"strings"

	"github.com/pacelog/pacelog/internal/auth"
	"github.com/pacelog/pacelog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type AuthMiddlewareHandler struct {
	sessionChecker auth.Checker
	jwtChecker     auth.Checker
	allowedPaths   map[string]bool
}

func NewAuthMiddlewareHandler(
	sessionChecker auth.Checker,
	jwtChecker auth.Checker,
) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessionChecker: sessionChecker,
		jwtChecker:     jwtChecker,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,

			// race catalog is public
			"/races": true,

			// login-logout-register:
			"/a/login":    true,
			"/a/register": true,
			"/a/token":    true,
			"/a/logout":   true,
		},
	}
}

// tokenFromRequest prefers the custom header and falls back to a standard
// bearer Authorization header.
func tokenFromRequest(r *http.Request) string {
	if token := r.Header.Get("X-PACELOG-TOKEN"); token != "" {
		return token
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			authToken := tokenFromRequest(r)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			// session tokens are opaque random strings, JWTs contain two dots
			checker := h.sessionChecker
			if strings.Count(authToken, ".") == 2 {
				checker = h.jwtChecker
			}

			userID, err := checker.UserID(ctx, authToken)
			if err != nil {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "not-logged")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithUserID(ctx, userID)))
		})
	}
}
