package session

import (
	"net/http"
	"strings"

	"github.com/intellidoc/console-gateway/pkg/errors"
	"github.com/intellidoc/console-gateway/pkg/httputil"
)

// Middleware extracts the credential token from the Authorization header
// or the named cookie and stores a Session in the request context. Requests
// without a token pass through unauthenticated; use RequireSession to gate
// protected routes.
func Middleware(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			s := &Session{
				Token:   token,
				Profile: DecodeProfile(token),
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// RequireSession rejects requests that carry no credential token.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			httputil.Error(w, errors.Unauthorized("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
