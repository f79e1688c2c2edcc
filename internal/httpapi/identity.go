// internal/httpapi/identity.go
//
// Bearer-token identity middleware.
//
// Context
// -------
// Every /api route runs behind this middleware.  The token is an HS256 JWT
// whose `sub` claim is the opaque user id; the auth service that mints the
// tokens is a separate deployment.  This layer only answers "who is
// calling", never "what may they do"—authorization is the chat service's
// capability check and, for content, group policy upstream.
package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type userKey struct{}

// UserID returns the authenticated user id, or "" when the middleware has
// not run.
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userKey{}).(string)
	return v
}

// identity verifies the Authorization header and stores the subject on the
// request context.  Missing or invalid tokens end the request with 401.
func (a *API) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims := jwt.RegisteredClaims{}
		tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !tok.Valid || claims.Subject == "" {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
