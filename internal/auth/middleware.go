package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Realm names the protection space in bearer challenges.
const Realm = "authorityspoke"

type claimsKey struct{}

// WithClaims returns ctx carrying an authenticated client's claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims Middleware stored for the request.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

// Middleware authenticates the bearer token on every request. Failures get
// 401 with a WWW-Authenticate challenge; an invalid token is reported as
// invalid_token, a missing one without an error code.
func Middleware(service Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				challenge(w, http.StatusUnauthorized, "", "", "missing bearer token")
				return
			}
			claims, err := service.ValidateToken(token)
			if err != nil {
				challenge(w, http.StatusUnauthorized, "invalid_token", "", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireScope admits clients granted every one of scopes. It runs after
// Middleware; a client short of a scope gets 403 insufficient_scope.
func RequireScope(scopes ...string) func(http.Handler) http.Handler {
	required := strings.Join(scopes, " ")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				challenge(w, http.StatusUnauthorized, "", "", "missing bearer token")
				return
			}
			for _, scope := range scopes {
				if !claims.HasScope(scope) {
					challenge(w, http.StatusForbidden, "insufficient_scope", required, "missing scope "+scope)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func challenge(w http.ResponseWriter, status int, code, scope, message string) {
	value := fmt.Sprintf("Bearer realm=%q", Realm)
	if code != "" {
		value += fmt.Sprintf(", error=%q", code)
	}
	if scope != "" {
		value += fmt.Sprintf(", scope=%q", scope)
	}
	w.Header().Set("WWW-Authenticate", value)
	respondError(w, status, message)
}

// bearerToken returns the credentials of an "Authorization: Bearer" header.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
