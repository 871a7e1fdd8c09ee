// Package middleware holds the HTTP middleware applied ahead of the
// endpoint handlers.
package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/issuehub/issuehub/pkg/auth"
	"github.com/issuehub/issuehub/pkg/identity"
	"github.com/issuehub/issuehub/pkg/server/store"
)

// Authenticator validates bearer tokens and loads the caller into the
// request context.
type Authenticator struct {
	verifier *auth.TokenIssuer
	users    store.UsersStore
}

// NewAuthenticator creates an Authenticator over the given token verifier and
// user store.
func NewAuthenticator(verifier *auth.TokenIssuer, users store.UsersStore) *Authenticator {
	return &Authenticator{verifier: verifier, users: users}
}

// Middleware rejects requests without a valid token. On success the request
// context carries an identity.Identity.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "authorization required")
			return
		}

		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			unauthorized(w, "malformed authorization header")
			return
		}

		userID, err := a.verifier.Verify(tokenStr)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		user, err := a.users.GetUserByID(userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				unauthorized(w, "invalid or expired token")
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		ctx := identity.Set(r.Context(), &identity.Identity{
			User:     user,
			RemoteIP: identity.RemoteIP(r),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    "authentication_required",
			"message": message,
		},
	})
}
