package identity

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/issuehub/issuehub/pkg/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Key is the context key for Identity.
const Key ContextKey = "identity"

// Identity represents the authenticated identity for a request. It is
// immutable for the request's lifetime.
type Identity struct {
	User     *model.User
	RemoteIP string
}

// ID returns the caller's user id.
func (i *Identity) ID() int64 {
	return i.User.ID
}

// Set stores the identity in the context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}

// Get retrieves the identity from the context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// RemoteIP extracts the client address from a request, preferring
// X-Forwarded-For when a proxy supplied it.
func RemoteIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
