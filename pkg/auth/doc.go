// Package auth issues and verifies the signed access tokens that carry an
// authenticated identity, and hashes login credentials. Everything past
// verification (roles, permissions) lives in pkg/authz.
package auth
